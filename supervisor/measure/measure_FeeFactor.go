package measure

import (
	"strconv"
	"time"

	"bridgeControl/message"
)

// TestModule_FeeFactor tracks the dynamic fee factor of a lane over time.
// It records one sample per block so the escalation and decay phases can
// be plotted against traffic.
type TestModule_FeeFactor struct {
	blockNumbers []uint64
	feeFactors   []float64
	congested    []bool
	commitTimes  []time.Time
}

func NewTestModule_FeeFactor() *TestModule_FeeFactor {
	return &TestModule_FeeFactor{
		blockNumbers: make([]uint64, 0),
		feeFactors:   make([]float64, 0),
		congested:    make([]bool, 0),
		commitTimes:  make([]time.Time, 0),
	}
}

func (tmff *TestModule_FeeFactor) OutputMetricName() string {
	return "Fee_Factor"
}

func (tmff *TestModule_FeeFactor) UpdateMeasureRecord(cs *message.CongestionSnapshot) {
	factor, err := strconv.ParseFloat(cs.FeeFactor, 64)
	if err != nil {
		// unparseable samples are dropped rather than poisoning the series
		return
	}
	tmff.blockNumbers = append(tmff.blockNumbers, cs.BlockNumber)
	tmff.feeFactors = append(tmff.feeFactors, factor)
	tmff.congested = append(tmff.congested, cs.IsCongested)
	tmff.commitTimes = append(tmff.commitTimes, cs.CommitTime)
}

func (tmff *TestModule_FeeFactor) HandleExtraMessage([]byte) {}

// OutputRecord returns the per-block fee factor series and the final
// factor value, then writes the CSV result.
func (tmff *TestModule_FeeFactor) OutputRecord() ([]float64, float64) {
	tmff.writeToCSV()
	final := 1.0
	if len(tmff.feeFactors) > 0 {
		final = tmff.feeFactors[len(tmff.feeFactors)-1]
	}
	return tmff.feeFactors, final
}

func (tmff *TestModule_FeeFactor) writeToCSV() {
	fileName := tmff.OutputMetricName()
	measureName := []string{
		"BlockNumber",
		"FeeFactor",
		"IsCongested",
		"CommitTime (ms)",
	}

	measureVals := make([][]string, 0)
	for i := range tmff.feeFactors {
		csvLine := []string{
			strconv.FormatUint(tmff.blockNumbers[i], 10),
			strconv.FormatFloat(tmff.feeFactors[i], 'f', -1, 64),
			strconv.FormatBool(tmff.congested[i]),
			timestampToStringMs(tmff.commitTimes[i]),
		}
		measureVals = append(measureVals, csvLine)
	}

	WriteMetricsToCSV(fileName, measureName, measureVals)
}

// timestampToStringMs converts time to string (milliseconds since epoch)
func timestampToStringMs(thisTime time.Time) string {
	if thisTime.IsZero() {
		return ""
	}
	return strconv.FormatInt(thisTime.UnixMilli(), 10)
}
