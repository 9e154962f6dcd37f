package measure

import (
	"strconv"

	"bridgeControl/message"
)

// TestModule_QueueDetail tracks queue occupancy and suspension activity
// per block: bridge-queue depth, local inbound-queue length, and how many
// locations are currently suspended.
type TestModule_QueueDetail struct {
	blockNumbers   []uint64
	enqueuedCounts []uint64
	localQueueLens []int
	suspendedCnts  []int

	suspendTransitions int // count of blocks where the suspended set grew
	prevSuspended      int
}

func NewTestModule_QueueDetail() *TestModule_QueueDetail {
	return &TestModule_QueueDetail{
		blockNumbers:   make([]uint64, 0),
		enqueuedCounts: make([]uint64, 0),
		localQueueLens: make([]int, 0),
		suspendedCnts:  make([]int, 0),
	}
}

func (tmqd *TestModule_QueueDetail) OutputMetricName() string {
	return "Queue_Detail"
}

func (tmqd *TestModule_QueueDetail) UpdateMeasureRecord(cs *message.CongestionSnapshot) {
	tmqd.blockNumbers = append(tmqd.blockNumbers, cs.BlockNumber)
	tmqd.enqueuedCounts = append(tmqd.enqueuedCounts, cs.EnqueuedCount)
	tmqd.localQueueLens = append(tmqd.localQueueLens, cs.LocalQueueLen)
	tmqd.suspendedCnts = append(tmqd.suspendedCnts, cs.SuspendedCount)

	if cs.SuspendedCount > tmqd.prevSuspended {
		tmqd.suspendTransitions++
	}
	tmqd.prevSuspended = cs.SuspendedCount
}

func (tmqd *TestModule_QueueDetail) HandleExtraMessage([]byte) {}

// OutputRecord returns the per-block bridge-queue depth series and the
// peak depth, then writes the CSV result.
func (tmqd *TestModule_QueueDetail) OutputRecord() ([]float64, float64) {
	tmqd.writeToCSV()

	depths := make([]float64, len(tmqd.enqueuedCounts))
	peak := 0.0
	for i, c := range tmqd.enqueuedCounts {
		depths[i] = float64(c)
		if depths[i] > peak {
			peak = depths[i]
		}
	}
	return depths, peak
}

// SuspendTransitions returns how many recorded blocks grew the suspended
// set.
func (tmqd *TestModule_QueueDetail) SuspendTransitions() int {
	return tmqd.suspendTransitions
}

func (tmqd *TestModule_QueueDetail) writeToCSV() {
	fileName := tmqd.OutputMetricName()
	measureName := []string{
		"BlockNumber",
		"EnqueuedCount",
		"LocalQueueLen",
		"SuspendedCount",
	}

	measureVals := make([][]string, 0)
	for i := range tmqd.blockNumbers {
		csvLine := []string{
			strconv.FormatUint(tmqd.blockNumbers[i], 10),
			strconv.FormatUint(tmqd.enqueuedCounts[i], 10),
			strconv.Itoa(tmqd.localQueueLens[i]),
			strconv.Itoa(tmqd.suspendedCnts[i]),
		}
		measureVals = append(measureVals, csvLine)
	}

	WriteMetricsToCSV(fileName, measureName, measureVals)
}
