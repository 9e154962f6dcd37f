package measure

import "bridgeControl/message"

// MeasureModule is implemented by every metric collector. One snapshot is
// fed per block; OutputRecord flushes the collected series and writes the
// CSV result.
type MeasureModule interface {
	OutputMetricName() string
	UpdateMeasureRecord(cs *message.CongestionSnapshot)
	HandleExtraMessage([]byte)
	OutputRecord() ([]float64, float64)
}
