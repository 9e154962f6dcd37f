// Package fees provides the global occupancy tracker instance for the
// bridge lane
package fees

import (
	"sync"

	"bridgeControl/fees/occupancy"
	"bridgeControl/params"
)

var (
	globalTracker *occupancy.Tracker
	trackerOnce   sync.Once
)

// GetGlobalTracker returns the global lane occupancy tracker (singleton).
// It is shared by the simulation driver and the measurement modules.
func GetGlobalTracker() *occupancy.Tracker {
	trackerOnce.Do(func() {
		windowSize := params.OccupancyWindowBlocks
		if windowSize <= 0 {
			windowSize = 16 // default
		}
		globalTracker = occupancy.NewTracker(windowSize)
	})
	return globalTracker
}

// ResetGlobalTracker resets the global tracker (for testing purposes)
func ResetGlobalTracker() {
	trackerOnce = sync.Once{}
	globalTracker = nil
}
