// Package occupancy tracks per-lane outbound queue occupancy over a
// sliding window of blocks
package occupancy

import (
	"sync"

	"bridgeControl/utils"
)

// Tracker maintains a sliding window of per-block occupancy observations
// per lane and computes rolling averages and peaks
type Tracker struct {
	WindowSize int // Number of blocks in the sliding window
	mu         sync.RWMutex
	windows    map[utils.LaneID][]uint64 // lane -> list of per-block average occupancy
	blockCount map[utils.LaneID]int      // lane -> number of blocks processed
	avg        map[utils.LaneID]uint64   // lane -> current rolling average occupancy
	peak       map[utils.LaneID]uint64   // lane -> highest occupancy ever observed
}

// NewTracker creates a new occupancy tracker with the specified window size
func NewTracker(windowSize int) *Tracker {
	if windowSize <= 0 {
		windowSize = 16 // default window size
	}
	return &Tracker{
		WindowSize: windowSize,
		windows:    make(map[utils.LaneID][]uint64),
		blockCount: make(map[utils.LaneID]int),
		avg:        make(map[utils.LaneID]uint64),
		peak:       make(map[utils.LaneID]uint64),
	}
}

// OnBlockFinalized is called when a block is finalized. It records the
// occupancy observations taken during that block and recomputes the
// rolling average for the lane.
func (t *Tracker) OnBlockFinalized(lane utils.LaneID, observations []uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Calculate average occupancy for this block
	var blockAvg uint64
	if len(observations) > 0 {
		var sum uint64
		for _, occ := range observations {
			sum += occ
			if occ > t.peak[lane] {
				t.peak[lane] = occ
			}
		}
		blockAvg = sum / uint64(len(observations))
	}

	// Initialize lane data if not exists
	if _, exists := t.windows[lane]; !exists {
		t.windows[lane] = make([]uint64, 0, t.WindowSize)
		t.blockCount[lane] = 0
		t.avg[lane] = 0
	}

	// Add block average to window
	t.windows[lane] = append(t.windows[lane], blockAvg)
	t.blockCount[lane]++

	// Keep only last WindowSize blocks
	if len(t.windows[lane]) > t.WindowSize {
		t.windows[lane] = t.windows[lane][len(t.windows[lane])-t.WindowSize:]
	}

	// Recompute rolling average
	t.recomputeAvg(lane)
}

// recomputeAvg recalculates the average occupancy for a lane
// Must be called with lock held
func (t *Tracker) recomputeAvg(lane utils.LaneID) {
	window := t.windows[lane]
	if len(window) == 0 {
		t.avg[lane] = 0
		return
	}

	var sum uint64
	for _, blockAvg := range window {
		sum += blockAvg
	}
	t.avg[lane] = sum / uint64(len(window))
}

// GetAvgOccupancy returns the current rolling average occupancy for a lane
func (t *Tracker) GetAvgOccupancy(lane utils.LaneID) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if avg, exists := t.avg[lane]; exists {
		return avg
	}
	return 0 // Return 0 if no data yet (bootstrap phase)
}

// GetPeakOccupancy returns the highest occupancy ever observed for a lane
func (t *Tracker) GetPeakOccupancy(lane utils.LaneID) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.peak[lane]
}

// GetBlockCount returns the number of blocks processed for a lane
func (t *Tracker) GetBlockCount(lane utils.LaneID) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if count, exists := t.blockCount[lane]; exists {
		return count
	}
	return 0
}

// Reset clears all tracking data for a lane (useful for testing)
func (t *Tracker) Reset(lane utils.LaneID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.windows, lane)
	delete(t.blockCount, lane)
	delete(t.avg, lane)
	delete(t.peak, lane)
}
