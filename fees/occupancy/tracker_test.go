package occupancy

import (
	"testing"

	"bridgeControl/utils"
)

var testLane = utils.NewLaneID(0, 0, 0, 1)

// TestTracker_BasicOperation tests rolling average over the window
func TestTracker_BasicOperation(t *testing.T) {
	tracker := NewTracker(3) // Window size = 3

	// Initially, average should be 0
	if avg := tracker.GetAvgOccupancy(testLane); avg != 0 {
		t.Errorf("Initial avg should be 0, got %d", avg)
	}

	// Block 1 observations [100, 200, 300]: block average 200
	tracker.OnBlockFinalized(testLane, []uint64{100, 200, 300})
	if avg := tracker.GetAvgOccupancy(testLane); avg != 200 {
		t.Errorf("After first block, avg should be 200, got %d", avg)
	}

	// Block 2 observations [400, 500]: block average 450, rolling (200+450)/2 = 325
	tracker.OnBlockFinalized(testLane, []uint64{400, 500})
	if avg := tracker.GetAvgOccupancy(testLane); avg != 325 {
		t.Errorf("After second block, avg should be 325, got %d", avg)
	}

	// Block 3 [600]: rolling (200+450+600)/3 = 416
	tracker.OnBlockFinalized(testLane, []uint64{600})
	if avg := tracker.GetAvgOccupancy(testLane); avg != 416 {
		t.Errorf("After third block, avg should be 416, got %d", avg)
	}

	// Block 4 [900]: window drops block 1, rolling (450+600+900)/3 = 650
	tracker.OnBlockFinalized(testLane, []uint64{900})
	if avg := tracker.GetAvgOccupancy(testLane); avg != 650 {
		t.Errorf("After fourth block, avg should be 650, got %d", avg)
	}

	if peak := tracker.GetPeakOccupancy(testLane); peak != 900 {
		t.Errorf("Peak should be 900, got %d", peak)
	}
	if count := tracker.GetBlockCount(testLane); count != 4 {
		t.Errorf("Block count should be 4, got %d", count)
	}
}

// TestTracker_EmptyBlocks tests handling of blocks with no observations
func TestTracker_EmptyBlocks(t *testing.T) {
	tracker := NewTracker(3)

	tracker.OnBlockFinalized(testLane, []uint64{})
	if avg := tracker.GetAvgOccupancy(testLane); avg != 0 {
		t.Errorf("Empty block should give avg=0, got %d", avg)
	}

	tracker.OnBlockFinalized(testLane, []uint64{1000})
	// Rolling average = (0+1000)/2 = 500
	if avg := tracker.GetAvgOccupancy(testLane); avg != 500 {
		t.Errorf("After non-empty block, avg should be 500, got %d", avg)
	}
}

// TestTracker_Reset tests per-lane data clearing
func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker(3)
	tracker.OnBlockFinalized(testLane, []uint64{500})

	tracker.Reset(testLane)
	if avg := tracker.GetAvgOccupancy(testLane); avg != 0 {
		t.Errorf("Reset lane should report 0, got %d", avg)
	}
	if peak := tracker.GetPeakOccupancy(testLane); peak != 0 {
		t.Errorf("Reset lane peak should be 0, got %d", peak)
	}
}
