package utils

import (
	"testing"
)

// TestRemoteLocation_HashIsStable tests that equal locations hash equally
func TestRemoteLocation_HashIsStable(t *testing.T) {
	a := RemoteLocation{Version: 3, Network: "westend", Path: "Parachain(1000)"}
	b := RemoteLocation{Version: 3, Network: "westend", Path: "Parachain(1000)"}

	if a.Hash() != b.Hash() {
		t.Error("equal locations should produce equal hashes")
	}
	if !a.Equal(b) {
		t.Error("equal locations should compare equal")
	}
}

// TestRemoteLocation_DistinctLocationsDiffer tests hash separation
func TestRemoteLocation_DistinctLocationsDiffer(t *testing.T) {
	base := RemoteLocation{Version: 3, Network: "westend", Path: "Parachain(1000)"}
	cases := []RemoteLocation{
		{Version: 2, Network: "westend", Path: "Parachain(1000)"},
		{Version: 3, Network: "rococo", Path: "Parachain(1000)"},
		{Version: 3, Network: "westend", Path: "Parachain(1001)"},
		// length-prefix check: shifting a byte between fields must not collide
		{Version: 3, Network: "westendP", Path: "arachain(1000)"},
	}
	for _, c := range cases {
		if base.Hash() == c.Hash() {
			t.Errorf("locations %+v and %+v should hash differently", base, c)
		}
	}
}

// TestLaneID_String tests lane rendering
func TestLaneID_String(t *testing.T) {
	lane := NewLaneID(0, 0, 0, 1)
	if lane.String() != "00000001" {
		t.Errorf("lane string should be 00000001, got %s", lane.String())
	}
}
