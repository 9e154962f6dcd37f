package message

import (
	"bytes"
	"encoding/gob"
	"log"
	"time"

	"bridgeControl/utils"
)

// CongestionSnapshot captures the congestion-control state of one lane at
// the end of a block. Measure modules consume one snapshot per block.
type CongestionSnapshot struct {
	BlockNumber    uint64
	Lane           utils.LaneID
	FeeFactor      string // decimal rendering of the fee factor
	EnqueuedCount  uint64 // messages awaiting delivery on the lane
	LocalQueueLen  int    // messages waiting in the local inbound queue
	SuspendedCount int    // locations currently suspended
	IsCongested    bool
	CommitTime     time.Time
}

func (cs *CongestionSnapshot) Encode() []byte {
	var buff bytes.Buffer
	enc := gob.NewEncoder(&buff)
	err := enc.Encode(cs)
	if err != nil {
		log.Panic(err)
	}
	return buff.Bytes()
}

func DecodeCongestionSnapshot(b []byte) *CongestionSnapshot {
	var cs CongestionSnapshot
	dec := gob.NewDecoder(bytes.NewReader(b))
	err := dec.Decode(&cs)
	if err != nil {
		log.Panic(err)
	}
	return &cs
}
