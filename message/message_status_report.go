package message

import (
	"bytes"
	"encoding/gob"
	"log"
	"time"

	"bridgeControl/utils"
)

// MessageType labels a wire message.
type MessageType string

// Message type for bridge status synchronization
const (
	CBridgeStatusReport MessageType = "BridgeStatusReport"
)

// BridgeStatusReport is sent by the remote bridge endpoint to report its
// own congestion. Only the designated reporter location is allowed to
// deliver it; the authorization check happens at the receiving controller.
type BridgeStatusReport struct {
	Lane        utils.LaneID         // lane the report is about
	Reporter    utils.RemoteLocation // reporting identity of the remote endpoint
	IsCongested bool                 // whether the remote endpoint is overloaded
	Timestamp   time.Time            // when this report was generated
}

// NewBridgeStatusReport creates a new bridge status report message
func NewBridgeStatusReport(lane utils.LaneID, reporter utils.RemoteLocation, isCongested bool) *BridgeStatusReport {
	return &BridgeStatusReport{
		Lane:        lane,
		Reporter:    reporter,
		IsCongested: isCongested,
		Timestamp:   time.Now(),
	}
}

// Encode report for sending
func (r *BridgeStatusReport) Encode() []byte {
	var buff bytes.Buffer

	enc := gob.NewEncoder(&buff)
	err := enc.Encode(r)
	if err != nil {
		log.Panic(err)
	}

	return buff.Bytes()
}

// Decode report
func DecodeBridgeStatusReport(to_decode []byte) *BridgeStatusReport {
	var r BridgeStatusReport

	decoder := gob.NewDecoder(bytes.NewReader(to_decode))
	err := decoder.Decode(&r)
	if err != nil {
		log.Panic(err)
	}

	return &r
}
