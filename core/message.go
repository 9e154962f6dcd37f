// Definition of bridge message

package core

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"log"
	"time"

	"bridgeControl/utils"
)

// Message is a locally queued message destined for the bridged network.
type Message struct {
	Payload []byte
	Dest    utils.RemoteLocation // remote location the message is addressed to
	Lane    utils.LaneID         // lane the message will travel over
	MsgHash []byte

	Time time.Time // TimeStamp the message was enqueued locally
}

// Encode message for storing
func (msg *Message) Encode() []byte {
	var buff bytes.Buffer

	enc := gob.NewEncoder(&buff)
	err := enc.Encode(msg)
	if err != nil {
		log.Panic(err)
	}

	return buff.Bytes()
}

// Decode message
func DecodeMsg(to_decode []byte) *Message {
	var msg Message

	decoder := gob.NewDecoder(bytes.NewReader(to_decode))
	err := decoder.Decode(&msg)
	if err != nil {
		log.Panic(err)
	}

	return &msg
}

// Size returns the payload size in bytes.
func (msg *Message) Size() int {
	return len(msg.Payload)
}

// new a message
func NewMessage(payload []byte, dest utils.RemoteLocation, lane utils.LaneID, enqueueTime time.Time) *Message {
	msg := &Message{
		Payload: payload,
		Dest:    dest,
		Lane:    lane,
		Time:    enqueueTime,
	}

	hash := sha256.Sum256(msg.Encode())
	msg.MsgHash = hash[:]

	return msg
}
