package core

import (
	"errors"
	"testing"
	"time"

	"bridgeControl/utils"
)

var (
	testLane = utils.NewLaneID(0, 0, 0, 1)
	destA    = utils.RemoteLocation{Version: 3, Network: "westend", Path: "Parachain(1000)"}
	destB    = utils.RemoteLocation{Version: 3, Network: "westend", Path: "Parachain(2000)"}
)

// blockGate suspends a single destination
type blockGate struct {
	blocked utils.RemoteLocation
}

func (g *blockGate) ShouldAdmit(loc utils.RemoteLocation) bool {
	return !loc.Equal(g.blocked)
}

// recordingProcessor collects processed payloads in order
type recordingProcessor struct {
	payloads [][]byte
}

func (p *recordingProcessor) ProcessMessage(msg []byte, origin utils.RemoteLocation) (bool, error) {
	p.payloads = append(p.payloads, msg)
	return true, nil
}

func newMsg(b byte, dest utils.RemoteLocation) *Message {
	return NewMessage([]byte{b}, dest, testLane, time.Now())
}

// TestLocalQueue_ProcessPendingFIFO tests in-order draining
func TestLocalQueue_ProcessPendingFIFO(t *testing.T) {
	lq := NewLocalQueue()
	lq.AddMsgs2Queue([]*Message{newMsg(1, destA), newMsg(2, destA), newMsg(3, destA)})

	proc := &recordingProcessor{}
	n := lq.ProcessPending(10, nil, proc)
	if n != 3 {
		t.Fatalf("should process 3 messages, got %d", n)
	}
	for i, payload := range proc.payloads {
		if payload[0] != byte(i+1) {
			t.Errorf("message %d processed out of order: got %d", i, payload[0])
		}
	}
	if lq.GetQueueLen() != 0 {
		t.Errorf("queue should be drained, %d left", lq.GetQueueLen())
	}
}

// TestLocalQueue_SuspendedDestIsLeftInPlace tests the cooperative yield
func TestLocalQueue_SuspendedDestIsLeftInPlace(t *testing.T) {
	lq := NewLocalQueue()
	lq.AddMsgs2Queue([]*Message{newMsg(1, destA), newMsg(2, destB), newMsg(3, destA)})

	proc := &recordingProcessor{}
	n := lq.ProcessPending(10, &blockGate{blocked: destA}, proc)
	if n != 1 {
		t.Fatalf("only the destB message should process, got %d", n)
	}
	if lq.GetQueueLen() != 2 {
		t.Errorf("2 destA messages should remain queued, got %d", lq.GetQueueLen())
	}

	// once the gate opens, the remaining messages drain in order
	n = lq.ProcessPending(10, nil, proc)
	if n != 2 {
		t.Errorf("remaining messages should process after resume, got %d", n)
	}
	if got := proc.payloads; got[1][0] != 1 || got[2][0] != 3 {
		t.Error("yielded messages should keep their original order")
	}
}

// failOnceProcessor fails its first attempt per destination and records
// the payloads it consumed
type failOnceProcessor struct {
	failed   map[utils.RemoteLocation]bool
	payloads [][]byte
}

func (p *failOnceProcessor) ProcessMessage(msg []byte, origin utils.RemoteLocation) (bool, error) {
	if !p.failed[origin] {
		p.failed[origin] = true
		return false, errProcessing
	}
	p.payloads = append(p.payloads, msg)
	return true, nil
}

var errProcessing = errors.New("processor unavailable")

// TestLocalQueue_ErrorKeepsPerDestOrder tests that a processor failure
// holds back later messages to the same destination within the pass
func TestLocalQueue_ErrorKeepsPerDestOrder(t *testing.T) {
	lq := NewLocalQueue()
	lq.AddMsgs2Queue([]*Message{newMsg(1, destA), newMsg(2, destB), newMsg(3, destA)})

	proc := &failOnceProcessor{failed: make(map[utils.RemoteLocation]bool)}

	// first pass: message 1 fails, so message 3 (same destination) must
	// not be consumed ahead of it; destB fails independently
	n := lq.ProcessPending(10, nil, proc)
	if n != 0 {
		t.Fatalf("first pass should consume nothing, got %d", n)
	}
	if lq.GetQueueLen() != 3 {
		t.Fatalf("all 3 messages should remain queued, got %d", lq.GetQueueLen())
	}

	// second pass: the processor recovered, messages drain in order
	n = lq.ProcessPending(10, nil, proc)
	if n != 3 {
		t.Fatalf("second pass should drain the queue, got %d", n)
	}
	want := []byte{1, 2, 3}
	for i, payload := range proc.payloads {
		if payload[0] != want[i] {
			t.Fatalf("messages consumed out of order: got %d at index %d", payload[0], i)
		}
	}
}

// TestLocalQueue_CapacityBound tests that processing stops at capacity
func TestLocalQueue_CapacityBound(t *testing.T) {
	lq := NewLocalQueue()
	for i := 0; i < 5; i++ {
		lq.AddMsg2Queue(newMsg(byte(i), destA))
	}

	proc := &recordingProcessor{}
	n := lq.ProcessPending(2, nil, proc)
	if n != 2 {
		t.Fatalf("capacity 2 should process 2 messages, got %d", n)
	}
	if lq.GetQueueLen() != 3 {
		t.Errorf("3 messages should remain, got %d", lq.GetQueueLen())
	}
}

// TestMessage_EncodeDecodeRoundTrip tests the gob envelope
func TestMessage_EncodeDecodeRoundTrip(t *testing.T) {
	msg := NewMessage([]byte("hello bridge"), destA, testLane, time.Now())
	decoded := DecodeMsg(msg.Encode())

	if string(decoded.Payload) != "hello bridge" {
		t.Errorf("payload mismatch: %s", decoded.Payload)
	}
	if !decoded.Dest.Equal(destA) {
		t.Error("destination mismatch after decode")
	}
	if decoded.Lane != testLane {
		t.Error("lane mismatch after decode")
	}
}
