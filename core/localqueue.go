// Local inbound queue feeding the bridge

package core

import (
	"sync"
	"time"

	"bridgeControl/utils"
)

// AdmissionGate is consulted before every processing attempt. It is an
// interface here to avoid a circular dependency with queue/admission.
type AdmissionGate interface {
	ShouldAdmit(loc utils.RemoteLocation) bool
}

// Processor consumes a queued message. The bool result reports whether the
// message was consumed; on error the message stays queued for a later
// retry.
type Processor interface {
	ProcessMessage(msg []byte, origin utils.RemoteLocation) (bool, error)
}

// LocalQueue holds messages produced locally for the bridge, in FIFO
// order. Messages whose destination is suspended (or whose processor
// yields) are left in place, never dropped.
type LocalQueue struct {
	queue []*Message
	lock  sync.Mutex
}

// NewLocalQueue creates an empty local queue.
func NewLocalQueue() *LocalQueue {
	return &LocalQueue{
		queue: make([]*Message, 0),
	}
}

// AddMsg2Queue adds a message to the queue.
func (lq *LocalQueue) AddMsg2Queue(msg *Message) {
	lq.lock.Lock()
	defer lq.lock.Unlock()
	if msg.Time.IsZero() {
		msg.Time = time.Now()
	}
	lq.queue = append(lq.queue, msg)
}

// AddMsgs2Queue adds multiple messages to the queue.
func (lq *LocalQueue) AddMsgs2Queue(msgs []*Message) {
	lq.lock.Lock()
	defer lq.lock.Unlock()
	for _, msg := range msgs {
		if msg.Time.IsZero() {
			msg.Time = time.Now()
		}
		lq.queue = append(lq.queue, msg)
	}
}

// ProcessPending walks the queue in FIFO order and hands up to capacity
// messages to the processor. The gate is consulted immediately before each
// message would be processed; a closed gate leaves the message in place
// (cooperative yield). Processor errors also leave the message in place,
// and block later messages to the same destination for the rest of the
// pass so per-destination order is kept. Returns the number of messages
// consumed.
func (lq *LocalQueue) ProcessPending(capacity int, gate AdmissionGate, proc Processor) int {
	lq.lock.Lock()
	defer lq.lock.Unlock()

	processed := 0
	remaining := make([]*Message, 0, len(lq.queue))
	stalled := make(map[utils.RemoteLocation]struct{})

	for _, msg := range lq.queue {
		if processed >= capacity {
			remaining = append(remaining, msg)
			continue
		}
		if _, held := stalled[msg.Dest]; held {
			remaining = append(remaining, msg)
			continue
		}
		if gate != nil && !gate.ShouldAdmit(msg.Dest) {
			// yield: retry in a later block
			remaining = append(remaining, msg)
			continue
		}
		consumed, err := proc.ProcessMessage(msg.Payload, msg.Dest)
		if err != nil || !consumed {
			remaining = append(remaining, msg)
			stalled[msg.Dest] = struct{}{}
			continue
		}
		processed++
	}

	lq.queue = remaining
	return processed
}

// GetQueueLen returns the number of queued messages.
func (lq *LocalQueue) GetQueueLen() int {
	lq.lock.Lock()
	defer lq.lock.Unlock()
	return len(lq.queue)
}
