// Package admission gates the local message scheduler on suspension state.
// A closed gate is a cooperative yield: the scheduler leaves the item in
// place and retries later, it never drops or errors.
package admission

import (
	"errors"

	"bridgeControl/utils"
)

// ErrYield tells the scheduler to leave the message in the queue and retry
// later. It is a flow-control signal, not a failure.
var ErrYield = errors.New("inbound queue suspended, yield message processing")

// SuspensionReader is the read-only view of suspension state the gate
// consults. Satisfied by suspension.Coordinator.
type SuspensionReader interface {
	IsSuspended(loc utils.RemoteLocation) bool
}

// Gate answers whether a queued message destined for a remote location may
// be handed to its processor right now.
type Gate struct {
	reader SuspensionReader
}

// NewGate creates a gate over the given suspension view.
func NewGate(reader SuspensionReader) *Gate {
	return &Gate{reader: reader}
}

// ShouldAdmit reports whether processing for the location may proceed.
func (g *Gate) ShouldAdmit(loc utils.RemoteLocation) bool {
	if g.reader == nil {
		return true
	}
	return !g.reader.IsSuspended(loc)
}

// MessageProcessor handles one queued message. The bool result reports
// whether the message was consumed.
type MessageProcessor interface {
	ProcessMessage(msg []byte, origin utils.RemoteLocation) (bool, error)
}

// SuspendingProcessor wraps an inner processor and yields, before any
// processing starts, for messages of the managed sender location while its
// queue is suspended. Messages from other origins pass straight through.
type SuspendingProcessor struct {
	inner  MessageProcessor
	gate   *Gate
	sender utils.RemoteLocation
}

// NewSuspendingProcessor wraps inner for the given managed sender.
func NewSuspendingProcessor(inner MessageProcessor, gate *Gate, sender utils.RemoteLocation) *SuspendingProcessor {
	return &SuspendingProcessor{
		inner:  inner,
		gate:   gate,
		sender: sender,
	}
}

// ProcessMessage implements MessageProcessor.
func (p *SuspendingProcessor) ProcessMessage(msg []byte, origin utils.RemoteLocation) (bool, error) {
	// if the queue is suspended, yield immediately
	if origin.Equal(p.sender) && !p.gate.ShouldAdmit(origin) {
		return false, ErrYield
	}

	// else pass message to the backing processor
	return p.inner.ProcessMessage(msg, origin)
}

// PausedQuery answers whether a queue with the given origin is paused.
type PausedQuery interface {
	IsPaused(origin utils.RemoteLocation) bool
}

// QueueSuspender chains an inner pause source with the suspension gate:
// the inner status takes priority, then the gate is consulted for the
// managed sender location.
type QueueSuspender struct {
	inner  PausedQuery
	gate   *Gate
	sender utils.RemoteLocation
}

// NewQueueSuspender builds the chained pause query.
func NewQueueSuspender(inner PausedQuery, gate *Gate, sender utils.RemoteLocation) *QueueSuspender {
	return &QueueSuspender{
		inner:  inner,
		gate:   gate,
		sender: sender,
	}
}

// IsPaused implements PausedQuery.
func (q *QueueSuspender) IsPaused(origin utils.RemoteLocation) bool {
	// give priority to inner status
	if q.inner != nil && q.inner.IsPaused(origin) {
		return true
	}

	// if we have suspended the queue before, do not even start processing
	// its messages
	if origin.Equal(q.sender) && !q.gate.ShouldAdmit(origin) {
		return true
	}

	return false
}
