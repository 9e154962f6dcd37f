// Package bridge wires the congestion controllers into the outbound send
// path: a nonce-ordered outbound lane, the hauler that enqueues blobs onto
// it, and a router that prices and ships messages to the bridged network.
package bridge

import (
	"sync"

	"bridgeControl/utils"
)

// OutboundLane tracks the enqueued-but-undelivered messages of the managed
// lane through a pair of nonces. It is also the congestion source for the
// local channel: the channel counts as congested once its occupancy
// reaches the configured capacity.
type OutboundLane struct {
	lane     utils.LaneID
	capacity uint64

	mu              sync.Mutex
	latestNonce     uint64 // nonce of the latest enqueued message
	latestDelivered uint64 // nonce of the latest message confirmed delivered
}

// NewOutboundLane creates an empty lane with the given congestion capacity.
func NewOutboundLane(lane utils.LaneID, capacity uint64) *OutboundLane {
	return &OutboundLane{
		lane:     lane,
		capacity: capacity,
	}
}

// Enqueue accepts one message and returns its nonce together with the
// resulting number of enqueued-but-undelivered messages.
func (l *OutboundLane) Enqueue() (nonce, enqueued uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latestNonce++
	return l.latestNonce, l.latestNonce - l.latestDelivered
}

// ConfirmDelivered records that all messages up to and including nonce have
// been delivered, and returns the remaining enqueued count. Stale
// confirmations (nonce at or below the current watermark) change nothing.
func (l *OutboundLane) ConfirmDelivered(nonce uint64) (enqueued uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if nonce > l.latestDelivered && nonce <= l.latestNonce {
		l.latestDelivered = nonce
	}
	return l.latestNonce - l.latestDelivered
}

// EnqueuedCount returns the number of enqueued-but-undelivered messages.
func (l *OutboundLane) EnqueuedCount() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latestNonce - l.latestDelivered
}

// LatestNonce returns the nonce of the latest enqueued message.
func (l *OutboundLane) LatestNonce() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latestNonce
}

// Lane returns the lane identifier.
func (l *OutboundLane) Lane() utils.LaneID {
	return l.lane
}

// IsCongested implements feefactor.LocalChannel: the channel with the
// bridge hub is congested once its occupancy reaches capacity. Queries for
// other lanes always report calm.
func (l *OutboundLane) IsCongested(lane utils.LaneID) bool {
	if lane != l.lane {
		return false
	}
	return l.EnqueuedCount() >= l.capacity
}
