package suspension

import (
	"log"

	"bridgeControl/utils"
)

// DefaultOverloadThreshold is the outbound enqueued-count above which the
// sending location's inbound queue is suspended.
const DefaultOverloadThreshold = 300

// Coordinator turns outbound-lane occupancy observations into suspension
// decisions for the remote locations producing those messages. The strict
// > / <= pairing around a single threshold is deliberate: the enqueued
// count moves in discrete steps and realistic lane traffic does not
// oscillate around the threshold.
type Coordinator struct {
	store     *Store
	threshold uint64
}

// NewCoordinator creates a coordinator writing to the given store. A zero
// threshold selects DefaultOverloadThreshold.
func NewCoordinator(store *Store, threshold uint64) *Coordinator {
	if store == nil {
		store = NewStore()
	}
	if threshold == 0 {
		threshold = DefaultOverloadThreshold
	}
	return &Coordinator{
		store:     store,
		threshold: threshold,
	}
}

// OnMessageEnqueued is called after a message from the given location is
// enqueued onto the outbound lane. Suspends the location once the lane
// holds more than the threshold. Idempotent: re-suspending an already
// suspended location has no observable side effect.
func (c *Coordinator) OnMessageEnqueued(loc utils.RemoteLocation, lane utils.LaneID, enqueuedCount uint64) {
	if enqueuedCount <= c.threshold {
		return
	}
	if c.store.insert(loc.Hash()) {
		log.Printf("suspended inbound queue for %s: lane %s holds %d enqueued messages (threshold %d)",
			loc.Hash(), lane, enqueuedCount, c.threshold)
	}
}

// OnMessageDelivered is called after a delivery confirmation updates the
// outbound lane. Resumes the location once the lane is back at or below
// the threshold and a flag is actually present; everything else is a
// self-loop.
func (c *Coordinator) OnMessageDelivered(loc utils.RemoteLocation, lane utils.LaneID, enqueuedCount uint64) {
	if enqueuedCount > c.threshold {
		// still overloaded
		return
	}
	if c.store.remove(loc.Hash()) {
		log.Printf("resumed inbound queue for %s: lane %s drained to %d enqueued messages",
			loc.Hash(), lane, enqueuedCount)
	}
}

// IsSuspended reports whether the location's inbound queue is suspended.
func (c *Coordinator) IsSuspended(loc utils.RemoteLocation) bool {
	return c.store.Contains(loc.Hash())
}

// Threshold returns the configured overload threshold.
func (c *Coordinator) Threshold() uint64 {
	return c.threshold
}

// Store returns the underlying flag store (read-only use by collaborators).
func (c *Coordinator) Store() *Store {
	return c.store
}
