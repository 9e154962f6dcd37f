package bridge

import (
	"log"
	"math/big"
	"time"

	"bridgeControl/bridge/pending"
	"bridgeControl/fees/feefactor"
	"bridgeControl/queue/suspension"
	"bridgeControl/utils"
)

// Hauler moves message blobs onto the outbound lane and feeds the observed
// queue length to both congestion controllers. It is the single producer
// of congestion signals in the send direction.
type Hauler struct {
	lane        *OutboundLane
	fees        *feefactor.Controller
	coordinator *suspension.Coordinator
	sender      utils.RemoteLocation // location whose channel is suspended when the lane backs up
	ledger      *pending.Ledger      // optional in-flight tracking
}

// NewHauler wires the lane to its controllers.
func NewHauler(lane *OutboundLane, fees *feefactor.Controller, coordinator *suspension.Coordinator, sender utils.RemoteLocation) *Hauler {
	return &Hauler{
		lane:        lane,
		fees:        fees,
		coordinator: coordinator,
		sender:      sender,
	}
}

// SetLedger attaches an in-flight ledger. Hauled messages are tracked
// until a delivery confirmation covers their nonce.
func (h *Hauler) SetLedger(l *pending.Ledger) {
	h.ledger = l
}

// HaulBlob enqueues one blob onto the outbound lane and notifies the
// suspension coordinator and the fee factor controller with the resulting
// occupancy. The fee is the amount quoted at validation time, which is
// what the sender actually paid; the escalation below only affects later
// quotes. Returns the assigned nonce.
func (h *Hauler) HaulBlob(blob []byte, fee *big.Int) uint64 {
	nonce, enqueued := h.lane.Enqueue()
	log.Printf("haul_blob ok: nonce %d on lane %s, enqueued messages: %d", nonce, h.lane.Lane(), enqueued)

	if h.ledger != nil {
		if err := h.ledger.Add(&pending.InFlight{
			Nonce:     nonce,
			Lane:      h.lane.Lane(),
			SizeBytes: len(blob),
			Fee:       fee,
			SentAt:    time.Now(),
		}); err != nil {
			log.Printf("in-flight tracking: %v", err)
		}
	}

	h.coordinator.OnMessageEnqueued(h.sender, h.lane.Lane(), enqueued)
	h.fees.OnMessageEnqueued(h.lane.Lane(), enqueued, uint32(len(blob)))

	return nonce
}

// OnMessagesDelivered records a delivery confirmation for all messages up
// to and including nonce and lets the coordinator re-evaluate suspension.
func (h *Hauler) OnMessagesDelivered(nonce uint64) {
	enqueued := h.lane.ConfirmDelivered(nonce)
	h.coordinator.OnMessageDelivered(h.sender, h.lane.Lane(), enqueued)

	if h.ledger != nil {
		h.ledger.SettleUpTo(nonce, nil)
	}
}

// Sender returns the location whose channel the coordinator manages.
func (h *Hauler) Sender() utils.RemoteLocation {
	return h.sender
}
