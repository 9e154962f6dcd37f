package bridge

import (
	"errors"
	"log"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"bridgeControl/fees/feefactor"
)

// Maximal size of the message that may be sent over the bridge.
//
// This should be less than the maximal size allowed by the messages layer,
// because the message itself is wrapped in other structs and is double
// encoded.
const HardMessageSizeLimit = 32 * 1024

var (
	// ErrMissingArgument is returned when Validate is called without a blob.
	ErrMissingArgument = errors.New("missing message blob")
	// ErrNotApplicable is returned for destinations outside the bridged
	// network.
	ErrNotApplicable = errors.New("destination is within another network")
	// ErrExceedsMaxMessageSize is returned for messages above the hard
	// size limit. The check runs before any fee computation.
	ErrExceedsMaxMessageSize = errors.New("message exceeds maximal size limit")
)

// Ticket is a validated send, precomputed because Deliver no longer has
// access to the original arguments.
type Ticket struct {
	blob []byte
	fee  *big.Int
}

// Fee returns the quoted delivery fee for this send.
func (t *Ticket) Fee() *big.Int {
	return t.fee
}

// Router prices outbound messages with the dynamic fee factor and ships
// them through the hauler. The bridge does not support oversized messages,
// so it is better to drop them here than at the bridge hub.
type Router struct {
	network string // the bridged network this router serves
	fees    *feefactor.Controller
	hauler  *Hauler
}

// NewRouter creates a router for the given bridged network.
func NewRouter(network string, fees *feefactor.Controller, hauler *Hauler) *Router {
	return &Router{
		network: network,
		fees:    fees,
		hauler:  hauler,
	}
}

// Validate checks the destination network and the hard size ceiling, then
// quotes the delivery fee at the current fee factor. The size check is
// independent of congestion-fee computation and runs first.
func (r *Router) Validate(network string, blob []byte) (*Ticket, error) {
	if blob == nil {
		return nil, ErrMissingArgument
	}
	// ensure that the message is sent to the expected bridged network
	if network != r.network {
		return nil, ErrNotApplicable
	}
	if len(blob) > HardMessageSizeLimit {
		return nil, ErrExceedsMaxMessageSize
	}

	fee := r.fees.CurrentFee(uint32(len(blob)))
	log.Printf("going to send message (%d bytes) over bridge, computed bridge fee %s using fee factor %s",
		len(blob), fee, r.fees.FeeFactor())

	return &Ticket{blob: blob, fee: fee}, nil
}

// Deliver enqueues a validated message onto the outbound lane. Fee factor
// escalation, if any, happens as part of the enqueue.
func (r *Router) Deliver(ticket *Ticket) (common.Hash, error) {
	if ticket == nil {
		return common.Hash{}, ErrMissingArgument
	}
	r.hauler.HaulBlob(ticket.blob, ticket.fee)
	return crypto.Keccak256Hash(ticket.blob), nil
}

// SendMessage validates and delivers in one step, returning the message
// hash and the paid fee.
func (r *Router) SendMessage(network string, blob []byte) (common.Hash, *big.Int, error) {
	ticket, err := r.Validate(network, blob)
	if err != nil {
		return common.Hash{}, nil, err
	}
	hash, err := r.Deliver(ticket)
	if err != nil {
		return common.Hash{}, nil, err
	}
	return hash, ticket.fee, nil
}
