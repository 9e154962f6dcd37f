// Package feefactor implements the dynamic per-lane delivery fee factor.
// The factor starts at 1.0 and grows exponentially while the bridge lane is
// congested, pricing in backpressure instead of rejecting messages. Once the
// lane is calm it decays geometrically back to the floor.
package feefactor

import (
	"errors"
	"log"
	"math/big"
	"sync"

	"bridgeControl/fixed"
	"bridgeControl/utils"
)

// The factor that is used to increase the current fee factor when the bridge
// is experiencing some lags.
var ExponentialFeeBase = fixed.FromRational(105, 100) // 1.05

// The factor that is used to increase the current fee factor for every sent
// kilobyte.
var MessageSizeFeeBase = fixed.FromRational(1, 1000) // 0.001

// ErrNotAuthorized is returned when a bridge status report comes from
// anything but the designated remote reporter.
var ErrNotAuthorized = errors.New("bridge status report from unauthorized origin")

// LocalChannel reports whether the local outbound channel with the bridge
// hub is currently congested.
type LocalChannel interface {
	IsCongested(lane utils.LaneID) bool
}

// CalmChannel is a LocalChannel that never reports congestion.
type CalmChannel struct{}

func (CalmChannel) IsCongested(utils.LaneID) bool { return false }

// BridgeState is the persisted congestion record for the managed lane.
type BridgeState struct {
	// Last congestion value explicitly reported by the remote endpoint.
	IsRemoteCongested bool
	// The number to multiply the base delivery fee by, always >= 1.0.
	FeeFactor fixed.U128
}

// DefaultBridgeState returns the state a lane has before its first use.
func DefaultBridgeState() BridgeState {
	return BridgeState{IsRemoteCongested: false, FeeFactor: fixed.One()}
}

// Config holds the static parameters of a fee factor controller.
type Config struct {
	Lane     utils.LaneID         // the managed outbound lane
	BaseFee  *big.Int             // base bridge fee paid for every outbound message
	ByteFee  *big.Int             // additional fee paid for every byte
	Channel  LocalChannel         // local outbound channel congestion source
	Reporter utils.RemoteLocation // the only origin allowed to report bridge status
}

// Controller owns the congestion state of a single bridged lane. All
// mutations go through the documented operations; arithmetic saturates and
// never fails.
type Controller struct {
	cfg   Config
	mu    sync.Mutex
	state BridgeState
}

// NewController creates a controller with the default (calm) lane state.
func NewController(cfg Config) *Controller {
	if cfg.Channel == nil {
		cfg.Channel = CalmChannel{}
	}
	if cfg.BaseFee == nil {
		cfg.BaseFee = big.NewInt(0)
	}
	if cfg.ByteFee == nil {
		cfg.ByteFee = big.NewInt(0)
	}
	return &Controller{
		cfg:   cfg,
		state: DefaultBridgeState(),
	}
}

// isCongested must be called with the lock held.
func (c *Controller) isCongested() bool {
	return c.cfg.Channel.IsCongested(c.cfg.Lane) || c.state.IsRemoteCongested
}

// OnMessageEnqueued is called every time a message is accepted onto the
// outbound lane, before committing. If the lane is congested (either the
// local channel or the remote report says so), the fee factor is multiplied
// by 1.05 plus 0.001 per sent kilobyte. Repeated sends under sustained
// congestion compound the fee rapidly; a single congested send only nudges
// it. Calls for other lanes are ignored.
func (c *Controller) OnMessageEnqueued(lane utils.LaneID, enqueuedCount uint64, messageSizeBytes uint32) {
	if lane != c.cfg.Lane {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// if the lane is not congested, do nothing
	if !c.isCongested() {
		return
	}

	sizeFactor := fixed.FromUint(uint64(messageSizeBytes / 1024)).SaturatingMul(MessageSizeFeeBase)
	totalFactor := ExponentialFeeBase.SaturatingAdd(sizeFactor)
	previousFactor := c.state.FeeFactor
	c.state.FeeFactor = previousFactor.SaturatingMul(totalFactor)
	log.Printf("bridge lane %s is congested (%d enqueued). Increased fee factor from %s to %s",
		lane, enqueuedCount, previousFactor, c.state.FeeFactor)
}

// OnBlockTick is called once per block. While the lane is calm the fee
// factor decays geometrically toward the 1.0 floor, mirroring the
// escalation curve. No-op while congested or already at the floor.
func (c *Controller) OnBlockTick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// if the lane is still congested, we don't change anything
	if c.isCongested() {
		return
	}

	previousFactor := c.state.FeeFactor
	c.state.FeeFactor = fixed.MaxOf(fixed.One(), previousFactor.Div(ExponentialFeeBase))
	if previousFactor.Cmp(c.state.FeeFactor) != 0 {
		log.Printf("bridge lane %s is uncongested. Decreased fee factor from %s to %s",
			c.cfg.Lane, previousFactor, c.state.FeeFactor)
	}
}

// QuoteFee returns feeFactor * (baseFee + byteFee*messageSize), rounded
// down to the smallest transferable unit.
func (c *Controller) QuoteFee(baseFee, byteFee *big.Int, messageSizeBytes uint32) *big.Int {
	if baseFee == nil {
		baseFee = big.NewInt(0)
	}
	if byteFee == nil {
		byteFee = big.NewInt(0)
	}
	messageFee := new(big.Int).Mul(byteFee, big.NewInt(int64(messageSizeBytes)))
	feeSum := new(big.Int).Add(baseFee, messageFee)

	c.mu.Lock()
	factor := c.state.FeeFactor
	c.mu.Unlock()

	return factor.SaturatingMulBig(feeSum)
}

// CurrentFee quotes the delivery fee for a message of the given size using
// the configured base and byte fees.
func (c *Controller) CurrentFee(messageSizeBytes uint32) *big.Int {
	return c.QuoteFee(c.cfg.BaseFee, c.cfg.ByteFee, messageSizeBytes)
}

// ReportBridgeStatus overwrites the remote congestion flag. The origin must
// be the designated remote reporting identity; this is the only error the
// controller ever surfaces. The fee factor itself is untouched - the next
// enqueue or tick reacts to the new value.
func (c *Controller) ReportBridgeStatus(origin utils.RemoteLocation, isCongested bool) error {
	if !origin.Equal(c.cfg.Reporter) {
		return ErrNotAuthorized
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsRemoteCongested = isCongested
	return nil
}

// FeeFactor returns the current fee factor.
func (c *Controller) FeeFactor() fixed.U128 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.FeeFactor
}

// IsCongested reports whether either congestion source is active.
func (c *Controller) IsCongested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCongested()
}

// State returns a copy of the lane state, e.g. for persisting.
func (c *Controller) State() BridgeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RestoreState replaces the lane state, e.g. when loading a snapshot. The
// fee factor floor is re-imposed on whatever was stored.
func (c *Controller) RestoreState(state BridgeState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state.FeeFactor = fixed.MaxOf(fixed.One(), state.FeeFactor)
	c.state = state
}

// Lane returns the managed lane.
func (c *Controller) Lane() utils.LaneID {
	return c.cfg.Lane
}
