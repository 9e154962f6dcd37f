package bridge

import (
	"bytes"
	"math/big"
	"testing"

	"bridgeControl/bridge/pending"
	"bridgeControl/fees/feefactor"
	"bridgeControl/fixed"
	"bridgeControl/queue/suspension"
	"bridgeControl/utils"
)

var (
	testLane     = utils.NewLaneID(0, 0, 0, 1)
	testSender   = utils.RemoteLocation{Version: 3, Network: "local", Path: "AssetHub"}
	testReporter = utils.RemoteLocation{Version: 3, Network: "westend", Path: "BridgeHub"}
)

// testStack is the fully wired send path with small capacities for testing
type testStack struct {
	lane        *OutboundLane
	fees        *feefactor.Controller
	coordinator *suspension.Coordinator
	hauler      *Hauler
	router      *Router
}

func newTestStack(channelCapacity, overloadThreshold uint64) *testStack {
	lane := NewOutboundLane(testLane, channelCapacity)
	fees := feefactor.NewController(feefactor.Config{
		Lane:     testLane,
		BaseFee:  big.NewInt(10),
		ByteFee:  big.NewInt(1),
		Channel:  lane,
		Reporter: testReporter,
	})
	coordinator := suspension.NewCoordinator(suspension.NewStore(), overloadThreshold)
	hauler := NewHauler(lane, fees, coordinator, testSender)
	return &testStack{
		lane:        lane,
		fees:        fees,
		coordinator: coordinator,
		hauler:      hauler,
		router:      NewRouter("westend", fees, hauler),
	}
}

// TestRouter_RejectsOversizedMessage tests the hard size ceiling
func TestRouter_RejectsOversizedMessage(t *testing.T) {
	s := newTestStack(1000, 300)

	blob := bytes.Repeat([]byte{42}, HardMessageSizeLimit+1)
	if _, err := s.router.Validate("westend", blob); err != ErrExceedsMaxMessageSize {
		t.Errorf("oversized message should be rejected, got %v", err)
	}

	// the rejection happens before any fee math: factor untouched even if
	// the channel is congested
	if s.fees.FeeFactor().Cmp(fixed.One()) != 0 {
		t.Error("rejected send must not touch the fee factor")
	}

	// exactly at the limit is fine
	blob = bytes.Repeat([]byte{42}, HardMessageSizeLimit)
	if _, err := s.router.Validate("westend", blob); err != nil {
		t.Errorf("message at the limit should validate, got %v", err)
	}
}

// TestRouter_RejectsOtherNetwork tests the destination network check
func TestRouter_RejectsOtherNetwork(t *testing.T) {
	s := newTestStack(1000, 300)
	if _, err := s.router.Validate("rococo", []byte{1}); err != ErrNotApplicable {
		t.Errorf("other network should be rejected, got %v", err)
	}
	if _, err := s.router.Validate("westend", nil); err != ErrMissingArgument {
		t.Errorf("nil blob should be rejected, got %v", err)
	}
}

// TestRouter_QuotesFeeAndEscalates tests the priced send path end to end
func TestRouter_QuotesFeeAndEscalates(t *testing.T) {
	// channel congested from the second message onward
	s := newTestStack(2, 300)

	// first send: calm channel, factor 1.0, fee = 10 + 1*100 = 110
	hash, fee, err := s.router.SendMessage("westend", bytes.Repeat([]byte{1}, 100))
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if fee.Cmp(big.NewInt(110)) != 0 {
		t.Errorf("first fee should be 110, got %s", fee)
	}
	if (hash == [32]byte{}) {
		t.Error("delivered message should have a non-zero hash")
	}

	// second send reaches capacity 2, so the channel is congested after
	// the enqueue and the factor escalates (1024 bytes: 1.051)
	_, fee, err = s.router.SendMessage("westend", bytes.Repeat([]byte{1}, 1024))
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	// the fee was quoted before escalation, at factor 1.0: 10 + 1024 = 1034
	if fee.Cmp(big.NewInt(1034)) != 0 {
		t.Errorf("second fee should be quoted pre-escalation at 1034, got %s", fee)
	}
	want := fixed.FromRational(1051, 1000)
	if s.fees.FeeFactor().Cmp(want) != 0 {
		t.Errorf("factor should be 1.051 after congested send, got %s", s.fees.FeeFactor())
	}

	// third send is quoted with the escalated factor:
	// floor(1.051 * 110) = 115
	ticket, err := s.router.Validate("westend", bytes.Repeat([]byte{1}, 100))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if ticket.Fee().Cmp(big.NewInt(115)) != 0 {
		t.Errorf("escalated fee should be 115, got %s", ticket.Fee())
	}
}

// TestHauler_LedgerRecordsPaidFee tests that in-flight tracking stores
// the fee the sender actually paid, not a re-quote after escalation
func TestHauler_LedgerRecordsPaidFee(t *testing.T) {
	// channel congested from the second message onward
	s := newTestStack(2, 300)
	ledger := pending.NewLedger()
	s.hauler.SetLedger(ledger)

	if _, _, err := s.router.SendMessage("westend", bytes.Repeat([]byte{1}, 100)); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// the second send escalates the factor to 1.051 as part of delivery,
	// but its own quote was taken at factor 1.0: 10 + 1024 = 1034
	_, paid, err := s.router.SendMessage("westend", bytes.Repeat([]byte{1}, 1024))
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	entry, ok := ledger.Get(2)
	if !ok {
		t.Fatal("second send should be tracked in flight")
	}
	if entry.Fee.Cmp(paid) != 0 {
		t.Errorf("ledger fee %s should equal the paid fee %s", entry.Fee, paid)
	}
	if entry.Fee.Cmp(big.NewInt(1034)) != 0 {
		t.Errorf("ledger fee should be the pre-escalation 1034, got %s", entry.Fee)
	}
}

// TestHauler_SuspendAndResumeViaLaneOccupancy tests the coordinator leg
func TestHauler_SuspendAndResumeViaLaneOccupancy(t *testing.T) {
	// tiny threshold so the lane overloads after 3 messages
	s := newTestStack(1000, 3)

	for i := 0; i < 3; i++ {
		s.hauler.HaulBlob([]byte{1}, big.NewInt(11))
	}
	if s.coordinator.IsSuspended(testSender) {
		t.Fatal("sender should not be suspended at the threshold")
	}

	nonce := s.hauler.HaulBlob([]byte{1}, big.NewInt(11))
	if !s.coordinator.IsSuspended(testSender) {
		t.Fatal("sender should be suspended above the threshold")
	}

	// confirm everything delivered: lane drains, sender resumes
	s.hauler.OnMessagesDelivered(nonce)
	if s.lane.EnqueuedCount() != 0 {
		t.Errorf("lane should be drained, %d left", s.lane.EnqueuedCount())
	}
	if s.coordinator.IsSuspended(testSender) {
		t.Error("sender should resume once the lane drains")
	}
}

// TestOutboundLane_StaleConfirmationIsIgnored tests nonce watermarking
func TestOutboundLane_StaleConfirmationIsIgnored(t *testing.T) {
	lane := NewOutboundLane(testLane, 1000)
	lane.Enqueue()
	lane.Enqueue()
	n3, _ := lane.Enqueue()

	if got := lane.ConfirmDelivered(n3); got != 0 {
		t.Errorf("confirming latest nonce should drain the lane, got %d", got)
	}
	// stale and out-of-range confirmations change nothing
	if got := lane.ConfirmDelivered(1); got != 0 {
		t.Errorf("stale confirmation should be ignored, got %d", got)
	}
	if got := lane.ConfirmDelivered(99); got != 0 {
		t.Errorf("out-of-range confirmation should be ignored, got %d", got)
	}
}
