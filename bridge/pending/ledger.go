// Package pending tracks messages hauled onto the outbound lane that the
// remote chain has not confirmed yet.
package pending

import (
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"bridgeControl/utils"
)

// InFlight represents one hauled message awaiting a delivery confirmation.
// Created when the blob is enqueued on the lane, settled when a
// confirmation covering its nonce arrives.
type InFlight struct {
	Nonce     uint64
	Lane      utils.LaneID
	SizeBytes int
	Fee       *big.Int // fee quoted when the message was sent
	SentAt    time.Time
}

// Ledger maintains the set of in-flight messages for one lane.
type Ledger struct {
	mu      sync.RWMutex
	pending map[uint64]*InFlight // nonce -> in-flight entry
	settled uint64               // count of confirmed messages
}

// NewLedger creates an empty in-flight ledger.
func NewLedger() *Ledger {
	return &Ledger{
		pending: make(map[uint64]*InFlight),
	}
}

// Add records a newly hauled message.
// Returns error if the nonce is already tracked.
func (l *Ledger) Add(entry *InFlight) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.pending[entry.Nonce]; exists {
		return fmt.Errorf("nonce %d already in flight", entry.Nonce)
	}

	l.pending[entry.Nonce] = entry
	return nil
}

// Get retrieves an in-flight entry by nonce.
func (l *Ledger) Get(nonce uint64) (*InFlight, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, exists := l.pending[nonce]
	return entry, exists
}

// SettleUpTo settles every entry with nonce <= confirmed, calling
// onSettle for each (oldest first). Returns the number of entries
// settled. Confirmations for unknown nonces are ignored.
func (l *Ledger) SettleUpTo(confirmed uint64, onSettle func(entry *InFlight)) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	nonces := make([]uint64, 0)
	for nonce := range l.pending {
		if nonce <= confirmed {
			nonces = append(nonces, nonce)
		}
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })

	for _, nonce := range nonces {
		entry := l.pending[nonce]
		delete(l.pending, nonce)
		l.settled++
		if onSettle != nil {
			onSettle(entry)
		}
	}
	return len(nonces)
}

// IsPending checks if a nonce is still awaiting confirmation.
func (l *Ledger) IsPending(nonce uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, exists := l.pending[nonce]
	return exists
}

// GetPendingCount returns the number of in-flight messages.
func (l *Ledger) GetPendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.pending)
}

// GetSettledCount returns the number of confirmed messages.
func (l *Ledger) GetSettledCount() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.settled
}

// GetAllPending returns a snapshot of in-flight entries ordered by nonce.
func (l *Ledger) GetAllPending() []*InFlight {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*InFlight, 0, len(l.pending))
	for _, entry := range l.pending {
		entryCopy := *entry
		result = append(result, &entryCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Nonce < result[j].Nonce })
	return result
}

// CleanupOld drops in-flight entries sent before the given time. Useful
// when a lane is abandoned and confirmations will never arrive.
func (l *Ledger) CleanupOld(olderThan time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for nonce, entry := range l.pending {
		if entry.SentAt.Before(olderThan) {
			delete(l.pending, nonce)
			count++
		}
	}
	return count
}

// Reset clears all records (for testing)
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = make(map[uint64]*InFlight)
	l.settled = 0
}

// Stats returns statistics about the ledger
type Stats struct {
	PendingCount int
	SettledCount uint64
	TotalBytes   int      // payload bytes still in flight
	TotalFees    *big.Int // fees quoted for in-flight messages
}

// GetStats returns current ledger statistics
func (l *Ledger) GetStats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := Stats{
		PendingCount: len(l.pending),
		SettledCount: l.settled,
		TotalFees:    big.NewInt(0),
	}

	for _, entry := range l.pending {
		stats.TotalBytes += entry.SizeBytes
		if entry.Fee != nil {
			stats.TotalFees.Add(stats.TotalFees, entry.Fee)
		}
	}

	return stats
}
