// Package ledger provides the idempotency ledger backends. All of them
// satisfy fulfillment.Ledger; the backend is chosen by config at startup.
package ledger

import (
	"context"
	"sync"
	"time"
)

type pairKey struct {
	orderID int64
	itemID  int64
}

type memoryEntry struct {
	providerOrderID int64
	reservedAt      time.Time
}

// MemoryLedger is the default backend. Process-local only: a restart
// forgets reservations, so production deployments should use redis or
// postgres.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[pairKey]memoryEntry
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[pairKey]memoryEntry)}
}

func (l *MemoryLedger) Reserve(_ context.Context, orderID, itemID int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := pairKey{orderID: orderID, itemID: itemID}
	if _, ok := l.entries[k]; ok {
		return false, nil
	}
	l.entries[k] = memoryEntry{reservedAt: time.Now()}
	return true, nil
}

func (l *MemoryLedger) MarkSubmitted(_ context.Context, orderID, itemID, providerOrderID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := pairKey{orderID: orderID, itemID: itemID}
	e := l.entries[k]
	e.providerOrderID = providerOrderID
	l.entries[k] = e
	return nil
}

func (l *MemoryLedger) Release(_ context.Context, orderID, itemID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, pairKey{orderID: orderID, itemID: itemID})
	return nil
}

func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
