package admission

import (
	"context"
	"sync"
	"time"
)

// SlotLedger serializes observer admission per room and remembers identities that were
// issued but may not have joined yet.
//
// Acquire blocks until the caller owns the room, or ctx ends. Held and Hold are only
// meaningful while the room is acquired.
type SlotLedger interface {
	Acquire(ctx context.Context, room string) (release func(), err error)
	Held(ctx context.Context, room string) ([]string, error)
	Hold(ctx context.Context, room, identity string) error
}

// BestEffortLedger takes no lock and holds nothing. Concurrent observer admissions
// to one room can then compute the same slot and exceed the cap by a few.
type BestEffortLedger struct{}

func (BestEffortLedger) Acquire(context.Context, string) (func(), error) { return func() {}, nil }

func (BestEffortLedger) Held(context.Context, string) ([]string, error) { return nil, nil }

func (BestEffortLedger) Hold(context.Context, string, string) error { return nil }

type roomSlots struct {
	// lock is a one-slot semaphore so Acquire can give up on ctx.
	lock chan struct{}
	refs int
	held map[string]time.Time
}

// MemoryLedger is a SlotLedger for a single process.
type MemoryLedger struct {
	mu    sync.Mutex
	rooms map[string]*roomSlots
	hold  time.Duration
	now   func() time.Time
}

// NewMemoryLedger returns a ledger whose holds last for hold. A zero hold only serializes.
func NewMemoryLedger(hold time.Duration) *MemoryLedger {
	return &MemoryLedger{
		rooms: make(map[string]*roomSlots),
		hold:  hold,
		now:   time.Now,
	}
}

// slots returns the entry for room, creating it. m.mu must be held.
func (m *MemoryLedger) slots(room string) *roomSlots {
	rs, ok := m.rooms[room]
	if !ok {
		rs = &roomSlots{
			lock: make(chan struct{}, 1),
			held: make(map[string]time.Time),
		}
		m.rooms[room] = rs
	}
	return rs
}

// prune drops expired holds and forgets idle rooms. m.mu must be held.
func (m *MemoryLedger) prune(room string, rs *roomSlots) {
	now := m.now()
	for id, expiry := range rs.held {
		if !now.Before(expiry) {
			delete(rs.held, id)
		}
	}
	if rs.refs == 0 && len(rs.held) == 0 {
		delete(m.rooms, room)
	}
}

func (m *MemoryLedger) Acquire(ctx context.Context, room string) (func(), error) {
	m.mu.Lock()
	rs := m.slots(room)
	rs.refs++
	m.mu.Unlock()

	unref := func() {
		m.mu.Lock()
		rs.refs--
		m.prune(room, rs)
		m.mu.Unlock()
	}

	select {
	case rs.lock <- struct{}{}:
	case <-ctx.Done():
		unref()
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-rs.lock
			unref()
		})
	}, nil
}

func (m *MemoryLedger) Held(_ context.Context, room string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rs, ok := m.rooms[room]
	if !ok {
		return nil, nil
	}
	m.prune(room, rs)

	ids := make([]string, 0, len(rs.held))
	for id := range rs.held {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemoryLedger) Hold(_ context.Context, room, identity string) error {
	if m.hold <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots(room).held[identity] = m.now().Add(m.hold)
	return nil
}
