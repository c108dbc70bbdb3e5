// Package poll is the HTTP long-poll binding. Each polling participant owns
// a mailbox; deliveries append to it and a poll request drains it, waiting
// up to a timeout when it is empty.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Deck/internal/domain"
)

// maxQueued bounds a mailbox; past it the oldest updates are dropped. A
// client that polls at all keeps far below this.
const maxQueued = 256

type Update struct {
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type box struct {
	updates  []Update
	wake     chan struct{}
	lastSeen time.Time
}

// Mailbox is the registry of per-participant queues. Only participants who
// joined through this binding get a box; deliveries for everyone else are
// skipped here because another binding owns them.
type Mailbox struct {
	mu    sync.Mutex
	boxes map[domain.ParticipantID]*box
}

func NewMailbox() *Mailbox {
	return &Mailbox{boxes: make(map[domain.ParticipantID]*box)}
}

// Register creates an empty box for pid. Re-registering keeps queued updates.
// Reports whether the call created the box, so a caller cleaning up after a
// failure knows whether the box was theirs to remove.
func (m *Mailbox) Register(pid domain.ParticipantID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boxes[pid]; ok {
		return false
	}
	m.boxes[pid] = &box{wake: make(chan struct{}, 1), lastSeen: time.Now()}
	return true
}

// Queue appends an update for pid if a box exists.
func (m *Mailbox) Queue(pid domain.ParticipantID, u Update) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boxes[pid]
	if !ok {
		return
	}
	b.updates = append(b.updates, u)
	if len(b.updates) > maxQueued {
		b.updates = b.updates[len(b.updates)-maxQueued:]
	}
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Drain takes everything queued for pid in one shot.
func (m *Mailbox) Drain(pid domain.ParticipantID) []Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boxes[pid]
	if !ok || len(b.updates) == 0 {
		return nil
	}
	out := b.updates
	b.updates = nil
	b.lastSeen = time.Now()
	return out
}

// Wait drains pid's box, blocking until something arrives, the timeout
// passes or ctx ends. A timeout returns an empty, non-nil slice.
func (m *Mailbox) Wait(ctx context.Context, pid domain.ParticipantID, timeout time.Duration) []Update {
	m.mu.Lock()
	b, ok := m.boxes[pid]
	if !ok {
		m.mu.Unlock()
		return []Update{}
	}
	b.lastSeen = time.Now()
	m.mu.Unlock()

	if got := m.Drain(pid); got != nil {
		return got
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return []Update{}
		case <-timer.C:
			return []Update{}
		case <-b.wake:
			if got := m.Drain(pid); got != nil {
				return got
			}
			// woken by an already-drained update, keep waiting
		}
	}
}

// Remove drops pid's box and any queued updates.
func (m *Mailbox) Remove(pid domain.ParticipantID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boxes, pid)
}

// PruneIdle drops boxes whose owner stopped polling. Returns how many went.
func (m *Mailbox) PruneIdle(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-maxIdle)
	n := 0
	for pid, b := range m.boxes {
		if b.lastSeen.Before(cutoff) {
			delete(m.boxes, pid)
			n++
		}
	}
	return n
}

func (m *Mailbox) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.boxes)
}
