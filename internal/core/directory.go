package core

import (
	"sync"

	"github.com/dkeye/Deck/internal/domain"
)

type sessionEntry struct {
	RoomID      domain.RoomID
	Participant *domain.Participant
	Pending     bool
}

// Directory maps a participant id to its current room and cached profile.
// It holds a non-owning back-reference only; the Room owns the membership.
// Mutations happen inside the Room's critical section (the Room op is handed
// the directory), so the two can never drift apart.
type Directory struct {
	mu       sync.RWMutex
	sessions map[domain.ParticipantID]*sessionEntry
}

func NewDirectory() *Directory {
	return &Directory{sessions: make(map[domain.ParticipantID]*sessionEntry)}
}

func (d *Directory) Bind(pid domain.ParticipantID, roomID domain.RoomID, p *domain.Participant, pending bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[pid] = &sessionEntry{RoomID: roomID, Participant: p, Pending: pending}
}

func (d *Directory) SetPending(pid domain.ParticipantID, pending bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.sessions[pid]; ok {
		e.Pending = pending
	}
}

// Resolve returns the room id and cached profile for pid.
func (d *Directory) Resolve(pid domain.ParticipantID) (domain.RoomID, *domain.Participant, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.sessions[pid]
	if !ok {
		return "", nil, false
	}
	return e.RoomID, e.Participant, true
}

func (d *Directory) IsPending(pid domain.ParticipantID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.sessions[pid]
	return ok && e.Pending
}

func (d *Directory) Unbind(pid domain.ParticipantID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, pid)
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}
