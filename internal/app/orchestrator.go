// Package app binds the registry, the session directory and the event
// router into session-resolved operations. Adapters call in here; they never
// touch a Room directly.
package app

import (
	"github.com/dkeye/Deck/internal/core"
	"github.com/dkeye/Deck/internal/domain"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Rooms     *core.Registry
	Directory *core.Directory
	Events    *core.Router
}

func NewOrchestrator(rooms *core.Registry, dir *core.Directory, events *core.Router) *Orchestrator {
	return &Orchestrator{Rooms: rooms, Directory: dir, Events: events}
}

// roomOf resolves the caller's session to its room. A session pointing at a
// vanished room counts as no session at all.
func (o *Orchestrator) roomOf(pid domain.ParticipantID) (*core.Room, error) {
	roomID, _, ok := o.Directory.Resolve(pid)
	if !ok {
		return nil, domain.ErrNotAMember
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		o.Directory.Unbind(pid)
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// Join admits pid into the room, leaving any previous room first. The
// participant profile is rebuilt on every join so the avatar stays in sync
// with the id.
func (o *Orchestrator) Join(roomID domain.RoomID, pid domain.ParticipantID, name string, observer bool) (core.JoinResult, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return core.JoinResult{}, domain.ErrRoomNotFound
	}
	p, err := domain.NewParticipant(pid, name, observer)
	if err != nil {
		return core.JoinResult{}, err
	}

	if oldID, _, ok := o.Directory.Resolve(pid); ok && oldID != roomID {
		o.Disconnect(pid)
		log.Info().Str("module", "app").Str("user", string(pid)).Str("from_room", string(oldID)).Msg("left previous room on join")
	}

	res, ds := room.Join(o.Directory, p)
	o.Events.Dispatch(ds)
	return res, nil
}

// Disconnect is the leave path for both explicit leaves and dropped
// connections. Idempotent: unknown participants are a no-op.
func (o *Orchestrator) Disconnect(pid domain.ParticipantID) {
	roomID, _, ok := o.Directory.Resolve(pid)
	if !ok {
		return
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		o.Directory.Unbind(pid)
		return
	}
	ds, empty := room.Leave(o.Directory, pid)
	if empty {
		o.Rooms.Delete(roomID)
	}
	o.Events.Dispatch(ds)
}

// Stats feeds the liveness endpoint.
func (o *Orchestrator) Stats() (rooms, users int) {
	return o.Rooms.Count(), o.Directory.Count()
}
