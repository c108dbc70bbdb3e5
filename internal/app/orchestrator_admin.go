package app

import (
	"github.com/dkeye/Deck/internal/domain"
)

// Creator-gated operations. The caller id always comes from the
// authenticated session of the transport; a client-supplied creator id is
// never trusted for these checks.

func (o *Orchestrator) ApproveJoinRequest(caller, target domain.ParticipantID) error {
	room, err := o.roomOf(caller)
	if err != nil {
		return err
	}
	ds, err := room.ApproveJoinRequest(o.Directory, caller, target)
	if err != nil {
		return err
	}
	o.Events.Dispatch(ds)
	return nil
}

func (o *Orchestrator) RejectJoinRequest(caller, target domain.ParticipantID) error {
	room, err := o.roomOf(caller)
	if err != nil {
		return err
	}
	ds, err := room.RejectJoinRequest(o.Directory, caller, target)
	if err != nil {
		return err
	}
	o.Events.Dispatch(ds)
	return nil
}

func (o *Orchestrator) EndSession(caller domain.ParticipantID) error {
	room, err := o.roomOf(caller)
	if err != nil {
		return err
	}
	ds, err := room.EndSession(o.Directory, caller)
	if err != nil {
		return err
	}
	o.Rooms.Delete(room.ID())
	o.Events.Dispatch(ds)
	return nil
}
