package app

import (
	"github.com/dkeye/Deck/internal/domain"
)

func (o *Orchestrator) CastVote(pid domain.ParticipantID, v domain.Vote) error {
	room, err := o.roomOf(pid)
	if err != nil {
		return err
	}
	ds, err := room.CastVote(pid, v)
	if err != nil {
		return err
	}
	o.Events.Dispatch(ds)
	return nil
}

func (o *Orchestrator) RemoveVote(pid domain.ParticipantID) error {
	room, err := o.roomOf(pid)
	if err != nil {
		return err
	}
	ds, err := room.RemoveVote(pid)
	if err != nil {
		return err
	}
	o.Events.Dispatch(ds)
	return nil
}

func (o *Orchestrator) RevealVotes(pid domain.ParticipantID) error {
	room, err := o.roomOf(pid)
	if err != nil {
		return err
	}
	ds, err := room.RevealVotes(pid)
	if err != nil {
		return err
	}
	o.Events.Dispatch(ds)
	return nil
}

func (o *Orchestrator) ResetVotes(pid domain.ParticipantID) error {
	room, err := o.roomOf(pid)
	if err != nil {
		return err
	}
	ds, err := room.ResetVotes(pid)
	if err != nil {
		return err
	}
	o.Events.Dispatch(ds)
	return nil
}

func (o *Orchestrator) SetStory(pid domain.ParticipantID, story string) error {
	room, err := o.roomOf(pid)
	if err != nil {
		return err
	}
	ds, err := room.SetStory(pid, story)
	if err != nil {
		return err
	}
	o.Events.Dispatch(ds)
	return nil
}

func (o *Orchestrator) ToggleObserver(pid domain.ParticipantID) error {
	room, err := o.roomOf(pid)
	if err != nil {
		return err
	}
	ds, err := room.ToggleObserver(pid)
	if err != nil {
		return err
	}
	o.Events.Dispatch(ds)
	return nil
}
