package ws

import (
	"encoding/json"

	"github.com/dkeye/Deck/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleVote(pid domain.ParticipantID, conn *Conn, data []byte) {
	var p struct {
		Type string      `json:"type"`
		Vote domain.Vote `json:"vote"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad vote payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Orch.CastVote(pid, p.Vote); err != nil {
		ctl.sendError(conn, err.Error())
	}
}

func (ctl *Controller) handleRemoveVote(pid domain.ParticipantID, conn *Conn) {
	if err := ctl.Orch.RemoveVote(pid); err != nil {
		ctl.sendError(conn, err.Error())
	}
}

func (ctl *Controller) handleReveal(pid domain.ParticipantID, conn *Conn) {
	if err := ctl.Orch.RevealVotes(pid); err != nil {
		ctl.sendError(conn, err.Error())
	}
}

func (ctl *Controller) handleReset(pid domain.ParticipantID, conn *Conn) {
	if err := ctl.Orch.ResetVotes(pid); err != nil {
		ctl.sendError(conn, err.Error())
	}
}

func (ctl *Controller) handleSetStory(pid domain.ParticipantID, conn *Conn, data []byte) {
	var p struct {
		Type  string `json:"type"`
		Story string `json:"story"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad story payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Orch.SetStory(pid, p.Story); err != nil {
		ctl.sendError(conn, err.Error())
	}
}

func (ctl *Controller) handleToggleObserver(pid domain.ParticipantID, conn *Conn) {
	if err := ctl.Orch.ToggleObserver(pid); err != nil {
		ctl.sendError(conn, err.Error())
	}
}
