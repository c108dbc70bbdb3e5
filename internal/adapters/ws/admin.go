package ws

import (
	"encoding/json"

	"github.com/dkeye/Deck/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleApprove(pid domain.ParticipantID, conn *Conn, data []byte) {
	var p struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad approve payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Orch.ApproveJoinRequest(pid, domain.ParticipantID(p.UserID)); err != nil {
		ctl.sendError(conn, err.Error())
	}
}

func (ctl *Controller) handleReject(pid domain.ParticipantID, conn *Conn, data []byte) {
	var p struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad reject payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Orch.RejectJoinRequest(pid, domain.ParticipantID(p.UserID)); err != nil {
		ctl.sendError(conn, err.Error())
	}
}

func (ctl *Controller) handleEndSession(pid domain.ParticipantID, conn *Conn) {
	if err := ctl.Orch.EndSession(pid); err != nil {
		ctl.sendError(conn, err.Error())
	}
}
