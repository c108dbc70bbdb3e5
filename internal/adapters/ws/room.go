package ws

import (
	"encoding/json"

	"github.com/dkeye/Deck/internal/core"
	"github.com/dkeye/Deck/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleCreateRoom(pid domain.ParticipantID, conn *Conn, data []byte) {
	if !ctl.Limiter.Allow(pid) {
		ctl.sendError(conn, "too many rooms, slow down")
		return
	}
	var p struct {
		Type              string `json:"type"`
		Name              string `json:"name"`
		CreatorOnlyReveal bool   `json:"creatorOnlyReveal"`
		CreatorOnlyStory  bool   `json:"creatorOnlyStory"`
		RequireApproval   bool   `json:"requireApproval"`
		Public            bool   `json:"public"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad create-room payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	room := ctl.Orch.Rooms.Create(domain.RoomOptions{
		Name:              domain.NewRoomName(p.Name),
		CreatorOnlyReveal: p.CreatorOnlyReveal,
		CreatorOnlyStory:  p.CreatorOnlyStory,
		RequireApproval:   p.RequireApproval,
		Public:            p.Public,
	})
	ctl.sendEvent(conn, "room-created", map[string]any{
		"roomId":            room.ID(),
		"name":              room.Name(),
		"creatorOnlyReveal": p.CreatorOnlyReveal,
		"creatorOnlyStory":  p.CreatorOnlyStory,
		"requireApproval":   p.RequireApproval,
		"public":            p.Public,
	})
}

func (ctl *Controller) handleJoin(pid domain.ParticipantID, conn *Conn, data []byte) {
	if !ctl.Limiter.Allow(pid) {
		ctl.sendError(conn, "too many join attempts, slow down")
		return
	}
	var p struct {
		Type     string `json:"type"`
		Room     string `json:"room"`
		Name     string `json:"name"`
		Observer bool   `json:"observer"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	res, err := ctl.Orch.Join(domain.RoomID(p.Room), pid, p.Name, p.Observer)
	if err != nil {
		ctl.sendError(conn, err.Error())
		return
	}
	log.Info().Str("module", "ws").Str("user", string(pid)).Str("room", p.Room).Bool("pending", res.Pending).Msg("join")

	if res.Pending {
		return // join-request-pending already routed to the caller
	}
	ctl.sendEvent(conn, core.EvRoomUpdated, core.RoomUpdatedPayload{Room: *res.Room})
}

func (ctl *Controller) handleLeave(pid domain.ParticipantID, conn *Conn) {
	log.Info().Str("module", "ws").Str("user", string(pid)).Msg("leave")
	ctl.Orch.Disconnect(pid)
	ctl.sendEvent(conn, "left", struct{}{})
}
