package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/Deck/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) writePump(ctx context.Context, c *Conn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "ws").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "ws").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, pid domain.ParticipantID, c *Conn) {
	defer func() {
		log.Info().Str("module", "ws").Str("user", string(pid)).Msg("readPump closing")
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "ws").Str("user", string(pid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "ws").Str("user", string(pid)).Msg("readPump read error")
				return
			}
			ctl.handleMessage(pid, c, data)
		}
	}
}

func (ctl *Controller) handleMessage(pid domain.ParticipantID, c *Conn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case "create-room":
		ctl.handleCreateRoom(pid, c, data)
	case "join-room":
		ctl.handleJoin(pid, c, data)
	case "leave-room":
		ctl.handleLeave(pid, c)
	case "vote":
		ctl.handleVote(pid, c, data)
	case "remove-vote":
		ctl.handleRemoveVote(pid, c)
	case "reveal-votes":
		ctl.handleReveal(pid, c)
	case "reset-votes":
		ctl.handleReset(pid, c)
	case "set-story":
		ctl.handleSetStory(pid, c, data)
	case "toggle-observer":
		ctl.handleToggleObserver(pid, c)
	case "approve-join-request":
		ctl.handleApprove(pid, c, data)
	case "reject-join-request":
		ctl.handleReject(pid, c, data)
	case "end-session":
		ctl.handleEndSession(pid, c)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "ws").Str("type", env.Type).Msg("unknown message")
		ctl.sendError(c, "unknown message type")
	}
}
