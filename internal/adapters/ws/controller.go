// Package ws is the WebSocket binding. One connection per participant; the
// connection identity is the client token cookie, so a participant keeps its
// seat across reconnects.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dkeye/Deck/internal/app"
	"github.com/dkeye/Deck/internal/core"
	"github.com/dkeye/Deck/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	Orch    *app.Orchestrator
	Limiter *JoinRateLimiter

	mu    sync.RWMutex
	conns map[domain.ParticipantID]*Conn
}

func NewController(orch *app.Orchestrator, limiter *JoinRateLimiter) *Controller {
	return &Controller{
		Orch:    orch,
		Limiter: limiter,
		conns:   make(map[domain.ParticipantID]*Conn),
	}
}

// envelope is the wire frame for pushed events and command replies.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) HandleSocket(ctx context.Context, c *gin.Context) {
	pid := domain.ParticipantID(c.GetString("client_token"))
	log.Info().Str("module", "ws").Str("user", string(pid)).Msg("new WS connection")

	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("ws upgrade")
		return
	}

	conn := &Conn{
		conn: sock,
		send: make(chan []byte, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.register(pid, conn)

	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, pid, conn)
		ctl.unregister(pid, conn)
		ctl.Orch.Disconnect(pid)
	}()
}

// register makes conn the participant's live connection. A stale connection
// for the same participant is closed first.
func (ctl *Controller) register(pid domain.ParticipantID, conn *Conn) {
	ctl.mu.Lock()
	old := ctl.conns[pid]
	ctl.conns[pid] = conn
	ctl.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

// unregister drops the mapping only if conn is still current, so a reconnect
// racing the old read pump's teardown keeps its fresh connection.
func (ctl *Controller) unregister(pid domain.ParticipantID, conn *Conn) {
	ctl.mu.Lock()
	if ctl.conns[pid] == conn {
		delete(ctl.conns, pid)
	}
	ctl.mu.Unlock()
}

func (ctl *Controller) connOf(pid domain.ParticipantID) (*Conn, bool) {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	conn, ok := ctl.conns[pid]
	return conn, ok
}

// DeliverToUser implements core.Transport.
func (ctl *Controller) DeliverToUser(pid domain.ParticipantID, ev core.Event) {
	if conn, ok := ctl.connOf(pid); ok {
		ctl.sendEvent(conn, ev.Name, ev.Payload)
	}
}

// DeliverToRoom implements core.Transport.
func (ctl *Controller) DeliverToRoom(room *core.Room, exclude domain.ParticipantID, ev core.Event) {
	for _, pid := range room.MemberIDs() {
		if pid == exclude {
			continue
		}
		if conn, ok := ctl.connOf(pid); ok {
			ctl.sendEvent(conn, ev.Name, ev.Payload)
		}
	}
}

func (ctl *Controller) sendEvent(conn *Conn, name string, payload any) {
	b, err := json.Marshal(envelope{Type: name, Data: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Str("event", name).Msg("marshal event")
		return
	}
	if err := conn.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "ws").Str("event", name).Msg("send dropped")
	}
}

func (ctl *Controller) sendError(conn *Conn, msg string) {
	ctl.sendEvent(conn, core.EvError, core.ErrorPayload{Message: msg})
}
