package relay

import (
	"net/http"
	"strings"

	"github.com/dkeye/Deck/internal/adapters"
	"github.com/dkeye/Deck/internal/app"
	"github.com/dkeye/Deck/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handlers is the command surface of the relay binding. Join hands out an
// actor token; every other endpoint derives the caller from that token.
type Handlers struct {
	Orch *app.Orchestrator
	JWT  *JWTManager
}

func NewHandlers(orch *app.Orchestrator, jwt *JWTManager) *Handlers {
	return &Handlers{Orch: orch, JWT: jwt}
}

func (h *Handlers) Register(g *gin.RouterGroup) {
	g.POST("/join", h.Join)
	g.POST("/auth", h.AuthorizeChannel)
	g.POST("/leave", h.Leave)
	g.POST("/vote", h.Vote)
	g.POST("/vote/remove", h.RemoveVote)
	g.POST("/reveal", h.Reveal)
	g.POST("/reset", h.Reset)
	g.POST("/story", h.SetStory)
	g.POST("/observer", h.ToggleObserver)
	g.POST("/requests/approve", h.Approve)
	g.POST("/requests/reject", h.Reject)
	g.POST("/end", h.EndSession)
}

// actor resolves the caller from the bearer token. Writes the 401 itself.
func (h *Handlers) actor(c *gin.Context) (domain.ParticipantID, bool) {
	raw, err := ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return "", false
	}
	claims, err := h.JWT.Verify(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return "", false
	}
	return domain.ParticipantID(claims.Subject), true
}

func (h *Handlers) Join(c *gin.Context) {
	var req struct {
		RoomID   string `json:"roomId" binding:"required"`
		Name     string `json:"name" binding:"required"`
		Observer bool   `json:"observer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	pid := domain.ParticipantID(c.GetString("client_token"))

	res, err := h.Orch.Join(domain.RoomID(req.RoomID), pid, req.Name, req.Observer)
	if err != nil {
		adapters.AbortWithError(c, err)
		return
	}

	token, err := h.JWT.Generate(string(pid))
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("sign actor token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token"})
		return
	}

	resp := gin.H{
		"token":   token,
		"pending": res.Pending,
		"channels": gin.H{
			"room": RoomChannel(domain.RoomID(req.RoomID)),
			"user": UserChannel(pid),
		},
	}
	if res.Pending {
		resp["message"] = res.Message
	} else {
		resp["room"] = res.Room
	}
	c.JSON(http.StatusOK, resp)
}

// AuthorizeChannel grants a subscription to one channel. A participant may
// always take its own private channel; a room channel requires membership in
// that room.
func (h *Handlers) AuthorizeChannel(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	var req struct {
		Channel string `json:"channel" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}

	switch {
	case req.Channel == UserChannel(pid):
	case strings.HasPrefix(req.Channel, "room-"):
		roomID, _, ok := h.Orch.Directory.Resolve(pid)
		if !ok || req.Channel != RoomChannel(roomID) || h.Orch.Directory.IsPending(pid) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this room"})
			return
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "unknown channel"})
		return
	}

	grant, err := h.JWT.GenerateChannel(string(pid), req.Channel)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("sign channel grant")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth": grant})
}

func (h *Handlers) Leave(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	h.Orch.Disconnect(pid)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Vote(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	var req struct {
		Vote domain.Vote `json:"vote"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := h.Orch.CastVote(pid, req.Vote); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) RemoveVote(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.Orch.RemoveVote(pid); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Reveal(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.Orch.RevealVotes(pid); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Reset(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.Orch.ResetVotes(pid); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) SetStory(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	var req struct {
		Story string `json:"story"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := h.Orch.SetStory(pid, req.Story); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) ToggleObserver(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.Orch.ToggleObserver(pid); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Approve(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := h.Orch.ApproveJoinRequest(pid, domain.ParticipantID(req.UserID)); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Reject(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := h.Orch.RejectJoinRequest(pid, domain.ParticipantID(req.UserID)); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) EndSession(c *gin.Context) {
	pid, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.Orch.EndSession(pid); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
