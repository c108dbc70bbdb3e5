package poll

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dkeye/Deck/internal/adapters"
	"github.com/dkeye/Deck/internal/app"
	"github.com/dkeye/Deck/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxWait = 60 * time.Second

// Handlers is the command-and-poll surface. The caller identity is the
// client token cookie, same as the WebSocket binding, so a participant can
// fall back from one to the other without rejoining.
type Handlers struct {
	Orch        *app.Orchestrator
	MB          *Mailbox
	DefaultWait time.Duration
}

func NewHandlers(orch *app.Orchestrator, mb *Mailbox, defaultWait time.Duration) *Handlers {
	return &Handlers{Orch: orch, MB: mb, DefaultWait: defaultWait}
}

func (h *Handlers) Register(g *gin.RouterGroup) {
	g.POST("/join", h.Join)
	g.GET("/updates", h.Updates)
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

func actor(c *gin.Context) domain.ParticipantID {
	return domain.ParticipantID(c.GetString("client_token"))
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
	pid := actor(c)

	// The box must exist before the join runs so the join's own deliveries
	// (pending notice, approval outcome) are not lost.
	created := h.MB.Register(pid)

	res, err := h.Orch.Join(domain.RoomID(req.RoomID), pid, req.Name, req.Observer)
	if err != nil {
		// A pre-existing box belongs to the caller's live session in another
		// room; only a box this call created is ours to tear down.
		if created {
			h.MB.Remove(pid)
		}
		adapters.AbortWithError(c, err)
		return
	}
	log.Info().Str("module", "poll").Str("user", string(pid)).Str("room", req.RoomID).Bool("pending", res.Pending).Msg("join")

	resp := gin.H{"pending": res.Pending}
	if res.Pending {
		resp["message"] = res.Message
	} else {
		resp["room"] = res.Room
	}
	c.JSON(http.StatusOK, resp)
}

// Updates is the long-poll endpoint. An empty window returns {"updates":[]}
// rather than an error so clients can loop without branching.
func (h *Handlers) Updates(c *gin.Context) {
	pid := actor(c)
	wait := h.DefaultWait
	if raw := c.Query("timeout"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad timeout"})
			return
		}
		wait = time.Duration(secs) * time.Second
	}
	if wait > maxWait {
		wait = maxWait
	}

	updates := h.MB.Wait(c.Request.Context(), pid, wait)
	if updates == nil {
		updates = []Update{}
	}
	c.JSON(http.StatusOK, gin.H{"updates": updates})
}

func (h *Handlers) Leave(c *gin.Context) {
	pid := actor(c)
	h.Orch.Disconnect(pid)
	h.MB.Remove(pid)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Vote(c *gin.Context) {
	var req struct {
		Vote domain.Vote `json:"vote"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := h.Orch.CastVote(actor(c), req.Vote); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) RemoveVote(c *gin.Context) {
	if err := h.Orch.RemoveVote(actor(c)); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Reveal(c *gin.Context) {
	if err := h.Orch.RevealVotes(actor(c)); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Reset(c *gin.Context) {
	if err := h.Orch.ResetVotes(actor(c)); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) SetStory(c *gin.Context) {
	var req struct {
		Story string `json:"story"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := h.Orch.SetStory(actor(c), req.Story); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) ToggleObserver(c *gin.Context) {
	if err := h.Orch.ToggleObserver(actor(c)); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Approve(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := h.Orch.ApproveJoinRequest(actor(c), domain.ParticipantID(req.UserID)); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Reject(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := h.Orch.RejectJoinRequest(actor(c), domain.ParticipantID(req.UserID)); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) EndSession(c *gin.Context) {
	if err := h.Orch.EndSession(actor(c)); err != nil {
		adapters.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
