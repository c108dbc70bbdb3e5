package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dkeye/Deck/internal/adapters/poll"
	"github.com/dkeye/Deck/internal/adapters/relay"
	"github.com/dkeye/Deck/internal/adapters/ws"
	"github.com/dkeye/Deck/internal/app"
	"github.com/dkeye/Deck/internal/config"
	"github.com/dkeye/Deck/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware pins a stable participant id to the browser. The
// cookie, not anything in a request body, is what the ws and poll bindings
// treat as the caller.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	orch *app.Orchestrator,
	wsCtl *ws.Controller,
	relayH *relay.Handlers,
	pollH *poll.Handlers,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("DeckSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	r.GET("/health", func(c *gin.Context) {
		rooms, users := orch.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"providers": cfg.Providers,
			"rooms":     rooms,
			"users":     users,
		})
	})

	api := r.Group("/api")

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": orch.Rooms.ListPublic()})
	})

	api.POST("/rooms", func(c *gin.Context) {
		var req struct {
			Name              string `json:"name"`
			CreatorOnlyReveal bool   `json:"creatorOnlyReveal"`
			CreatorOnlyStory  bool   `json:"creatorOnlyStory"`
			RequireApproval   bool   `json:"requireApproval"`
			Public            bool   `json:"public"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
			return
		}
		room := orch.Rooms.Create(domain.RoomOptions{
			Name:              domain.NewRoomName(req.Name),
			CreatorOnlyReveal: req.CreatorOnlyReveal,
			CreatorOnlyStory:  req.CreatorOnlyStory,
			RequireApproval:   req.RequireApproval,
			Public:            req.Public,
		})
		c.JSON(http.StatusOK, gin.H{
			"roomId":            room.ID(),
			"name":              room.Name(),
			"creatorOnlyReveal": req.CreatorOnlyReveal,
			"creatorOnlyStory":  req.CreatorOnlyStory,
			"requireApproval":   req.RequireApproval,
			"public":            req.Public,
		})
	})

	if wsCtl != nil {
		api.GET("/ws", func(c *gin.Context) {
			log.Info().Str("module", "adapters.http").Str("user", c.GetString("client_token")).Msg("ws endpoint hit")
			wsCtl.HandleSocket(ctx, c)
		})
	}
	if relayH != nil {
		relayH.Register(api.Group("/relay"))
	}
	if pollH != nil {
		pollH.Register(api.Group("/poll"))
	}

	return r
}
