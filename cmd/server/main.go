package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Deck/internal/adapters/http"
	"github.com/dkeye/Deck/internal/adapters/poll"
	"github.com/dkeye/Deck/internal/adapters/relay"
	"github.com/dkeye/Deck/internal/adapters/ws"
	"github.com/dkeye/Deck/internal/app"
	"github.com/dkeye/Deck/internal/config"
	"github.com/dkeye/Deck/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	rooms := core.NewRegistry()
	directory := core.NewDirectory()
	events := core.NewRouter()
	orch := app.NewOrchestrator(rooms, directory, events)

	var (
		wsCtl  *ws.Controller
		relayH *relay.Handlers
		pollH  *poll.Handlers
	)

	if cfg.HasProvider("ws") {
		limiter := ws.NewJoinRateLimiter(cfg.JoinLimit, cfg.JoinWindow)
		wsCtl = ws.NewController(orch, limiter)
		events.Register(wsCtl)
		log.Info().Str("provider", "ws").Msg("transport enabled")
	}

	if cfg.HasProvider("relay") {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("bad redis url")
		}
		rdb := redis.NewClient(redisOpts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis unreachable")
		}
		events.Register(relay.NewTransport(rdb))
		relayH = relay.NewHandlers(orch, relay.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL))
		log.Info().Str("provider", "relay").Msg("transport enabled")
	}

	if cfg.HasProvider("poll") {
		mb := poll.NewMailbox()
		events.Register(poll.NewTransport(mb))
		pollH = poll.NewHandlers(orch, mb, cfg.PollWait)
		go func() {
			ticker := time.NewTicker(cfg.MailboxIdle)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n := mb.PruneIdle(cfg.MailboxIdle); n > 0 {
						log.Info().Int("pruned", n).Msg("idle mailboxes removed")
					}
				}
			}
		}()
		log.Info().Str("provider", "poll").Msg("transport enabled")
	}

	r := router.SetupRouter(ctx, cfg, orch, wsCtl, relayH, pollH)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Deck server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
