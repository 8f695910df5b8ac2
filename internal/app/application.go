// Package app wires the signaling service together and owns its
// lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ANANDU-2000/PeerLearningPlatform/internal/api"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/auth"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/config"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/relay"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/room"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/session"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/store"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/websocket"
)

// Application coordinates all components. Initialization follows
// dependency order: store → sessions → auth → registry → relay →
// handler → HTTP.
type Application struct {
	cfg        *config.Config
	store      *store.Manager
	sessions   *session.Manager
	authorizer *auth.Authorizer
	registry   *room.Registry
	relay      *relay.Relay
	httpServer *http.Server
}

// NewApplication builds the component graph from configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	storeManager, err := store.NewManager(&store.Config{
		Path:            cfg.DatabasePath,
		MaxConnections:  10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	sessions := session.NewManager(storeManager, cfg.SessionCacheTTL)
	authorizer := auth.New(sessions, storeManager, cfg.AuthMode)
	registry := room.NewRegistry(sessions)
	relayer := relay.New(registry, cfg.RateLimit)

	wsHandler := websocket.NewHandler(authorizer, registry, relayer, websocket.Options{
		ReadLimit:        cfg.ReadLimit,
		SendBuffer:       cfg.SendBuffer,
		WriteTimeout:     cfg.WriteTimeout,
		PingInterval:     cfg.PingInterval,
		LatencyThreshold: cfg.LatencyThreshold,
	})
	opsServer := api.NewServer(sessions, registry, storeManager)

	router := setupRouter(cfg, wsHandler, opsServer)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return &Application{
		cfg:        cfg,
		store:      storeManager,
		sessions:   sessions,
		authorizer: authorizer,
		registry:   registry,
		relay:      relayer,
		httpServer: httpServer,
	}, nil
}

func setupRouter(cfg *config.Config, wsHandler *websocket.Handler, opsServer *api.Server) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	// Route shape mirrors the web application's ws/video/<session_id>/.
	r.GET("/ws/video/:session_id", wsHandler.HandleSession)
	opsServer.Register(r)

	return r
}

// Start begins serving. It returns once the listener is up or startup
// failed.
func (a *Application) Start(ctx context.Context) error {
	log.Info().Str("module", "app").Str("addr", a.httpServer.Addr).Msg("starting signaling service")

	serverErrCh := make(chan error, 1)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-time.After(100 * time.Millisecond):
		log.Info().Str("module", "app").Msg("signaling service started")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts components down in reverse dependency order: HTTP first so
// no new connections arrive, then the store.
func (a *Application) Stop(ctx context.Context) error {
	log.Info().Str("module", "app").Msg("shutting down")

	if err := a.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Str("module", "app").Msg("HTTP shutdown error")
	}

	if err := a.store.Close(); err != nil {
		log.Error().Err(err).Str("module", "app").Msg("store close error")
	}

	log.Info().Str("module", "app").Msg("shutdown complete")
	return nil
}
