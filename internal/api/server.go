// Package api is the read-only HTTP surface next to the signaling
// endpoint: health, room occupancy and runtime stats. There are no
// mutation endpoints; session and booking writes belong to the booking
// application.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ANANDU-2000/PeerLearningPlatform/internal/room"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/session"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

// HealthChecker is the slice of the store the health endpoint needs.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server serves the ops endpoints.
type Server struct {
	sessions *session.Manager
	registry *room.Registry
	store    HealthChecker
	started  time.Time
}

// NewServer creates the ops API server.
func NewServer(sessions *session.Manager, registry *room.Registry, store HealthChecker) *Server {
	return &Server{
		sessions: sessions,
		registry: registry,
		store:    store,
		started:  time.Now(),
	}
}

// Register mounts the ops routes on the gin engine.
func (s *Server) Register(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/rooms/:session_id", s.roomState)
	api.GET("/stats", s.stats)
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// roomState reports current occupancy for a session's room. A session
// with no open room answers with an empty participant list rather than
// an error, so dashboards can poll it before a session starts.
func (s *Server) roomState(c *gin.Context) {
	sessionID := c.Param("session_id")

	participants := s.registry.Participants(sessionID)
	if participants == nil {
		participants = []types.Participant{}
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":   sessionID,
		"participants": participants,
		"count":        len(participants),
	})
}

func (s *Server) stats(c *gin.Context) {
	stats := s.registry.Stats()
	c.JSON(http.StatusOK, gin.H{
		"active_rooms":       stats["active_rooms"],
		"total_connections":  stats["total_connections"],
		"session_cache_size": s.sessions.CacheSize(),
		"uptime_seconds":     int(time.Since(s.started).Seconds()),
	})
}
