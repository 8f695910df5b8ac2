package websocket

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ANANDU-2000/PeerLearningPlatform/internal/auth"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/liveness"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/metrics"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/relay"
	"github.com/ANANDU-2000/PeerLearningPlatform/internal/room"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/interfaces"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:      func(r *http.Request) bool { return true },
	HandshakeTimeout: 10 * time.Second,
}

// Options tunes per-connection behavior.
type Options struct {
	ReadLimit        int64
	SendBuffer       int
	WriteTimeout     time.Duration
	PingInterval     time.Duration
	LatencyThreshold time.Duration
}

// Handler accepts signaling connections on /ws/video/:session_id.
// Authorization happens before the upgrade so refused clients get a
// proper HTTP status instead of a half-open socket.
type Handler struct {
	authorizer *auth.Authorizer
	registry   *room.Registry
	relay      *relay.Relay
	opts       Options
}

// NewHandler wires the upgrade handler.
func NewHandler(authorizer *auth.Authorizer, registry *room.Registry, relayer *relay.Relay, opts Options) *Handler {
	return &Handler{
		authorizer: authorizer,
		registry:   registry,
		relay:      relayer,
		opts:       opts,
	}
}

// HandleSession is the gin handler for the signaling endpoint. Identity
// arrives as user_id/user_name request parameters; an empty user_id is
// an unauthenticated connection and is refused before upgrade.
func (h *Handler) HandleSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	userID := c.Query("user_id")
	userName := c.Query("user_name")

	if userID == "" {
		metrics.JoinsRejected.WithLabelValues("unauthenticated").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if !types.IsValidUserID(userID) {
		metrics.JoinsRejected.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": types.ErrInvalidUserID.Error()})
		return
	}
	if userName == "" {
		userName = userID
	}

	role, err := h.authorizer.Authorize(c.Request.Context(), userID, sessionID)
	if err != nil {
		status, reason := authFailure(err)
		metrics.JoinsRejected.WithLabelValues(reason).Inc()
		log.Info().
			Err(err).
			Str("module", "websocket").
			Str("user_id", userID).
			Str("session_id", sessionID).
			Msg("connection refused")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "websocket").Msg("upgrade failed")
		return
	}

	conn := NewConnection(ws, h.opts.SendBuffer, h.opts.WriteTimeout)
	conn.SetReadLimit(h.opts.ReadLimit)

	member := room.NewMember(uuid.NewString(), userID, userName, role, conn)

	rm, err := h.registry.Join(c.Request.Context(), sessionID, member)
	if err != nil {
		// The session vanished between authorization and join.
		log.Warn().
			Err(err).
			Str("module", "websocket").
			Str("session_id", sessionID).
			Msg("room join failed after upgrade")
		_ = conn.WriteJSON(types.NewError("room unavailable"))
		_ = conn.Close()
		return
	}

	// The request context dies when this handler returns, so the
	// monitor runs off the background context; its lifetime is owned by
	// the read loop through Stop.
	monitor := liveness.NewMonitor(conn, userID, sessionID, h.opts.PingInterval, h.opts.LatencyThreshold)
	monitor.Start(context.Background())

	metrics.ActiveConnections.Inc()
	log.Info().
		Str("module", "websocket").
		Str("user_id", userID).
		Str("session_id", sessionID).
		Str("role", role).
		Msg("connection established")

	go h.readLoop(rm, member, conn, monitor)
}

// readLoop pumps inbound frames for one connection. Processing is
// sequential, which preserves per-sender ordering through the relay.
func (h *Handler) readLoop(rm *room.Room, member *room.Member, conn *Connection, monitor *liveness.Monitor) {
	defer func() {
		// The liveness task is cancelled and awaited first, so no ping
		// can fire against a connection mid-teardown. Leave is
		// idempotent: a voluntary leave followed by the socket close
		// announces the departure exactly once.
		monitor.Stop()
		h.registry.Leave(rm, member)
		_ = conn.Close()
		metrics.ActiveConnections.Dec()
		log.Info().
			Str("module", "websocket").
			Str("user_id", member.UserID).
			Str("session_id", rm.SessionID()).
			Msg("connection closed")
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("module", "websocket").
					Str("user_id", member.UserID).
					Msg("read error")
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		if closed := h.relay.Handle(rm, member, monitor, data); closed {
			return
		}
	}
}

// authFailure maps an authorization error to an HTTP refusal.
func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, interfaces.ErrSessionNotFound), errors.Is(err, interfaces.ErrSessionEnded):
		return http.StatusNotFound, "room_unavailable"
	case errors.Is(err, interfaces.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
