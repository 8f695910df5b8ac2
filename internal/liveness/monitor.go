// Package liveness runs the per-connection ping task. It detects dead
// connections independently of message traffic: a failed ping send is a
// terminal signal for the task, while the transport layer owns the
// actual socket close.
package liveness

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANANDU-2000/PeerLearningPlatform/internal/metrics"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/interfaces"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

// Monitor pings one connection at a fixed interval and tracks round-trip
// latency from the client's heartbeat replies.
type Monitor struct {
	conn      interfaces.Conn
	userID    string
	sessionID string
	interval  time.Duration
	threshold time.Duration

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	pingCount  atomic.Int64
	lastPingAt atomic.Int64 // unix millis of the latest ping sent
	lastPongAt atomic.Int64 // unix millis of the latest heartbeat seen
}

// NewMonitor creates a monitor for one connection. interval is the ping
// period; threshold is the round-trip latency above which a diagnostic
// warning is logged (the connection is never dropped for latency alone).
func NewMonitor(conn interfaces.Conn, userID, sessionID string, interval, threshold time.Duration) *Monitor {
	return &Monitor{
		conn:      conn,
		userID:    userID,
		sessionID: sessionID,
		interval:  interval,
		threshold: threshold,
		done:      make(chan struct{}),
	}
}

// Start launches the ping task. It runs until Stop is called, the parent
// context is cancelled, or a ping send fails.
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := types.NowMillis()
			err := m.conn.WriteJSON(types.PingEvent{Type: types.EventPing, Timestamp: now})
			if err != nil {
				// Degraded connection: stop pinging and leave the
				// close to the transport layer.
				metrics.LivenessFailures.Inc()
				log.Warn().
					Err(err).
					Str("module", "liveness").
					Str("user_id", m.userID).
					Str("session_id", m.sessionID).
					Msg("ping send failed, stopping liveness task")
				return
			}
			m.pingCount.Add(1)
			m.lastPingAt.Store(now)
		}
	}
}

// Pong settles a heartbeat reply. sentMillis is the timestamp the client
// echoed from the ping (zero when the client sent a bare heartbeat).
func (m *Monitor) Pong(sentMillis int64) {
	now := types.NowMillis()
	m.lastPongAt.Store(now)

	if sentMillis <= 0 {
		return
	}
	rtt := time.Duration(now-sentMillis) * time.Millisecond
	if rtt > m.threshold {
		log.Warn().
			Str("module", "liveness").
			Str("user_id", m.userID).
			Str("session_id", m.sessionID).
			Dur("rtt", rtt).
			Msg("high signaling round-trip latency")
	}
}

// Stop cancels the ping task and waits for it to finish, so no ping is
// sent after the caller proceeds with connection teardown. Safe to call
// more than once, after a send-failure exit, and on a monitor that was
// never started.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
		} else {
			// No task was launched, so nothing else will close done.
			close(m.done)
		}
	})
	<-m.done
}

// PingCount returns how many pings were sent.
func (m *Monitor) PingCount() int64 {
	return m.pingCount.Load()
}

// LastPong returns the unix-millisecond time of the latest heartbeat,
// zero if none arrived yet.
func (m *Monitor) LastPong() int64 {
	return m.lastPongAt.Load()
}
