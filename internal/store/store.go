// Package store adapts the booking system's SQLite database as the
// read-only session/booking collaborator. The signaling core only reads
// here; all writes belong to the booking application.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/interfaces"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

// Config holds connection pool settings for the SQLite database.
type Config struct {
	Path            string
	MaxConnections  int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Manager implements interfaces.SessionStore on top of SQLite.
type Manager struct {
	db *sql.DB
}

// NewManager opens the database and ensures the schema exists. The DSN
// options match what the booking application runs with: WAL journal,
// busy timeout, enforced foreign keys.
func NewManager(cfg *Config) (*Manager, error) {
	db, err := sql.Open("sqlite3", cfg.Path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Info().Str("module", "store").Str("path", cfg.Path).Msg("session store opened")
	return &Manager{db: db}, nil
}

// GetSession returns the session record for sessionID.
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*types.Session, error) {
	query := `
		SELECT id, mentor_id, title, start_time, end_time, status
		FROM sessions
		WHERE id = ?
	`

	row := m.db.QueryRowContext(ctx, query, sessionID)

	var session types.Session
	var endTime sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.MentorID,
		&session.Title,
		&session.StartTime,
		&endTime,
		&session.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, interfaces.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if endTime.Valid {
		session.EndTime = &endTime.Time
	}

	return &session, nil
}

// GetBooking returns the booking row for (sessionID, userID).
func (m *Manager) GetBooking(ctx context.Context, sessionID, userID string) (*types.Booking, error) {
	query := `
		SELECT session_id, learner_id, status, payment_complete
		FROM bookings
		WHERE session_id = ? AND learner_id = ?
	`

	row := m.db.QueryRowContext(ctx, query, sessionID, userID)

	var booking types.Booking
	err := row.Scan(
		&booking.SessionID,
		&booking.LearnerID,
		&booking.Status,
		&booking.PaymentComplete,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, interfaces.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}

	return &booking, nil
}

// HealthCheck verifies database connectivity.
func (m *Manager) HealthCheck(ctx context.Context) error {
	var one int
	if err := m.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for migrations and tests.
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Close closes the database connection.
func (m *Manager) Close() error {
	return m.db.Close()
}
