package store

import (
	"database/sql"
	"fmt"
)

// Schema mirrors the sessions and bookings tables owned by the booking
// application. CREATE IF NOT EXISTS keeps a standalone deployment
// bootable against an empty database without touching existing data.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	mentor_id  TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	start_time TIMESTAMP NOT NULL,
	end_time   TIMESTAMP,
	status     TEXT NOT NULL DEFAULT 'scheduled'
		CHECK (status IN ('scheduled', 'in_progress', 'completed', 'cancelled'))
);

CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
CREATE INDEX IF NOT EXISTS idx_sessions_mentor ON sessions(mentor_id);

CREATE TABLE IF NOT EXISTS bookings (
	session_id       TEXT NOT NULL,
	learner_id       TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'confirmed', 'rejected', 'cancelled', 'completed')),
	payment_complete INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (session_id, learner_id),
	FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_bookings_learner ON bookings(learner_id);
`

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
