// Package storage persists a history of booking and registry events.
// The journal is a diagnostic record fed from the event bus; the
// in-memory engine remains the source of truth.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/Memartyes/y-lab-uni-sub000/internal/events"
)

// Journal is an append-only SQLite log of engine events.
type Journal struct {
	db  *sql.DB
	log zerolog.Logger
}

// Entry is one journal record.
type Entry struct {
	ID            int64     `json:"id"`
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	Room          string    `json:"room"`
	NewRoom       string    `json:"new_room,omitempty"`
	WorkspaceID   string    `json:"workspace_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	BookingRef    string    `json:"booking_ref,omitempty"`
	BookingTime   time.Time `json:"booking_time,omitempty"`
	DurationHours int       `json:"duration_hours,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Open opens the journal database at path and runs migrations.
func Open(path string, logger *zerolog.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}

	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}
	return &Journal{db: db, log: log}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS booking_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT UNIQUE NOT NULL,
			type TEXT NOT NULL,
			room TEXT NOT NULL,
			new_room TEXT,
			workspace_id TEXT,
			user_id TEXT,
			booking_ref TEXT,
			booking_time DATETIME,
			duration_hours INTEGER,
			occurred_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_events_room ON booking_events(room, occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_events_user ON booking_events(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_events_type ON booking_events(type)`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// PingContext checks database liveness for readiness probes.
func (j *Journal) PingContext(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Record appends one event. Duplicate event ids are ignored so a bus
// re-delivery cannot double-count.
func (j *Journal) Record(ctx context.Context, evt events.Event) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO booking_events (
			event_id, type, room, new_room, workspace_id, user_id,
			booking_ref, booking_time, duration_hours, occurred_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.ID, string(evt.Type), evt.Room, evt.NewRoom, evt.WorkspaceID, evt.UserID,
		evt.BookingRef, nullableTime(evt.BookingTime), evt.DurationHours, evt.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("record event %s: %w", evt.ID, err)
	}
	return nil
}

// Attach subscribes the journal to every event type on the bus.
// Write failures are logged and swallowed so persistence trouble never
// fails a booking.
func (j *Journal) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, evt events.Event) error {
		if err := j.Record(ctx, evt); err != nil {
			j.log.Error().Err(err).Str("event", evt.ID).Msg("journal write failed")
			return err
		}
		return nil
	})
}

// RoomHistory returns the latest entries for a room, newest first.
func (j *Journal) RoomHistory(ctx context.Context, roomName string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, event_id, type, room, new_room, workspace_id, user_id,
		       booking_ref, booking_time, duration_hours, occurred_at
		FROM booking_events
		WHERE room = ?
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`,
		roomName, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// UserHistory returns the latest booking entries for a user, newest first.
func (j *Journal) UserHistory(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, event_id, type, room, new_room, workspace_id, user_id,
		       booking_ref, booking_time, duration_hours, occurred_at
		FROM booking_events
		WHERE user_id = ?
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// CountByType returns how many events of the type were recorded.
func (j *Journal) CountByType(ctx context.Context, typ events.Type) (int, error) {
	var count int
	err := j.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM booking_events WHERE type = ?",
		string(typ),
	).Scan(&count)
	return count, err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var newRoom, workspaceID, userID, bookingRef sql.NullString
		var bookingTime sql.NullTime
		var duration sql.NullInt64
		if err := rows.Scan(
			&e.ID, &e.EventID, &e.Type, &e.Room, &newRoom, &workspaceID, &userID,
			&bookingRef, &bookingTime, &duration, &e.OccurredAt,
		); err != nil {
			return nil, err
		}
		e.NewRoom = newRoom.String
		e.WorkspaceID = workspaceID.String
		e.UserID = userID.String
		e.BookingRef = bookingRef.String
		if bookingTime.Valid {
			e.BookingTime = bookingTime.Time
		}
		e.DurationHours = int(duration.Int64)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
