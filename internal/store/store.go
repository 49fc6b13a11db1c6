// Package store keeps a local sqlite copy of the user's reservation
// history. It is refreshed after every successful history fetch and
// feeds the reminder loop; it is never the source of truth for
// mutations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mdayat/artics-communication/internal/models"
)

// DB wraps sql.DB for the local cache.
type DB struct {
	*sql.DB
}

// NewDB opens the database at path and runs migrations.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL,
			room_name TEXT NOT NULL,
			slot_id TEXT NOT NULL,
			start_date DATETIME NOT NULL,
			end_date DATETIME NOT NULL,
			canceled BOOLEAN NOT NULL DEFAULT 0,
			canceled_at DATETIME,
			reserved_at DATETIME NOT NULL,
			reminded BOOLEAN NOT NULL DEFAULT 0,
			synced_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reservations_start_date
			ON reservations(start_date)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// ReplaceHistory swaps the cached history for the given list. The
// reminded flag survives the swap so a reservation is only ever
// reminded once.
func (db *DB) ReplaceHistory(ctx context.Context, reservations []*models.UserReservation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	reminded := make(map[string]bool)
	rows, err := tx.QueryContext(ctx, "SELECT id FROM reservations WHERE reminded = 1")
	if err != nil {
		return fmt.Errorf("load reminded ids: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan reminded id: %w", err)
		}
		reminded[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate reminded ids: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM reservations"); err != nil {
		return fmt.Errorf("clear reservations: %w", err)
	}

	now := time.Now().UTC()
	for _, r := range reservations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO reservations
				(id, room_id, room_name, slot_id, start_date, end_date, canceled, canceled_at, reserved_at, reminded, synced_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.MeetingRoom.ID, r.MeetingRoom.Name, r.TimeSlot.ID,
			r.TimeSlot.StartDate, r.TimeSlot.EndDate,
			r.Canceled, r.CanceledAt, r.ReservedAt, reminded[r.ID], now,
		)
		if err != nil {
			return fmt.Errorf("insert reservation %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// UpcomingUnreminded returns non-canceled reservations starting within
// (now, until] that have not been reminded yet.
func (db *DB) UpcomingUnreminded(ctx context.Context, now, until time.Time) ([]*models.UserReservation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, room_id, room_name, slot_id, start_date, end_date, canceled, canceled_at, reserved_at
		FROM reservations
		WHERE canceled = 0 AND reminded = 0 AND start_date > ? AND start_date <= ?
		ORDER BY start_date`,
		now, until,
	)
	if err != nil {
		return nil, fmt.Errorf("query upcoming reservations: %w", err)
	}
	defer rows.Close()

	var out []*models.UserReservation
	for rows.Next() {
		var r models.UserReservation
		err := rows.Scan(
			&r.ID, &r.MeetingRoom.ID, &r.MeetingRoom.Name, &r.TimeSlot.ID,
			&r.TimeSlot.StartDate, &r.TimeSlot.EndDate,
			&r.Canceled, &r.CanceledAt, &r.ReservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// MarkReminded records that a reminder went out for the reservation.
func (db *DB) MarkReminded(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "UPDATE reservations SET reminded = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark reminded %s: %w", id, err)
	}
	return nil
}

// CachedHistory returns the locally cached history, newest reservation
// first, for offline rendering.
func (db *DB) CachedHistory(ctx context.Context) ([]*models.UserReservation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, room_id, room_name, slot_id, start_date, end_date, canceled, canceled_at, reserved_at
		FROM reservations
		ORDER BY reserved_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query cached history: %w", err)
	}
	defer rows.Close()

	var out []*models.UserReservation
	for rows.Next() {
		var r models.UserReservation
		err := rows.Scan(
			&r.ID, &r.MeetingRoom.ID, &r.MeetingRoom.Name, &r.TimeSlot.ID,
			&r.TimeSlot.StartDate, &r.TimeSlot.EndDate,
			&r.Canceled, &r.CanceledAt, &r.ReservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
