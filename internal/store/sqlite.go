package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the SQLite-backed implementation of RecordStore and Directory.
type DB struct {
	conn *sql.DB
}

// Open opens the SQLite database and creates tables if needed. Busy
// timeout keeps concurrent member upserts serializing on the unique
// email index instead of failing fast.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := createTables(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func createTables(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			floor_id INTEGER,
			mac_address TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			last_seen_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS guests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			mac_address TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS event_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			attendee_name TEXT NOT NULL,
			attendee_email TEXT NOT NULL,
			mac_address TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS floors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			floor_number INTEGER NOT NULL,
			floor_name TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1
		);

		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1
		);

		CREATE INDEX IF NOT EXISTS idx_guests_created ON guests(created_at);
		CREATE INDEX IF NOT EXISTS idx_event_log_event ON event_log(event_id);
		CREATE INDEX IF NOT EXISTS idx_event_log_created ON event_log(created_at);
	`)
	return err
}

// UpsertMember writes the member row for email, updating name, floor and
// MAC in place when the member already exists. The unique email index is
// the serialization point; there is never more than one row per email.
func (db *DB) UpsertMember(ctx context.Context, email, name string, floorID int64, mac string) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO members (email, name, floor_id, mac_address, created_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			floor_id = excluded.floor_id,
			mac_address = excluded.mac_address,
			last_seen_at = excluded.last_seen_at
		RETURNING id
	`, email, name, floorID, mac, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertGuest appends a guest registration.
func (db *DB) InsertGuest(ctx context.Context, name, email, mac string) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO guests (name, email, mac_address, created_at)
		VALUES (?, ?, ?, ?)
	`, name, email, mac, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert guest: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertEventAttendee appends an event attendance record.
func (db *DB) InsertEventAttendee(ctx context.Context, eventID int64, name, email, mac string) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO event_log (event_id, attendee_name, attendee_email, mac_address, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, eventID, name, email, mac, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert event attendee: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetMemberByEmail retrieves a member row, sql.ErrNoRows when absent.
func (db *DB) GetMemberByEmail(ctx context.Context, email string) (*Member, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, email, name, floor_id, mac_address, created_at, last_seen_at
		FROM members WHERE email = ?
	`, email)

	m := &Member{}
	var floorID sql.NullInt64
	if err := row.Scan(&m.ID, &m.Email, &m.Name, &floorID, &m.MAC, &m.CreatedAt, &m.LastSeenAt); err != nil {
		return nil, err
	}
	if floorID.Valid {
		m.FloorID = floorID.Int64
	}
	return m, nil
}

// ListActiveFloors returns the floors shown on the registration form,
// ordered by floor number.
func (db *DB) ListActiveFloors(ctx context.Context) ([]Floor, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, floor_number, floor_name, active
		FROM floors WHERE active = 1 ORDER BY floor_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var floors []Floor
	for rows.Next() {
		var f Floor
		if err := rows.Scan(&f.ID, &f.Number, &f.Name, &f.Active); err != nil {
			return nil, err
		}
		floors = append(floors, f)
	}
	return floors, rows.Err()
}

// ListActiveEvents returns the events shown on the registration form,
// ordered by name.
func (db *DB) ListActiveEvents(ctx context.Context) ([]Event, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, description, active
		FROM events WHERE active = 1 ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Active); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListFloors returns every floor, active or not, for the admin API.
func (db *DB) ListFloors(ctx context.Context) ([]Floor, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, floor_number, floor_name, active
		FROM floors ORDER BY floor_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var floors []Floor
	for rows.Next() {
		var f Floor
		if err := rows.Scan(&f.ID, &f.Number, &f.Name, &f.Active); err != nil {
			return nil, err
		}
		floors = append(floors, f)
	}
	return floors, rows.Err()
}

// ListEvents returns every event, active or not, for the admin API.
func (db *DB) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, description, active
		FROM events ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Active); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CreateFloor adds a floor, active by default.
func (db *DB) CreateFloor(ctx context.Context, number int, name string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO floors (floor_number, floor_name, active) VALUES (?, ?, 1)
	`, number, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetFloorActive toggles whether a floor is offered on the form.
func (db *DB) SetFloorActive(ctx context.Context, id int64, active bool) error {
	_, err := db.conn.ExecContext(ctx, `UPDATE floors SET active = ? WHERE id = ?`, active, id)
	return err
}

// DeleteFloor removes a floor.
func (db *DB) DeleteFloor(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM floors WHERE id = ?`, id)
	return err
}

// CreateEvent adds an event, active by default.
func (db *DB) CreateEvent(ctx context.Context, name, description string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO events (name, description, active) VALUES (?, ?, 1)
	`, name, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetEventActive toggles whether an event is offered on the form.
func (db *DB) SetEventActive(ctx context.Context, id int64, active bool) error {
	_, err := db.conn.ExecContext(ctx, `UPDATE events SET active = ? WHERE id = ?`, active, id)
	return err
}

// DeleteEvent removes an event.
func (db *DB) DeleteEvent(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

// Stats returns registration totals plus last-24h activity.
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	queries := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&s.TotalMembers, `SELECT COUNT(*) FROM members`, nil},
		{&s.TotalGuests, `SELECT COUNT(*) FROM guests`, nil},
		{&s.TotalEventAttendees, `SELECT COUNT(*) FROM event_log`, nil},
		{&s.ActiveEvents, `SELECT COUNT(*) FROM events WHERE active = 1`, nil},
		{&s.RecentMembers, `SELECT COUNT(*) FROM members WHERE last_seen_at >= ?`, []any{cutoff}},
		{&s.RecentGuests, `SELECT COUNT(*) FROM guests WHERE created_at >= ?`, []any{cutoff}},
		{&s.RecentEventAttendees, `SELECT COUNT(*) FROM event_log WHERE created_at >= ?`, []any{cutoff}},
	}

	for _, q := range queries {
		if err := db.conn.QueryRowContext(ctx, q.query, q.args...).Scan(q.dest); err != nil {
			return Stats{}, err
		}
	}
	return s, nil
}
