// Package journal records the actions dispatched during an interactive
// session so they can be listed back with the history command.
//
// The journal lives in an in-memory SQLite database and disappears with the
// process.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Journal is an append-only log of session actions.
type Journal struct {
	conn      *sql.DB
	sessionID string
	now       func() time.Time
}

// Entry is one dispatched action and its effect.
type Entry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	Page      string    `json:"page"`
	Changed   bool      `json:"changed"`
}

// Stats summarizes the journal.
type Stats struct {
	Total   int `json:"total"`
	Changed int `json:"changed"`
	Ignored int `json:"ignored"`
}

// Open creates an empty in-memory journal tagged with a fresh session id.
func Open() (*Journal, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	j := &Journal{conn: conn, sessionID: uuid.NewString(), now: time.Now}
	if err := j.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("INSERT INTO sessions (id, started_at) VALUES (?, ?)",
		j.sessionID, j.now().UTC().Format(time.RFC3339Nano)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("registering session: %w", err)
	}
	return j, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.conn.Close()
}

// SessionID identifies the session this journal belongs to.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Record appends an action to the journal. SessionID and At are filled in
// when empty.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	if e.SessionID == "" {
		e.SessionID = j.sessionID
	}
	if e.At.IsZero() {
		e.At = j.now()
	}
	res, err := j.conn.ExecContext(ctx,
		"INSERT INTO actions (session_id, at, action, target, page, changed) VALUES (?, ?, ?, ?, ?, ?)",
		e.SessionID, e.At.UTC().Format(time.RFC3339Nano), e.Action, e.Target, e.Page, e.Changed,
	)
	if err != nil {
		return 0, fmt.Errorf("recording %s: %w", e.Action, err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit of the latest entries, oldest first. A limit
// of 0 or less returns every entry.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT id, session_id, at, action, COALESCE(target, ''), page, changed
		FROM (SELECT * FROM actions ORDER BY id DESC LIMIT ?) ORDER BY id ASC`
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.conn.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &e.SessionID, &at, &e.Action, &e.Target, &e.Page, &e.Changed); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Stats counts recorded actions and how many of them changed state.
func (j *Journal) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	row := j.conn.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(CASE WHEN changed THEN 1 ELSE 0 END), 0) FROM actions")
	if err := row.Scan(&s.Total, &s.Changed); err != nil {
		return Stats{}, fmt.Errorf("querying journal stats: %w", err)
	}
	s.Ignored = s.Total - s.Changed
	return s, nil
}
