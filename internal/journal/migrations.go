package journal

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

func (j *Journal) migrate() error {
	if _, err := j.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := j.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows: fresh database.
		version = 0
	}

	if version < 1 {
		if err := j.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}
	return nil
}

// migrateV1 creates the session and action tables.
func (j *Journal) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id          TEXT PRIMARY KEY,
			started_at  TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS actions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT NOT NULL REFERENCES sessions(id),
			at          TEXT NOT NULL,
			action      TEXT NOT NULL,
			target      TEXT,
			page        TEXT NOT NULL,
			changed     BOOLEAN NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_actions_session ON actions(session_id)`,
	}

	tx, err := j.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration statement: %w", err)
		}
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}
	return tx.Commit()
}
