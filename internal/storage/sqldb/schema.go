package sqldb

import (
	"context"
	"database/sql"
	"fmt"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id        BIGSERIAL PRIMARY KEY,
	name      TEXT NOT NULL,
	date      TEXT NOT NULL,
	owner     TEXT NOT NULL,
	notes     TEXT,
	status    TEXT NOT NULL CHECK (status IN ('pending', 'in_progress', 'completed')),
	photo_ref TEXT
);
`

// AUTOINCREMENT keeps SQLite from handing out the id of a deleted row.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT NOT NULL,
	date      TEXT NOT NULL,
	owner     TEXT NOT NULL,
	notes     TEXT,
	status    TEXT NOT NULL CHECK (status IN ('pending', 'in_progress', 'completed')),
	photo_ref TEXT
);
`

const statusIndex = `CREATE INDEX IF NOT EXISTS idx_projects_status ON projects (status);`

// EnsureSchema creates the projects table and its index if they are missing.
// It is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	ddl := postgresSchema
	if d.Name == DialectSQLite {
		ddl = sqliteSchema
	}

	for _, stmt := range []string{ddl, statusIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema init: %w", err)
		}
	}
	return nil
}
