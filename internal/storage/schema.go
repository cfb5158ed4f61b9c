// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One row per practice document plus a small meta table.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS practices (
		id TEXT PRIMARY KEY,
		practice_type TEXT NOT NULL,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		duration INTEGER NOT NULL,
		progress REAL NOT NULL DEFAULT 0,
		document TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_practices_created ON practices(created_at);
	CREATE INDEX IF NOT EXISTS idx_practices_type ON practices(practice_type);
	`

	_, err := d.db.Exec(schema)
	return err
}
