package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. Dates are stored as RFC 3339
// strings so lexical ordering matches chronological ordering.
const schema = `
CREATE TABLE IF NOT EXISTS expense_records (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    text TEXT NOT NULL,
    amount REAL NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expense_records_user_created ON expense_records(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_expense_records_user_date ON expense_records(user_id, date);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
