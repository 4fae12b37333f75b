package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Database is the optional snapshot archive connection. The dashboard runs
// fully without it; it only adds history.
type Database struct {
	conn *sql.DB
	dsn  string
}

// NewDatabase opens the archive database.
func NewDatabase(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		conn: db,
		dsn:  dsn,
	}, nil
}

// Close closes the database connection.
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries.
func (db *Database) DB() *sql.DB {
	return db.conn
}

// RunMigrations applies the archive schema in order.
func (db *Database) RunMigrations() error {
	log.Println("Running archive migrations...")

	if err := db.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := []struct {
		version string
		query   string
	}{
		{
			version: "001_create_trend_snapshots",
			query: `
				CREATE TABLE IF NOT EXISTS trend_snapshots (
					snapshot_id BIGSERIAL PRIMARY KEY,
					generated_at TIMESTAMPTZ NOT NULL,
					row_count INT NOT NULL,
					warnings TEXT[] NOT NULL DEFAULT '{}',
					report JSONB NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_trend_snapshots_generated_at
					ON trend_snapshots (generated_at DESC);`,
		},
		{
			version: "002_create_chat_messages",
			query: `
				CREATE TABLE IF NOT EXISTS chat_messages (
					message_id BIGSERIAL PRIMARY KEY,
					session_id UUID NOT NULL,
					question TEXT NOT NULL,
					answer TEXT NOT NULL,
					asked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_chat_messages_session
					ON chat_messages (session_id, asked_at);`,
		},
	}

	for _, m := range migrations {
		if err := db.runMigration(m.version, m.query); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", m.version, err)
		}
	}

	log.Println("✓ All archive migrations completed")
	return nil
}

// createMigrationsTable creates a table to track which migrations have run.
func (db *Database) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	_, err := db.conn.Exec(query)
	return err
}

func (db *Database) runMigration(version, query string) error {
	var applied bool
	err := db.conn.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
	).Scan(&applied)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(query); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("  ✓ Applied migration %s", version)
	return nil
}
