// Package storage is the client's durable local store: the persisted
// bearer token and the review history log.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the local store. A Postgres URL in ELEVATE_DATABASE_URL
// takes precedence; otherwise a SQLite file under the data directory is
// created on first use.
func Connect() (*sqlx.DB, error) {
	if url := os.Getenv("ELEVATE_DATABASE_URL"); url != "" {
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}
		return db, initializeSchema(db)
	}

	dataDir := os.Getenv("ELEVATE_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "elevate.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, initializeSchema(db)
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS credentials (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create credentials table: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS review_history (
			id TEXT PRIMARY KEY,
			question_set_id INTEGER NOT NULL,
			question_set_name TEXT NOT NULL,
			total_questions INTEGER NOT NULL,
			average_score INTEGER NOT NULL,
			time_spent INTEGER NOT NULL,
			submitted BOOLEAN NOT NULL,
			completed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_history table: %v", err)
	}

	return nil
}
