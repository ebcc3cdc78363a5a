package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"snipr/internal/platform/config"
)

// Schema holds the single table this application owns. The alias
// column is the integer form of the alias (the primary key); the
// string form is derived through the codec and never stored.
const Schema = `
CREATE TABLE IF NOT EXISTS urls (
	alias INTEGER PRIMARY KEY,
	target TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL
);
`

func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
