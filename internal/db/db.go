package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/hamlet/internal/config"
)

// dsnParams makes every transaction BEGIN IMMEDIATE so writers serialize
// on the database lock instead of failing on upgrade.
const dsnParams = "?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"

var (
	db     *sqlx.DB
	dbErr  error
	dbOnce sync.Once
)

// GetDB returns the database connection, initializing if needed
func GetDB() (*sqlx.DB, error) {
	dbOnce.Do(func() {
		var path string
		path, dbErr = config.DBPath()
		if dbErr != nil {
			return
		}
		db, dbErr = Open(path)
	})
	return db, dbErr
}

// Open opens the database at path and brings its schema up to date.
func Open(path string) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sqlx.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := InitSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return conn, nil
}

// DSN returns the driver connection string for a database file.
func DSN(path string) string {
	return "file:" + path + dsnParams
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
