package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/comigor/advisor-go/internal/logger"
)

// SQLite persists values in a single-table SQLite database.
// The database is opened lazily and created on first use.
// If opening the DB or executing queries fails, the store falls back to in-memory values.
type SQLite struct {
	path string

	once    sync.Once
	db      *sql.DB
	initErr error

	fallback *Memory
}

// NewSQLite returns a store backed by the database file at path.
func NewSQLite(path string) *SQLite {
	if path == "" {
		path = "advisor.db"
	}
	return &SQLite{path: path, fallback: NewMemory()}
}

// initDB opens the database and creates the kv table if it doesn't exist.
func (s *SQLite) initDB() {
	var err error
	s.db, err = sql.Open("sqlite", "file:"+s.path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		s.initErr = err
		logger.L.Warn("sqlite open failed; using in-memory store", "path", s.path, "error", err)
		return
	}
	if _, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at DATETIME
    );`); err != nil {
		s.initErr = err
		logger.L.Warn("sqlite table creation failed; using in-memory store", "path", s.path, "error", err)
		return
	}
	logger.L.Info("sqlite store initialized", "path", s.path)
}

func (s *SQLite) ready() bool {
	s.once.Do(s.initDB)
	return s.initErr == nil && s.db != nil
}

// Get reads key from the database, or from memory when the database is unavailable.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	if s.ready() {
		var value string
		err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, key).Scan(&value)
		switch {
		case err == nil:
			return value, true, nil
		case errors.Is(err, sql.ErrNoRows):
			return s.fallback.Get(ctx, key)
		default:
			logger.L.Error("sqlite read failed; falling back to memory", "key", key, "error", err)
		}
	}
	return s.fallback.Get(ctx, key)
}

// Set writes key to the database when available and always keeps an
// in-memory copy as fallback.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	if s.ready() {
		_, err := s.db.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at) VALUES (?,?,?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`,
			key, value, time.Now().UTC())
		if err != nil {
			logger.L.Error("failed to store value in sqlite; falling back to memory", "key", key, "error", err)
		}
	}
	return s.fallback.Set(ctx, key, value)
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
