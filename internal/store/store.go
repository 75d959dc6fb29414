// Package store keeps per-browser-session wizard state in SQLite. The
// default DSN is ":memory:", so nothing survives a server restart and no
// state persists across sessions beyond their own lifetime.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/knasser/eduparser/internal/model"

	_ "modernc.org/sqlite"
)

const sessionTTL = 24 * time.Hour

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// An in-memory database exists per connection; keep a single one so
	// every request sees the same data.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		stage TEXT NOT NULL DEFAULT 'upload',
		raw_text TEXT NOT NULL DEFAULT '',
		questions TEXT NOT NULL DEFAULT '[]',
		api_key TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// GetSession returns the session with the given ID, or nil if it does
// not exist or has expired.
func (s *Store) GetSession(id string) (*model.Session, error) {
	var sess model.Session
	var questionsJSON string
	err := s.db.QueryRow(
		`SELECT id, stage, raw_text, questions, api_key, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Stage, &sess.RawText, &questionsJSON, &sess.APIKey, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Since(sess.UpdatedAt) > sessionTTL {
		_ = s.DeleteSession(id)
		return nil, nil
	}
	if err := json.Unmarshal([]byte(questionsJSON), &sess.Questions); err != nil {
		return nil, fmt.Errorf("decode session questions: %w", err)
	}
	return &sess, nil
}

// SaveSession upserts a session row.
func (s *Store) SaveSession(sess *model.Session) error {
	questions := sess.Questions
	if questions == nil {
		questions = []model.Question{}
	}
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encode session questions: %w", err)
	}
	sess.UpdatedAt = time.Now()
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, stage, raw_text, questions, api_key, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			stage = excluded.stage,
			raw_text = excluded.raw_text,
			questions = excluded.questions,
			api_key = excluded.api_key,
			updated_at = excluded.updated_at`,
		sess.ID, sess.Stage, sess.RawText, string(questionsJSON), sess.APIKey, sess.CreatedAt, sess.UpdatedAt,
	)
	return err
}

// DeleteSession removes a session row.
func (s *Store) DeleteSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// CleanupExpiredSessions removes all sessions idle longer than the TTL.
func (s *Store) CleanupExpiredSessions() error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE updated_at < ?`, time.Now().Add(-sessionTTL))
	return err
}

// SessionCount returns the number of live session rows.
func (s *Store) SessionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	return count, err
}
