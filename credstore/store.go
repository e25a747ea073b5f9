// Package credstore persists the authentication token and user id across
// process starts, in a local SQLite database. It is the client's analog of
// a browser's local storage.
package credstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"taskboard-client/session"
)

const (
	keyToken  = "token"
	keyUserID = "userId"
)

// Store is a SQLite-backed session.TokenStore.
type Store struct {
	db *sql.DB
}

// Open creates the database and schema as needed. Parent directories are
// created for file-backed paths.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("credstore: empty path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("credstore: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("credstore: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("credstore: connect: %w", err)
	}
	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
    CREATE TABLE IF NOT EXISTS credentials (
        name TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("credstore: create schema: %w", err)
	}
	return nil
}

// Load returns the stored credentials; absence is not an error.
func (s *Store) Load() (session.Credentials, error) {
	token, err := s.get(keyToken)
	if err != nil {
		return session.Credentials{}, err
	}
	userID, err := s.get(keyUserID)
	if err != nil {
		return session.Credentials{}, err
	}
	return session.Credentials{Token: token, UserID: userID}, nil
}

// Save upserts the credentials.
func (s *Store) Save(creds session.Credentials) error {
	if err := s.set(keyToken, creds.Token); err != nil {
		return err
	}
	return s.set(keyUserID, creds.UserID)
}

// Clear removes every stored credential.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM credentials`); err != nil {
		return fmt.Errorf("credstore: clear: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(name string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM credentials WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credstore: read %s: %w", name, err)
	}
	return value, nil
}

func (s *Store) set(name, value string) error {
	query := `
        INSERT INTO credentials (name, value, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
    `
	if _, err := s.db.Exec(query, name, value); err != nil {
		return fmt.Errorf("credstore: write %s: %w", name, err)
	}
	return nil
}
