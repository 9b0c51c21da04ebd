package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// tokenKey is the single credentials row holding the bearer token
const tokenKey = "auth_token"

// CredentialStore persists the bearer token between runs
type CredentialStore struct {
	db *sqlx.DB
}

// NewCredentialStore creates a new credential store over an open connection
func NewCredentialStore(db *sqlx.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Token returns the persisted bearer token, or "" when none is stored
func (s *CredentialStore) Token() (string, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM credentials WHERE key = $1", tokenKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %v", err)
	}
	return value, nil
}

// SaveToken persists the bearer token, replacing any previous value
func (s *CredentialStore) SaveToken(token string) error {
	_, err := s.db.Exec(`
		INSERT INTO credentials (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = CURRENT_TIMESTAMP
	`, tokenKey, token)
	if err != nil {
		return fmt.Errorf("failed to save token: %v", err)
	}
	return nil
}

// DeleteToken removes the persisted bearer token. Deleting an absent token
// is not an error.
func (s *CredentialStore) DeleteToken() error {
	_, err := s.db.Exec("DELETE FROM credentials WHERE key = $1", tokenKey)
	if err != nil {
		return fmt.Errorf("failed to delete token: %v", err)
	}
	return nil
}
