package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"drerwrk/model"
)

func CreateUser(dbtx *sqlx.DB, user model.User) error {
	_, err := dbtx.Exec(`INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return nil
}

// GetUserByEmail returns nil when no account exists for the address.
func GetUserByEmail(dbtx *sqlx.DB, email string) (*model.User, error) {
	var user model.User
	err := dbtx.Get(&user, `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func CreateSession(dbtx *sqlx.DB, session model.Session) error {
	_, err := dbtx.Exec(`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// ResolveSession maps a bearer token to the identity it was issued for.
// Returns nil for unknown or expired tokens.
func ResolveSession(dbtx *sqlx.DB, token string, now time.Time) (*model.Identity, error) {
	var identity model.Identity
	err := dbtx.Get(&identity, `
		SELECT u.id, u.email
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = ? AND s.expires_at > ?`, token, now)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return &identity, nil
}

func DeleteSession(dbtx *sqlx.DB, token string) error {
	if _, err := dbtx.Exec(`DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
