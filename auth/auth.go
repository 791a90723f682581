// Package auth is the identity collaborator: credential issuance and bearer
// resolution. Handlers elsewhere depend only on RequireUser.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"drerwrk/database"
	"drerwrk/model"
)

// ErrUnauthorized is returned for a missing, unknown or expired bearer
// credential.
var ErrUnauthorized = errors.New("user not authenticated or session invalid")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueSession creates a bearer token for the user, valid for ttl.
func IssueSession(conn *sqlx.DB, userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	session := model.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := database.CreateSession(conn, session); err != nil {
		return "", err
	}
	return token, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireUser resolves the request's bearer credential to an identity.
// Returns ErrUnauthorized when the credential is absent or invalid.
func RequireUser(conn *sqlx.DB, r *http.Request) (*model.Identity, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, ErrUnauthorized
	}
	identity, err := database.ResolveSession(conn, token, time.Now())
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, ErrUnauthorized
	}
	return identity, nil
}
