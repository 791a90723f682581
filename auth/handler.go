package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"drerwrk/config"
	"drerwrk/database"
	"drerwrk/model"
	"drerwrk/respond"
)

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func SignupHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload credentialsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
		if payload.Email == "" || payload.Password == "" {
			respond.Error(w, http.StatusBadRequest, "Email and password are required.")
			return
		}

		existing, err := database.GetUserByEmail(conn, payload.Email)
		if err != nil {
			log.Printf("Error checking existing user: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Signup failed.")
			return
		}
		if existing != nil {
			respond.Error(w, http.StatusConflict, "An account with this email already exists.")
			return
		}

		hash, err := HashPassword(payload.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Signup failed.")
			return
		}

		user := model.User{ID: uuid.NewString(), Email: payload.Email, PasswordHash: hash}
		if err := database.CreateUser(conn, user); err != nil {
			log.Printf("Error creating user: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Signup failed.")
			return
		}

		fullName := payload.FullName
		if fullName == "" {
			fullName = payload.Email
		}
		if _, err := database.GetOrCreateProfile(conn, user.ID, fullName); err != nil {
			log.Printf("Error creating profile for %s: %v", user.ID, err)
		}

		respond.JSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Account created successfully!",
			"user":    model.Identity{UserID: user.ID, Email: user.Email},
		})
	}
}

func LoginHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload credentialsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))

		user, err := database.GetUserByEmail(conn, payload.Email)
		if err != nil {
			log.Printf("Error fetching user for login: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Login failed.")
			return
		}
		if user == nil || !CheckPassword(user.PasswordHash, payload.Password) {
			respond.Error(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}

		ttl := time.Duration(config.GetConfig().SessionTTLHours) * time.Hour
		token, err := IssueSession(conn, user.ID, ttl)
		if err != nil {
			log.Printf("Error issuing session for %s: %v", user.ID, err)
			respond.Error(w, http.StatusInternalServerError, "Login failed.")
			return
		}

		respond.JSON(w, http.StatusOK, map[string]interface{}{
			"token": token,
			"user":  model.Identity{UserID: user.ID, Email: user.Email},
		})
	}
}

func LogoutHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respond.Error(w, http.StatusUnauthorized, "No authorization header provided.")
			return
		}
		if err := database.DeleteSession(conn, token); err != nil {
			log.Printf("Error deleting session: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Logout failed.")
			return
		}
		respond.Message(w, http.StatusOK, "Logged out successfully.")
	}
}

// SessionHandler echoes the identity behind a valid bearer, the probe the
// frontend uses on page load.
func SessionHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := RequireUser(conn, r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]interface{}{"user": identity})
	}
}
