// Package profile serves the account profile read and update endpoints.
package profile

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"drerwrk/auth"
	"drerwrk/database"
	"drerwrk/model"
	"drerwrk/respond"
)

// Handler serves /api/profile: GET returns the profile (creating an empty one
// on first access), PUT updates it.
func Handler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.RequireUser(conn, r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "User not authenticated or session invalid.")
			return
		}

		switch r.Method {
		case http.MethodGet:
			getProfile(conn, w, identity)
		case http.MethodPut:
			updateProfile(conn, w, r, identity)
		default:
			respond.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		}
	}
}

func getProfile(conn *sqlx.DB, w http.ResponseWriter, identity *model.Identity) {
	profile, err := database.GetOrCreateProfile(conn, identity.UserID, identity.Email)
	if err != nil {
		log.Printf("Error fetching profile %s: %v", identity.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch profile data.")
		return
	}
	respond.JSON(w, http.StatusOK, profile)
}

func updateProfile(conn *sqlx.DB, w http.ResponseWriter, r *http.Request, identity *model.Identity) {
	var payload model.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	payload.ID = identity.UserID

	// First update on a fresh account: make sure the row exists.
	if _, err := database.GetOrCreateProfile(conn, identity.UserID, identity.Email); err != nil {
		log.Printf("Error ensuring profile %s: %v", identity.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update profile.")
		return
	}

	updated, err := database.UpdateProfile(conn, payload)
	if err != nil {
		log.Printf("Error updating profile %s: %v", identity.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update profile.")
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}
