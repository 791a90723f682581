package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"drerwrk/model"
)

// GetOrCreateProfile returns the user's profile, creating an empty one with
// the given display name on first access.
func GetOrCreateProfile(dbtx *sqlx.DB, userID, fallbackName string) (*model.Profile, error) {
	var profile model.Profile
	err := dbtx.Get(&profile, `
		SELECT id, full_name, phone_number, address_line1, address_line2,
		       city, province, postal_code, updated_at
		FROM profiles WHERE id = ?`, userID)
	if err == nil {
		return &profile, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}

	if _, err := dbtx.Exec(`INSERT INTO profiles (id, full_name) VALUES (?, ?)`, userID, fallbackName); err != nil {
		return nil, fmt.Errorf("failed to create profile %s: %w", userID, err)
	}
	return &model.Profile{ID: userID, FullName: fallbackName}, nil
}

func UpdateProfile(dbtx *sqlx.DB, profile model.Profile) (*model.Profile, error) {
	now := time.Now()
	_, err := dbtx.Exec(`
		UPDATE profiles
		SET full_name = ?, phone_number = ?, address_line1 = ?, address_line2 = ?,
		    city = ?, province = ?, postal_code = ?, updated_at = ?
		WHERE id = ?`,
		profile.FullName, profile.PhoneNumber, profile.AddressLine1, profile.AddressLine2,
		profile.City, profile.Province, profile.PostalCode, now, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile %s: %w", profile.ID, err)
	}
	profile.UpdatedAt = &now
	return &profile, nil
}
