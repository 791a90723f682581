package model

import "time"

// Identity is what a validated bearer credential resolves to. Handlers depend
// on nothing else about the account.
type Identity struct {
	UserID string `db:"id" json:"id"`
	Email  string `db:"email" json:"email"`
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Session struct {
	Token     string    `db:"token" json:"-"`
	UserID    string    `db:"user_id" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"-"`
}

type Profile struct {
	ID           string     `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"full_name"`
	PhoneNumber  string     `db:"phone_number" json:"phone_number"`
	AddressLine1 string     `db:"address_line1" json:"address_line1"`
	AddressLine2 string     `db:"address_line2" json:"address_line2"`
	City         string     `db:"city" json:"city"`
	Province     string     `db:"province" json:"province"`
	PostalCode   string     `db:"postal_code" json:"postal_code"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at"`
}
