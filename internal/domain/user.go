package domain

import "time"

type User struct {
	ID           int64  `json:"id" db:"id"`
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName" db:"last_name"`
	Email        string `json:"email" db:"email"`
	PasswordHash []byte `json:"-" db:"password_hash"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Admin membership is a separate collection keyed by email, matching the
// back-office registration flow. Holding a user account does not grant admin
// rights.
type Admin struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Email     string `json:"email" db:"email"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
