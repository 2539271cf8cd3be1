package auth

import "time"

// User represents a registered user account. The password hash never leaves
// the service layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
