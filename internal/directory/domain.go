package directory

import "time"

// User is the administrative view of an account. It never carries password
// material.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the listing projection of a user.
type Profile struct {
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Patch describes a partial update. Nil means the field is absent; a pointer
// to a value means the field was explicitly provided, so "omitted" and
// "set to empty" stay distinguishable.
type Patch struct {
	FirstName *string
	LastName  *string
	Email     *string
	CreatedAt *time.Time
}

// ProfileOf projects the listing view of a user.
func ProfileOf(u *User) Profile {
	return Profile{
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}
