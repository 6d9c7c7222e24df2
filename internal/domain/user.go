package domain

import "time"

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // "organizer" or "viewer"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actor identifies who performed a mutating call, as recorded in audit
// entries and draw results.
type Actor struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (u User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name}
}
