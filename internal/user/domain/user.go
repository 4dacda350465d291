package domain

import "time"

type ID string

type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the part of a user that is safe to hand to callers.
type Identity struct {
	ID        ID
	Username  string
	CreatedAt time.Time
}

func (u User) Identity() Identity {
	return Identity{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
