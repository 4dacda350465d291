package domain

import (
	"time"

	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type ID string

// Token is the signed, opaque value handed to clients.
type Token string

type Session struct {
	ID        ID
	UserID    userdomain.ID
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Active is a live session together with the identity it belongs to.
type Active struct {
	Session  Session
	Identity userdomain.Identity
}
