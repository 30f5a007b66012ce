package domain

import "time"

// MaxHandleLength bounds User.Handle.
const MaxHandleLength = 15

type User struct {
	ID           string
	Handle       string // unique login name
	Email        string // unique, normalised
	PasswordHash string // argon2id PHC string, or an unusable marker
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName is the handle; users have no separate real name.
func (u User) FullName() string { return u.Handle }

// ShortName is the handle.
func (u User) ShortName() string { return u.Handle }

func (u User) String() string { return u.Handle }
