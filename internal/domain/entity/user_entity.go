package entity

import (
	"time"
)

// User is the aggregate root for the user domain. A user is created with
// Active=false at registration and flipped to true once the OTP sent by
// email is confirmed.
type User struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	Gender    string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
