package entity

import (
	"time"
)

// Credential holds the secret material for one user, keyed by email.
// PasswordHash and PasswordSalt are always written together. OTP and
// OTPExpiresAt are either both nil or both set; they are cleared as a pair
// when a code is consumed.
type Credential struct {
	Email        string
	PasswordHash []byte // 32 bytes, PBKDF2 output
	PasswordSalt []byte // 16 random bytes
	OTP          *int
	OTPExpiresAt *time.Time
}

// HasOTP reports whether a pending OTP is stored.
func (c *Credential) HasOTP() bool {
	return c.OTP != nil && c.OTPExpiresAt != nil
}
