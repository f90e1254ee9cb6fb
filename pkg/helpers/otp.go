package helpers

import (
	"crypto/rand"
	"math/big"
	"time"
)

// OTPValidity is how long a generated code stays usable.
const OTPValidity = 30 * time.Minute

const (
	otpMin = 100000
	otpMax = 999999
)

// OTPStatus is the outcome of validating a presented code against the
// stored one.
type OTPStatus int

const (
	OTPValid OTPStatus = iota
	OTPNotFound
	OTPMismatch
	OTPExpired
)

// GenerateOTP returns a 6-digit code uniform in [100000, 999999] and its
// expiry timestamp. Codes travel over email, so they come from crypto/rand.
func GenerateOTP() (int, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return 0, time.Time{}, err
	}
	code := otpMin + int(n.Int64())
	return code, time.Now().UTC().Add(OTPValidity), nil
}

// ValidateOTP checks a presented code against the stored code and expiry.
// A nil stored code means no OTP is outstanding (never issued, or already
// consumed). Mismatch is reported before expiry. Callers must clear the
// stored pair after consuming OTPValid; a code is never usable twice.
func ValidateOTP(stored *int, storedExpiry *time.Time, presented int, now time.Time) OTPStatus {
	if stored == nil || storedExpiry == nil {
		return OTPNotFound
	}
	if *stored != presented {
		return OTPMismatch
	}
	if now.After(*storedExpiry) {
		return OTPExpired
	}
	return OTPValid
}
