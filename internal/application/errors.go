package application

import "errors"

// Business-rule failures are plain sentinel values; handlers translate them
// to status codes. Anything else that escapes the services is a dependency
// failure and ends up as a 500.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmailTaken       = errors.New("user with this email already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrOTPNotFound      = errors.New("otp not found for this email")
	ErrInvalidOTP       = errors.New("invalid otp")
	ErrOTPExpired       = errors.New("otp has expired")
	ErrAlreadyVerified  = errors.New("account is already verified")
	ErrNotVerified      = errors.New("account is not confirmed")
	ErrInvalidPassword  = errors.New("incorrect password")
	ErrEmailSend        = errors.New("failed to send otp email")
)
