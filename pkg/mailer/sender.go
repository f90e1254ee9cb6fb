package mailer

import (
	"context"
	"fmt"
)

// Sender delivers OTP mail. Implementations either talk to the provider
// directly or hand the job to the email worker via the queue; in both cases
// a returned error is surfaced to the caller as a server-side failure.
type Sender interface {
	SendOTPEmail(ctx context.Context, to, subject, body string) error
}

// OTPBody renders the plain-text body for an OTP mail.
func OTPBody(code int) string {
	return fmt.Sprintf("Your OTP Code is: %d.\nIt is valid for 30 minutes.", code)
}

const (
	// SubjectRegister is used for the code sent at registration.
	SubjectRegister = "Account Verification OTP"
	// SubjectNewOTP is used when a fresh code is requested.
	SubjectNewOTP = "One-Time Password (OTP) for Account Verification"
)
