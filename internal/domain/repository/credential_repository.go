package repository

import (
	"context"
	"errors"
	"time"

	"github.com/costschef/user-service/internal/domain/entity"
)

// ErrEmailTaken is returned by CreateWithUser when the email already has an
// identity. It is the translated form of the store's unique constraint, so
// two concurrent registrations cannot both succeed.
var ErrEmailTaken = errors.New("email already registered")

// ErrNotFound is returned when no row matches the given key.
var ErrNotFound = errors.New("not found")

// CredentialRepository owns the secret material rows. All writes keep the
// hash/salt pair and the otp/expiry pair consistent: they are only ever set
// or cleared together, in a single statement.
type CredentialRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.Credential, error)

	// CreateWithUser inserts the user row and its credential row in one
	// transaction. The user is created inactive. A duplicate email fails
	// with ErrEmailTaken and leaves nothing behind.
	CreateWithUser(ctx context.Context, u *entity.User, c *entity.Credential) error

	// UpdateOTP overwrites the OTP slot. Pass nil for both to clear it.
	UpdateOTP(ctx context.Context, email string, otp *int, expiresAt *time.Time) error

	// UpdatePassword replaces the hash/salt pair and clears any pending OTP
	// in the same statement.
	UpdatePassword(ctx context.Context, email string, hash, salt []byte) error
}
