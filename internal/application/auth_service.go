package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/costschef/user-service/internal/domain/entity"
	"github.com/costschef/user-service/internal/domain/repository"
	"github.com/costschef/user-service/pkg/helpers"
	"github.com/costschef/user-service/pkg/mailer"
)

// AuthService is the orchestrator for the credential lifecycle:
// registration, OTP verification, login, password reset and token refresh.
// It is the only component that talks to more than one collaborator; state
// lives in the store, nothing is cached across requests.
type AuthService struct {
	Users       repository.UserRepository
	Credentials repository.CredentialRepository
	Hasher      *helpers.Hasher
	JWT         *helpers.JWTManager
	Mail        mailer.Sender
	Logger      *logrus.Logger
}

func NewAuthService(users repository.UserRepository, creds repository.CredentialRepository,
	hasher *helpers.Hasher, jwt *helpers.JWTManager, mail mailer.Sender, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Credentials: creds, Hasher: hasher, JWT: jwt, Mail: mail, Logger: logger}
}

type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Gender          string
	Password        string
	PasswordConfirm string
}

// Register creates the inactive user and its credential row in one
// transaction, then mails the OTP. A duplicate email is a conflict, not a
// race: the store's unique constraint decides. The OTP row is persisted
// before the send is attempted, so a failed send leaves a valid code the
// user can re-request via RequestNewOTP.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	if in.Password != in.PasswordConfirm {
		return ErrPasswordMismatch
	}

	salt, err := helpers.NewSalt()
	if err != nil {
		return err
	}
	hash := s.Hasher.Hash(in.Password, salt)

	otp, expiry, err := helpers.GenerateOTP()
	if err != nil {
		return err
	}

	u := &entity.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Gender:    in.Gender,
	}
	cred := &entity.Credential{
		Email:        in.Email,
		PasswordHash: hash,
		PasswordSalt: salt,
		OTP:          &otp,
		OTPExpiresAt: &expiry,
	}
	if err := s.Credentials.CreateWithUser(ctx, u, cred); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return ErrEmailTaken
		}
		return err
	}

	return s.sendOTP(ctx, in.Email, mailer.SubjectRegister, otp)
}

// VerifyOTP confirms the emailed code, activates the user and clears the OTP
// slot so the code cannot be replayed. A freshly minted token is returned so
// the caller is logged in right away.
func (s *AuthService) VerifyOTP(ctx context.Context, email string, otp int) (string, error) {
	cred, err := s.Credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrOTPNotFound
		}
		return "", err
	}

	switch helpers.ValidateOTP(cred.OTP, cred.OTPExpiresAt, otp, time.Now().UTC()) {
	case helpers.OTPNotFound:
		return "", ErrOTPNotFound
	case helpers.OTPMismatch:
		return "", ErrInvalidOTP
	case helpers.OTPExpired:
		return "", ErrOTPExpired
	}

	if err := s.Users.SetActive(ctx, email, true); err != nil {
		return "", err
	}
	if err := s.Credentials.UpdateOTP(ctx, email, nil, nil); err != nil {
		return "", err
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return s.JWT.Issue(u.ID)
}

// RequestNewOTP overwrites the OTP slot with a fresh code and mails it.
// Anonymous callers may only do this for accounts that are still pending
// verification; authenticated callers can always request one (password
// reset depends on that). Concurrent requests race on the single slot and
// the last write wins: only the most recently mailed code validates.
func (s *AuthService) RequestNewOTP(ctx context.Context, email string, authenticated bool) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.Active && !authenticated {
		return ErrAlreadyVerified
	}

	otp, expiry, err := helpers.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.Credentials.UpdateOTP(ctx, email, &otp, &expiry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.sendOTP(ctx, email, mailer.SubjectNewOTP, otp)
}

// Login verifies the password for an active account and issues a token for
// the stored user id. The activation check runs before any hash work; the
// hash comparison itself is constant-time.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotVerified
		}
		return "", err
	}
	if !u.Active {
		return "", ErrNotVerified
	}

	cred, err := s.Credentials.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	hash := s.Hasher.Hash(password, cred.PasswordSalt)
	if !s.Hasher.Compare(hash, cred.PasswordHash) {
		return "", ErrInvalidPassword
	}

	return s.JWT.Issue(u.ID)
}

type PasswordResetInput struct {
	OldPassword        string
	NewPassword        string
	ConfirmNewPassword string
	OTP                int
}

// PasswordReset requires the old password and a live OTP (requested through
// RequestNewOTP, which authenticated callers can always reach). On success
// the hash/salt pair is replaced and the OTP cleared in one statement, so
// the code is spent whether or not anything later fails.
func (s *AuthService) PasswordReset(ctx context.Context, userID int, in PasswordResetInput) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	cred, err := s.Credentials.GetByEmail(ctx, u.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	oldHash := s.Hasher.Hash(in.OldPassword, cred.PasswordSalt)
	if !s.Hasher.Compare(oldHash, cred.PasswordHash) {
		return ErrInvalidPassword
	}

	switch helpers.ValidateOTP(cred.OTP, cred.OTPExpiresAt, in.OTP, time.Now().UTC()) {
	case helpers.OTPNotFound, helpers.OTPMismatch:
		return ErrInvalidOTP
	case helpers.OTPExpired:
		return ErrOTPExpired
	}

	if in.NewPassword != in.ConfirmNewPassword {
		return ErrPasswordMismatch
	}

	salt, err := helpers.NewSalt()
	if err != nil {
		return err
	}
	newHash := s.Hasher.Hash(in.NewPassword, salt)
	return s.Credentials.UpdatePassword(ctx, u.Email, newHash, salt)
}

// RefreshToken re-issues a token for an already-authenticated caller. The
// user row is re-checked so tokens stop refreshing once the account is gone.
func (s *AuthService) RefreshToken(ctx context.Context, userID int) (string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return s.JWT.Issue(u.ID)
}

// sendOTP mails the code after the store write has completed; no store
// resource is held across the send. The transport error is logged for
// operators and downgraded to a generic failure for the caller.
func (s *AuthService) sendOTP(ctx context.Context, email, subject string, otp int) error {
	if err := s.Mail.SendOTPEmail(ctx, email, subject, mailer.OTPBody(otp)); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Error("otp email send failed")
		}
		return ErrEmailSend
	}
	return nil
}
