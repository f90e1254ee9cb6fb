package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costschef/user-service/internal/domain/entity"
	"github.com/costschef/user-service/internal/domain/repository"
	"github.com/costschef/user-service/pkg/helpers"
)

// memStore is an in-memory stand-in for the two Postgres repositories. It
// keeps the same consistency rules: one credential per user, keyed by
// email, unique email enforced on insert.
type memStore struct {
	users    map[string]*entity.User
	creds    map[string]*entity.Credential
	nextID   int
	credGets int
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*entity.User{}, creds: map[string]*entity.Credential{}, nextID: 1}
}

type memUsers struct{ s *memStore }

func (r *memUsers) GetByID(_ context.Context, id int) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) List(_ context.Context) ([]entity.User, error) {
	var out []entity.User
	for _, u := range r.s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUsers) Update(_ context.Context, u *entity.User) error {
	for _, stored := range r.s.users {
		if stored.ID == u.ID {
			*stored = *u
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memUsers) Delete(_ context.Context, id int) error {
	for email, u := range r.s.users {
		if u.ID == id {
			delete(r.s.users, email)
			delete(r.s.creds, email)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memUsers) SetActive(_ context.Context, email string, active bool) error {
	u, ok := r.s.users[email]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = active
	return nil
}

type memCreds struct{ s *memStore }

func (r *memCreds) GetByEmail(_ context.Context, email string) (*entity.Credential, error) {
	r.s.credGets++
	c, ok := r.s.creds[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCreds) CreateWithUser(_ context.Context, u *entity.User, c *entity.Credential) error {
	if _, ok := r.s.users[u.Email]; ok {
		return repository.ErrEmailTaken
	}
	u.ID = r.s.nextID
	r.s.nextID++
	u.Active = false
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	uc := *u
	cc := *c
	r.s.users[u.Email] = &uc
	r.s.creds[c.Email] = &cc
	return nil
}

func (r *memCreds) UpdateOTP(_ context.Context, email string, otp *int, expiresAt *time.Time) error {
	c, ok := r.s.creds[email]
	if !ok {
		return repository.ErrNotFound
	}
	c.OTP = otp
	c.OTPExpiresAt = expiresAt
	return nil
}

func (r *memCreds) UpdatePassword(_ context.Context, email string, hash, salt []byte) error {
	c, ok := r.s.creds[email]
	if !ok {
		return repository.ErrNotFound
	}
	c.PasswordHash = hash
	c.PasswordSalt = salt
	c.OTP = nil
	c.OTPExpiresAt = nil
	return nil
}

type fakeSender struct {
	sent []string // recipient per send
	fail bool
}

func (f *fakeSender) SendOTPEmail(_ context.Context, to, _, _ string) error {
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func newTestAuthService() (*AuthService, *memStore, *fakeSender) {
	store := newMemStore()
	sender := &fakeSender{}
	svc := NewAuthService(
		&memUsers{s: store},
		&memCreds{s: store},
		helpers.NewHasher("test-password-key"),
		helpers.NewJWTManager("test-token-key", time.Hour),
		sender,
		nil,
	)
	return svc, store, sender
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		Gender:          "female",
		Password:        "hunter2hunter2",
		PasswordConfirm: "hunter2hunter2",
	}
}

func TestRegisterPasswordMismatchWritesNothing(t *testing.T) {
	svc, store, sender := newTestAuthService()

	in := registerInput("a@x.com")
	in.PasswordConfirm = "different"
	err := svc.Register(context.Background(), in)

	require.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Empty(t, store.users)
	assert.Empty(t, store.creds)
	assert.Empty(t, sender.sent)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, store, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerInput("a@x.com")))
	err := svc.Register(ctx, registerInput("a@x.com"))

	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, store.users, 1)
	assert.Len(t, store.creds, 1)
}

func TestRegisterEmailSendFailureKeepsRows(t *testing.T) {
	svc, store, sender := newTestAuthService()
	sender.fail = true

	err := svc.Register(context.Background(), registerInput("a@x.com"))

	require.ErrorIs(t, err, ErrEmailSend)
	// the OTP is persisted before the send, so the user can re-request it
	require.Contains(t, store.creds, "a@x.com")
	assert.True(t, store.creds["a@x.com"].HasOTP())
	assert.False(t, store.users["a@x.com"].Active)
}

func TestRegisterVerifyLoginEndToEnd(t *testing.T) {
	svc, store, sender := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerInput("a@x.com")))
	require.Equal(t, []string{"a@x.com"}, sender.sent)

	u := store.users["a@x.com"]
	cred := store.creds["a@x.com"]
	require.NotNil(t, u)
	require.NotNil(t, cred)
	assert.False(t, u.Active)
	require.True(t, cred.HasOTP())
	assert.Len(t, cred.PasswordHash, helpers.HashLen)
	assert.Len(t, cred.PasswordSalt, helpers.SaltLen)

	token, err := svc.VerifyOTP(ctx, "a@x.com", *cred.OTP)
	require.NoError(t, err)
	assert.True(t, store.users["a@x.com"].Active)
	assert.False(t, store.creds["a@x.com"].HasOTP())

	id, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	loginToken, err := svc.Login(ctx, "a@x.com", "hunter2hunter2")
	require.NoError(t, err)
	loginID, err := svc.JWT.Parse(loginToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, loginID)
}

func TestVerifyOTPOutcomes(t *testing.T) {
	svc, store, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.VerifyOTP(ctx, "nobody@x.com", 123456)
	require.ErrorIs(t, err, ErrOTPNotFound)

	require.NoError(t, svc.Register(ctx, registerInput("a@x.com")))
	cred := store.creds["a@x.com"]

	wrong := *cred.OTP%900000 + 100000
	if wrong == *cred.OTP {
		wrong++
	}
	_, err = svc.VerifyOTP(ctx, "a@x.com", wrong)
	require.ErrorIs(t, err, ErrInvalidOTP)

	expired := time.Now().UTC().Add(-time.Minute)
	cred.OTPExpiresAt = &expired
	_, err = svc.VerifyOTP(ctx, "a@x.com", *cred.OTP)
	require.ErrorIs(t, err, ErrOTPExpired)
}

func TestVerifyOTPSingleUse(t *testing.T) {
	svc, store, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerInput("a@x.com")))
	code := *store.creds["a@x.com"].OTP

	_, err := svc.VerifyOTP(ctx, "a@x.com", code)
	require.NoError(t, err)

	// slot is cleared; the same code cannot be consumed twice
	_, err = svc.VerifyOTP(ctx, "a@x.com", code)
	require.ErrorIs(t, err, ErrOTPNotFound)
}

func TestLoginInactiveSkipsPasswordCheck(t *testing.T) {
	svc, store, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerInput("a@x.com")))
	lookupsAfterRegister := store.credGets

	_, err := svc.Login(ctx, "a@x.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrNotVerified)
	// rejected before the credential row was even read
	assert.Equal(t, lookupsAfterRegister, store.credGets)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, store, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerInput("a@x.com")))
	_, err := svc.VerifyOTP(ctx, "a@x.com", *store.creds["a@x.com"].OTP)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "not-the-password")
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestRequestNewOTP(t *testing.T) {
	svc, store, sender := newTestAuthService()
	ctx := context.Background()

	require.ErrorIs(t, svc.RequestNewOTP(ctx, "nobody@x.com", false), ErrUserNotFound)

	require.NoError(t, svc.Register(ctx, registerInput("a@x.com")))
	first := *store.creds["a@x.com"].OTP

	// pending account: anonymous refresh is fine and overwrites the slot
	require.NoError(t, svc.RequestNewOTP(ctx, "a@x.com", false))
	second := *store.creds["a@x.com"].OTP
	assert.Len(t, sender.sent, 2)

	// the earlier code is dead; only the latest one verifies
	if first != second {
		_, err := svc.VerifyOTP(ctx, "a@x.com", first)
		require.ErrorIs(t, err, ErrInvalidOTP)
	}
	_, err := svc.VerifyOTP(ctx, "a@x.com", second)
	require.NoError(t, err)

	// active account: anonymous refresh is rejected, authenticated is not
	require.ErrorIs(t, svc.RequestNewOTP(ctx, "a@x.com", false), ErrAlreadyVerified)
	require.NoError(t, svc.RequestNewOTP(ctx, "a@x.com", true))
	assert.True(t, store.creds["a@x.com"].HasOTP())
}

func activeUser(t *testing.T, svc *AuthService, store *memStore, email string) int {
	t.Helper()
	require.NoError(t, svc.Register(context.Background(), registerInput(email)))
	_, err := svc.VerifyOTP(context.Background(), email, *store.creds[email].OTP)
	require.NoError(t, err)
	return store.users[email].ID
}

func TestPasswordResetFlow(t *testing.T) {
	svc, store, _ := newTestAuthService()
	ctx := context.Background()
	id := activeUser(t, svc, store, "a@x.com")

	// reset needs a live OTP; request one as the authenticated user
	require.NoError(t, svc.RequestNewOTP(ctx, "a@x.com", true))
	code := *store.creds["a@x.com"].OTP

	in := PasswordResetInput{
		OldPassword:        "hunter2hunter2",
		NewPassword:        "correct-horse-battery",
		ConfirmNewPassword: "correct-horse-battery",
		OTP:                code,
	}
	require.NoError(t, svc.PasswordReset(ctx, id, in))
	assert.False(t, store.creds["a@x.com"].HasOTP())

	_, err := svc.Login(ctx, "a@x.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidPassword)
	_, err = svc.Login(ctx, "a@x.com", "correct-horse-battery")
	require.NoError(t, err)
}

func TestPasswordResetBadOTPLeavesHashAlone(t *testing.T) {
	svc, store, _ := newTestAuthService()
	ctx := context.Background()
	id := activeUser(t, svc, store, "a@x.com")

	require.NoError(t, svc.RequestNewOTP(ctx, "a@x.com", true))
	code := *store.creds["a@x.com"].OTP
	before := append([]byte(nil), store.creds["a@x.com"].PasswordHash...)

	wrong := code%900000 + 100000
	if wrong == code {
		wrong++
	}
	in := PasswordResetInput{
		OldPassword:        "hunter2hunter2",
		NewPassword:        "correct-horse-battery",
		ConfirmNewPassword: "correct-horse-battery",
		OTP:                wrong,
	}
	require.ErrorIs(t, svc.PasswordReset(ctx, id, in), ErrInvalidOTP)
	assert.Equal(t, before, store.creds["a@x.com"].PasswordHash)

	// expired OTP fails the same way
	expired := time.Now().UTC().Add(-time.Minute)
	store.creds["a@x.com"].OTPExpiresAt = &expired
	in.OTP = code
	require.ErrorIs(t, svc.PasswordReset(ctx, id, in), ErrOTPExpired)
	assert.Equal(t, before, store.creds["a@x.com"].PasswordHash)
}

func TestPasswordResetWrongOldPassword(t *testing.T) {
	svc, store, _ := newTestAuthService()
	ctx := context.Background()
	id := activeUser(t, svc, store, "a@x.com")
	require.NoError(t, svc.RequestNewOTP(ctx, "a@x.com", true))

	in := PasswordResetInput{
		OldPassword:        "wrong-old",
		NewPassword:        "correct-horse-battery",
		ConfirmNewPassword: "correct-horse-battery",
		OTP:                *store.creds["a@x.com"].OTP,
	}
	require.ErrorIs(t, svc.PasswordReset(ctx, id, in), ErrInvalidPassword)
}

func TestRefreshToken(t *testing.T) {
	svc, store, _ := newTestAuthService()
	ctx := context.Background()
	id := activeUser(t, svc, store, "a@x.com")

	token, err := svc.RefreshToken(ctx, id)
	require.NoError(t, err)
	got, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = svc.RefreshToken(ctx, id+99)
	require.ErrorIs(t, err, ErrUserNotFound)
}
