package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/costschef/user-service/internal/domain/entity"
	"github.com/costschef/user-service/internal/domain/repository"
)

// SQLSTATE for unique_violation; the users.email constraint turns the
// registration race into a clean conflict.
const uniqueViolation = "23505"

type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	c := &entity.Credential{}
	row := r.pool.QueryRow(ctx, `
		SELECT email, password_hash, password_salt, otp, otp_expires_at
		FROM auth
		WHERE email = $1
	`, email)
	if err := row.Scan(&c.Email, &c.PasswordHash, &c.PasswordSalt, &c.OTP, &c.OTPExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CredentialRepository) CreateWithUser(ctx context.Context, u *entity.User, c *entity.Credential) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, gender, active)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, created_at, updated_at
	`, u.FirstName, u.LastName, u.Email, u.Gender)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrEmailTaken
		}
		return err
	}
	u.Active = false

	if _, err := tx.Exec(ctx, `
		INSERT INTO auth (email, password_hash, password_salt, otp, otp_expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.Email, c.PasswordHash, c.PasswordSalt, c.OTP, c.OTPExpiresAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrEmailTaken
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *CredentialRepository) UpdateOTP(ctx context.Context, email string, otp *int, expiresAt *time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE auth
		SET otp = $1, otp_expires_at = $2
		WHERE email = $3
	`, otp, expiresAt, email)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) UpdatePassword(ctx context.Context, email string, hash, salt []byte) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE auth
		SET password_hash = $1, password_salt = $2, otp = NULL, otp_expires_at = NULL
		WHERE email = $3
	`, hash, salt, email)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ repository.CredentialRepository = (*CredentialRepository)(nil)
