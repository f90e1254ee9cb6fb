package repository

import (
	"context"

	"github.com/costschef/user-service/internal/domain/entity"
)

// UserRepository defines the interface for user-profile database operations.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int) error
	SetActive(ctx context.Context, email string, active bool) error
}
