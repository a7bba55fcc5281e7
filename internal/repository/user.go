package repository

import (
	"context"

	"github.com/adrianoneco/userdir/internal/domain"
)

type CreateUserParams struct {
	FirstName string
	LastName  string
	BirthDay  string
	Email     string
	Password  string
	AvatarURL *string
}

// UpdateUserParams carries a partial field set: nil means "keep the
// stored value".
type UpdateUserParams struct {
	FirstName *string
	LastName  *string
	BirthDay  *string
	Email     *string
	Password  *string
	AvatarURL *string
}

func (p UpdateUserParams) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.BirthDay == nil &&
		p.Email == nil && p.Password == nil && p.AvatarURL == nil
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, params CreateUserParams) (*domain.User, error)
	Update(ctx context.Context, id string, params UpdateUserParams) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
