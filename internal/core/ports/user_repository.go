package ports

import (
	"context"

	"github.com/trinetra110/civix/internal/core/domain"
)

// UserRepository is the role directory: the persistent mapping from a
// principal's identity to name, email and role tag.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
