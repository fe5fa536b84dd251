package ports

import (
	"context"

	"github.com/ringside/blackjack-api/internal/core/domain"
)

// AuthRepository defines the interface for user account persistence.
type AuthRepository interface {
	// Create inserts the user and fills in its ID and CreatedAt.
	// Returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
