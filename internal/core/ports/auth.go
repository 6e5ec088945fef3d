package ports

import (
	"context"

	"github.com/cosechaencope/marketplace/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthService implements registration, login, and token revocation.
type AuthService interface {
	// Login authenticates any account. LoginProducer additionally rejects
	// accounts whose type is not PRODUCTOR.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	LoginProducer(ctx context.Context, email, password string) (string, *domain.User, error)

	RegisterClient(ctx context.Context, in RegisterInput) (*domain.User, error)
	RegisterProducer(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Logout revokes the given token until its natural expiry.
	Logout(ctx context.Context, token string) error
}

// UserRepository defines the persistence contract for accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
