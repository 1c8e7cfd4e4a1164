package auth

import (
	"context"

	"backoffice/internal/domain"
)

// UserRepository — only the methods the auth service uses
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
