package ports

import (
	"context"
	"errors"

	"github.com/seu-repo/vox-site/internal/domain"
)

// Repositories return (nil, nil) when a record does not exist.

type UserRepository interface {
	// CreateGuest persists the user together with its initial websites.
	CreateGuest(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type WebsiteRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Website, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Website, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Website, error)
	Update(ctx context.Context, website *domain.Website) error
}

// ErrDuplicateKey is returned by repositories when a unique constraint is violated.
var ErrDuplicateKey = errors.New("duplicate key")
