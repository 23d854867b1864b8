package mocks

import (
	"context"

	"github.com/seu-repo/vox-site/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateGuestFunc func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
}

func (m *MockUserRepository) CreateGuest(ctx context.Context, user *domain.User) error {
	if m.CreateGuestFunc != nil {
		return m.CreateGuestFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

// MockWebsiteRepository is a mock implementation of WebsiteRepository
type MockWebsiteRepository struct {
	FindByIDFunc     func(ctx context.Context, id string) (*domain.Website, error)
	FindBySlugFunc   func(ctx context.Context, slug string) (*domain.Website, error)
	FindByUserIDFunc func(ctx context.Context, userID string) ([]domain.Website, error)
	UpdateFunc       func(ctx context.Context, website *domain.Website) error
	FindBySlugCalls  int
}

func (m *MockWebsiteRepository) FindByID(ctx context.Context, id string) (*domain.Website, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockWebsiteRepository) FindBySlug(ctx context.Context, slug string) (*domain.Website, error) {
	m.FindBySlugCalls++
	if m.FindBySlugFunc != nil {
		return m.FindBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *MockWebsiteRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Website, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return []domain.Website{}, nil
}

func (m *MockWebsiteRepository) Update(ctx context.Context, website *domain.Website) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, website)
	}
	return nil
}
