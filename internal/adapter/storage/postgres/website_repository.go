package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/ports"
)

type WebsiteRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewWebsiteRepository(db *gorm.DB, log *zap.Logger) ports.WebsiteRepository {
	return &WebsiteRepository{
		db:  db,
		log: log,
	}
}

func (r *WebsiteRepository) FindByID(ctx context.Context, id string) (*domain.Website, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *WebsiteRepository) FindBySlug(ctx context.Context, slug string) (*domain.Website, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *WebsiteRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Website, error) {
	var websites []domain.Website
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&websites).Error
	return websites, err
}

// Update writes the editable columns only; slug and owner never change.
func (r *WebsiteRepository) Update(ctx context.Context, website *domain.Website) error {
	result := r.db.WithContext(ctx).
		Model(website).
		Select("title", "layout_json", "content", "updated_at").
		Updates(website)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WebsiteRepository) first(ctx context.Context, query string, arg interface{}) (*domain.Website, error) {
	var website domain.Website
	err := r.db.WithContext(ctx).First(&website, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &website, nil
}
