// Package website saves generated websites and serves them by slug.
package website

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/observability/telemetry"
	"github.com/seu-repo/vox-site/internal/pkg/slug"
	"github.com/seu-repo/vox-site/internal/ports"
)

type Service struct {
	websites      ports.WebsiteRepository
	users         ports.UserRepository
	cache         ports.Cache
	events        ports.EventPublisher
	publicBaseURL string
	cacheTTL      time.Duration
	log           *zap.Logger
}

func NewService(
	websites ports.WebsiteRepository,
	users ports.UserRepository,
	cache ports.Cache,
	events ports.EventPublisher,
	publicBaseURL string,
	cacheTTL time.Duration,
	log *zap.Logger,
) *Service {
	return &Service{
		websites:      websites,
		users:         users,
		cache:         cache,
		events:        events,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		cacheTTL:      cacheTTL,
		log:           log,
	}
}

// Save replaces the title, layout and content of a website owned by req.UserID.
func (s *Service) Save(ctx context.Context, req domain.SaveWebsiteRequest) (*domain.WebsiteResponse, error) {
	if err := validateSave(req); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User not found")
	}

	website, err := s.findWebsite(ctx, req.WebsiteID)
	if err != nil {
		return nil, err
	}
	if website == nil {
		return nil, domain.NewNotFoundError("Website not found")
	}
	if website.UserID != req.UserID {
		return nil, domain.NewValidationError("Website does not belong to this user")
	}

	website.Title = req.Title
	website.LayoutJSON = req.Layout
	website.Content = req.Content

	if err := s.websites.Update(ctx, website); err != nil {
		s.log.Error("Failed to save website", zap.String("website_id", website.ID), zap.Error(err))
		return nil, domain.NewInternalError("Failed to save website", err)
	}

	if err := s.cache.Delete(ctx, slugKey(website.Slug)); err != nil {
		s.log.Warn("Failed to invalidate website cache", zap.String("slug", website.Slug), zap.Error(err))
	}

	resp := s.toResponse(website)
	s.log.Info("Website saved", zap.String("website_id", website.ID), zap.String("url", resp.URL))
	telemetry.WebsitesSavedTotal.Inc()

	s.events.Publish(ctx, domain.SubjectWebsiteSaved, domain.WebsiteSavedEvent{
		UserID:     website.UserID,
		WebsiteID:  website.ID,
		Slug:       website.Slug,
		OccurredAt: time.Now().UTC(),
	})

	return resp, nil
}

// GetBySlug returns the website published under slugValue, reading through the cache.
func (s *Service) GetBySlug(ctx context.Context, slugValue string) (*domain.WebsiteResponse, error) {
	if !slug.IsValid(slugValue) {
		return nil, domain.NewValidationError("Invalid slug format")
	}

	key := slugKey(slugValue)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var entry cachedWebsite
		if err := json.Unmarshal([]byte(cached), &entry); err == nil {
			telemetry.CacheRequestsTotal.WithLabelValues("hit").Inc()
			return s.toResponse(entry.website()), nil
		}
		s.log.Warn("Discarding unreadable cached website", zap.String("slug", slugValue))
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		s.log.Warn("Website cache read failed", zap.String("slug", slugValue), zap.Error(err))
	}
	telemetry.CacheRequestsTotal.WithLabelValues("miss").Inc()

	website, err := s.websites.FindBySlug(ctx, slugValue)
	if err != nil {
		s.log.Error("Failed to fetch website", zap.String("slug", slugValue), zap.Error(err))
		return nil, domain.NewInternalError("Failed to retrieve website", err)
	}
	if website == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("Website with slug %q not found", slugValue))
	}

	if encoded, err := json.Marshal(newCachedWebsite(website)); err == nil {
		if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
			s.log.Debug("Failed to cache website", zap.String("slug", slugValue), zap.Error(err))
		}
	}

	return s.toResponse(website), nil
}

// ListByUser returns the user's websites, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.WebsiteResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("User ID is required")
	}
	if uuid.Validate(userID) != nil {
		return []domain.WebsiteResponse{}, nil
	}

	websites, err := s.websites.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to fetch user websites", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.NewInternalError("Failed to retrieve websites", err)
	}

	out := make([]domain.WebsiteResponse, 0, len(websites))
	for i := range websites {
		out = append(out, *s.toResponse(&websites[i]))
	}
	return out, nil
}

// PublicURL is where the website with the given slug is served.
func (s *Service) PublicURL(slugValue string) string {
	return s.publicBaseURL + "/" + slugValue
}

func (s *Service) findUser(ctx context.Context, userID string) (*domain.User, error) {
	if uuid.Validate(userID) != nil {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to save website", err)
	}
	return user, nil
}

func (s *Service) findWebsite(ctx context.Context, websiteID string) (*domain.Website, error) {
	if uuid.Validate(websiteID) != nil {
		return nil, nil
	}
	website, err := s.websites.FindByID(ctx, websiteID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to save website", err)
	}
	return website, nil
}

func (s *Service) toResponse(w *domain.Website) *domain.WebsiteResponse {
	return &domain.WebsiteResponse{
		ID:         w.ID,
		Slug:       w.Slug,
		Title:      w.Title,
		URL:        s.PublicURL(w.Slug),
		LayoutJSON: w.LayoutJSON,
		Content:    w.Content,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

func validateSave(req domain.SaveWebsiteRequest) error {
	if req.UserID == "" || req.WebsiteID == "" || strings.TrimSpace(req.Title) == "" ||
		isMissing(req.Layout) || isMissing(req.Content) {
		return domain.NewValidationError("userId, websiteId, title, layout, and content are required")
	}
	if !isJSON(req.Layout, '[') {
		return domain.NewValidationError("layout must be an array")
	}
	if !isJSON(req.Content, '{') {
		return domain.NewValidationError("content must be an object")
	}
	return nil
}

func isMissing(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// isJSON reports whether data is valid JSON whose top-level value opens with delim.
func isJSON(data []byte, delim byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == delim && json.Valid(trimmed)
}

// cachedWebsite is the cache encoding of a Website. Layout and content travel as
// strings so their bytes survive encoding/json untouched.
type cachedWebsite struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	LayoutJSON string    `json:"layoutJson"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newCachedWebsite(w *domain.Website) cachedWebsite {
	return cachedWebsite{
		ID:         w.ID,
		UserID:     w.UserID,
		Slug:       w.Slug,
		Title:      w.Title,
		LayoutJSON: string(w.LayoutJSON),
		Content:    string(w.Content),
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

func (c cachedWebsite) website() *domain.Website {
	return &domain.Website{
		ID:         c.ID,
		UserID:     c.UserID,
		Slug:       c.Slug,
		Title:      c.Title,
		LayoutJSON: domain.JSONBlob(c.LayoutJSON),
		Content:    domain.JSONBlob(c.Content),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func slugKey(slugValue string) string {
	return "website:slug:" + slugValue
}
