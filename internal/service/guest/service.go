// Package guest creates and checks anonymous guest accounts.
package guest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/observability/telemetry"
	"github.com/seu-repo/vox-site/internal/pkg/slug"
	"github.com/seu-repo/vox-site/internal/ports"
)

const (
	maxSlugAttempts = 3
	validGuestTTL   = 10 * time.Minute
)

type Service struct {
	users  ports.UserRepository
	tokens ports.GuestTokenService
	cache  ports.Cache
	events ports.EventPublisher
	log    *zap.Logger
}

func NewService(
	users ports.UserRepository,
	tokens ports.GuestTokenService,
	cache ports.Cache,
	events ports.EventPublisher,
	log *zap.Logger,
) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// Create persists a guest user with one empty website and returns its identity.
// A slug collision is retried with a fresh slug.
func (s *Service) Create(ctx context.Context) (*domain.GuestIdentity, error) {
	var user *domain.User
	for attempt := 1; ; attempt++ {
		guestSlug, err := slug.GenerateGuestSlug()
		if err != nil {
			return nil, domain.NewInternalError("Failed to create guest user", err)
		}

		user = newGuest(guestSlug)
		err = s.users.CreateGuest(ctx, user)
		if err == nil {
			break
		}
		if errors.Is(err, ports.ErrDuplicateKey) && attempt < maxSlugAttempts {
			s.log.Warn("Guest slug collision, retrying", zap.String("slug", guestSlug), zap.Int("attempt", attempt))
			continue
		}
		s.log.Error("Failed to create guest", zap.Error(err))
		return nil, domain.NewInternalError("Failed to create guest user", err)
	}

	website := user.Websites[0]

	token, err := s.tokens.GenerateGuestToken(user.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to create guest user", err)
	}

	s.log.Info("Guest created",
		zap.String("user_id", user.ID),
		zap.String("slug", website.Slug),
	)
	telemetry.GuestsCreatedTotal.Inc()

	s.events.Publish(ctx, domain.SubjectGuestCreated, domain.GuestCreatedEvent{
		UserID:     user.ID,
		WebsiteID:  website.ID,
		Slug:       website.Slug,
		OccurredAt: time.Now().UTC(),
	})

	return &domain.GuestIdentity{
		UserID:    user.ID,
		WebsiteID: website.ID,
		Slug:      website.Slug,
		Token:     token,
	}, nil
}

// GetByID returns the user with its websites.
func (s *Service) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	if uuid.Validate(userID) != nil {
		return nil, domain.NewNotFoundError("Guest user not found")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to fetch guest", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.NewInternalError("Failed to retrieve guest user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Guest user not found")
	}
	return user, nil
}

// IsValidGuest reports whether userID names an existing guest. Lookup failures
// count as not valid.
func (s *Service) IsValidGuest(ctx context.Context, userID string) bool {
	if uuid.Validate(userID) != nil {
		return false
	}

	key := validGuestKey(userID)
	if _, err := s.cache.Get(ctx, key); err == nil {
		return true
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to validate guest", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	if user == nil || !user.IsGuest {
		return false
	}

	if err := s.cache.Set(ctx, key, "1", validGuestTTL); err != nil {
		s.log.Debug("Failed to cache guest validity", zap.Error(err))
	}
	return true
}

func newGuest(guestSlug string) *domain.User {
	userID := uuid.New().String()
	return &domain.User{
		ID:      userID,
		IsGuest: true,
		Websites: []domain.Website{{
			ID:         uuid.New().String(),
			UserID:     userID,
			Slug:       guestSlug,
			Title:      domain.DefaultWebsiteTitle,
			LayoutJSON: domain.EmptyJSONArray,
			Content:    domain.EmptyJSONObject,
		}},
	}
}

func validGuestKey(userID string) string {
	return "guest:valid:" + userID
}
