package website

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type fixture struct {
	userID    string
	websiteID string
	website   *domain.Website
	users     *mocks.MockUserRepository
	websites  *mocks.MockWebsiteRepository
	cache     *mocks.MockCache
	events    *mocks.MockEventPublisher
	service   *Service
}

func newFixture() *fixture {
	f := &fixture{
		userID:    uuid.New().String(),
		websiteID: uuid.New().String(),
		cache:     mocks.NewMockCache(),
		events:    &mocks.MockEventPublisher{},
	}
	f.website = &domain.Website{
		ID:         f.websiteID,
		UserID:     f.userID,
		Slug:       "vox-abc123",
		Title:      domain.DefaultWebsiteTitle,
		LayoutJSON: domain.EmptyJSONArray,
		Content:    domain.EmptyJSONObject,
		CreatedAt:  time.Now(),
	}
	f.users = &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if id == f.userID {
				return &domain.User{ID: f.userID, IsGuest: true}, nil
			}
			return nil, nil
		},
	}
	f.websites = &mocks.MockWebsiteRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Website, error) {
			if id == f.websiteID {
				copied := *f.website
				return &copied, nil
			}
			return nil, nil
		},
		FindBySlugFunc: func(ctx context.Context, s string) (*domain.Website, error) {
			if s == f.website.Slug {
				copied := *f.website
				return &copied, nil
			}
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, w *domain.Website) error {
			f.website = w
			return nil
		},
	}
	f.service = NewService(f.websites, f.users, f.cache, f.events, "https://sites.example.com/", time.Minute, newTestLogger())
	return f
}

func (f *fixture) request() domain.SaveWebsiteRequest {
	return domain.SaveWebsiteRequest{
		UserID:    f.userID,
		WebsiteID: f.websiteID,
		Title:     "Sweet Dreams",
		Layout:    domain.JSONBlob(`["Hero","About"]`),
		Content:   domain.JSONBlob(`{"businessName": "Sweet Dreams",  "about":"Fresh bread"}`),
	}
}

func TestSave_Success(t *testing.T) {
	// Arrange
	f := newFixture()
	req := f.request()

	// Act
	resp, err := f.service.Save(context.Background(), req)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.URL != "https://sites.example.com/vox-abc123" {
		t.Errorf("unexpected url %s", resp.URL)
	}
	if resp.Title != "Sweet Dreams" {
		t.Errorf("unexpected title %s", resp.Title)
	}
	if string(f.website.Content) != string(req.Content) {
		t.Errorf("expected content to be stored verbatim, got %s", f.website.Content)
	}
	if string(f.website.LayoutJSON) != `["Hero","About"]` {
		t.Errorf("unexpected layout %s", f.website.LayoutJSON)
	}
	if subjects := f.events.Subjects(); len(subjects) != 1 || subjects[0] != domain.SubjectWebsiteSaved {
		t.Errorf("expected website.saved event, got %v", subjects)
	}
}

func TestSave_Validation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		mutate func(*domain.SaveWebsiteRequest)
	}{
		{"missing title", func(r *domain.SaveWebsiteRequest) { r.Title = "" }},
		{"missing user", func(r *domain.SaveWebsiteRequest) { r.UserID = "" }},
		{"missing layout", func(r *domain.SaveWebsiteRequest) { r.Layout = nil }},
		{"layout not array", func(r *domain.SaveWebsiteRequest) { r.Layout = domain.JSONBlob(`{"a":1}`) }},
		{"content not object", func(r *domain.SaveWebsiteRequest) { r.Content = domain.JSONBlob(`["x"]`) }},
		{"content null", func(r *domain.SaveWebsiteRequest) { r.Content = domain.JSONBlob(`null`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request()
			tt.mutate(&req)

			_, err := f.service.Save(context.Background(), req)
			if domain.KindOf(err) != domain.KindValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSave_UnknownUser(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.UserID = uuid.New().String()

	_, err := f.service.Save(context.Background(), req)
	if domain.KindOf(err) != domain.KindNotFound || err.Error() != "User not found" {
		t.Errorf("expected User not found, got %v", err)
	}
}

func TestSave_UnknownWebsite(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.WebsiteID = uuid.New().String()

	_, err := f.service.Save(context.Background(), req)
	if domain.KindOf(err) != domain.KindNotFound || err.Error() != "Website not found" {
		t.Errorf("expected Website not found, got %v", err)
	}
}

func TestSave_ForeignWebsite(t *testing.T) {
	f := newFixture()
	otherUser := uuid.New().String()
	f.users.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		return &domain.User{ID: id, IsGuest: true}, nil
	}
	req := f.request()
	req.UserID = otherUser

	_, err := f.service.Save(context.Background(), req)
	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("expected ownership validation error, got %v", err)
	}
	if f.website.Title != domain.DefaultWebsiteTitle {
		t.Error("expected foreign website to stay untouched")
	}
}

func TestSave_UpdateFailure(t *testing.T) {
	f := newFixture()
	f.websites.UpdateFunc = func(ctx context.Context, w *domain.Website) error {
		return errors.New("deadlock")
	}

	_, err := f.service.Save(context.Background(), f.request())
	if domain.KindOf(err) != domain.KindInternal {
		t.Errorf("expected internal error, got %v", err)
	}
	if len(f.events.Events) != 0 {
		t.Error("expected no event on failure")
	}
}

func TestGetBySlug_CachesAndInvalidatesOnSave(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.service.GetBySlug(ctx, "vox-abc123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.Title != domain.DefaultWebsiteTitle {
		t.Errorf("unexpected title %s", first.Title)
	}
	if !f.cache.Has(slugKey("vox-abc123")) {
		t.Fatal("expected website to be cached")
	}

	if _, err := f.service.GetBySlug(ctx, "vox-abc123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.websites.FindBySlugCalls != 1 {
		t.Errorf("expected cached read, got %d repository calls", f.websites.FindBySlugCalls)
	}

	if _, err := f.service.Save(ctx, f.request()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.cache.Has(slugKey("vox-abc123")) {
		t.Error("expected save to invalidate the cached website")
	}

	updated, err := f.service.GetBySlug(ctx, "vox-abc123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Title != "Sweet Dreams" {
		t.Errorf("expected fresh title after save, got %s", updated.Title)
	}
}

func TestGetBySlug_CacheHitKeepsStoredBytes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.website.Content = domain.JSONBlob(`{"businessName": "Tom & Jerry <Bakery>",  "about":"caf\u00e9"}`)
	f.website.LayoutJSON = domain.JSONBlob(`[ {"type": "hero"} ]`)

	miss, err := f.service.GetBySlug(ctx, "vox-abc123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	hit, err := f.service.GetBySlug(ctx, "vox-abc123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.websites.FindBySlugCalls != 1 {
		t.Fatalf("expected second read from cache, got %d repository calls", f.websites.FindBySlugCalls)
	}

	if string(miss.Content) != string(f.website.Content) {
		t.Errorf("expected stored content on miss, got %s", miss.Content)
	}
	if string(hit.Content) != string(miss.Content) {
		t.Errorf("expected identical content on hit, got %s want %s", hit.Content, miss.Content)
	}
	if string(hit.LayoutJSON) != string(miss.LayoutJSON) {
		t.Errorf("expected identical layout on hit, got %s want %s", hit.LayoutJSON, miss.LayoutJSON)
	}
	if !hit.CreatedAt.Equal(miss.CreatedAt) || hit.ID != miss.ID {
		t.Errorf("expected identical metadata on hit, got %+v", hit)
	}
}

func TestGetBySlug_NotFoundAndInvalid(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetBySlug(context.Background(), "vox-zzz999")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}

	_, err = f.service.GetBySlug(context.Background(), "Bad Slug")
	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestListByUser(t *testing.T) {
	f := newFixture()
	older := domain.Website{ID: uuid.New().String(), UserID: f.userID, Slug: "vox-old111", CreatedAt: time.Now().Add(-time.Hour)}
	newer := domain.Website{ID: uuid.New().String(), UserID: f.userID, Slug: "vox-new222", CreatedAt: time.Now()}
	f.websites.FindByUserIDFunc = func(ctx context.Context, userID string) ([]domain.Website, error) {
		return []domain.Website{newer, older}, nil
	}

	list, err := f.service.ListByUser(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 2 || list[0].Slug != "vox-new222" {
		t.Errorf("expected repository order to be kept, got %+v", list)
	}
	if list[1].URL != "https://sites.example.com/vox-old111" {
		t.Errorf("unexpected url %s", list[1].URL)
	}

	empty, err := f.service.ListByUser(context.Background(), "not-a-uuid")
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty list for unknown id, got %v, %v", empty, err)
	}
}
