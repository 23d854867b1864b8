package website

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/seu-repo/vox-site/internal/domain"
)

func TestHandleWebsiteSaved_EvictsCachedCopy(t *testing.T) {
	// Arrange
	f := newFixture()
	ctx := context.Background()
	if _, err := f.service.GetBySlug(ctx, "vox-abc123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !f.cache.Has("website:slug:vox-abc123") {
		t.Fatal("expected website to be cached")
	}
	data, _ := json.Marshal(domain.WebsiteSavedEvent{Slug: "vox-abc123"})

	// Act
	err := f.service.HandleWebsiteSaved(data)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.cache.Has("website:slug:vox-abc123") {
		t.Error("expected cached website to be evicted")
	}
}

func TestHandleWebsiteSaved_BadPayload(t *testing.T) {
	f := newFixture()

	if err := f.service.HandleWebsiteSaved([]byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}
