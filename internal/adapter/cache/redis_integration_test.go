//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/ports"
)

func TestRedisCache_Operations(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("Redis container not available: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	c, err := NewRedisCache(url, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer c.Close()

	t.Run("Miss", func(t *testing.T) {
		if _, err := c.Get(ctx, "absent"); !errors.Is(err, ports.ErrCacheMiss) {
			t.Errorf("Expected ErrCacheMiss, got %v", err)
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		if err := c.Set(ctx, "website:slug:vox-abc123", []byte(`{"id":"1"}`), time.Minute); err != nil {
			t.Fatalf("Failed to set: %v", err)
		}
		val, err := c.Get(ctx, "website:slug:vox-abc123")
		if err != nil || val != `{"id":"1"}` {
			t.Errorf("Expected cached value, got %q, %v", val, err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = c.Delete(ctx, "website:slug:vox-abc123")
		if _, err := c.Get(ctx, "website:slug:vox-abc123"); !errors.Is(err, ports.ErrCacheMiss) {
			t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := c.Ping(); err != nil {
			t.Errorf("Expected ping to succeed, got %v", err)
		}
	})
}
