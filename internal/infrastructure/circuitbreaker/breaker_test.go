package circuitbreaker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/pkg/config"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New(Settings{
		Name:             "test",
		MaxRequests:      1,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}, zap.NewNop())

	failing := func(ctx context.Context) error { return errors.New("boom") }

	for i := 0; i < 2; i++ {
		if err := b.Execute(context.Background(), failing); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	if b.State() != gobreaker.StateOpen {
		t.Fatalf("expected breaker to be open, got %s", b.State())
	}

	calls := 0
	err := b.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if !IsCircuitOpen(err) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no call while open, got %d", calls)
	}
}

func TestBreaker_CancellationIsNotAFailure(t *testing.T) {
	b := New(Settings{Name: "test", FailureThreshold: 1, Timeout: time.Minute}, zap.NewNop())

	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), func(ctx context.Context) error {
			return context.Canceled
		})
	}

	if b.State() != gobreaker.StateClosed {
		t.Errorf("expected breaker to stay closed, got %s", b.State())
	}
}

func TestBreaker_DisabledPassesThrough(t *testing.T) {
	b := Disabled("off")

	got, err := ExecuteWithResult(context.Background(), b, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %s", got)
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("expected disabled breaker to report closed")
	}
}

func TestHTTPClient_ReturnsServerErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), New(DefaultSettings("upstream"), zap.NewNop()), zap.NewNop())

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected response, got error %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", resp.StatusCode)
	}
}

func TestFromConfig(t *testing.T) {
	disabled := FromConfig("deepgram", config.CircuitBreakerConfig{Enabled: false}, zap.NewNop())
	for i := 0; i < 10; i++ {
		_ = disabled.Execute(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	}
	if disabled.State() != gobreaker.StateClosed {
		t.Errorf("expected disabled breaker to stay closed, got %s", disabled.State())
	}

	enabled := FromConfig("groq", config.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1}, zap.NewNop())
	_ = enabled.Execute(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	if enabled.State() != gobreaker.StateOpen {
		t.Errorf("expected breaker to open after one failure, got %s", enabled.State())
	}
	if enabled.Name() != "groq" {
		t.Errorf("expected name groq, got %s", enabled.Name())
	}
}
