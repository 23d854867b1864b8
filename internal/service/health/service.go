// Package health reports liveness and readiness of the server and its backing stores.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusOK        Status = "ok"
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

const checkTimeout = 5 * time.Second

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse is the liveness answer.
type HealthResponse struct {
	Status      Status    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Version     string    `json:"version,omitempty"`
	Uptime      string    `json:"uptime,omitempty"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker defines a health check function
type Checker func(ctx context.Context) CheckResult

// Pinger is implemented by the cache and queue adapters.
type Pinger interface {
	Ping() error
}

// Config holds health service configuration. Nil dependencies are not checked.
type Config struct {
	Version     string
	Environment string
	DB          *sql.DB
	Cache       Pinger
	Queue       Pinger
}

// Service handles health checks
type Service struct {
	startTime   time.Time
	version     string
	environment string
	checkers    map[string]Checker
	log         *zap.Logger
	mu          sync.RWMutex
}

func NewService(config Config, log *zap.Logger) *Service {
	s := &Service{
		startTime:   time.Now(),
		version:     config.Version,
		environment: config.Environment,
		checkers:    make(map[string]Checker),
		log:         log,
	}

	if config.DB != nil {
		s.RegisterChecker("database", PingChecker("database", config.DB.PingContext, log))
	}
	if config.Cache != nil {
		s.RegisterChecker("cache", PingChecker("cache", ignoreContext(config.Cache), log))
	}
	if config.Queue != nil {
		s.RegisterChecker("queue", PingChecker("queue", ignoreContext(config.Queue), log))
	}

	return s
}

// RegisterChecker adds or replaces a named readiness check.
func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Debug("Registered health checker", zap.String("name", name))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	env := s.environment
	if env == "" {
		env = "development"
	}
	return &HealthResponse{
		Status:      StatusOK,
		Timestamp:   time.Now().UTC(),
		Environment: env,
		Version:     s.version,
		Uptime:      time.Since(s.startTime).Round(time.Second).String(),
	}
}

// Ready runs every registered check concurrently.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult, len(checkers))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}

	wg.Wait()

	ready := true
	for _, result := range results {
		if result.Status != StatusHealthy {
			ready = false
		}
	}

	overall := StatusHealthy
	if !ready {
		overall = StatusUnhealthy
	}

	return &ReadyResponse{
		Ready:     ready,
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Checks:    results,
	}
}

// PingChecker turns a ping function into a Checker.
func PingChecker(name string, ping func(ctx context.Context) error, log *zap.Logger) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		result := CheckResult{
			Name:      name,
			Timestamp: start.UTC(),
		}

		err := ping(ctx)
		result.Duration = time.Since(start)

		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = fmt.Sprintf("ping failed: %v", err)
			log.Warn("Health check failed", zap.String("check", name), zap.Error(err))
		} else {
			result.Status = StatusHealthy
			result.Message = "connection ok"
		}

		return result
	}
}

func ignoreContext(p Pinger) func(context.Context) error {
	return func(context.Context) error { return p.Ping() }
}
