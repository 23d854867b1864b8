package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/adapter/ai/deepgram"
	"github.com/seu-repo/vox-site/internal/adapter/ai/groq"
	"github.com/seu-repo/vox-site/internal/adapter/cache"
	"github.com/seu-repo/vox-site/internal/adapter/grpc/server"
	"github.com/seu-repo/vox-site/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/vox-site/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/vox-site/internal/adapter/queue"
	"github.com/seu-repo/vox-site/internal/adapter/storage/postgres"
	"github.com/seu-repo/vox-site/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/vox-site/internal/adapter/websocket"
	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/vox-site/internal/observability/logging"
	"github.com/seu-repo/vox-site/internal/observability/telemetry"
	"github.com/seu-repo/vox-site/internal/ports"
	"github.com/seu-repo/vox-site/internal/service/auth"
	"github.com/seu-repo/vox-site/internal/service/guest"
	"github.com/seu-repo/vox-site/internal/service/health"
	"github.com/seu-repo/vox-site/internal/service/voice"
	"github.com/seu-repo/vox-site/internal/service/website"
	"github.com/seu-repo/vox-site/pkg/config"
)

const (
	shutdownTimeout   = 30 * time.Second
	readinessInterval = 10 * time.Second
	uploadOverhead    = 1 << 20
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting Vox Site",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	shutdownTracer, err := telemetry.InitTracer(cfg.OpenTelemetry, cfg.App.Version, cfg.App.Environment)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	// 4. Resolve provider keys from Vault
	if cfg.Vault.Enabled {
		if err := loadProviderKeys(cfg, logger); err != nil {
			logger.Fatal("Failed to load provider keys from Vault", zap.Error(err))
		}
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Cache (Redis, or in-process when no URL is set)
	var appCache ports.Cache
	if cfg.Redis.URL != "" {
		appCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	} else {
		logger.Info("REDIS_URL not set, using in-process cache")
		appCache = cache.NewLocalCache(time.Minute, logger)
	}

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	events := queue.NewEventPublisher(messageQueue, logger)

	// 8. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	websiteRepo := postgres.NewWebsiteRepository(db, logger)

	// 9. Initialize Provider Clients (one breaker per provider)
	providerHTTP := &http.Client{Timeout: cfg.Providers.Timeout}

	deepgramClient, err := deepgram.NewClient(
		cfg.Deepgram.APIKey,
		circuitbreaker.NewHTTPClient(providerHTTP, circuitbreaker.FromConfig(domain.ServiceDeepgram, cfg.CircuitBreaker, logger), logger),
		logger,
		deepgram.WithBaseURL(cfg.Deepgram.BaseURL),
	)
	if err != nil {
		logger.Fatal("Failed to initialize Deepgram client", zap.Error(err))
	}

	groqClient, err := groq.NewClient(groq.Config{
		APIKey:      cfg.Groq.APIKey,
		BaseURL:     cfg.Groq.BaseURL,
		Model:       cfg.Groq.Model,
		Temperature: cfg.Groq.Temperature,
		Timeout:     cfg.Providers.Timeout,
		MaxRetries:  cfg.Providers.MaxRetries,
	}, circuitbreaker.FromConfig(domain.ServiceGroq, cfg.CircuitBreaker, logger), logger)
	if err != nil {
		logger.Fatal("Failed to initialize Groq client", zap.Error(err))
	}

	// 10. Initialize Services (Business Logic Layer)
	tokenService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.GuestTokenDuration, logger)
	guestService := guest.NewService(userRepo, tokenService, appCache, events, logger)
	websiteService := website.NewService(websiteRepo, userRepo, appCache, events,
		cfg.Website.PublicBaseURL, cfg.Website.CacheTTL, logger)
	pipeline := voice.NewPipeline(
		deepgram.NewTranscriber(deepgramClient, cfg.Deepgram.Model, logger),
		groq.NewTranslator(groqClient, logger),
		groq.NewExtractor(groqClient, logger),
		logger,
	)
	healthService := health.NewService(health.Config{
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		DB:          sqlDB,
		Cache:       appCache,
		Queue:       messageQueue,
	}, logger)

	// 11. Subscribe to domain events
	if messageQueue != nil {
		if err := messageQueue.Subscribe(domain.SubjectWebsiteSaved, websiteService.HandleWebsiteSaved); err != nil {
			logger.Warn("Failed to subscribe to website events", zap.Error(err))
		}
	}

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		BodyLimit:             int(cfg.Upload.MaxFileSize) + uploadOverhead,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	app.Use(middleware.RateLimit(cfg.RateLimiting))

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// API Routes
	handlers.Routes{
		Guest: handlers.NewGuestHandler(guestService, logger),
		Voice: handlers.NewVoiceHandler(pipeline, guestService, events,
			handlers.NewAudioUpload(cfg.Upload), logger),
		Website:   handlers.NewWebsiteHandler(websiteService, logger),
		GuestAuth: middleware.GuestToken(tokenService),
	}.Register(app)

	// Voice progress WebSocket
	voiceStream := wsAdapter.NewVoiceStreamHandler(pipeline, guestService, tokenService, events,
		cfg.Upload.AllowedMimeTypes, cfg.Upload.MaxFileSize, logger)
	app.Get("/ws/voice", voiceStream.Upgrade, voiceStream.Handler())

	app.Use(middleware.NotFound)

	// 13. Initialize gRPC Health Server
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var grpcServer *server.GRPCServer
	if cfg.GRPC.Enabled {
		grpcServer = server.NewGRPCServer(logger)
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			logger.Fatal("Failed to listen for gRPC", zap.Error(err))
		}
		go func() {
			logger.Info("Starting gRPC Server", zap.Int("port", cfg.GRPC.Port))
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC Server failed", zap.Error(err))
			}
		}()
		go grpcServer.WatchReadiness(ctx, func(ctx context.Context) bool {
			return healthService.Ready(ctx).Ready
		}, readinessInterval)
	}

	// 14. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 15. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}
	if messageQueue != nil {
		if err := messageQueue.Close(); err != nil {
			logger.Warn("Error closing message queue", zap.Error(err))
		}
	}
	if err := appCache.Close(); err != nil {
		logger.Warn("Error closing cache", zap.Error(err))
	}
	if err := postgres.Close(db); err != nil {
		logger.Warn("Error closing database", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("Error shutting down tracer provider", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// loadProviderKeys fills provider keys missing from the environment.
func loadProviderKeys(cfg *config.Config, logger *zap.Logger) error {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	keys, err := sm.ProviderKeys(ctx, cfg.Vault.SecretPath)
	if err != nil {
		return err
	}

	if cfg.Deepgram.APIKey == "" {
		cfg.Deepgram.APIKey = keys.DeepgramAPIKey
	}
	if cfg.Groq.APIKey == "" {
		cfg.Groq.APIKey = keys.GroqAPIKey
	}

	if cfg.Deepgram.APIKey == "" || cfg.Groq.APIKey == "" {
		return errors.New("deepgram_api_key and groq_api_key must be present in Vault or the environment")
	}

	logger.Info("Provider keys loaded from Vault", zap.String("path", cfg.Vault.SecretPath))
	return nil
}
