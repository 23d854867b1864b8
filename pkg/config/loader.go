package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (optional) and the environment.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

func LoadWith(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	bindings := map[string][]string{
		"http.port":               {"PORT", "HTTP_PORT", "APP_HTTP_PORT"},
		"database.url":            {"DATABASE_URL", "APP_DATABASE_URL"},
		"redis.url":               {"REDIS_URL", "APP_REDIS_URL"},
		"queue.nats_url":          {"NATS_URL", "APP_QUEUE_NATS_URL"},
		"queue.rabbitmq_url":      {"RABBITMQ_URL", "APP_QUEUE_RABBITMQ_URL"},
		"jwt.secret":              {"JWT_SECRET", "APP_JWT_SECRET"},
		"deepgram.api_key":        {"DEEPGRAM_API_KEY", "APP_DEEPGRAM_API_KEY"},
		"groq.api_key":            {"GROQ_API_KEY", "APP_GROQ_API_KEY"},
		"website.public_base_url": {"PUBLIC_BASE_URL", "APP_WEBSITE_PUBLIC_BASE_URL"},
		"app.environment":         {"APP_ENVIRONMENT", "NODE_ENV"},
		"logging.level":           {"LOG_LEVEL", "APP_LOGGING_LEVEL"},
		"vault.address":           {"VAULT_ADDR", "APP_VAULT_ADDRESS"},
		"vault.token":             {"VAULT_TOKEN", "APP_VAULT_TOKEN"},
		"frontend_url":            {"FRONTEND_URL", "APP_FRONTEND_URL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// FRONTEND_URL narrows CORS to the web client.
	if origin := v.GetString("frontend_url"); origin != "" && len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{origin}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "vox-site")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 3001)
	v.SetDefault("http.read_timeout", 90*time.Second)
	v.SetDefault("http.write_timeout", 150*time.Second)
	v.SetDefault("http.idle_timeout", 120*time.Second)

	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.port", 9091)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("queue.driver", "none")

	v.SetDefault("jwt.guest_token_duration", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "vox-site")

	v.SetDefault("deepgram.base_url", "https://api.deepgram.com/v1")
	v.SetDefault("deepgram.model", "nova-2")

	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("groq.temperature", 0.2)

	v.SetDefault("providers.timeout", 45*time.Second)
	v.SetDefault("providers.max_retries", 0)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.secret_path", "secret/data/vox-site")

	v.SetDefault("opentelemetry.enabled", false)
	v.SetDefault("opentelemetry.service_name", "vox-site")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://jaeger:14268/api/traces")
	v.SetDefault("opentelemetry.jaeger.sampler_param", 1.0)

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.sampling.enabled", false)
	v.SetDefault("logging.sampling.initial", 100)
	v.SetDefault("logging.sampling.thereafter", 100)

	v.SetDefault("rate_limiting.enabled", true)
	v.SetDefault("rate_limiting.max_requests", 20)
	v.SetDefault("rate_limiting.window", time.Minute)

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 5)

	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.credentials", true)

	v.SetDefault("upload.max_file_size", 25*1024*1024)
	v.SetDefault("upload.allowed_mime_types", []string{
		"audio/webm",
		"audio/wav",
		"audio/mpeg",
		"audio/mpeag",
		"audio/mp3",
		"audio/mp4",
		"audio/ogg",
		"audio/flac",
		"video/mpeg",
	})

	v.SetDefault("website.public_base_url", "http://localhost:5173")
	v.SetDefault("website.cache_ttl", 10*time.Minute)
}
