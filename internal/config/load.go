package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joho/godotenv"
)

const maxPlacesRadius = 50000

var (
	configOnce    sync.Once
	configValue   *Config
	envFileLoaded bool
)

// Load: 환경 변수 기반 설정을 한 번만 로드합니다.
func Load() *Config {
	configOnce.Do(func() {
		envFileLoaded = godotenv.Load() == nil
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig: 설정을 로드하고 검증합니다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate: 설정 유효성을 검사합니다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Gemini.APIKey == "" {
		return errors.New("GEMINI_API_KEY is not set")
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini model is empty")
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		return fmt.Errorf("gemini timeout must be positive: %d", c.Gemini.TimeoutSeconds)
	}
	if c.Places.TimeoutSeconds <= 0 {
		return fmt.Errorf("places timeout must be positive: %d", c.Places.TimeoutSeconds)
	}
	if c.Places.DefaultRadius <= 0 || c.Places.DefaultRadius > maxPlacesRadius {
		return fmt.Errorf("places default radius out of range: %d", c.Places.DefaultRadius)
	}
	if c.Identity.RequireSession && !c.Identity.Enabled() {
		return errors.New("IDENTITY_REQUIRE_SESSION set without FIREBASE_CREDENTIALS_PATH")
	}
	return nil
}

// LogEnvStatus: 환경 설정 상태를 로그로 남깁니다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	logger.Debug(
		"env_status",
		"env_file", envFileLoaded,
		"gemini_key", maskSecret(cfg.Gemini.APIKey),
		"model", cfg.Gemini.Model,
		"gemini_timeout", cfg.Gemini.TimeoutSeconds,
		"places_key", maskSecret(cfg.Places.APIKey),
		"places_timeout", cfg.Places.TimeoutSeconds,
		"identity_credentials", cfg.Identity.CredentialsPath,
		"require_session", cfg.Identity.RequireSession,
		"cors_origins", cfg.CORS.AllowedOrigins,
		"rate_limit_rpm", cfg.HTTPRateLimit.RequestsPerMinute,
		"usage_db", cfg.Database.UsageEnabled,
	)

	if cfg.Places.APIKey == "" {
		logger.Error("env_missing_google_maps_api_key")
	}
	if !cfg.Identity.Enabled() {
		logger.Error("env_missing_firebase_credentials_path")
	}
}

func buildConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			APIKey:         parseGeminiKey(),
			Model:          getEnvString("GEMINI_MODEL", "gemini-2.0-flash"),
			TimeoutSeconds: getEnvInt("GEMINI_TIMEOUT", 60),
		},
		Places: PlacesConfig{
			APIKey:         getEnvString("GOOGLE_MAPS_API_KEY", ""),
			BaseURL:        getEnvString("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place/nearbysearch/json"),
			TimeoutSeconds: getEnvInt("PLACES_TIMEOUT", 10),
			DefaultRadius:  getEnvInt("PLACES_DEFAULT_RADIUS", 5000),
		},
		Identity: IdentityConfig{
			CredentialsPath: getEnvString("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnvString("FIREBASE_PROJECT_ID", ""),
			RequireSession:  getEnvBool("IDENTITY_REQUIRE_SESSION", false),
			TimeoutSeconds:  max(1, getEnvInt("IDENTITY_TIMEOUT", 10)),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnvString("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			MaxAgeHours:    getEnvNonNegativeInt("CORS_MAX_AGE_HOURS", 12),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:           getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:           getEnvInt("HTTP_PORT", 5000),
			HTTP2Enabled:   getEnvBool("HTTP2_ENABLED", true),
			TrustedProxies: splitList(getEnvString("HTTP_TRUSTED_PROXIES", "")),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute:   getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			StoreURL:            getEnvString("HTTP_RATE_LIMIT_STORE_URL", ""),
			CacheSize:           max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:     max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
			ConnectMaxAttempts:  max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_STORE_CONNECT_MAX_ATTEMPTS", 6)),
			ConnectRetrySeconds: getEnvNonNegativeInt("HTTP_RATE_LIMIT_STORE_CONNECT_RETRY_SECONDS", 1),
		},
		Database: DatabaseConfig{
			UsageEnabled: getEnvBool("DB_USAGE_ENABLED", false),
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			Name:         getEnvString("DB_NAME", "dermacare"),
			User:         getEnvString("DB_USER", "dermacare"),
			Password:     getEnvString("DB_PASSWORD", ""),
			MinPool:      getEnvInt("DB_MIN_POOL", 1),
			MaxPool:      getEnvInt("DB_MAX_POOL", 5),
		},
		Telemetry: TelemetryConfig{
			Enabled:        getEnvBool("OTEL_ENABLED", false),
			ServiceName:    getEnvString("OTEL_SERVICE_NAME", "dermacare-server"),
			ServiceVersion: getEnvString("OTEL_SERVICE_VERSION", "dev"),
			Environment:    getEnvString("OTEL_ENVIRONMENT", "local"),
			OTLPEndpoint:   getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			OTLPInsecure:   getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRate:     getEnvFloat("OTEL_SAMPLE_RATE", 1.0),
		},
	}
}
