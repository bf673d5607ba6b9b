package config

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// GeminiConfig: generative model settings. Sampling parameters are fixed in the gemini package.
type GeminiConfig struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// Timeout: bounded wait for a whole reply stream.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// PlacesConfig: places lookup settings.
type PlacesConfig struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
	DefaultRadius  int
}

// Timeout: bounded wait for one places round-trip.
func (p PlacesConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// IdentityConfig: identity provider settings.
type IdentityConfig struct {
	CredentialsPath string
	ProjectID       string
	RequireSession  bool
	TimeoutSeconds  int
}

// Timeout: bounded wait for one identity provider call.
func (i IdentityConfig) Timeout() time.Duration {
	return time.Duration(i.TimeoutSeconds) * time.Second
}

// Enabled: credentials were configured.
func (i IdentityConfig) Enabled() bool {
	return i.CredentialsPath != ""
}

// CORSConfig: browser origin policy.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAgeHours    int
}

// LoggingConfig: 로깅 설정입니다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig: HTTP 서버 설정입니다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
	// TrustedProxies: X-Forwarded-For 를 믿을 프록시 IP/CIDR. 비면 소켓 주소만 쓴다.
	TrustedProxies []string
}

// HTTPRateLimitConfig: per-client request limit. StoreURL selects the shared Valkey counter.
type HTTPRateLimitConfig struct {
	RequestsPerMinute   int
	StoreURL            string
	CacheSize           int
	CacheTTLSeconds     int
	ConnectMaxAttempts  int
	ConnectRetrySeconds int
}

// DatabaseConfig: token usage accounting store.
type DatabaseConfig struct {
	UsageEnabled bool
	Host         string
	Port         int
	Name         string
	User         string
	Password     string
	MinPool      int
	MaxPool      int
}

// DSN: DB 접속 문자열을 반환합니다.
func (d DatabaseConfig) DSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// TelemetryConfig: OpenTelemetry tracing settings.
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64
}

// Config: 애플리케이션 전체 설정입니다. Immutable after ProvideConfig returns.
type Config struct {
	Gemini        GeminiConfig
	Places        PlacesConfig
	Identity      IdentityConfig
	CORS          CORSConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPRateLimit HTTPRateLimitConfig
	Database      DatabaseConfig
	Telemetry     TelemetryConfig
}
