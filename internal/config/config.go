package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Auth    AuthConfig
	Cache   CacheConfig
	Storage StorageConfig
	Observe ObserveConfig
}

type AppConfig struct {
	Name    string `env:"ALONU_APP_NAME, default=ALONU"`
	Version string `env:"ALONU_APP_VERSION, default=1.0.0"`
}

type APIConfig struct {
	// BaseURL is the origin every request targets, including the backend
	// context path. HTTP by default: the upstream deployment does not
	// terminate TLS.
	BaseURL string `env:"ALONU_API_BASE_URL, default=http://51.75.162.85:8080/artisanat_v8/api"`

	// RequestTimeoutSeconds bounds every outbound call. Zero disables the
	// deadline entirely.
	RequestTimeoutSeconds int `env:"ALONU_REQUEST_TIMEOUT_SECS, default=30"`

	OutgoingHTTPMaxIdleConns    int `env:"ALONU_OUTGOING_MAX_IDLE_CONNS, default=100"`
	OutgoingHTTPMaxConnsPerHost int `env:"ALONU_OUTGOING_MAX_CONNS_PER_HOST, default=20"`
}

// AuthConfig specifies the bootstrap service account used to read
// protected endpoints on behalf of anonymous visitors. The defaults match
// the account provisioned on the upstream backend; deployments should
// override them rather than rely on the baked-in pair.
type AuthConfig struct {
	ServiceUsername string `env:"ALONU_SERVICE_USERNAME, default=sysadmin"`
	ServicePassword string `env:"ALONU_SERVICE_PASSWORD, default=@sys@#123"`

	// PublicBearerToken is an optional pre-provisioned token used as a
	// last-resort fallback for protected read endpoints before a bootstrap
	// sign-in is attempted.
	PublicBearerToken string `env:"ALONU_PUBLIC_BEARER_TOKEN"`

	// TokenTTLMinutes is how long an acquired bootstrap token is reused
	// before being discarded.
	TokenTTLMinutes int `env:"ALONU_TOKEN_TTL_MINS, default=60"`

	// MaxSigninAttempts caps failed bootstrap sign-ins per session. Once
	// reached, no further attempts are made until restart.
	MaxSigninAttempts int `env:"ALONU_MAX_SIGNIN_ATTEMPTS, default=3"`
}

// CacheConfig specifies catalog cache durations.
type CacheConfig struct {
	CategoryTTLMinutes        int `env:"ALONU_CATEGORY_CACHE_TTL_MINS, default=10"`
	CategoryPersistTTLMinutes int `env:"ALONU_CATEGORY_PERSIST_TTL_MINS, default=30"`
	ArtisanTTLMinutes         int `env:"ALONU_ARTISAN_CACHE_TTL_MINS, default=5"`
}

type StorageConfig struct {
	// Path locates the durable state file. Empty selects a file under the
	// user configuration directory.
	Path string `env:"ALONU_STATE_FILE"`
}

type ObserveConfig struct {
	Enabled                    bool   `env:"OBSERVE_ENABLED, default=false"`
	MetricsEnabled             bool   `env:"OBSERVE_METRICS_ENABLED, default=true"`
	ServiceName                string `env:"OBSERVE_SERVICE_NAME, default=alonu-client"`
	TraceBatchTimeoutSeconds   int    `env:"OBSERVE_TRACE_BATCH_TIMEOUT_SECS, default=20"`
	MetricReadIntervalSeconds  int    `env:"OBSERVE_METRIC_READ_INTERVAL_SECS, default=60"`
	HTTPTransportEnabled       bool   `env:"OBSERVE_HTTP_TRANSPORT_ENABLED, default=true"`
	HTTPConnectionTraceEnabled bool   `env:"OBSERVE_CONNECTION_TRACE_ENABLED, default=true"`
}

func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookup envconfig.Lookuper) (Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookup,
	})
	if err != nil {
		return cfg, err
	}

	err = cfg.Validate()
	if err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("ALONU_API_BASE_URL must not be empty")
	}
	if c.API.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("ALONU_REQUEST_TIMEOUT_SECS must not be negative")
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

func (c *AuthConfig) Validate() error {
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("ALONU_TOKEN_TTL_MINS must be positive")
	}
	if c.MaxSigninAttempts <= 0 {
		return fmt.Errorf("ALONU_MAX_SIGNIN_ATTEMPTS must be positive")
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if c.CategoryTTLMinutes <= 0 || c.ArtisanTTLMinutes <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.CategoryPersistTTLMinutes < c.CategoryTTLMinutes {
		return fmt.Errorf("ALONU_CATEGORY_PERSIST_TTL_MINS must be at least the in-memory TTL")
	}
	return nil
}
