package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderAzure = "azure"
	ProviderVader = "vader"
)

var ErrMissingCredentials = errors.New("missing text analytics credentials")

type Config struct {
	Provider string

	APIKey   string
	Endpoint string
	Language string

	// MaxDocuments is the per-call document limit of the remote service.
	MaxDocuments int
	Timeout      time.Duration
	MaxAttempts  int

	MaxRows             int
	HTTPAddr            string
	HealthcheckInterval time.Duration
	LogLevel            string

	Valkey ValkeyConfig
}

type ValkeyConfig struct {
	InitAddress string
	Password    string
	UseTLS      bool
}

func (v ValkeyConfig) Enabled() bool {
	return v.InitAddress != ""
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// Load reads the process environment. With the azure provider both
// AZURE_API_KEY and AZURE_ENDPOINT must be set, otherwise the returned
// error wraps ErrMissingCredentials.
func Load() (Config, error) {
	cfg := Config{
		Provider: strings.ToLower(getEnv("SENTIMENT_PROVIDER", ProviderAzure)),
		APIKey:   getEnv("AZURE_API_KEY", ""),
		Endpoint: strings.TrimRight(getEnv("AZURE_ENDPOINT", ""), "/"),
		Language: getEnv("AZURE_LANGUAGE", "en"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Valkey: ValkeyConfig{
			InitAddress: getEnv("VALKEY_INIT_ADDRESS", ""),
			Password:    getEnv("VALKEY_PASSWORD", ""),
			UseTLS:      getEnv("VALKEY_TLS", "") == "true",
		},
	}

	var err error
	if cfg.MaxDocuments, err = getInt("TEXT_ANALYTICS_MAX_DOCUMENTS", 10); err != nil {
		return Config{}, err
	}
	if cfg.MaxAttempts, err = getInt("TEXT_ANALYTICS_MAX_ATTEMPTS", 1); err != nil {
		return Config{}, err
	}
	if cfg.MaxRows, err = getInt("MAX_ROWS", 10); err != nil {
		return Config{}, err
	}
	if cfg.Timeout, err = getDuration("TEXT_ANALYTICS_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.HealthcheckInterval, err = getDuration("HEALTHCHECK_INTERVAL", 15*time.Second); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAzure:
		var missing []string
		if c.APIKey == "" {
			missing = append(missing, "AZURE_API_KEY")
		}
		if c.Endpoint == "" {
			missing = append(missing, "AZURE_ENDPOINT")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s not set", ErrMissingCredentials, strings.Join(missing, ", "))
		}
	case ProviderVader:
	default:
		return fmt.Errorf("unknown SENTIMENT_PROVIDER %q", c.Provider)
	}

	if c.MaxDocuments < 1 {
		return fmt.Errorf("TEXT_ANALYTICS_MAX_DOCUMENTS must be at least 1, got %d", c.MaxDocuments)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("TEXT_ANALYTICS_MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts)
	}
	if c.MaxRows < 1 {
		return fmt.Errorf("MAX_ROWS must be at least 1, got %d", c.MaxRows)
	}
	return nil
}
