package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("SENTIMENT_PROVIDER", "")
	t.Setenv("AZURE_API_KEY", "secret")
	t.Setenv("AZURE_ENDPOINT", "https://example.cognitiveservices.azure.com/")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)
	for _, key := range []string{"TEXT_ANALYTICS_MAX_DOCUMENTS", "TEXT_ANALYTICS_MAX_ATTEMPTS", "MAX_ROWS", "TEXT_ANALYTICS_TIMEOUT", "AZURE_LANGUAGE", "HTTP_ADDR", "VALKEY_INIT_ADDRESS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider != ProviderAzure {
		t.Errorf("provider = %q, want %q", cfg.Provider, ProviderAzure)
	}
	if cfg.Endpoint != "https://example.cognitiveservices.azure.com" {
		t.Errorf("endpoint not trimmed: %q", cfg.Endpoint)
	}
	if cfg.MaxDocuments != 10 || cfg.MaxAttempts != 1 || cfg.MaxRows != 10 {
		t.Errorf("unexpected limits %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.Language != "en" || cfg.HTTPAddr != ":8080" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Valkey.Enabled() {
		t.Errorf("valkey should be disabled without an address")
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		missing string
	}{
		{name: "no key", key: "AZURE_API_KEY", missing: "AZURE_API_KEY"},
		{name: "no endpoint", key: "AZURE_ENDPOINT", missing: "AZURE_ENDPOINT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setCredentials(t)
			t.Setenv(tt.key, "")

			_, err := Load()
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not name %s", err, tt.missing)
			}
		})
	}
}

func TestLoadVaderSkipsCredentials(t *testing.T) {
	t.Setenv("SENTIMENT_PROVIDER", "vader")
	t.Setenv("AZURE_API_KEY", "")
	t.Setenv("AZURE_ENDPOINT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider != ProviderVader {
		t.Errorf("provider = %q", cfg.Provider)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric chunk size", key: "TEXT_ANALYTICS_MAX_DOCUMENTS", value: "ten"},
		{name: "zero chunk size", key: "TEXT_ANALYTICS_MAX_DOCUMENTS", value: "0"},
		{name: "zero rows", key: "MAX_ROWS", value: "0"},
		{name: "bad timeout", key: "TEXT_ANALYTICS_TIMEOUT", value: "soon"},
		{name: "unknown provider", key: "SENTIMENT_PROVIDER", value: "oracle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setCredentials(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
