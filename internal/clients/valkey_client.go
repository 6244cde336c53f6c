package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/sentiboard/config"
	"github.com/spacesedan/sentiboard/internal/models"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_RESULT_TTL = 24 * time.Hour
	valkeyRetries     = 3
)

var valkeyRetryDelay = 250 * time.Millisecond

// ValkeyClient caches classified results keyed by text hash.
type ValkeyClient struct {
	Client valkey.Client
}

func NewValkeyClient(ctx context.Context, cfg config.ValkeyConfig) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.InitAddress,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.InitAddress))

	return &ValkeyClient{Client: client}, nil
}

func (vc *ValkeyClient) Close() {
	if vc != nil && vc.Client != nil {
		vc.Client.Close()
	}
}

// GetResults returns the cached results found for keys. Missing keys and
// undecodable values are absent from the map.
func (vc *ValkeyClient) GetResults(ctx context.Context, keys []string) (map[string]models.SentimentResult, error) {
	found := make(map[string]models.SentimentResult, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	res := vc.DoWithRetry(ctx, vc.Client.B().Mget().Key(keys...).Build().Pin(), valkeyRetries)
	values, err := res.ToArray()
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] mget failed: %w", err)
	}

	for i, value := range values {
		if i >= len(keys) {
			break
		}
		raw, err := value.ToString()
		if err != nil {
			if !valkey.IsValkeyNil(err) {
				slog.Warn("[ValkeyClient] Unreadable cache entry",
					slog.String("key", keys[i]),
					slog.String("error", err.Error()))
			}
			continue
		}

		var result models.SentimentResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			slog.Warn("[ValkeyClient] Undecodable cache entry",
				slog.String("key", keys[i]),
				slog.String("error", err.Error()))
			continue
		}
		found[keys[i]] = result
	}

	return found, nil
}

func (vc *ValkeyClient) StoreResults(ctx context.Context, entries map[string]models.SentimentResult) error {
	if len(entries) == 0 {
		return nil
	}

	completed := make([]valkey.Completed, 0, len(entries))
	for key, result := range entries {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("[ValkeyClient] failed to marshal result: %w", err)
		}
		completed = append(completed, vc.Client.B().Set().Key(key).Value(string(payload)).
			ExSeconds(int64(VALKEY_RESULT_TTL/time.Second)).Build().Pin())
	}

	for _, res := range vc.DoMultiWithRetry(ctx, completed, valkeyRetries) {
		if err := res.Error(); err != nil {
			return err
		}
	}

	slog.Debug("[ValkeyClient] Stored results", slog.Int("count", len(entries)))
	return nil
}

// DoMultiWithRetry resends the whole pipeline while any reply carries a
// connection-level error. Valkey error replies are returned as is. The
// commands must be pinned, since they are sent more than once.
func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		if i > 0 && !waitRetry(ctx) {
			break
		}

		results = vc.Client.DoMulti(ctx, completed...)
		var failed error
		for _, r := range results {
			if err := r.NonValkeyError(); err != nil {
				failed = err
				break
			}
		}
		if failed == nil {
			break
		}
		slog.Warn("[ValkeyClient] Do Multi failed",
			slog.Int("attempt", i+1),
			slog.String("error", failed.Error()))
	}

	return results
}

// DoWithRetry resends a pinned command while it fails with a
// connection-level error.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		if i > 0 && !waitRetry(ctx) {
			break
		}

		result = vc.Client.Do(ctx, completed)
		err := result.NonValkeyError()
		if err == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}

	return result
}

func waitRetry(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(valkeyRetryDelay):
		return true
	}
}
