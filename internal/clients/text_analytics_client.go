package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spacesedan/sentiboard/internal/models"
)

var (
	ErrNoDocuments      = errors.New("no documents to analyze")
	ErrTooManyDocuments = errors.New("too many documents for one call")
)

// APIError is a non-2xx response from the Text Analytics service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("text analytics returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("text analytics returned status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type TextAnalyticsOptions struct {
	Endpoint     string
	APIKey       string
	Language     string
	MaxDocuments int
	MaxAttempts  int
	Timeout      time.Duration
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// TextAnalyticsClient calls the sentiment endpoint of an Azure AI Language
// resource. It is safe for concurrent use and never mutated after creation.
type TextAnalyticsClient struct {
	client       *http.Client
	endpoint     string
	apiKey       string
	language     string
	maxDocuments int
	maxAttempts  int
	backoff      time.Duration
}

func NewTextAnalyticsClient(opts TextAnalyticsOptions) *TextAnalyticsClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	slog.Info("[TextAnalyticsClient] Initializing Client",
		slog.String("endpoint", opts.Endpoint),
		slog.Duration("timeout", httpClient.Timeout),
		slog.Int("max_documents", opts.MaxDocuments),
		slog.Int("max_attempts", maxAttempts))

	return &TextAnalyticsClient{
		client:       httpClient,
		endpoint:     opts.Endpoint,
		apiKey:       opts.APIKey,
		language:     opts.Language,
		maxDocuments: opts.MaxDocuments,
		maxAttempts:  maxAttempts,
		backoff:      INITIAL_BACKOFF,
	}
}

func (c *TextAnalyticsClient) Language() string {
	return c.language
}

func (c *TextAnalyticsClient) MaxDocuments() int {
	return c.maxDocuments
}

// AnalyzeSentiment sends one request for texts. Document ids are the
// positions of the texts as decimal strings.
func (c *TextAnalyticsClient) AnalyzeSentiment(ctx context.Context, texts []string) (models.SentimentBatchResponse, error) {
	var result models.SentimentBatchResponse
	if len(texts) == 0 {
		return result, ErrNoDocuments
	}
	if c.maxDocuments > 0 && len(texts) > c.maxDocuments {
		return result, fmt.Errorf("%w: %d > %d", ErrTooManyDocuments, len(texts), c.maxDocuments)
	}

	input := models.SentimentBatchRequest{
		Documents: make([]models.SentimentDocument, len(texts)),
	}
	for i, text := range texts {
		input.Documents[i] = models.SentimentDocument{
			ID:       strconv.Itoa(i),
			Language: c.language,
			Text:     text,
		}
	}

	slog.Debug("[TextAnalyticsClient] Requesting sentiment analysis",
		slog.Int("documents", len(texts)))
	start := time.Now()

	if err := c.postJSON(ctx, c.endpoint+SENTIMENT_PATH, input, &result); err != nil {
		slog.Error("[TextAnalyticsClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return result, err
	}

	slog.Info("[TextAnalyticsClient] Sentiment Analysis request successful",
		slog.Int("documents", len(result.Documents)),
		slog.Int("errors", len(result.Errors)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// Ping reports whether the endpoint answers HTTP at all. Any status below
// 500 counts as reachable.
func (c *TextAnalyticsClient) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode < 500
}

func (c *TextAnalyticsClient) doWithRetry(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > MAX_BACKOFF {
				backoff = MAX_BACKOFF
			}
		}

		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
		} else if apiErr := checkResponse(resp); apiErr != nil {
			lastErr = apiErr
			if !apiErr.retryable() {
				return nil, apiErr
			}
		} else {
			return resp, nil
		}

		if attempt+1 < c.maxAttempts {
			slog.Warn("[TextAnalyticsClient] Request failed, will retry",
				slog.Int("attempt", attempt+1),
				slog.String("error", lastErr.Error()))
		}
	}

	return nil, lastErr
}

// checkResponse consumes and closes the body of a non-2xx response.
func checkResponse(resp *http.Response) *APIError {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var envelope models.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}

func (c *TextAnalyticsClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		req.Header.Set(SUBSCRIPTION_KEY_HEADER, c.apiKey)
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[TextAnalyticsClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
