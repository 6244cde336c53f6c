package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentiboard/internal/models"
)

type ResultCache interface {
	GetResults(ctx context.Context, keys []string) (map[string]models.SentimentResult, error)
	StoreResults(ctx context.Context, entries map[string]models.SentimentResult) error
}

// CachedClassifier serves repeated texts from a cache and forwards only the
// misses of a chunk to the inner classifier. Failed results are never cached.
type CachedClassifier struct {
	inner    Classifier
	cache    ResultCache
	language string
}

func NewCachedClassifier(inner Classifier, cache ResultCache, language string) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: cache, language: language}
}

func (c *CachedClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = cacheKey(c.language, text)
	}

	hits, err := c.cache.GetResults(ctx, keys)
	if err != nil {
		slog.Warn("[CachedClassifier] Cache lookup failed, classifying all texts",
			slog.String("error", err.Error()))
		hits = nil
	}

	results := make([]models.SentimentResult, len(texts))
	var missTexts []string
	var missIdx []int
	for i, key := range keys {
		if r, ok := hits[key]; ok && !r.IsFailed() {
			results[i] = r
			continue
		}
		missTexts = append(missTexts, texts[i])
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	fresh, err := c.inner.Classify(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("classifier returned %d results for %d documents", len(fresh), len(missTexts))
	}

	store := make(map[string]models.SentimentResult, len(fresh))
	for j, r := range fresh {
		results[missIdx[j]] = r
		if !r.IsFailed() {
			store[keys[missIdx[j]]] = r
		}
	}
	if err := c.cache.StoreResults(ctx, store); err != nil {
		slog.Warn("[CachedClassifier] Failed to store results",
			slog.String("error", err.Error()))
	}
	return results, nil
}

func cacheKey(language, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sentiment:" + language + ":" + hex.EncodeToString(sum[:])
}
