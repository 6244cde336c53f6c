package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/sentiboard/internal/models"
)

var (
	ErrEmptyInput          = errors.New("no text to analyze")
	ErrResultCountMismatch = errors.New("result count does not match input count")
)

// Observer receives per-call and per-result notifications. Implementations
// must be safe for concurrent use.
type Observer interface {
	ObserveCall(documents int, err error, elapsed time.Duration)
	ObserveResults(results []models.SentimentResult)
}

type Option func(*Analyzer)

func WithObserver(o Observer) Option {
	return func(a *Analyzer) {
		a.observer = o
	}
}

// Analyzer splits input into chunks of at most chunkSize texts and calls the
// classifier once per chunk, sequentially.
type Analyzer struct {
	classifier Classifier
	chunkSize  int
	observer   Observer
}

func NewAnalyzer(classifier Classifier, chunkSize int, opts ...Option) *Analyzer {
	if chunkSize < 1 {
		panic(fmt.Sprintf("sentiment: chunk size must be at least 1, got %d", chunkSize))
	}
	a := &Analyzer{
		classifier: classifier,
		chunkSize:  chunkSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) ChunkSize() int {
	return a.chunkSize
}

// AnalyzeText classifies a single text. A failed call is reported as a
// Failed result; the only error is ErrEmptyInput.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (models.SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return models.SentimentResult{}, ErrEmptyInput
	}

	results, err := a.call(ctx, []string{text})
	if err != nil {
		slog.Warn("[Analyzer] Single text analysis failed",
			slog.String("error", err.Error()))
	}
	a.observeResults(results)
	return results[0], nil
}

// AnalyzeBatch classifies texts and returns one result per text in input
// order. A chunk whose call fails contributes Failed results and is listed
// in ChunkFailures; later chunks are still processed.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) (models.BatchResult, error) {
	batch := models.BatchResult{
		RunID:   uuid.NewString(),
		Results: make([]models.SentimentResult, 0, len(texts)),
	}
	if len(texts) == 0 {
		return batch, nil
	}

	logger := slog.With(slog.String("run_id", batch.RunID))
	logger.Info("[Analyzer] Processing batch",
		slog.Int("documents", len(texts)),
		slog.Int("chunk_size", a.chunkSize))
	start := time.Now()

	for i, chunk := range Chunk(texts, a.chunkSize) {
		offset := i * a.chunkSize
		results, err := a.call(ctx, chunk)
		if err != nil {
			logger.Warn("[Analyzer] Chunk failed, substituting placeholders",
				slog.Int("chunk", i),
				slog.Int("start", offset),
				slog.Int("size", len(chunk)),
				slog.String("error", err.Error()))
			batch.ChunkFailures = append(batch.ChunkFailures, models.ChunkFailure{
				Index:  i,
				Start:  offset,
				Size:   len(chunk),
				Detail: err.Error(),
			})
		}
		batch.Results = append(batch.Results, results...)
	}

	if len(batch.Results) != len(texts) {
		return batch, fmt.Errorf("%w: got %d, want %d", ErrResultCountMismatch, len(batch.Results), len(texts))
	}
	a.observeResults(batch.Results)

	logger.Info("[Analyzer] Batch complete",
		slog.Int("documents", len(texts)),
		slog.Int("failed_chunks", len(batch.ChunkFailures)),
		slog.Duration("elapsed", time.Since(start)))
	return batch, nil
}

func (a *Analyzer) call(ctx context.Context, chunk []string) ([]models.SentimentResult, error) {
	start := time.Now()
	results, err := classifyChunk(ctx, a.classifier, chunk)
	if a.observer != nil {
		a.observer.ObserveCall(len(chunk), err, time.Since(start))
	}
	return results, err
}

func (a *Analyzer) observeResults(results []models.SentimentResult) {
	if a.observer != nil {
		a.observer.ObserveResults(results)
	}
}
