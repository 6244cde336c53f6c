package sentiment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spacesedan/sentiboard/internal/models"
)

// stubClassifier labels each text "positive" and records chunk sizes. Calls
// listed in failOn return transportErr instead.
type stubClassifier struct {
	mu     sync.Mutex
	calls  [][]string
	failOn map[int]bool
	fixed  map[string]models.SentimentResult
}

var errTransport = errors.New("dial tcp: connection refused")

func (s *stubClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	s.mu.Lock()
	call := len(s.calls)
	s.calls = append(s.calls, append([]string(nil), texts...))
	s.mu.Unlock()

	if s.failOn[call] {
		return nil, errTransport
	}

	results := make([]models.SentimentResult, len(texts))
	for i, text := range texts {
		if r, ok := s.fixed[text]; ok {
			results[i] = r
			continue
		}
		results[i] = models.Classified(models.LabelPositive, models.ConfidenceScores{Positive: 1})
		results[i].Detail = text
	}
	return results, nil
}

func (s *stubClassifier) sizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make([]int, len(s.calls))
	for i, c := range s.calls {
		sizes[i] = len(c)
	}
	return sizes
}

type shortClassifier struct{}

func (shortClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	return []models.SentimentResult{models.Classified(models.LabelNeutral, models.ConfidenceScores{})}, nil
}

type recordingObserver struct {
	mu       sync.Mutex
	calls    int
	failures int
	results  int
}

func (o *recordingObserver) ObserveCall(documents int, err error, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) ObserveResults(results []models.SentimentResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results += len(results)
}

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("review %d", i)
	}
	return out
}

func TestAnalyzeTextSingleResult(t *testing.T) {
	stub := &stubClassifier{fixed: map[string]models.SentimentResult{
		"I am so happy": models.Classified(models.LabelPositive, models.ConfidenceScores{Positive: 0.98, Neutral: 0.01, Negative: 0.01}),
	}}
	a := NewAnalyzer(stub, 10)

	got, err := a.AnalyzeText(context.Background(), "I am so happy")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := models.Classified(models.LabelPositive, models.ConfidenceScores{Positive: 0.98, Neutral: 0.01, Negative: 0.01})
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if sizes := stub.sizes(); len(sizes) != 1 || sizes[0] != 1 {
		t.Fatalf("expected one call with one document, got %v", sizes)
	}
}

func TestAnalyzeTextEmpty(t *testing.T) {
	stub := &stubClassifier{}
	a := NewAnalyzer(stub, 10)

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := a.AnalyzeText(context.Background(), input); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("AnalyzeText(%q) err = %v, want ErrEmptyInput", input, err)
		}
	}
	if len(stub.sizes()) != 0 {
		t.Fatalf("expected no calls for empty input")
	}
}

func TestAnalyzeTextCallFailure(t *testing.T) {
	a := NewAnalyzer(&stubClassifier{failOn: map[int]bool{0: true}}, 10)

	got, err := a.AnalyzeText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !got.IsFailed() || got.Label != models.LabelError || got.Detail == "" {
		t.Fatalf("expected failed result with detail, got %+v", got)
	}
	if got.Scores != (models.ConfidenceScores{}) {
		t.Fatalf("expected zeroed scores, got %+v", got.Scores)
	}
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	stub := &stubClassifier{}
	batch, err := NewAnalyzer(stub, 10).AnalyzeBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(batch.Results) != 0 || len(batch.ChunkFailures) != 0 {
		t.Fatalf("expected empty batch, got %+v", batch)
	}
	if len(stub.sizes()) != 0 {
		t.Fatalf("expected no calls, got %v", stub.sizes())
	}
}

func TestAnalyzeBatchChunksAndPreservesOrder(t *testing.T) {
	stub := &stubClassifier{}
	input := texts(12)

	batch, err := NewAnalyzer(stub, 10).AnalyzeBatch(context.Background(), input)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	sizes := stub.sizes()
	if len(sizes) != 2 || sizes[0] != 10 || sizes[1] != 2 {
		t.Fatalf("expected calls sized [10 2], got %v", sizes)
	}
	if len(batch.Results) != len(input) {
		t.Fatalf("got %d results for %d inputs", len(batch.Results), len(input))
	}
	for i, r := range batch.Results {
		if r.Detail != input[i] {
			t.Fatalf("result %d belongs to %q, want %q", i, r.Detail, input[i])
		}
	}
	if batch.RunID == "" {
		t.Errorf("expected a run id")
	}
}

func TestAnalyzeBatchOneResultPerText(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for _, size := range []int{1, 3, 10} {
			batch, err := NewAnalyzer(&stubClassifier{}, size).AnalyzeBatch(context.Background(), texts(n))
			if err != nil {
				t.Fatalf("n=%d size=%d: %v", n, size, err)
			}
			if len(batch.Results) != n {
				t.Fatalf("n=%d size=%d: got %d results", n, size, len(batch.Results))
			}
		}
	}
}

func TestAnalyzeBatchChunkFailureIsLocal(t *testing.T) {
	stub := &stubClassifier{failOn: map[int]bool{1: true}}
	input := texts(25)

	batch, err := NewAnalyzer(stub, 10).AnalyzeBatch(context.Background(), input)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(stub.sizes()) != 3 {
		t.Fatalf("expected processing to continue after a failed chunk, got %d calls", len(stub.sizes()))
	}
	if len(batch.Results) != 25 {
		t.Fatalf("got %d results", len(batch.Results))
	}

	for i, r := range batch.Results {
		inFailedChunk := i >= 10 && i < 20
		if inFailedChunk != r.IsFailed() {
			t.Fatalf("result %d failed=%v, want %v", i, r.IsFailed(), inFailedChunk)
		}
		if inFailedChunk && r.Detail == "" {
			t.Fatalf("result %d missing failure detail", i)
		}
		if !inFailedChunk && r.Detail != input[i] {
			t.Fatalf("result %d out of order", i)
		}
	}

	if len(batch.ChunkFailures) != 1 {
		t.Fatalf("expected one chunk failure, got %+v", batch.ChunkFailures)
	}
	f := batch.ChunkFailures[0]
	if f.Index != 1 || f.Start != 10 || f.Size != 10 || f.Detail == "" {
		t.Fatalf("unexpected chunk failure %+v", f)
	}
}

func TestAnalyzeBatchLastChunkTransportFailure(t *testing.T) {
	stub := &stubClassifier{failOn: map[int]bool{1: true}}
	batch, err := NewAnalyzer(stub, 10).AnalyzeBatch(context.Background(), texts(12))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	counts := map[models.Label]int{}
	for i, r := range batch.Results {
		counts[r.Label]++
		if i < 10 && r.Outcome != models.OutcomeClassified {
			t.Fatalf("result %d should be classified", i)
		}
		if i >= 10 && (r.Outcome != models.OutcomeFailed || r.Detail == "") {
			t.Fatalf("result %d should be failed with detail, got %+v", i, r)
		}
	}
	total := counts[models.LabelPositive] + counts[models.LabelNeutral] + counts[models.LabelNegative] + counts[models.LabelError]
	if total != 12 {
		t.Fatalf("label counts %v do not add up to 12", counts)
	}
}

func TestAnalyzeBatchClassifierContractViolation(t *testing.T) {
	batch, err := NewAnalyzer(shortClassifier{}, 5).AnalyzeBatch(context.Background(), texts(3))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(batch.Results) != 3 || len(batch.ChunkFailures) != 1 {
		t.Fatalf("expected placeholders for a short response, got %+v", batch)
	}
	for _, r := range batch.Results {
		if !r.IsFailed() {
			t.Fatalf("expected failed placeholder, got %+v", r)
		}
	}
}

func TestAnalyzerObserver(t *testing.T) {
	obs := &recordingObserver{}
	a := NewAnalyzer(&stubClassifier{failOn: map[int]bool{0: true}}, 4, WithObserver(obs))

	if _, err := a.AnalyzeBatch(context.Background(), texts(9)); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if obs.calls != 3 || obs.failures != 1 || obs.results != 9 {
		t.Fatalf("unexpected observations %+v", obs)
	}
}
