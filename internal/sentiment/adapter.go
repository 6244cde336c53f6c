package sentiment

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/spacesedan/sentiboard/internal/models"
)

// Classifier classifies up to one chunk of texts in a single call. On success
// it returns exactly one result per text, in order. An error means the whole
// call failed.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error)
}

// SentimentAPI is the transport used by RemoteClassifier.
type SentimentAPI interface {
	AnalyzeSentiment(ctx context.Context, texts []string) (models.SentimentBatchResponse, error)
}

// RemoteClassifier maps the service response back onto input positions.
type RemoteClassifier struct {
	api SentimentAPI
}

func NewRemoteClassifier(api SentimentAPI) *RemoteClassifier {
	return &RemoteClassifier{api: api}
}

func (c *RemoteClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	resp, err := c.api.AnalyzeSentiment(ctx, texts)
	if err != nil {
		return nil, err
	}
	return mapResponse(resp, len(texts)), nil
}

// mapResponse places each document and error by its id. Positions the
// service did not answer, or answered with an unknown id, become Failed.
func mapResponse(resp models.SentimentBatchResponse, n int) []models.SentimentResult {
	results := make([]models.SentimentResult, n)
	seen := make([]bool, n)

	for _, doc := range resp.Documents {
		i, ok := position(doc.ID, n)
		if !ok || seen[i] {
			continue
		}
		label := models.ParseLabel(doc.Sentiment)
		if label == "" || !validScores(doc.ConfidenceScores) {
			results[i] = models.Failed("malformed document in response")
		} else {
			results[i] = models.Classified(label, doc.ConfidenceScores)
		}
		seen[i] = true
	}

	for _, docErr := range resp.Errors {
		i, ok := position(docErr.ID, n)
		if !ok || seen[i] {
			continue
		}
		results[i] = models.Failed(errorDetail(docErr.Error))
		seen[i] = true
	}

	for i := range results {
		if !seen[i] {
			results[i] = models.Failed("no result returned for document")
		}
	}
	return results
}

func validScores(s models.ConfidenceScores) bool {
	for _, v := range []float64{s.Positive, s.Neutral, s.Negative} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return false
		}
	}
	return true
}

func position(id string, n int) (int, bool) {
	i, err := strconv.Atoi(id)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func errorDetail(e models.ServiceError) string {
	if e.InnerError != nil && (e.InnerError.Code != "" || e.InnerError.Message != "") {
		e = *e.InnerError
	}
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	default:
		return "document could not be analyzed"
	}
}

// classifyChunk never drops texts: a failed call, or a classifier that
// breaks its contract, yields one Failed result per text.
func classifyChunk(ctx context.Context, c Classifier, texts []string) ([]models.SentimentResult, error) {
	results, err := c.Classify(ctx, texts)
	if err == nil && len(results) != len(texts) {
		err = fmt.Errorf("classifier returned %d results for %d documents", len(results), len(texts))
	}
	if err != nil {
		failed := make([]models.SentimentResult, len(texts))
		for i := range failed {
			failed[i] = models.Failed(err.Error())
		}
		return failed, err
	}
	return results, nil
}
