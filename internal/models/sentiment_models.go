package models

import "strings"

type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
	LabelMixed    Label = "mixed"

	// LabelError marks a document that could not be classified.
	LabelError Label = "Error"
)

// ParseLabel normalizes a label returned by a classifier. Labels outside the
// known set are kept as-is so new service labels pass through.
func ParseLabel(s string) Label {
	return Label(strings.ToLower(strings.TrimSpace(s)))
}

type Outcome int

const (
	OutcomeClassified Outcome = iota
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClassified:
		return "classified"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type ConfidenceScores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// SentimentResult is either Classified (label and scores) or Failed
// (LabelError, zeroed scores, optional Detail). Use Classified and Failed to
// build one.
type SentimentResult struct {
	Outcome Outcome          `json:"outcome"`
	Label   Label            `json:"label"`
	Scores  ConfidenceScores `json:"scores"`
	Detail  string           `json:"detail,omitempty"`
}

func Classified(label Label, scores ConfidenceScores) SentimentResult {
	return SentimentResult{
		Outcome: OutcomeClassified,
		Label:   label,
		Scores:  scores,
	}
}

func Failed(detail string) SentimentResult {
	return SentimentResult{
		Outcome: OutcomeFailed,
		Label:   LabelError,
		Detail:  detail,
	}
}

func (r SentimentResult) IsFailed() bool {
	return r.Outcome == OutcomeFailed
}

// ChunkFailure describes a chunk whose whole remote call failed.
type ChunkFailure struct {
	Index  int    `json:"index"`
	Start  int    `json:"start"`
	Size   int    `json:"size"`
	Detail string `json:"detail"`
}

// BatchResult holds one result per input text, in input order.
type BatchResult struct {
	RunID         string
	Results       []SentimentResult
	ChunkFailures []ChunkFailure
}
