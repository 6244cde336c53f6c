package report

import (
	"fmt"

	"github.com/spacesedan/sentiboard/internal/models"
)

// Build merges each review row with the result at the same position.
func Build(rows []models.ReviewRow, batch models.BatchResult) (models.ResultTable, error) {
	if len(rows) != len(batch.Results) {
		return models.ResultTable{}, fmt.Errorf("cannot merge %d rows with %d results", len(rows), len(batch.Results))
	}

	out := make([]models.ResultRow, len(rows))
	for i, row := range rows {
		out[i] = resultRow(row.ID, row.Text, batch.Results[i])
	}
	return models.ResultTable{Rows: out, Summary: Summarize(out)}, nil
}

// Single builds the one-row table for the text input path.
func Single(text string, result models.SentimentResult) models.ResultTable {
	rows := []models.ResultRow{resultRow("1", text, result)}
	return models.ResultTable{Rows: rows, Summary: Summarize(rows)}
}

func resultRow(id, text string, r models.SentimentResult) models.ResultRow {
	row := models.ResultRow{
		ID:        id,
		Text:      text,
		Sentiment: r.Label,
		Detail:    r.Detail,
	}
	if !r.IsFailed() {
		row.Positive = r.Scores.Positive
		row.Neutral = r.Scores.Neutral
		row.Negative = r.Scores.Negative
	}
	return row
}

func Summarize(rows []models.ResultRow) models.Summary {
	s := models.Summary{Total: len(rows)}
	for _, r := range rows {
		switch r.Sentiment {
		case models.LabelPositive:
			s.Positive++
		case models.LabelNeutral:
			s.Neutral++
		case models.LabelNegative:
			s.Negative++
		case models.LabelMixed:
			s.Mixed++
		case models.LabelError:
			s.Errors++
		}
	}
	return s
}

// FailureRange returns the IDs of the first and last rows covered by a
// failed chunk.
func FailureRange(rows []models.ReviewRow, f models.ChunkFailure) (first, last string) {
	if f.Size < 1 || f.Start < 0 || f.Start+f.Size > len(rows) {
		return "?", "?"
	}
	return rows[f.Start].ID, rows[f.Start+f.Size-1].ID
}
