package models

// ReviewRow is one sanitized row of an uploaded review file.
type ReviewRow struct {
	ID   string `json:"id"`
	Text string `json:"review_text"`
}

// ResultRow is a ReviewRow merged with its sentiment result.
type ResultRow struct {
	ID        string  `json:"id"`
	Text      string  `json:"review_text"`
	Sentiment Label   `json:"sentiment"`
	Positive  float64 `json:"positive_score"`
	Neutral   float64 `json:"neutral_score"`
	Negative  float64 `json:"negative_score"`
	Detail    string  `json:"detail,omitempty"`
}

func (r ResultRow) IsError() bool {
	return r.Sentiment == LabelError
}

type Summary struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
	Mixed    int `json:"mixed"`
	Errors   int `json:"errors"`
}

type ResultTable struct {
	Rows    []ResultRow `json:"rows"`
	Summary Summary     `json:"summary"`
}
