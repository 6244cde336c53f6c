package models

// Wire shapes for the Text Analytics v3.1 sentiment endpoint.

type (
	SentimentBatchRequest struct {
		Documents []SentimentDocument `json:"documents"`
	}
	SentimentDocument struct {
		ID       string `json:"id"`
		Language string `json:"language,omitempty"`
		Text     string `json:"text"`
	}
)

type (
	SentimentBatchResponse struct {
		Documents    []DocumentSentiment `json:"documents"`
		Errors       []DocumentError     `json:"errors"`
		ModelVersion string              `json:"modelVersion"`
	}
	DocumentSentiment struct {
		ID               string           `json:"id"`
		Sentiment        string           `json:"sentiment"`
		ConfidenceScores ConfidenceScores `json:"confidenceScores"`
	}
	DocumentError struct {
		ID    string       `json:"id"`
		Error ServiceError `json:"error"`
	}
)

type ServiceError struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	InnerError *ServiceError `json:"innererror,omitempty"`
}

type ErrorResponse struct {
	Error ServiceError `json:"error"`
}
