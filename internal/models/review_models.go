package models

import "encoding/json"

type SentimentLabel string

const (
	LabelPositive SentimentLabel = "POSITIVE"
	LabelNeutral  SentimentLabel = "NEUTRAL"
	LabelNegative SentimentLabel = "NEGATIVE"
)

// ReviewRequest keeps review_text raw so a missing or null field can be told
// apart from a value of the wrong JSON type.
type ReviewRequest struct {
	ReviewText json.RawMessage `json:"review_text"`
}

type SentimentResult struct {
	Text           string         `json:"text"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	PolarityScore  float64        `json:"polarity_score"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Analyzer  string `json:"analyzer"`
	Cache     string `json:"cache"`
}
