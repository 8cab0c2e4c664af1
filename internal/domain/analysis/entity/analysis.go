package entity

import (
	"errors"
	"time"
)

// Sentiment represents the AI-derived sentiment of a post
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Severity buckets a post's risk level
type Severity string

const (
	SeverityHigh Severity = "high"
	SeverityMid  Severity = "mid"
	SeverityLow  Severity = "low"
)

// Relevance display labels. The empty label means "unknown", never
// "irrelevant"; callers must not collapse the two.
const (
	RelevanceRelevant   = "相关"
	RelevanceSuspected  = "疑似相关"
	RelevanceIrrelevant = "不相关"
)

// Analysis represents one AI annotation row for a monitored post
type Analysis struct {
	ID             string    `json:"id"`
	PlatformItemID string    `json:"platform_item_id"`
	Sentiment      Sentiment `json:"sentiment,omitempty"`
	RelevanceLabel string    `json:"relevance_label,omitempty"`
	RiskCategories []string  `json:"risk_categories"`
	Severity       Severity  `json:"severity,omitempty"`
	Suggestion     string    `json:"suggestion,omitempty"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}

// Domain errors for analyses
var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrEmptyItemID      = errors.New("platform item ID is required")
	ErrInvalidSentiment = errors.New("invalid sentiment")
)

// Validate validates analysis fields
func (a *Analysis) Validate() error {
	if a.PlatformItemID == "" {
		return ErrEmptyItemID
	}
	if a.Sentiment != "" && !IsValidSentiment(a.Sentiment) {
		return ErrInvalidSentiment
	}
	return nil
}

// IsValidSentiment checks if a sentiment value is valid
func IsValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}
