package entity

import (
	"sort"
	"strings"

	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// AnalysisMaps holds the per-item annotation dictionaries the dashboard
// renders from. A key present in one map need not be present in the
// others: absence means "not yet analyzed" for that dimension.
type AnalysisMaps struct {
	Risks      map[string][]string `json:"risks"`
	Sentiments map[string]string   `json:"sentiments"`
	Relevance  map[string]string   `json:"relevance"`
	RiskCounts map[string]int      `json:"risk_counts"`

	SentimentValues map[string]struct{} `json:"-"`
	RelevanceValues map[string]struct{} `json:"-"`
}

// MapRelevantStatus maps the coarse pre-screening signal to a display
// label. Unrecognized or absent input yields the empty label, which
// callers must treat as "unknown", not "irrelevant".
func MapRelevantStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "yes":
		return RelevanceRelevant
	case "maybe":
		return RelevanceSuspected
	case "no":
		return RelevanceIrrelevant
	default:
		return ""
	}
}

// BackfillRelevance fills missing relevance entries from each post's
// pre-screening status. Existing entries are never overwritten: explicit
// analysis always wins over the coarse signal. The input map is not
// mutated; applying the function twice yields the same map.
func BackfillRelevance(existing map[string]string, posts []postentity.Post) map[string]string {
	out := make(map[string]string, len(existing)+len(posts))
	for k, v := range existing {
		out[k] = v
	}

	for _, p := range posts {
		if _, ok := out[p.PlatformItemID]; ok {
			continue
		}
		if label := MapRelevantStatus(string(p.RelevantStatus)); label != "" {
			out[p.PlatformItemID] = label
		}
	}

	return out
}

// BuildAnalysisMaps builds the annotation dictionaries in a single pass
// over analysis rows. A row always contributes to Risks, even with an
// empty category list; it contributes to Sentiments/Relevance only when
// the source field is present.
func BuildAnalysisMaps(rows []Analysis) *AnalysisMaps {
	m := &AnalysisMaps{
		Risks:           make(map[string][]string),
		Sentiments:      make(map[string]string),
		Relevance:       make(map[string]string),
		RiskCounts:      make(map[string]int),
		SentimentValues: make(map[string]struct{}),
		RelevanceValues: make(map[string]struct{}),
	}

	for _, row := range rows {
		risks := row.RiskCategories
		if risks == nil {
			risks = []string{}
		}
		m.Risks[row.PlatformItemID] = risks
		for _, risk := range risks {
			m.RiskCounts[risk]++
		}

		if row.Sentiment != "" {
			m.Sentiments[row.PlatformItemID] = string(row.Sentiment)
			m.SentimentValues[string(row.Sentiment)] = struct{}{}
		}

		if row.RelevanceLabel != "" {
			m.Relevance[row.PlatformItemID] = row.RelevanceLabel
			m.RelevanceValues[row.RelevanceLabel] = struct{}{}
		}
	}

	return m
}

// TopRisks returns the n most frequent risk categories, ordered by
// descending count with ties broken by category name.
func (m *AnalysisMaps) TopRisks(n int) []string {
	categories := make([]string, 0, len(m.RiskCounts))
	for c := range m.RiskCounts {
		categories = append(categories, c)
	}

	sort.Slice(categories, func(i, j int) bool {
		if m.RiskCounts[categories[i]] != m.RiskCounts[categories[j]] {
			return m.RiskCounts[categories[i]] > m.RiskCounts[categories[j]]
		}
		return categories[i] < categories[j]
	})

	if n > 0 && n < len(categories) {
		categories = categories[:n]
	}
	return categories
}
