package entity

// PostStatistics represents aggregated monitoring statistics
type PostStatistics struct {
	Total       int64              `json:"total"`
	MarkedCount int64              `json:"marked_count"`
	ByPlatform  PlatformBreakdown  `json:"by_platform"`
	ByRelevance RelevanceBreakdown `json:"by_relevance"`
	Engagement  EngagementTotals   `json:"engagement"`
}

// PlatformBreakdown represents post counts per platform
type PlatformBreakdown struct {
	Douyin      int64 `json:"douyin"`
	Xiaohongshu int64 `json:"xiaohongshu"`
}

// RelevanceBreakdown represents post counts per pre-screening class
type RelevanceBreakdown struct {
	Yes        int64 `json:"yes"`
	Maybe      int64 `json:"maybe"`
	No         int64 `json:"no"`
	Unscreened int64 `json:"unscreened"`
}

// EngagementTotals represents summed engagement counters, used as KPI
// comparison baselines on the dashboard.
type EngagementTotals struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Collects int64 `json:"collects"`
	Posts    int64 `json:"posts"`
}
