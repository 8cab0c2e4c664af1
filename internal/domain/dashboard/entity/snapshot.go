package entity

import (
	analysisentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/entity"
	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// Snapshot is the full reconstructible dashboard view state for one
// (filters, sort) combination. It is created on the first successful
// fetch for a key and overwritten wholesale on every later fetch; the
// scroll offset is the only field ever merged in place.
type Snapshot struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	HasMore  bool  `json:"has_more"`
	Total    int64 `json:"total"`

	AllPosts  []postentity.Post `json:"all_posts"`
	PagePosts []postentity.Post `json:"page_posts"`

	Maps      *analysisentity.AnalysisMaps `json:"maps"`
	Baselines postentity.EngagementTotals  `json:"baselines"`
	Drill     ChartDrillState              `json:"drill"`
	ScrollTop int                          `json:"scroll_top"`
}

// ViewState is the lightweight UI preference persisted independently of
// the snapshot TTL: cheap enough to always keep, so even a cold reload
// restores the user's last filters before data arrives.
type ViewState struct {
	Filters     FilterState     `json:"filters"`
	OldestFirst bool            `json:"oldest_first"`
	Drill       ChartDrillState `json:"drill"`
	ScrollTop   int             `json:"scroll_top"`
}

// OverviewState is the single-slot cached state used by the overview
// page path.
type OverviewState struct {
	Posts     []postentity.Post            `json:"posts"`
	Maps      *analysisentity.AnalysisMaps `json:"maps"`
	Stats     *postentity.PostStatistics   `json:"stats"`
	ScrollTop int                          `json:"scroll_top"`
}
