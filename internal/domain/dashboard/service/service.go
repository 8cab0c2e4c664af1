package service

import (
	"context"
	"time"

	analysisentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/cache"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/entity"
	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// fetchLimit bounds how many rows one dashboard view works over before
// in-memory time filtering and pagination.
const fetchLimit = 500

// defaultPageSize is the page length when the caller does not choose one
const defaultPageSize = 20

// PostSource supplies monitored post rows and KPI baselines.
// Defined here (consumer) not in the post domain (provider).
type PostSource interface {
	ListPosts(ctx context.Context, in PostQuery) ([]postentity.Post, int64, error)
	EngagementBaselines(ctx context.Context, since *time.Time) (*postentity.EngagementTotals, error)
	Statistics(ctx context.Context) (*postentity.PostStatistics, error)
}

// PostQuery carries the non-time filters to the post source; the time
// cutoff is applied in memory so rows with missing publish timestamps
// fall back to their collection timestamp consistently.
type PostQuery struct {
	Platforms    []string
	Relevance    []string
	Priorities   []string
	CreatorTypes []string
	OldestFirst  bool
	Limit        int
}

// AnalysisSource builds the annotation dictionaries for a page of posts
type AnalysisSource interface {
	MapsForPosts(ctx context.Context, posts []postentity.Post) (*analysisentity.AnalysisMaps, error)
}

// Service assembles dashboard views, serving them from the snapshot
// cache when a return-once marker permits.
type Service struct {
	posts     PostSource
	analyses  AnalysisSource
	snapshots *cache.SnapshotCache
	overview  *cache.MutableCache
	now       func() time.Time
}

// New creates a new dashboard service
func New(posts PostSource, analyses AnalysisSource, snapshots *cache.SnapshotCache, overview *cache.MutableCache) *Service {
	return &Service{
		posts:     posts,
		analyses:  analyses,
		snapshots: snapshots,
		overview:  overview,
		now:       time.Now,
	}
}

// Query describes one dashboard view request
type Query struct {
	Filters     entity.FilterState
	OldestFirst bool
	Page        int
	PageSize    int

	// Hydrate marks a mount returning from a detail view: the cached
	// snapshot is used when the return-once marker points at this key.
	Hydrate bool
}

// Result is one assembled dashboard view
type Result struct {
	Key       string           `json:"key"`
	Snapshot  *entity.Snapshot `json:"snapshot"`
	FromCache bool             `json:"from_cache"`
}

// GetDashboard returns the view for a filter/sort combination. On a
// hydrating mount with a matching return-once marker it serves the
// cached snapshot; any anomaly in cached state degrades to a fetch.
func (s *Service) GetDashboard(ctx context.Context, q Query) (*Result, error) {
	if !entity.IsValidTimeRange(q.Filters.TimeRange) && q.Filters.TimeRange != "" {
		return nil, entity.ErrInvalidTimeRange
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	key := q.Filters.CanonicalKey(q.OldestFirst)

	if q.Hydrate {
		if marker := s.snapshots.ConsumeReturnMarker(); marker != nil && marker.Key == key {
			if snap := s.snapshots.GetIfFresh(key); snap != nil {
				return &Result{Key: key, Snapshot: snap, FromCache: true}, nil
			}
		}
	}

	snapshot, err := s.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	s.snapshots.Save(key, snapshot)
	return &Result{Key: key, Snapshot: snapshot}, nil
}

// fetch assembles a snapshot from the sources
func (s *Service) fetch(ctx context.Context, q Query) (*entity.Snapshot, error) {
	rows, total, err := s.posts.ListPosts(ctx, PostQuery{
		Platforms:    q.Filters.Platforms,
		Relevance:    q.Filters.Relevance,
		Priorities:   q.Filters.Priority,
		CreatorTypes: q.Filters.CreatorTypes,
		OldestFirst:  q.OldestFirst,
		Limit:        fetchLimit,
	})
	if err != nil {
		return nil, err
	}

	startAt := q.Filters.StartAt(s.now())
	rows = entity.FilterByTime(rows, startAt)
	rows = entity.SortByPublished(rows, q.OldestFirst)

	start := (q.Page - 1) * q.PageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + q.PageSize
	if end > len(rows) {
		end = len(rows)
	}
	page := rows[start:end]

	maps, err := s.analyses.MapsForPosts(ctx, page)
	if err != nil {
		return nil, err
	}

	baselines, err := s.posts.EngagementBaselines(ctx, startAt)
	if err != nil {
		return nil, err
	}

	return &entity.Snapshot{
		Page:      q.Page,
		PageSize:  q.PageSize,
		HasMore:   end < len(rows),
		Total:     total,
		AllPosts:  rows,
		PagePosts: page,
		Maps:      maps,
		Baselines: *baselines,
		Drill:     entity.NewChartDrillState(),
	}, nil
}

// MarkReturn records that the user is navigating away to a detail view
// and the next mount may hydrate the given key from cache.
func (s *Service) MarkReturn(key string) {
	s.snapshots.SetReturnMarker(key)
}

// UpdateScrollTop merges the scroll offset into a cached snapshot
func (s *Service) UpdateScrollTop(key string, scrollTop int) {
	s.snapshots.UpdateScrollTop(key, scrollTop)
}

// DrillDown descends the breakdown chart one level on a cached
// snapshot. The transition runs under the cache lock: concurrent drill
// requests on one key serialize instead of racing on the shared state.
func (s *Service) DrillDown(key, relevanceCategory, severityBucket string) (*entity.ChartDrillState, error) {
	return s.snapshots.UpdateDrill(key, func(d *entity.ChartDrillState) error {
		switch d.Level {
		case entity.DrillPrimary:
			return d.DrillToSecondary(relevanceCategory)
		case entity.DrillSecondary:
			return d.DrillToTertiary(severityBucket)
		default:
			return entity.ErrDrillNotAtSecondary
		}
	})
}

// DrillBack pops the breakdown chart one level on a cached snapshot
func (s *Service) DrillBack(key string) (*entity.ChartDrillState, error) {
	return s.snapshots.UpdateDrill(key, func(d *entity.ChartDrillState) error {
		d.Back()
		return nil
	})
}

// SaveViewState persists the lightweight UI preferences
func (s *Service) SaveViewState(state *entity.ViewState) {
	s.snapshots.SaveViewState(state)
}

// LoadViewState returns the persisted UI preferences, or nil when absent
func (s *Service) LoadViewState() *entity.ViewState {
	return s.snapshots.LoadViewState()
}

// GetOverview serves the single-slot overview state, re-fetching when
// the slot is dirty, absent, or a refresh is forced.
func (s *Service) GetOverview(ctx context.Context, refresh bool) (*entity.OverviewState, error) {
	if !refresh && !s.overview.IsDirty() {
		if state, ok := s.overview.Get(); ok {
			return state, nil
		}
	}

	// Take the epoch before fetching: a MarkDirty while this fetch is
	// in flight must survive the commit below.
	epoch := s.overview.BeginFetch()

	rows, _, err := s.posts.ListPosts(ctx, PostQuery{Limit: fetchLimit})
	if err != nil {
		return nil, err
	}

	maps, err := s.analyses.MapsForPosts(ctx, rows)
	if err != nil {
		return nil, err
	}

	stats, err := s.posts.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	state := &entity.OverviewState{
		Posts: rows,
		Maps:  maps,
		Stats: stats,
	}
	s.overview.Set(state, epoch)

	return state, nil
}

// ClearOverview fully resets the overview slot, used on project switch
func (s *Service) ClearOverview() {
	s.overview.Clear()
}
