package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/dao"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// Service handles business logic for monitored posts
type Service struct {
	posts dao.PostRepository
}

// New creates a new post service
func New(posts dao.PostRepository) *Service {
	return &Service{posts: posts}
}

// CreateInput represents input for registering a monitored post
type CreateInput struct {
	Platform       entity.Platform
	PlatformItemID string
	Title          string
	AuthorName     string
	AuthorID       string
	CreatorType    entity.CreatorType
	PostType       entity.PostType
	CoverURL       string
	DurationSec    int
	LikeCount      int64
	CommentCount   int64
	ShareCount     int64
	CollectCount   int64
	RelevantStatus entity.RelevantStatus
	PublishedAt    *time.Time
}

// CreatePost registers a newly collected post. If the platform item was
// already collected, its engagement counters are refreshed instead.
func (s *Service) CreatePost(ctx context.Context, in CreateInput) (*entity.Post, error) {
	now := time.Now()

	post := &entity.Post{
		ID:             uuid.New().String(),
		Platform:       in.Platform,
		PlatformItemID: in.PlatformItemID,
		Title:          in.Title,
		AuthorName:     in.AuthorName,
		AuthorID:       in.AuthorID,
		CreatorType:    in.CreatorType,
		PostType:       in.PostType,
		CoverURL:       in.CoverURL,
		DurationSec:    in.DurationSec,
		LikeCount:      in.LikeCount,
		CommentCount:   in.CommentCount,
		ShareCount:     in.ShareCount,
		CollectCount:   in.CollectCount,
		RelevantStatus: in.RelevantStatus,
		PublishedAt:    in.PublishedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.posts.GetByPlatformItemID(ctx, in.Platform, in.PlatformItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Title = post.Title
		existing.AuthorName = post.AuthorName
		existing.LikeCount = post.LikeCount
		existing.CommentCount = post.CommentCount
		existing.ShareCount = post.ShareCount
		existing.CollectCount = post.CollectCount
		existing.PublishedAt = post.PublishedAt
		existing.UpdatedAt = now
		if err := s.posts.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// GetPost retrieves a post by ID
func (s *Service) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, entity.ErrPostNotFound
	}
	return post, nil
}

// ListInput represents input for listing posts
type ListInput struct {
	Platforms    []entity.Platform
	Relevance    []entity.RelevantStatus
	Priorities   []entity.Priority
	CreatorTypes []entity.CreatorType
	MarkedOnly   bool
	Since        *time.Time
	OldestFirst  bool
	Limit        int
	Offset       int
}

// ListOutput represents output from listing posts
type ListOutput struct {
	Posts []entity.Post
	Total int64
}

// ListPosts retrieves posts with filtering
func (s *Service) ListPosts(ctx context.Context, in ListInput) (*ListOutput, error) {
	filter := dao.PostFilter{
		Platforms:    in.Platforms,
		Relevance:    in.Relevance,
		Priorities:   in.Priorities,
		CreatorTypes: in.CreatorTypes,
		MarkedOnly:   in.MarkedOnly,
		Since:        in.Since,
	}

	opts := dao.ListOptions{
		Limit:  in.Limit,
		Offset: in.Offset,
		SortBy: "published_at",
		Desc:   !in.OldestFirst,
	}
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	posts, err := s.posts.List(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Posts: posts, Total: total}, nil
}

// MarkPost flips the triage mark on a post
func (s *Service) MarkPost(ctx context.Context, id string, marked bool) error {
	return s.posts.SetMarked(ctx, id, marked)
}

// SetRelevance updates the pre-screening relevance signal on a post
func (s *Service) SetRelevance(ctx context.Context, id string, status entity.RelevantStatus) error {
	if !entity.IsValidRelevantStatus(status) {
		return entity.ErrInvalidRelevantStatus
	}
	return s.posts.SetRelevantStatus(ctx, id, status)
}

// SetCoverURL updates the mirrored cover image URL on a post
func (s *Service) SetCoverURL(ctx context.Context, id string, url string) error {
	return s.posts.SetCoverURL(ctx, id, url)
}

// UnanalyzedPosts retrieves posts that still lack an AI analysis row
func (s *Service) UnanalyzedPosts(ctx context.Context, limit int) ([]entity.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.posts.ListUnanalyzed(ctx, limit)
}

// EngagementBaselines returns summed engagement since the given instant,
// used as KPI comparison baselines on the dashboard.
func (s *Service) EngagementBaselines(ctx context.Context, since *time.Time) (*entity.EngagementTotals, error) {
	return s.posts.EngagementTotals(ctx, since)
}

// Statistics assembles aggregated monitoring statistics
func (s *Service) Statistics(ctx context.Context) (*entity.PostStatistics, error) {
	total, err := s.posts.Count(ctx, dao.PostFilter{})
	if err != nil {
		return nil, err
	}

	marked, err := s.posts.Count(ctx, dao.PostFilter{MarkedOnly: true})
	if err != nil {
		return nil, err
	}

	byPlatform, err := s.posts.CountByPlatform(ctx)
	if err != nil {
		return nil, err
	}

	byRelevance, err := s.posts.CountByRelevance(ctx)
	if err != nil {
		return nil, err
	}

	engagement, err := s.posts.EngagementTotals(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &entity.PostStatistics{
		Total:       total,
		MarkedCount: marked,
		ByPlatform: entity.PlatformBreakdown{
			Douyin:      byPlatform[entity.PlatformDouyin],
			Xiaohongshu: byPlatform[entity.PlatformXiaohongshu],
		},
		ByRelevance: entity.RelevanceBreakdown{
			Yes:        byRelevance[entity.RelevantStatusYes],
			Maybe:      byRelevance[entity.RelevantStatusMaybe],
			No:         byRelevance[entity.RelevantStatusNo],
			Unscreened: byRelevance[""],
		},
		Engagement: *engagement,
	}, nil
}
