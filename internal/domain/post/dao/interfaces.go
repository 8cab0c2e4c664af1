package dao

import (
	"context"
	"time"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// PostFilter contains filters for listing posts
type PostFilter struct {
	Platforms    []entity.Platform
	Relevance    []entity.RelevantStatus
	Priorities   []entity.Priority
	CreatorTypes []entity.CreatorType
	MarkedOnly   bool
	Since        *time.Time // lower bound on COALESCE(published_at, created_at)
}

// ListOptions contains pagination and sorting options
type ListOptions struct {
	Limit  int
	Offset int
	SortBy string // "published_at", "created_at", "like_count"
	Desc   bool
}

// PostRepository defines the interface for post storage
type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetByPlatformItemID(ctx context.Context, platform entity.Platform, itemID string) (*entity.Post, error)
	Update(ctx context.Context, post *entity.Post) error
	List(ctx context.Context, filter PostFilter, opts ListOptions) ([]entity.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
	SetMarked(ctx context.Context, id string, marked bool) error
	SetRelevantStatus(ctx context.Context, id string, status entity.RelevantStatus) error
	SetCoverURL(ctx context.Context, id string, url string) error
	ListUnanalyzed(ctx context.Context, limit int) ([]entity.Post, error)
	CountByPlatform(ctx context.Context) (map[entity.Platform]int64, error)
	CountByRelevance(ctx context.Context) (map[entity.RelevantStatus]int64, error)
	EngagementTotals(ctx context.Context, since *time.Time) (*entity.EngagementTotals, error)
}
