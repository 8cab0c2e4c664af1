package policy

import (
	"context"
	"io"
	"time"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/service"
)

// CoverStore defines the interface for storing mirrored cover images.
// This interface is defined here (consumer) not in the storage package (provider).
type CoverStore interface {
	Upload(ctx context.Context, in CoverUploadInput) (*CoverUploadOutput, error)
}

// CoverUploadInput represents input for uploading a cover image
type CoverUploadInput struct {
	Reader      io.Reader
	ContentType string
	Size        int64
	Filename    string
}

// CoverUploadOutput represents output from uploading a cover image
type CoverUploadOutput struct {
	Key string
	URL string
}

// DashboardInvalidator marks cached dashboard state stale after a
// collaborator action changes underlying rows.
type DashboardInvalidator interface {
	MarkDirty()
}

// Policy orchestrates post triage use-cases
type Policy struct {
	svc       *service.Service
	covers    CoverStore
	dashboard DashboardInvalidator
}

// New creates a new post policy
func New(svc *service.Service, covers CoverStore, dashboard DashboardInvalidator) *Policy {
	return &Policy{
		svc:       svc,
		covers:    covers,
		dashboard: dashboard,
	}
}

// CreatePostInput represents input for registering a collected post
type CreatePostInput struct {
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

// CreatePost registers a collected post and invalidates cached
// dashboard state. A platform item collected before is refreshed, not
// duplicated.
func (p *Policy) CreatePost(ctx context.Context, in CreatePostInput) (*entity.Post, error) {
	post, err := p.svc.CreatePost(ctx, service.CreateInput{
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
	})
	if err != nil {
		return nil, err
	}
	p.dashboard.MarkDirty()
	return post, nil
}

// GetPost retrieves a post by ID
func (p *Policy) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	return p.svc.GetPost(ctx, id)
}

// ListPostsInput represents input for listing posts
type ListPostsInput struct {
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

// ListPostsOutput represents output from listing posts
type ListPostsOutput struct {
	Posts []entity.Post
	Total int64
}

// ListPosts retrieves posts with filtering
func (p *Policy) ListPosts(ctx context.Context, in ListPostsInput) (*ListPostsOutput, error) {
	out, err := p.svc.ListPosts(ctx, service.ListInput{
		Platforms:    in.Platforms,
		Relevance:    in.Relevance,
		Priorities:   in.Priorities,
		CreatorTypes: in.CreatorTypes,
		MarkedOnly:   in.MarkedOnly,
		Since:        in.Since,
		OldestFirst:  in.OldestFirst,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &ListPostsOutput{Posts: out.Posts, Total: out.Total}, nil
}

// MarkPost flips the triage mark and invalidates cached dashboard state
func (p *Policy) MarkPost(ctx context.Context, id string, marked bool) (*entity.Post, error) {
	if err := p.svc.MarkPost(ctx, id, marked); err != nil {
		return nil, err
	}
	p.dashboard.MarkDirty()
	return p.svc.GetPost(ctx, id)
}

// SetRelevance updates the pre-screening relevance signal and
// invalidates cached dashboard state
func (p *Policy) SetRelevance(ctx context.Context, id string, status entity.RelevantStatus) (*entity.Post, error) {
	if err := p.svc.SetRelevance(ctx, id, status); err != nil {
		return nil, err
	}
	p.dashboard.MarkDirty()
	return p.svc.GetPost(ctx, id)
}

// UploadCover stores a cover image and attaches it to the post
func (p *Policy) UploadCover(ctx context.Context, postID string, in CoverUploadInput) (*CoverUploadOutput, error) {
	// Ensure the post exists before uploading anything.
	if _, err := p.svc.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	out, err := p.covers.Upload(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := p.svc.SetCoverURL(ctx, postID, out.URL); err != nil {
		return nil, err
	}

	return out, nil
}

// Statistics assembles aggregated monitoring statistics
func (p *Policy) Statistics(ctx context.Context) (*entity.PostStatistics, error) {
	return p.svc.Statistics(ctx)
}
