package policy

import (
	"context"
	"log/slog"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/service"
	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// Annotator defines the interface for the AI annotation upstream.
// Defined here (consumer) not in the upstream package (provider).
type Annotator interface {
	AnnotatePost(ctx context.Context, in AnnotateInput) (*AnnotateOutput, error)
}

// AnnotateInput represents input for annotating a post
type AnnotateInput struct {
	Platform    string
	Title       string
	AuthorName  string
	CreatorType string
}

// AnnotateOutput represents the structured annotation extracted from the
// model response
type AnnotateOutput struct {
	Sentiment      string
	RelevanceLabel string
	RiskCategories []string
	Severity       string
	Suggestion     string
}

// PendingPostSource supplies posts that still lack an analysis row
type PendingPostSource interface {
	UnanalyzedPosts(ctx context.Context, limit int) ([]postentity.Post, error)
}

// DashboardInvalidator marks cached dashboard state stale once new
// annotations land.
type DashboardInvalidator interface {
	MarkDirty()
}

// Policy orchestrates the annotation pipeline
type Policy struct {
	svc       *service.Service
	posts     PendingPostSource
	annotator Annotator
	dashboard DashboardInvalidator
	logger    *slog.Logger
	batchSize int
}

// New creates a new analysis policy
func New(svc *service.Service, posts PendingPostSource, annotator Annotator, dashboard DashboardInvalidator, logger *slog.Logger) *Policy {
	return &Policy{
		svc:       svc,
		posts:     posts,
		annotator: annotator,
		dashboard: dashboard,
		logger:    logger,
		batchSize: 20,
	}
}

// GetAnalysis retrieves the analysis for one platform item
func (p *Policy) GetAnalysis(ctx context.Context, itemID string) (*entity.Analysis, error) {
	return p.svc.GetAnalysis(ctx, itemID)
}

// ProcessPendingAnalyses annotates posts that lack an analysis row.
// Per-post failures are logged and skipped so one bad response does not
// stall the batch.
func (p *Policy) ProcessPendingAnalyses(ctx context.Context) error {
	posts, err := p.posts.UnanalyzedPosts(ctx, p.batchSize)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		return nil
	}

	var saved int
	for _, post := range posts {
		out, err := p.annotator.AnnotatePost(ctx, AnnotateInput{
			Platform:    string(post.Platform),
			Title:       post.Title,
			AuthorName:  post.AuthorName,
			CreatorType: string(post.CreatorType),
		})
		if err != nil {
			p.logger.Error("annotating post failed",
				"platform_item_id", post.PlatformItemID, "error", err)
			continue
		}

		_, err = p.svc.SaveAnalysis(ctx, service.SaveInput{
			PlatformItemID: post.PlatformItemID,
			Sentiment:      entity.Sentiment(out.Sentiment),
			RelevanceLabel: out.RelevanceLabel,
			RiskCategories: out.RiskCategories,
			Severity:       entity.Severity(out.Severity),
			Suggestion:     out.Suggestion,
		})
		if err != nil {
			p.logger.Error("saving analysis failed",
				"platform_item_id", post.PlatformItemID, "error", err)
			continue
		}
		saved++
	}

	if saved > 0 {
		p.dashboard.MarkDirty()
		p.logger.Info("annotation batch complete", "saved", saved, "pending", len(posts))
	}

	return nil
}
