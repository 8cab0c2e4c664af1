package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/entity"
	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// AnalysisRepository defines the interface for analysis storage
type AnalysisRepository interface {
	Upsert(ctx context.Context, a *entity.Analysis) error
	GetByItemID(ctx context.Context, itemID string) (*entity.Analysis, error)
	ListByItemIDs(ctx context.Context, itemIDs []string) ([]entity.Analysis, error)
}

// Service handles business logic for AI annotations
type Service struct {
	analyses AnalysisRepository
}

// New creates a new analysis service
func New(analyses AnalysisRepository) *Service {
	return &Service{analyses: analyses}
}

// SaveInput represents input for recording an analysis
type SaveInput struct {
	PlatformItemID string
	Sentiment      entity.Sentiment
	RelevanceLabel string
	RiskCategories []string
	Severity       entity.Severity
	Suggestion     string
}

// SaveAnalysis records one AI annotation, replacing a previous one for
// the same platform item.
func (s *Service) SaveAnalysis(ctx context.Context, in SaveInput) (*entity.Analysis, error) {
	a := &entity.Analysis{
		ID:             uuid.New().String(),
		PlatformItemID: in.PlatformItemID,
		Sentiment:      in.Sentiment,
		RelevanceLabel: in.RelevanceLabel,
		RiskCategories: in.RiskCategories,
		Severity:       in.Severity,
		Suggestion:     in.Suggestion,
		AnalyzedAt:     time.Now(),
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	if err := s.analyses.Upsert(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

// GetAnalysis retrieves the analysis for one platform item
func (s *Service) GetAnalysis(ctx context.Context, itemID string) (*entity.Analysis, error) {
	a, err := s.analyses.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, entity.ErrAnalysisNotFound
	}
	return a, nil
}

// MapsForPosts builds the annotation dictionaries for a page of posts,
// backfilling missing relevance entries from each post's pre-screening
// status.
func (s *Service) MapsForPosts(ctx context.Context, posts []postentity.Post) (*entity.AnalysisMaps, error) {
	itemIDs := make([]string, len(posts))
	for i, p := range posts {
		itemIDs[i] = p.PlatformItemID
	}

	rows, err := s.analyses.ListByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	maps := entity.BuildAnalysisMaps(rows)
	maps.Relevance = entity.BackfillRelevance(maps.Relevance, posts)

	return maps, nil
}
