package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/enums/entity"
)

// EnumRepository defines the interface for enumeration storage
type EnumRepository interface {
	ListDistinct(ctx context.Context, kind entity.Kind) ([]entity.Value, error)
}

// FilterEnums holds the option sets for every dashboard filter menu
type FilterEnums struct {
	Channels     []entity.Option `json:"channels"`
	Types        []entity.Option `json:"types"`
	Sentiments   []entity.Option `json:"sentiments"`
	Relevances   []entity.Option `json:"relevances"`
	Risks        []entity.Option `json:"risks"`
	CreatorTypes []entity.Option `json:"creator_types"`
	Priorities   []entity.Option `json:"priorities"`
}

// Service loads and caches the global filter enumerations. The enum
// table changes rarely, so results are held in-process for a TTL.
type Service struct {
	enums EnumRepository
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	cached    *FilterEnums
	fetchedAt time.Time
}

// New creates a new enums service
func New(enums EnumRepository, ttl time.Duration) *Service {
	return &Service{
		enums: enums,
		ttl:   ttl,
		now:   time.Now,
	}
}

// FetchGlobalFilterEnums returns the option sets for every filter menu,
// each headed by a synthetic "all" option.
func (s *Service) FetchGlobalFilterEnums(ctx context.Context) (*FilterEnums, error) {
	s.mu.RLock()
	if s.cached != nil && s.now().Sub(s.fetchedAt) <= s.ttl {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	out := &FilterEnums{}

	var err error
	if out.Channels, err = s.optionsFor(ctx, entity.KindPlatform); err != nil {
		return nil, err
	}
	if out.Types, err = s.optionsFor(ctx, entity.KindPostType); err != nil {
		return nil, err
	}
	if out.Sentiments, err = s.optionsFor(ctx, entity.KindSentiment); err != nil {
		return nil, err
	}
	if out.Relevances, err = s.optionsFor(ctx, entity.KindRelevance); err != nil {
		return nil, err
	}
	if out.Risks, err = s.optionsFor(ctx, entity.KindRiskScenario); err != nil {
		return nil, err
	}
	if out.CreatorTypes, err = s.optionsFor(ctx, entity.KindCreatorType); err != nil {
		return nil, err
	}
	if out.Priorities, err = s.optionsFor(ctx, entity.KindPriority); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = out
	s.fetchedAt = s.now()
	s.mu.Unlock()

	return out, nil
}

// Invalidate drops the cached option sets
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// optionsFor builds one menu: normalized labels, domain ordering for
// sentiments, label ordering otherwise, "all" at the head.
func (s *Service) optionsFor(ctx context.Context, kind entity.Kind) ([]entity.Option, error) {
	values, err := s.enums.ListDistinct(ctx, kind)
	if err != nil {
		return nil, err
	}

	options := make([]entity.Option, 0, len(values)+1)
	for _, v := range values {
		options = append(options, entity.Option{
			Value: v.Value,
			Label: entity.NormalizeLabel(kind, v.Value, v.Label),
		})
	}

	if kind == entity.KindSentiment {
		sort.SliceStable(options, func(i, j int) bool {
			return entity.SentimentRank(options[i].Value) < entity.SentimentRank(options[j].Value)
		})
	} else {
		sort.SliceStable(options, func(i, j int) bool {
			return options[i].Label < options[j].Label
		})
	}

	return append([]entity.Option{{Value: entity.AllOptionValue, Label: "全部"}}, options...), nil
}
