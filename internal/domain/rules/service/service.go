package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/dao"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/entity"
)

// RuleRepository defines the interface for rule storage
type RuleRepository interface {
	Create(ctx context.Context, rule *entity.Rule) error
	GetByID(ctx context.Context, id string) (*entity.Rule, error)
	Update(ctx context.Context, rule *entity.Rule) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter dao.RuleFilter, limit, offset int) ([]entity.Rule, error)
	Count(ctx context.Context, filter dao.RuleFilter) (int64, error)
}

// Service handles business logic for APU tagging rules
type Service struct {
	rules RuleRepository
}

// New creates a new rules service
func New(rules RuleRepository) *Service {
	return &Service{rules: rules}
}

// CreateInput represents input for creating a rule
type CreateInput struct {
	Category    string
	Attribute   *entity.ChainNode
	Performance *entity.ChainNode
	Use         *entity.ChainNode
	Style       *entity.ChainNode
	Keywords    []string
	Priority    int
}

// CreateRule creates a new tagging rule
func (s *Service) CreateRule(ctx context.Context, in CreateInput) (*entity.Rule, error) {
	now := time.Now()

	rule := &entity.Rule{
		ID:          uuid.New().String(),
		Category:    in.Category,
		Attribute:   in.Attribute,
		Performance: in.Performance,
		Use:         in.Use,
		Style:       in.Style,
		Keywords:    normalizeKeywords(in.Keywords),
		Status:      entity.RuleStatusActive,
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// GetRule retrieves a rule by ID
func (s *Service) GetRule(ctx context.Context, id string) (*entity.Rule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, entity.ErrRuleNotFound
	}
	return rule, nil
}

// UpdateInput represents input for updating a rule
type UpdateInput struct {
	ID          string
	Category    *string
	Attribute   *entity.ChainNode
	Performance *entity.ChainNode
	Use         *entity.ChainNode
	Style       *entity.ChainNode
	Keywords    []string
	Status      *entity.RuleStatus
	Priority    *int
}

// UpdateRule updates an existing rule
func (s *Service) UpdateRule(ctx context.Context, in UpdateInput) (*entity.Rule, error) {
	rule, err := s.GetRule(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Category != nil {
		rule.Category = *in.Category
	}
	if in.Attribute != nil {
		rule.Attribute = in.Attribute
	}
	if in.Performance != nil {
		rule.Performance = in.Performance
	}
	if in.Use != nil {
		rule.Use = in.Use
	}
	if in.Style != nil {
		rule.Style = in.Style
	}
	if in.Keywords != nil {
		rule.Keywords = normalizeKeywords(in.Keywords)
	}
	if in.Status != nil {
		rule.Status = *in.Status
	}
	if in.Priority != nil {
		rule.Priority = *in.Priority
	}
	rule.UpdatedAt = time.Now()

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// DeleteRule deletes a rule
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	if _, err := s.GetRule(ctx, id); err != nil {
		return err
	}
	return s.rules.Delete(ctx, id)
}

// ListInput represents input for listing rules
type ListInput struct {
	Category      string
	Status        *entity.RuleStatus
	AttributeCode string
	Limit         int
	Offset        int
}

// ListOutput represents output from listing rules
type ListOutput struct {
	Rules []entity.Rule
	Total int64
}

// ListRules retrieves rules with filtering
func (s *Service) ListRules(ctx context.Context, in ListInput) (*ListOutput, error) {
	filter := dao.RuleFilter{
		Category:      in.Category,
		Status:        in.Status,
		AttributeCode: in.AttributeCode,
	}

	limit := in.Limit
	if limit == 0 {
		limit = 50
	}

	rules, err := s.rules.List(ctx, filter, limit, in.Offset)
	if err != nil {
		return nil, err
	}

	total, err := s.rules.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Rules: rules, Total: total}, nil
}

// normalizeKeywords trims and drops empty keywords
func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
