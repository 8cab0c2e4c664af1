package policy

import (
	"context"
	"errors"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/service"
)

// ChainExtractor defines the interface for turning a natural-language
// product description into a structured APU chain.
// Defined here (consumer) not in the upstream package (provider).
type ChainExtractor interface {
	ExtractChain(ctx context.Context, text string) (*ExtractedChain, error)
}

// ExtractedChain is the structured result of one extraction
type ExtractedChain struct {
	Category    string
	Attribute   *entity.ChainNode
	Performance *entity.ChainNode
	Use         *entity.ChainNode
	Style       *entity.ChainNode
	Keywords    []string
}

// Policy orchestrates rule use-cases
type Policy struct {
	svc       *service.Service
	extractor ChainExtractor
}

// New creates a new rules policy
func New(svc *service.Service, extractor ChainExtractor) *Policy {
	return &Policy{svc: svc, extractor: extractor}
}

// CreateRule creates a new tagging rule
func (p *Policy) CreateRule(ctx context.Context, in service.CreateInput) (*entity.Rule, error) {
	return p.svc.CreateRule(ctx, in)
}

// GetRule retrieves a rule by ID
func (p *Policy) GetRule(ctx context.Context, id string) (*entity.Rule, error) {
	return p.svc.GetRule(ctx, id)
}

// UpdateRule updates an existing rule
func (p *Policy) UpdateRule(ctx context.Context, in service.UpdateInput) (*entity.Rule, error) {
	return p.svc.UpdateRule(ctx, in)
}

// DeleteRule deletes a rule
func (p *Policy) DeleteRule(ctx context.Context, id string) error {
	return p.svc.DeleteRule(ctx, id)
}

// ListRules retrieves rules with filtering
func (p *Policy) ListRules(ctx context.Context, in service.ListInput) (*service.ListOutput, error) {
	return p.svc.ListRules(ctx, in)
}

// ExtractInput represents input for chain extraction
type ExtractInput struct {
	Text string
	Save bool // create a rule from the extraction in the same call
}

// ExtractOutput represents one extraction result
type ExtractOutput struct {
	Chain *ExtractedChain `json:"chain"`
	Rule  *entity.Rule    `json:"rule,omitempty"`
}

// ExtractChain extracts an APU chain from a natural-language product
// description, optionally persisting it as an active rule.
func (p *Policy) ExtractChain(ctx context.Context, in ExtractInput) (*ExtractOutput, error) {
	if in.Text == "" {
		return nil, entity.ErrEmptyExtractionText
	}

	chain, err := p.extractor.ExtractChain(ctx, in.Text)
	if err != nil {
		if errors.Is(err, entity.ErrExtractionFailed) {
			return nil, entity.ErrExtractionFailed
		}
		return nil, err
	}
	if chain == nil || chain.Attribute == nil {
		return nil, entity.ErrExtractionFailed
	}

	out := &ExtractOutput{Chain: chain}
	if in.Save {
		rule, err := p.svc.CreateRule(ctx, service.CreateInput{
			Category:    chain.Category,
			Attribute:   chain.Attribute,
			Performance: chain.Performance,
			Use:         chain.Use,
			Style:       chain.Style,
			Keywords:    chain.Keywords,
		})
		if err != nil {
			return nil, err
		}
		out.Rule = rule
	}

	return out, nil
}
