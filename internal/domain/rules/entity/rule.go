package entity

import (
	"errors"
	"time"
)

// RuleStatus represents whether a tagging rule participates in search
type RuleStatus string

const (
	RuleStatusActive   RuleStatus = "active"
	RuleStatusDisabled RuleStatus = "disabled"
)

// ChainNode is one link of the APU causal chain
// (Attribute→Performance→Use→Style).
type ChainNode struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Rule represents one product tagging rule used for personalized search
type Rule struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Attribute   *ChainNode `json:"attribute,omitempty"`
	Performance *ChainNode `json:"performance,omitempty"`
	Use         *ChainNode `json:"use,omitempty"`
	Style       *ChainNode `json:"style,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
	Status      RuleStatus `json:"status"`
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Domain errors for tagging rules
var (
	ErrRuleNotFound        = errors.New("rule not found")
	ErrMissingAttribute    = errors.New("rule requires an attribute node")
	ErrBrokenChain         = errors.New("causal chain must be contiguous from attribute")
	ErrInvalidRuleStatus   = errors.New("invalid rule status")
	ErrEmptyCategory       = errors.New("rule category cannot be empty")
	ErrExtractionFailed    = errors.New("could not extract a causal chain from the text")
	ErrEmptyExtractionText = errors.New("extraction text cannot be empty")
)

// Validate validates rule fields. The chain must be prefix-contiguous:
// a deeper node without its parent (e.g. Use without Performance) is
// rejected.
func (r *Rule) Validate() error {
	if r.Category == "" {
		return ErrEmptyCategory
	}
	if r.Attribute == nil {
		return ErrMissingAttribute
	}
	if r.Performance == nil && (r.Use != nil || r.Style != nil) {
		return ErrBrokenChain
	}
	if r.Use == nil && r.Style != nil {
		return ErrBrokenChain
	}
	if !IsValidRuleStatus(r.Status) {
		return ErrInvalidRuleStatus
	}
	return nil
}

// ChainDepth returns how many chain links the rule carries
func (r *Rule) ChainDepth() int {
	depth := 0
	for _, node := range []*ChainNode{r.Attribute, r.Performance, r.Use, r.Style} {
		if node == nil {
			break
		}
		depth++
	}
	return depth
}

// IsValidRuleStatus checks if a rule status is valid
func IsValidRuleStatus(s RuleStatus) bool {
	switch s {
	case RuleStatusActive, RuleStatusDisabled:
		return true
	}
	return false
}

// ParseRuleStatus parses a string into a RuleStatus
func ParseRuleStatus(s string) (RuleStatus, error) {
	st := RuleStatus(s)
	if !IsValidRuleStatus(st) {
		return "", ErrInvalidRuleStatus
	}
	return st, nil
}
