package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/policy"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/service"
	"github.com/noir-madlax/GoodGame-sub002/internal/httpx/response"
)

// RulePolicy defines the interface for tagging rule operations
// Interface is defined by consumer (handler), not provider (policy)
type RulePolicy interface {
	CreateRule(ctx context.Context, in service.CreateInput) (*entity.Rule, error)
	GetRule(ctx context.Context, id string) (*entity.Rule, error)
	UpdateRule(ctx context.Context, in service.UpdateInput) (*entity.Rule, error)
	DeleteRule(ctx context.Context, id string) error
	ListRules(ctx context.Context, in service.ListInput) (*service.ListOutput, error)
	ExtractChain(ctx context.Context, in policy.ExtractInput) (*policy.ExtractOutput, error)
}

// RuleHandler handles HTTP requests for tagging rules
type RuleHandler struct {
	policy RulePolicy
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(p RulePolicy) *RuleHandler {
	return &RuleHandler{policy: p}
}

// RegisterRoutes registers rule routes
func (h *RuleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/rules", func(r chi.Router) {
		r.Post("/", h.Create())
		r.Get("/", h.List())
		r.Post("/extract", h.Extract())
		r.Get("/{id}", h.Get())
		r.Put("/{id}", h.Update())
		r.Delete("/{id}", h.Delete())
	})
}

// ChainNodeRequest represents a chain node in requests
type ChainNodeRequest struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func (n *ChainNodeRequest) toNode() *entity.ChainNode {
	if n == nil {
		return nil
	}
	return &entity.ChainNode{Code: n.Code, Label: n.Label}
}

// CreateRuleRequest represents the request body for creating a rule
type CreateRuleRequest struct {
	Category    string            `json:"category"`
	Attribute   *ChainNodeRequest `json:"attribute,omitempty"`
	Performance *ChainNodeRequest `json:"performance,omitempty"`
	Use         *ChainNodeRequest `json:"use,omitempty"`
	Style       *ChainNodeRequest `json:"style,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	Priority    int               `json:"priority"`
}

// Create handles POST /rules
func (h *RuleHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		rule, err := h.policy.CreateRule(r.Context(), service.CreateInput{
			Category:    req.Category,
			Attribute:   req.Attribute.toNode(),
			Performance: req.Performance.toNode(),
			Use:         req.Use.toNode(),
			Style:       req.Style.toNode(),
			Keywords:    req.Keywords,
			Priority:    req.Priority,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.Created(w, rule)
	}
}

// Get handles GET /rules/{id}
func (h *RuleHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rule, err := h.policy.GetRule(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, rule)
	}
}

// UpdateRuleRequest represents the request body for updating a rule
type UpdateRuleRequest struct {
	Category    *string           `json:"category,omitempty"`
	Attribute   *ChainNodeRequest `json:"attribute,omitempty"`
	Performance *ChainNodeRequest `json:"performance,omitempty"`
	Use         *ChainNodeRequest `json:"use,omitempty"`
	Style       *ChainNodeRequest `json:"style,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	Status      *string           `json:"status,omitempty"`
	Priority    *int              `json:"priority,omitempty"`
}

// Update handles PUT /rules/{id}
func (h *RuleHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req UpdateRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		var status *entity.RuleStatus
		if req.Status != nil {
			s, err := entity.ParseRuleStatus(*req.Status)
			if err != nil {
				response.BadRequest(w, err.Error())
				return
			}
			status = &s
		}

		rule, err := h.policy.UpdateRule(r.Context(), service.UpdateInput{
			ID:          id,
			Category:    req.Category,
			Attribute:   req.Attribute.toNode(),
			Performance: req.Performance.toNode(),
			Use:         req.Use.toNode(),
			Style:       req.Style.toNode(),
			Keywords:    req.Keywords,
			Status:      status,
			Priority:    req.Priority,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, rule)
	}
}

// Delete handles DELETE /rules/{id}
func (h *RuleHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := h.policy.DeleteRule(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}

		response.NoContent(w)
	}
}

// RuleListResponse represents the response for listing rules
type RuleListResponse struct {
	Rules  []entity.Rule `json:"rules"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// List handles GET /rules
func (h *RuleHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var status *entity.RuleStatus
		if s := q.Get("status"); s != "" {
			rs, err := entity.ParseRuleStatus(s)
			if err != nil {
				response.BadRequest(w, err.Error())
				return
			}
			status = &rs
		}

		limit, offset, ok := parsePagination(w, r, 50, 100)
		if !ok {
			return
		}

		out, err := h.policy.ListRules(r.Context(), service.ListInput{
			Category:      q.Get("category"),
			Status:        status,
			AttributeCode: q.Get("attribute"),
			Limit:         limit,
			Offset:        offset,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, RuleListResponse{
			Rules:  out.Rules,
			Total:  out.Total,
			Limit:  limit,
			Offset: offset,
		})
	}
}

// ExtractRequest represents the request body for chain extraction
type ExtractRequest struct {
	Text string `json:"text"`
	Save bool   `json:"save"`
}

// Extract handles POST /rules/extract
func (h *RuleHandler) Extract() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExtractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		out, err := h.policy.ExtractChain(r.Context(), policy.ExtractInput{
			Text: req.Text,
			Save: req.Save,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, out)
	}
}
