package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/service"
	"github.com/noir-madlax/GoodGame-sub002/internal/httpx/response"
)

// DashboardService defines the interface for dashboard view assembly
// Interface is defined by consumer (handler), not provider (service)
type DashboardService interface {
	GetDashboard(ctx context.Context, q service.Query) (*service.Result, error)
	MarkReturn(key string)
	UpdateScrollTop(key string, scrollTop int)
	DrillDown(key, relevanceCategory, severityBucket string) (*entity.ChartDrillState, error)
	DrillBack(key string) (*entity.ChartDrillState, error)
	SaveViewState(state *entity.ViewState)
	LoadViewState() *entity.ViewState
	GetOverview(ctx context.Context, refresh bool) (*entity.OverviewState, error)
	ClearOverview()
}

// DashboardHandler handles HTTP requests for dashboard views
type DashboardHandler struct {
	svc DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.Get())
		r.Post("/return", h.MarkReturn())
		r.Post("/scroll", h.UpdateScroll())
		r.Post("/drill", h.Drill())
		r.Post("/back", h.Back())
		r.Get("/view-state", h.GetViewState())
		r.Put("/view-state", h.PutViewState())
		r.Get("/overview", h.Overview())
		r.Delete("/overview", h.ClearOverview())
	})
}

// Get handles GET /dashboard
func (h *DashboardHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filters := entity.FilterState{
			TimeRange:    entity.TimeRange(q.Get("time_range")),
			Relevance:    q["relevance"],
			Priority:     q["priority"],
			CreatorTypes: q["creator_type"],
			Platforms:    q["platform"],
		}

		if s := q.Get("since"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				response.BadRequest(w, "invalid since format, use RFC3339")
				return
			}
			filters.Since = &t
		}

		page := 0
		if p := q.Get("page"); p != "" {
			pi, err := strconv.Atoi(p)
			if err != nil || pi < 1 {
				response.BadRequest(w, "invalid page")
				return
			}
			page = pi
		}

		pageSize := 0
		if ps := q.Get("page_size"); ps != "" {
			psi, err := strconv.Atoi(ps)
			if err != nil || psi < 1 {
				response.BadRequest(w, "invalid page_size")
				return
			}
			if psi > 100 {
				psi = 100
			}
			pageSize = psi
		}

		out, err := h.svc.GetDashboard(r.Context(), service.Query{
			Filters:     filters,
			OldestFirst: q.Get("sort") == "oldest",
			Page:        page,
			PageSize:    pageSize,
			Hydrate:     q.Get("hydrate") == "true",
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, out)
	}
}

// KeyRequest carries a snapshot cache key in a request body
type KeyRequest struct {
	Key string `json:"key"`
}

// MarkReturn handles POST /dashboard/return
func (h *DashboardHandler) MarkReturn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req KeyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.Key == "" {
			response.BadRequest(w, "key is required")
			return
		}

		h.svc.MarkReturn(req.Key)
		response.NoContent(w)
	}
}

// ScrollRequest represents the request body for a scroll position update
type ScrollRequest struct {
	Key       string `json:"key"`
	ScrollTop int    `json:"scroll_top"`
}

// UpdateScroll handles POST /dashboard/scroll
func (h *DashboardHandler) UpdateScroll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScrollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.Key == "" {
			response.BadRequest(w, "key is required")
			return
		}

		h.svc.UpdateScrollTop(req.Key, req.ScrollTop)
		response.NoContent(w)
	}
}

// DrillRequest represents the request body for a chart drill-down
type DrillRequest struct {
	Key               string `json:"key"`
	RelevanceCategory string `json:"relevance_category"`
	SeverityBucket    string `json:"severity_bucket"`
}

// Drill handles POST /dashboard/drill
func (h *DashboardHandler) Drill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DrillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.Key == "" {
			response.BadRequest(w, "key is required")
			return
		}

		drill, err := h.svc.DrillDown(req.Key, req.RelevanceCategory, req.SeverityBucket)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, drill)
	}
}

// Back handles POST /dashboard/back
func (h *DashboardHandler) Back() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req KeyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.Key == "" {
			response.BadRequest(w, "key is required")
			return
		}

		drill, err := h.svc.DrillBack(req.Key)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, drill)
	}
}

// GetViewState handles GET /dashboard/view-state
func (h *DashboardHandler) GetViewState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := h.svc.LoadViewState()
		if state == nil {
			response.NotFound(w, "no view state saved")
			return
		}

		response.OK(w, state)
	}
}

// PutViewState handles PUT /dashboard/view-state
func (h *DashboardHandler) PutViewState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var state entity.ViewState
		if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		h.svc.SaveViewState(&state)
		response.NoContent(w)
	}
}

// Overview handles GET /dashboard/overview
func (h *DashboardHandler) Overview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refresh := r.URL.Query().Get("refresh") == "true"

		state, err := h.svc.GetOverview(r.Context(), refresh)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, state)
	}
}

// ClearOverview handles DELETE /dashboard/overview
func (h *DashboardHandler) ClearOverview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.svc.ClearOverview()
		response.NoContent(w)
	}
}
