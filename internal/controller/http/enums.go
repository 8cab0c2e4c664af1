package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/enums/service"
	"github.com/noir-madlax/GoodGame-sub002/internal/httpx/response"
)

// EnumService defines the interface for filter enum loading
// Interface is defined by consumer (handler), not provider (service)
type EnumService interface {
	FetchGlobalFilterEnums(ctx context.Context) (*service.FilterEnums, error)
	Invalidate()
}

// EnumHandler handles HTTP requests for filter enumerations
type EnumHandler struct {
	svc EnumService
}

// NewEnumHandler creates a new enum handler
func NewEnumHandler(svc EnumService) *EnumHandler {
	return &EnumHandler{svc: svc}
}

// RegisterRoutes registers enum routes
func (h *EnumHandler) RegisterRoutes(r chi.Router) {
	r.Route("/enums", func(r chi.Router) {
		r.Get("/filters", h.Filters())
		r.Delete("/filters/cache", h.InvalidateCache())
	})
}

// Filters handles GET /enums/filters
func (h *EnumHandler) Filters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enums, err := h.svc.FetchGlobalFilterEnums(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, enums)
	}
}

// InvalidateCache handles DELETE /enums/filters/cache
func (h *EnumHandler) InvalidateCache() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.svc.Invalidate()
		response.NoContent(w)
	}
}
