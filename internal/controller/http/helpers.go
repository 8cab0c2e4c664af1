package http

import (
	"net/http"
	"strconv"

	analysisentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/cache"
	dashboardentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/entity"
	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
	rulesentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/httpx/response"
)

// handleDomainError maps domain errors to HTTP status codes
func handleDomainError(w http.ResponseWriter, err error) {
	switch err {
	case postentity.ErrPostNotFound, analysisentity.ErrAnalysisNotFound,
		rulesentity.ErrRuleNotFound:
		response.NotFound(w, err.Error())
	case postentity.ErrDuplicatePost:
		response.Conflict(w, err.Error())
	case postentity.ErrEmptyPlatformItemID, postentity.ErrInvalidPlatform,
		postentity.ErrInvalidPostType, postentity.ErrInvalidRelevantStatus,
		postentity.ErrInvalidPriority, analysisentity.ErrEmptyItemID,
		analysisentity.ErrInvalidSentiment, dashboardentity.ErrInvalidTimeRange,
		rulesentity.ErrMissingAttribute, rulesentity.ErrBrokenChain,
		rulesentity.ErrInvalidRuleStatus, rulesentity.ErrEmptyCategory,
		rulesentity.ErrEmptyExtractionText:
		response.BadRequest(w, err.Error())
	case dashboardentity.ErrDrillNotAtPrimary, dashboardentity.ErrDrillNotAtSecondary:
		response.Conflict(w, err.Error())
	case cache.ErrSnapshotExpired:
		response.Error(w, http.StatusGone, err.Error())
	case rulesentity.ErrExtractionFailed:
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		response.InternalError(w, "internal server error")
	}
}

// parsePagination reads limit/offset query params with bounds applied.
// Returns ok=false after writing the error response.
func parsePagination(w http.ResponseWriter, r *http.Request, defaultLimit, maxLimit int) (limit, offset int, ok bool) {
	q := r.URL.Query()

	limit = defaultLimit
	if l := q.Get("limit"); l != "" {
		li, err := strconv.Atoi(l)
		if err != nil || li < 1 {
			response.BadRequest(w, "invalid limit")
			return 0, 0, false
		}
		if li > maxLimit {
			li = maxLimit
		}
		limit = li
	}

	if o := q.Get("offset"); o != "" {
		oi, err := strconv.Atoi(o)
		if err != nil || oi < 0 {
			response.BadRequest(w, "invalid offset")
			return 0, 0, false
		}
		offset = oi
	}

	return limit, offset, true
}
