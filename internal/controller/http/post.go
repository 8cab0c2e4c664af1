package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/policy"
	"github.com/noir-madlax/GoodGame-sub002/internal/httpx/response"
)

// maxCoverSize caps cover image uploads at 10 MB
const maxCoverSize = 10 << 20

// PostPolicy defines the interface for post triage operations
// Interface is defined by consumer (handler), not provider (policy)
type PostPolicy interface {
	CreatePost(ctx context.Context, in policy.CreatePostInput) (*entity.Post, error)
	GetPost(ctx context.Context, id string) (*entity.Post, error)
	ListPosts(ctx context.Context, in policy.ListPostsInput) (*policy.ListPostsOutput, error)
	MarkPost(ctx context.Context, id string, marked bool) (*entity.Post, error)
	SetRelevance(ctx context.Context, id string, status entity.RelevantStatus) (*entity.Post, error)
	UploadCover(ctx context.Context, postID string, in policy.CoverUploadInput) (*policy.CoverUploadOutput, error)
	Statistics(ctx context.Context) (*entity.PostStatistics, error)
}

// PostHandler handles HTTP requests for monitored posts
type PostHandler struct {
	policy PostPolicy
}

// NewPostHandler creates a new post handler
func NewPostHandler(p PostPolicy) *PostHandler {
	return &PostHandler{policy: p}
}

// RegisterRoutes registers post routes
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Route("/posts", func(r chi.Router) {
		r.Post("/", h.Create())
		r.Get("/", h.List())
		r.Get("/statistics", h.Statistics())
		r.Get("/{id}", h.Get())
		r.Post("/{id}/mark", h.Mark())
		r.Put("/{id}/relevance", h.SetRelevance())
		r.Post("/{id}/cover", h.UploadCover())
	})
}

// CreatePostRequest represents the request body for registering a
// collected post
type CreatePostRequest struct {
	Platform       string     `json:"platform"`
	PlatformItemID string     `json:"platform_item_id"`
	Title          string     `json:"title"`
	AuthorName     string     `json:"author_name"`
	AuthorID       string     `json:"author_id"`
	CreatorType    string     `json:"creator_type"`
	PostType       string     `json:"post_type"`
	CoverURL       string     `json:"cover_url"`
	DurationSec    int        `json:"duration_sec"`
	LikeCount      int64      `json:"like_count"`
	CommentCount   int64      `json:"comment_count"`
	ShareCount     int64      `json:"share_count"`
	CollectCount   int64      `json:"collect_count"`
	RelevantStatus string     `json:"relevant_status"`
	PublishedAt    *time.Time `json:"published_at"`
}

// Create handles POST /posts
func (h *PostHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		platform, err := entity.ParsePlatform(req.Platform)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		var relevantStatus entity.RelevantStatus
		if req.RelevantStatus != "" {
			relevantStatus, err = entity.ParseRelevantStatus(req.RelevantStatus)
			if err != nil {
				response.BadRequest(w, err.Error())
				return
			}
		}

		post, err := h.policy.CreatePost(r.Context(), policy.CreatePostInput{
			Platform:       platform,
			PlatformItemID: req.PlatformItemID,
			Title:          req.Title,
			AuthorName:     req.AuthorName,
			AuthorID:       req.AuthorID,
			CreatorType:    entity.CreatorType(req.CreatorType),
			PostType:       entity.PostType(req.PostType),
			CoverURL:       req.CoverURL,
			DurationSec:    req.DurationSec,
			LikeCount:      req.LikeCount,
			CommentCount:   req.CommentCount,
			ShareCount:     req.ShareCount,
			CollectCount:   req.CollectCount,
			RelevantStatus: relevantStatus,
			PublishedAt:    req.PublishedAt,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.Created(w, post)
	}
}

// PostListResponse represents the response for listing posts
type PostListResponse struct {
	Posts  []entity.Post `json:"posts"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// List handles GET /posts
func (h *PostHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		platforms := make([]entity.Platform, 0, len(q["platform"]))
		for _, p := range q["platform"] {
			platform, err := entity.ParsePlatform(p)
			if err != nil {
				response.BadRequest(w, err.Error())
				return
			}
			platforms = append(platforms, platform)
		}

		relevance := make([]entity.RelevantStatus, 0, len(q["relevance"]))
		for _, s := range q["relevance"] {
			status, err := entity.ParseRelevantStatus(s)
			if err != nil {
				response.BadRequest(w, err.Error())
				return
			}
			relevance = append(relevance, status)
		}

		priorities := make([]entity.Priority, 0, len(q["priority"]))
		for _, p := range q["priority"] {
			priority := entity.Priority(p)
			if !entity.IsValidPriority(priority) {
				response.BadRequest(w, "invalid priority")
				return
			}
			priorities = append(priorities, priority)
		}

		creatorTypes := make([]entity.CreatorType, 0, len(q["creator_type"]))
		for _, c := range q["creator_type"] {
			creatorTypes = append(creatorTypes, entity.CreatorType(c))
		}

		var since *time.Time
		if s := q.Get("since"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				response.BadRequest(w, "invalid since format, use RFC3339")
				return
			}
			since = &t
		}

		limit, offset, ok := parsePagination(w, r, 50, 100)
		if !ok {
			return
		}

		out, err := h.policy.ListPosts(r.Context(), policy.ListPostsInput{
			Platforms:    platforms,
			Relevance:    relevance,
			Priorities:   priorities,
			CreatorTypes: creatorTypes,
			MarkedOnly:   q.Get("marked") == "true",
			Since:        since,
			OldestFirst:  q.Get("sort") == "oldest",
			Limit:        limit,
			Offset:       offset,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, PostListResponse{
			Posts:  out.Posts,
			Total:  out.Total,
			Limit:  limit,
			Offset: offset,
		})
	}
}

// Get handles GET /posts/{id}
func (h *PostHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		post, err := h.policy.GetPost(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, post)
	}
}

// MarkRequest represents the request body for marking a post
type MarkRequest struct {
	Marked bool `json:"marked"`
}

// Mark handles POST /posts/{id}/mark
func (h *PostHandler) Mark() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req MarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		post, err := h.policy.MarkPost(r.Context(), id, req.Marked)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, post)
	}
}

// RelevanceRequest represents the request body for setting relevance
type RelevanceRequest struct {
	Status string `json:"status"`
}

// SetRelevance handles PUT /posts/{id}/relevance
func (h *PostHandler) SetRelevance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req RelevanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		status, err := entity.ParseRelevantStatus(req.Status)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		post, err := h.policy.SetRelevance(r.Context(), id, status)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, post)
	}
}

// UploadCover handles POST /posts/{id}/cover (multipart form, field "cover")
func (h *PostHandler) UploadCover() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := r.ParseMultipartForm(maxCoverSize); err != nil {
			response.BadRequest(w, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("cover")
		if err != nil {
			response.BadRequest(w, "cover file is required")
			return
		}
		defer file.Close()

		out, err := h.policy.UploadCover(r.Context(), id, policy.CoverUploadInput{
			Reader:      file,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Filename:    header.Filename,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, out)
	}
}

// Statistics handles GET /posts/statistics
func (h *PostHandler) Statistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.policy.Statistics(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, stats)
	}
}
