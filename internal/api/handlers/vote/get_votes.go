// Package vote provides the HTTP handlers for the vote query API.
// Handlers own boundary validation (pagination bounds, enum values, URL shape)
// and pagination; the votes service owns resolution and retrieval.
package vote

import (
	"LemmyVotes/internal/core/lemmy"
	"LemmyVotes/internal/core/votes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
)

// Service defines the vote retrieval interface consumed by this handler
type Service interface {
	GetVotes(ctx context.Context, req votes.GetVotesRequest) (*votes.GetVotesResponse, error)
}

// URLValidator checks a submitted URL against the instance allowlist
type URLValidator interface {
	IsAllowedURL(ctx context.Context, rawURL string) (bool, error)
}

// ObjectResolver confirms a URL denotes a real federated object upstream
type ObjectResolver interface {
	ResolveObject(ctx context.Context, objectURL string) error
}

// GetVotesHandler handles vote retrieval for posts and comments
type GetVotesHandler struct {
	service   Service
	allowlist URLValidator
	resolver  ObjectResolver
}

// NewGetVotesHandler creates a handler wiring the allowlist and upstream
// checks in front of the retrieval service
func NewGetVotesHandler(service Service, allowlist URLValidator, resolver ObjectResolver) *GetVotesHandler {
	return &GetVotesHandler{
		service:   service,
		allowlist: allowlist,
		resolver:  resolver,
	}
}

// votesResponse is the public wire shape for a page of votes
type votesResponse struct {
	Votes      []votes.Vote `json:"votes"`
	TotalCount int          `json:"total_count"`
	NextOffset *int         `json:"next_offset"`
	TotalScore int          `json:"total_score"`
	Upvotes    int          `json:"upvotes"`
	Downvotes  int          `json:"downvotes"`
}

// HandlePostVotes handles GET /votes/post
func (h *GetVotesHandler) HandlePostVotes(w http.ResponseWriter, r *http.Request) {
	h.handleGetVotes(w, r, votes.KindPost)
}

// HandleCommentVotes handles GET /votes/comment
func (h *GetVotesHandler) HandleCommentVotes(w http.ResponseWriter, r *http.Request) {
	h.handleGetVotes(w, r, votes.KindComment)
}

func (h *GetVotesHandler) handleGetVotes(w http.ResponseWriter, r *http.Request, kind votes.ObjectKind) {
	// 1. Only allow GET method
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 2. Parse query parameters
	query := r.URL.Query()
	objectURL := query.Get("url")
	offsetStr := query.Get("offset")
	limitStr := query.Get("limit")
	filterStr := query.Get("votes_filter")
	sortStr := query.Get("sort_by")
	username := query.Get("username")

	// 3. Validate required parameters
	if objectURL == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "url parameter is required")
		return
	}

	// 4. Parse and validate offset with default
	offset := 0
	if offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "offset must be a valid integer")
			return
		}
		if parsed < 0 {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "offset must be non-negative")
			return
		}
		offset = parsed
	}

	// 5. Parse and validate limit with default and max
	limit := 50
	if limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "limit must be a valid integer")
			return
		}
		if parsed < 1 {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "limit must be positive")
			return
		}
		if parsed > 250 {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "limit cannot exceed 250")
			return
		}
		limit = parsed
	}

	// 6. Validate filter and sort enums (defaults: all votes, newest first)
	filter := votes.FilterAll
	if filterStr != "" {
		filter = votes.VoteFilter(filterStr)
		if !filter.Valid() {
			writeError(w, http.StatusBadRequest, "InvalidRequest",
				"votes_filter must be one of: All, Upvotes, Downvotes")
			return
		}
	}
	sort := votes.SortCreatedDesc
	if sortStr != "" {
		sort = votes.SortOption(sortStr)
		if !sort.Valid() {
			writeError(w, http.StatusBadRequest, "InvalidRequest",
				"sort_by must be one of: datetime_asc, datetime_desc")
			return
		}
	}

	// 7. Reject URLs outside the instance allowlist before touching upstream
	allowed, err := h.allowlist.IsAllowedURL(r.Context(), objectURL)
	if err != nil {
		log.Printf("Allowlist check failed: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
		return
	}
	if !allowed {
		writeError(w, http.StatusUnprocessableEntity, "InvalidURL",
			"Not a valid Lemmy URL or url doesn't start with https://")
		return
	}

	// 8. Confirm the URL resolves to a real federated object upstream
	if err := h.resolver.ResolveObject(r.Context(), objectURL); err != nil {
		var resolveErr *lemmy.ResolveError
		if errors.As(err, &resolveErr) {
			writeError(w, resolveErr.StatusCode, "UpstreamError",
				resolveErr.Detail+". Make sure you are passing Activity Pub link.")
			return
		}
		log.Printf("Upstream resolve failed: %v", err)
		writeError(w, http.StatusBadGateway, "UpstreamError", "External API Error")
		return
	}

	// 9. Retrieve the aggregate and the full filtered/sorted ledger
	resp, err := h.service.GetVotes(r.Context(), votes.GetVotesRequest{
		URL:    objectURL,
		Kind:   kind,
		Filter: filter,
		Sort:   sort,
		Author: username,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 10. Paginate and respond
	page, nextOffset := votes.Paginate(resp.Votes, offset, limit)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(votesResponse{
		Votes:      page,
		TotalCount: len(resp.Votes),
		NextOffset: nextOffset,
		TotalScore: resp.Aggregate.TotalScore,
		Upvotes:    resp.Aggregate.Upvotes,
		Downvotes:  resp.Aggregate.Downvotes,
	}); err != nil {
		// Log encoding errors but don't return error response (headers already sent)
		log.Printf("Failed to encode votes response: %v", err)
	}
}
