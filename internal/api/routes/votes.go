package routes

import (
	"net/http"

	"LemmyVotes/internal/api/handlers/vote"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RegisterVoteRoutes registers the vote query endpoints on the router.
// The API is consumed from browser frontends on arbitrary origins, so CORS is
// mounted router-wide here; r.Use must run before any route is registered on
// the mux for preflight OPTIONS to reach the middleware.
func RegisterVoteRoutes(r chi.Router, service vote.Service, allowlist vote.URLValidator, resolver vote.ObjectResolver) {
	r.Use(corsMiddleware())

	handler := vote.NewGetVotesHandler(service, allowlist, resolver)

	// GET /votes/post - vote ledger and aggregates for a post URL
	r.Get("/votes/post", handler.HandlePostVotes)

	// GET /votes/comment - vote ledger and aggregates for a comment URL
	r.Get("/votes/comment", handler.HandleCommentVotes)
}

// corsMiddleware creates a permissive CORS middleware: the API is public and
// read-only, so any origin may call it
func corsMiddleware() func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300, // 5 minutes
	})
}
