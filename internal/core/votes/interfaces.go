package votes

import "context"

// Service defines the business logic interface for vote retrieval
type Service interface {
	// GetVotes resolves a federated URL to its local object and returns the
	// object's aggregate counts together with the full filtered/sorted vote
	// ledger. Pagination is applied by the caller (the transport layer), so
	// non-paginated consumers can reuse the same operation.
	//
	// Returns ErrObjectNotFound when the URL has no local row; a
	// *DataSourceError when any backing read fails. Neither is retried here.
	GetVotes(ctx context.Context, req GetVotesRequest) (*GetVotesResponse, error)
}

// GetVotesRequest identifies the object and the ledger view to retrieve
type GetVotesRequest struct {
	URL    string     // ActivityPub URL of the post or comment
	Kind   ObjectKind // Post or Comment
	Filter VoteFilter
	Sort   SortOption
	Author string // optional voter-name constraint; empty means none
}

// GetVotesResponse carries the aggregate counts and the complete ledger
type GetVotesResponse struct {
	Aggregate Aggregate
	Votes     []Vote
}

// Repository defines read-only access to the Lemmy schema.
// Query text comes from QueryShape so the repository stays free of any
// filter/sort policy.
type Repository interface {
	// ResolveLocalID maps an ActivityPub URL to the object's local id.
	// Returns ErrObjectNotFound when no row matches.
	ResolveLocalID(ctx context.Context, url string, kind ObjectKind) (int64, error)

	// GetAggregate fetches the precomputed count row for a local id.
	// Implementations use a connection distinct from the one serving ledger
	// reads so the two can run concurrently.
	GetAggregate(ctx context.Context, query string, localID int64) (Aggregate, error)

	// ListVotes fetches the ledger rows for a local id. The author name is
	// bound as a second parameter when non-empty.
	ListVotes(ctx context.Context, query string, localID int64, author string) ([]VoteRow, error)
}
