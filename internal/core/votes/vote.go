package votes

import "time"

// ObjectKind selects which Lemmy table family a query targets
type ObjectKind string

const (
	KindPost    ObjectKind = "Post"
	KindComment ObjectKind = "Comment"
)

// Valid reports whether the kind is one of the known object kinds
func (k ObjectKind) Valid() bool {
	return k == KindPost || k == KindComment
}

// VoteFilter restricts the ledger to a vote direction
type VoteFilter string

const (
	FilterAll       VoteFilter = "All"
	FilterUpvotes   VoteFilter = "Upvotes"
	FilterDownvotes VoteFilter = "Downvotes"
)

// Valid reports whether the filter is one of the known filter options
func (f VoteFilter) Valid() bool {
	return f == FilterAll || f == FilterUpvotes || f == FilterDownvotes
}

// SortOption orders the ledger by vote creation time
type SortOption string

const (
	SortCreatedAsc  SortOption = "datetime_asc"
	SortCreatedDesc SortOption = "datetime_desc"
)

// Valid reports whether the sort option is one of the known orderings
func (s SortOption) Valid() bool {
	return s == SortCreatedAsc || s == SortCreatedDesc
}

// Vote is a single entry of an object's vote ledger as served to clients.
// Votes are read-only views over the Lemmy like tables; this service never
// writes them.
type Vote struct {
	Name       string  `json:"name"`        // voter display name
	Score      int     `json:"score"`       // +1 or -1
	ActorID    string  `json:"actor_id"`    // voter's federation URI
	CreatedUTC float64 `json:"created_utc"` // Unix seconds
}

// VoteRow is one unmapped ledger row as scanned from the data source.
// Cached by the ledger reader; mapped into fresh Vote values per request.
type VoteRow struct {
	Name      string
	Score     int
	ActorID   string
	Published time.Time
}

// Aggregate carries the precomputed vote counts for an object.
// The upstream schema maintains TotalScore == Upvotes - Downvotes; this
// service reads it as-is and never recomputes it.
type Aggregate struct {
	TotalScore int `json:"total_score"`
	Upvotes    int `json:"upvotes"`
	Downvotes  int `json:"downvotes"`
}
