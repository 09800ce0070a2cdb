package postgres

import (
	"LemmyVotes/internal/core/votes"
	"context"
	"database/sql"
)

type lemmyVoteRepo struct {
	db *sql.DB
}

// NewVoteRepository creates a read-only repository over a Lemmy PostgreSQL
// schema. The schema belongs to the Lemmy instance; this repository never
// writes to it.
func NewVoteRepository(db *sql.DB) votes.Repository {
	return &lemmyVoteRepo{db: db}
}

// ResolveLocalID maps an ActivityPub URL to the local post/comment id
func (r *lemmyVoteRepo) ResolveLocalID(ctx context.Context, url string, kind votes.ObjectKind) (int64, error) {
	query := `SELECT id FROM public.post WHERE ap_id = $1`
	if kind == votes.KindComment {
		query = `SELECT id FROM public.comment WHERE ap_id = $1`
	}

	var localID int64
	err := r.db.QueryRowContext(ctx, query, url).Scan(&localID)
	if err == sql.ErrNoRows {
		return 0, votes.ErrObjectNotFound
	}
	if err != nil {
		return 0, &votes.DataSourceError{Op: "resolve local id", Err: err}
	}

	return localID, nil
}

// GetAggregate fetches the precomputed count row for an object.
// The read checks a dedicated connection out of the pool so it never contends
// with an in-flight ledger query during concurrent fan-out; the connection is
// returned on every exit path, including caller cancellation.
func (r *lemmyVoteRepo) GetAggregate(ctx context.Context, query string, localID int64) (votes.Aggregate, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return votes.Aggregate{}, &votes.DataSourceError{Op: "acquire aggregate connection", Err: err}
	}
	defer func() { _ = conn.Close() }()

	var agg votes.Aggregate
	err = conn.QueryRowContext(ctx, query, localID).Scan(&agg.TotalScore, &agg.Upvotes, &agg.Downvotes)
	if err != nil {
		// A resolved object always has an aggregates row; a missing one means
		// the schema is inconsistent, which is a data-source failure rather
		// than not-found.
		return votes.Aggregate{}, &votes.DataSourceError{Op: "get aggregate", Err: err}
	}

	return agg, nil
}

// ListVotes fetches the ledger rows for an object. The local id binds as the
// sole parameter unless an author name is present, which binds second.
func (r *lemmyVoteRepo) ListVotes(ctx context.Context, query string, localID int64, author string) ([]votes.VoteRow, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if author == "" {
		rows, err = r.db.QueryContext(ctx, query, localID)
	} else {
		rows, err = r.db.QueryContext(ctx, query, localID, author)
	}
	if err != nil {
		return nil, &votes.DataSourceError{Op: "list votes", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var result []votes.VoteRow
	for rows.Next() {
		var row votes.VoteRow
		if err := rows.Scan(&row.Name, &row.Score, &row.ActorID, &row.Published); err != nil {
			return nil, &votes.DataSourceError{Op: "scan vote row", Err: err}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, &votes.DataSourceError{Op: "iterate vote rows", Err: err}
	}

	return result, nil
}
