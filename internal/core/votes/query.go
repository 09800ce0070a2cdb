package votes

import (
	"github.com/Masterminds/squirrel"
)

// QueryShape fully describes a ledger/aggregate query pair: which table
// family, which direction filter, which ordering, and whether an author
// constraint is bound. It is plain comparable data so it doubles as the
// discriminator in the ledger cache key - two requests share a ledger slot
// exactly when they produce identical ledger SQL. AggregateSQL depends only
// on Kind, so the aggregate cache keys on that alone.
type QueryShape struct {
	Kind     ObjectKind
	Filter   VoteFilter
	Sort     SortOption
	ByAuthor bool
}

// tableFamily returns the like table and its foreign-key column for the kind
func (s QueryShape) tableFamily() (likeTable, fkColumn string) {
	if s.Kind == KindComment {
		return "public.comment_like", "comment_id"
	}
	return "public.post_like", "post_id"
}

// LedgerSQL builds the parameterized query for the object's vote ledger,
// joining like rows to the person table. The object's local id binds as $1;
// when ByAuthor is set the author name binds as $2. Author matching is
// case-insensitive: Lemmy usernames are unique case-insensitively and clients
// paste them with arbitrary case.
//
// Construction is pure and deterministic - identical shapes yield
// byte-identical SQL.
func (s QueryShape) LedgerSQL() (string, error) {
	likeTable, fkColumn := s.tableFamily()

	b := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("pe.name", "l.score", "pe.actor_id", "l.published").
		From(likeTable + " l").
		Join("public.person pe ON l.person_id = pe.id").
		Where("l." + fkColumn + " = ?")

	switch s.Filter {
	case FilterUpvotes:
		b = b.Where("l.score = 1")
	case FilterDownvotes:
		b = b.Where("l.score = -1")
	}

	if s.ByAuthor {
		b = b.Where("LOWER(pe.name) = LOWER(?)")
	}

	if s.Sort == SortCreatedAsc {
		b = b.OrderBy("l.published ASC")
	} else {
		b = b.OrderBy("l.published DESC")
	}

	sql, _, err := b.ToSql()
	return sql, err
}

// AggregateSQL builds the parameterized lookup for the object's precomputed
// score/upvote/downvote row. The object's local id binds as $1.
func (s QueryShape) AggregateSQL() (string, error) {
	aggTable, fkColumn := "public.post_aggregates", "post_id"
	if s.Kind == KindComment {
		aggTable, fkColumn = "public.comment_aggregates", "comment_id"
	}

	sql, _, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("score", "upvotes", "downvotes").
		From(aggTable).
		Where(fkColumn + " = ?").
		ToSql()
	return sql, err
}
