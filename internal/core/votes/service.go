package votes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// identityTTL bounds how long a URL->local-id mapping is trusted.
	// A URL that resolves once keeps its id until expiry; a URL that fails to
	// resolve is never cached, so it can succeed on the next request.
	identityTTL = 180 * time.Second

	// aggregateTTL matches identityTTL; count rows drift slowly.
	aggregateTTL = 180 * time.Second

	// ledgerTTL is shorter because vote lists change more often and are the
	// costliest result to keep accurate.
	ledgerTTL = 60 * time.Second

	cacheCapacity = 256
)

type identityKey struct {
	URL  string
	Kind ObjectKind
}

// aggregateKey deliberately carries only the kind: AggregateSQL depends on
// nothing else, so every filter/sort/author variation for one object shares a
// single aggregate slot.
type aggregateKey struct {
	Kind ObjectKind
	ID   int64
}

type ledgerKey struct {
	Shape  QueryShape
	ID     int64
	Author string
}

// voteService implements Service over a read-only Lemmy repository, memoizing
// each pipeline stage independently. Caches live for the process lifetime and
// start empty; instances never share cache state.
type voteService struct {
	repo   Repository
	logger *slog.Logger

	identityCache  *Cache[identityKey, int64]
	aggregateCache *Cache[aggregateKey, Aggregate]
	ledgerCache    *Cache[ledgerKey, []VoteRow]
}

// NewService creates a vote retrieval service with freshly initialized caches
func NewService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &voteService{
		repo:           repo,
		logger:         logger,
		identityCache:  NewCache[identityKey, int64](cacheCapacity, identityTTL),
		aggregateCache: NewCache[aggregateKey, Aggregate](cacheCapacity, aggregateTTL),
		ledgerCache:    NewCache[ledgerKey, []VoteRow](cacheCapacity, ledgerTTL),
	}
}

// GetVotes runs the resolution-and-retrieval pipeline:
// build query shapes -> resolve local identity -> fetch aggregate and ledger
// concurrently -> map rows into domain votes.
func (s *voteService) GetVotes(ctx context.Context, req GetVotesRequest) (*GetVotesResponse, error) {
	shape := QueryShape{
		Kind:     req.Kind,
		Filter:   req.Filter,
		Sort:     req.Sort,
		ByAuthor: req.Author != "",
	}

	ledgerSQL, err := shape.LedgerSQL()
	if err != nil {
		return nil, fmt.Errorf("building ledger query: %w", err)
	}
	aggregateSQL, err := shape.AggregateSQL()
	if err != nil {
		return nil, fmt.Errorf("building aggregate query: %w", err)
	}

	// Resolve first: a URL that doesn't map to a local object is terminal and
	// must not trigger any aggregate/ledger read.
	localID, err := s.identityCache.GetOrCompute(identityKey{URL: req.URL, Kind: req.Kind}, func() (int64, error) {
		return s.repo.ResolveLocalID(ctx, req.URL, req.Kind)
	})
	if err != nil {
		if IsNotFound(err) {
			s.logger.Debug("object not found",
				"url", req.URL,
				"kind", req.Kind)
			return nil, err
		}
		return nil, fmt.Errorf("resolving local identity: %w", err)
	}

	// Fan out the two independent reads. The group context cancels the
	// partner fetch when either read fails or the caller gives up; no partial
	// result is ever surfaced.
	var (
		aggregate Aggregate
		rows      []VoteRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		aggregate, err = s.aggregateCache.GetOrCompute(aggregateKey{Kind: req.Kind, ID: localID}, func() (Aggregate, error) {
			return s.repo.GetAggregate(gctx, aggregateSQL, localID)
		})
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.ledgerCache.GetOrCompute(ledgerKey{Shape: shape, ID: localID, Author: req.Author}, func() ([]VoteRow, error) {
			return s.repo.ListVotes(gctx, ledgerSQL, localID, req.Author)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Map cached rows into fresh domain values so callers never alias cache
	// state.
	allVotes := make([]Vote, len(rows))
	for i, row := range rows {
		allVotes[i] = Vote{
			Name:       row.Name,
			Score:      row.Score,
			ActorID:    row.ActorID,
			CreatedUTC: unixSeconds(row.Published),
		}
	}

	s.logger.Debug("votes retrieved",
		"url", req.URL,
		"kind", req.Kind,
		"filter", req.Filter,
		"count", len(allVotes))

	return &GetVotesResponse{
		Aggregate: aggregate,
		Votes:     allVotes,
	}, nil
}

// unixSeconds converts a creation instant to fractional Unix seconds
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}
