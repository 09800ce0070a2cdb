package vote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LemmyVotes/internal/core/lemmy"
	"LemmyVotes/internal/core/votes"
)

type stubService struct {
	gotReq votes.GetVotesRequest
	resp   *votes.GetVotesResponse
	err    error
}

func (s *stubService) GetVotes(ctx context.Context, req votes.GetVotesRequest) (*votes.GetVotesResponse, error) {
	s.gotReq = req
	return s.resp, s.err
}

type stubAllowlist struct {
	allowed bool
	err     error
}

func (s *stubAllowlist) IsAllowedURL(ctx context.Context, rawURL string) (bool, error) {
	return s.allowed, s.err
}

type stubResolver struct {
	err error
}

func (s *stubResolver) ResolveObject(ctx context.Context, objectURL string) error {
	return s.err
}

func fourVotes() *votes.GetVotesResponse {
	return &votes.GetVotesResponse{
		Aggregate: votes.Aggregate{TotalScore: 2, Upvotes: 3, Downvotes: 1},
		Votes: []votes.Vote{
			{Name: "dana", Score: 1, ActorID: "https://lemmy.world/u/dana", CreatedUTC: 1717250400},
			{Name: "carol", Score: -1, ActorID: "https://lemmy.ml/u/carol", CreatedUTC: 1717246800},
			{Name: "bob", Score: 1, ActorID: "https://lemmy.world/u/bob", CreatedUTC: 1717243200},
			{Name: "alice", Score: 1, ActorID: "https://lemmy.world/u/alice", CreatedUTC: 1717239600},
		},
	}
}

func newTestHandler(service *stubService) *GetVotesHandler {
	return NewGetVotesHandler(service, &stubAllowlist{allowed: true}, &stubResolver{})
}

func doRequest(t *testing.T, h *GetVotesHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.HandlePostVotes(rec, req)
	return rec
}

func TestHandleGetVotesSuccess(t *testing.T) {
	service := &stubService{resp: fourVotes()}
	h := newTestHandler(service)

	rec := doRequest(t, h, "/votes/post?url=https://lemmy.world/post/123&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body votesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Votes, 2)
	assert.Equal(t, "dana", body.Votes[0].Name)
	assert.Equal(t, 4, body.TotalCount)
	require.NotNil(t, body.NextOffset)
	assert.Equal(t, 2, *body.NextOffset)
	assert.Equal(t, 2, body.TotalScore)
	assert.Equal(t, 3, body.Upvotes)
	assert.Equal(t, 1, body.Downvotes)

	// Defaults flow through to the service request
	assert.Equal(t, votes.KindPost, service.gotReq.Kind)
	assert.Equal(t, votes.FilterAll, service.gotReq.Filter)
	assert.Equal(t, votes.SortCreatedDesc, service.gotReq.Sort)
	assert.Empty(t, service.gotReq.Author)
}

func TestHandleGetVotesOffsetAtEnd(t *testing.T) {
	h := newTestHandler(&stubService{resp: fourVotes()})

	rec := doRequest(t, h, "/votes/post?url=https://lemmy.world/post/123&offset=4")
	require.Equal(t, http.StatusOK, rec.Code)

	var body votesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Votes)
	assert.Equal(t, 4, body.TotalCount)
	assert.Nil(t, body.NextOffset)
}

func TestHandleGetVotesParameterPassthrough(t *testing.T) {
	service := &stubService{resp: &votes.GetVotesResponse{}}
	h := newTestHandler(service)

	rec := doRequest(t, h, "/votes/post?url=https://lemmy.world/post/123&votes_filter=Downvotes&sort_by=datetime_asc&username=Alice")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, votes.FilterDownvotes, service.gotReq.Filter)
	assert.Equal(t, votes.SortCreatedAsc, service.gotReq.Sort)
	assert.Equal(t, "Alice", service.gotReq.Author)
}

func TestHandleGetVotesValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing url", "/votes/post"},
		{"negative offset", "/votes/post?url=https://lemmy.world/post/1&offset=-1"},
		{"offset not a number", "/votes/post?url=https://lemmy.world/post/1&offset=two"},
		{"zero limit", "/votes/post?url=https://lemmy.world/post/1&limit=0"},
		{"limit above max", "/votes/post?url=https://lemmy.world/post/1&limit=251"},
		{"unknown filter", "/votes/post?url=https://lemmy.world/post/1&votes_filter=Sideways"},
		{"unknown sort", "/votes/post?url=https://lemmy.world/post/1&sort_by=hot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubService{resp: fourVotes()}
			rec := doRequest(t, newTestHandler(service), tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			// Boundary validation rejects before the pipeline runs
			assert.Empty(t, service.gotReq.URL)
		})
	}
}

func TestHandleGetVotesDisallowedInstance(t *testing.T) {
	service := &stubService{resp: fourVotes()}
	h := NewGetVotesHandler(service, &stubAllowlist{allowed: false}, &stubResolver{})

	rec := doRequest(t, h, "/votes/post?url=https://notlemmy.example/post/1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, service.gotReq.URL)
}

func TestHandleGetVotesUpstreamRejection(t *testing.T) {
	service := &stubService{resp: fourVotes()}
	resolver := &stubResolver{err: &lemmy.ResolveError{StatusCode: http.StatusNotFound, Detail: "couldnt_find_object"}}
	h := NewGetVotesHandler(service, &stubAllowlist{allowed: true}, resolver)

	rec := doRequest(t, h, "/votes/post?url=https://lemmy.world/post/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Activity Pub")
	assert.Empty(t, service.gotReq.URL)
}

func TestHandleGetVotesServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"object not found", votes.ErrObjectNotFound, http.StatusNotFound},
		{"data source failure", &votes.DataSourceError{Op: "list votes", Err: context.DeadlineExceeded}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubService{err: tt.err})
			rec := doRequest(t, h, "/votes/post?url=https://lemmy.world/post/123")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleCommentVotesKind(t *testing.T) {
	service := &stubService{resp: &votes.GetVotesResponse{}}
	h := newTestHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/votes/comment?url=https://lemmy.world/comment/55", nil)
	rec := httptest.NewRecorder()
	h.HandleCommentVotes(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, votes.KindComment, service.gotReq.Kind)
}
