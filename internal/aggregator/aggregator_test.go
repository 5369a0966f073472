package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mbpa/rcv-votes/internal/collector"
	"github.com/mbpa/rcv-votes/internal/domain"
	apperrors "github.com/mbpa/rcv-votes/internal/errors"
	"github.com/mbpa/rcv-votes/internal/enricher"
)

type fakeSource struct {
	identity domain.MemberIdentity
	votes    map[int][]domain.RawVoteRecord
	failing  map[int]bool
}

func (f *fakeSource) ResolveMember(ctx context.Context, lastName, state string) (domain.MemberIdentity, error) {
	return f.identity, nil
}

func (f *fakeSource) FetchVotes(ctx context.Context, memberID string, congress int) ([]domain.RawVoteRecord, error) {
	if f.failing[congress] {
		return nil, apperrors.NewSourceUnavailableError(
			fmt.Sprintf("vote source unavailable for congress %d", congress), nil)
	}
	return f.votes[congress], nil
}

type fakeEnricher struct {
	results map[string]domain.EnrichmentResult
}

func (f *fakeEnricher) Enrich(ctx context.Context, congress, rollCall int) domain.EnrichmentResult {
	key := fmt.Sprintf("%d/%d", congress, rollCall)
	if result, ok := f.results[key]; ok {
		return result
	}
	return domain.EnrichmentResult{SourceURL: fmt.Sprintf("https://example.com/%s", key)}
}

func day(d int) time.Time {
	return time.Date(2023, time.January, d, 0, 0, 0, 0, time.UTC)
}

func rawVote(congress, rollCall, d int) domain.RawVoteRecord {
	return domain.RawVoteRecord{
		Congress: congress,
		RollCall: rollCall,
		Date:     day(d),
		Question: "On Passage",
		Cast:     domain.VoteYea,
	}
}

func mustQuery(t *testing.T, congresses ...int) domain.MemberQuery {
	t.Helper()
	query, err := domain.NewMemberQuery("Thompson", "CA", congresses)
	require.NoError(t, err)
	return query
}

func TestCollectCompleteness(t *testing.T) {
	source := &fakeSource{
		identity: domain.MemberIdentity{ID: "T000002", DisplayName: "Thompson, Mike", State: "CA"},
		votes: map[int][]domain.RawVoteRecord{
			118: {rawVote(118, 1, 3), rawVote(118, 2, 4), rawVote(118, 3, 5)},
		},
	}
	// Enricher returns nothing useful for any vote.
	agg := New(source, &fakeEnricher{}, zap.NewNop())

	records, err := agg.Collect(context.Background(), mustQuery(t, 118))
	require.NoError(t, err)

	// Every raw vote appears exactly once even though enrichment found nothing.
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Empty(t, r.BillTitle)
		assert.NotEmpty(t, r.URL)
		assert.Equal(t, "On Passage", r.Question) // API question survives
	}
}

func TestCollectOrdering(t *testing.T) {
	source := &fakeSource{
		votes: map[int][]domain.RawVoteRecord{
			// Intentionally out of order within and across congresses.
			119: {rawVote(119, 7, 9), rawVote(119, 2, 9), rawVote(119, 1, 20)},
			118: {rawVote(118, 5, 10), rawVote(118, 9, 2)},
		},
	}
	agg := New(source, &fakeEnricher{}, zap.NewNop())

	// Congresses requested newest-first; output must still be ascending.
	records, err := agg.Collect(context.Background(), mustQuery(t, 119, 118))
	require.NoError(t, err)
	require.Len(t, records, 5)

	type key struct {
		congress, rollCall int
	}
	var got []key
	for _, r := range records {
		got = append(got, key{r.Congress, r.RollCall})
	}
	assert.Equal(t, []key{
		{118, 9}, {118, 5}, // congress 118 sorted by date
		{119, 2}, {119, 7}, // same date, sorted by roll call
		{119, 1}, // latest date
	}, got)
}

func TestCollectDeterminism(t *testing.T) {
	source := &fakeSource{
		votes: map[int][]domain.RawVoteRecord{
			118: {rawVote(118, 3, 5), rawVote(118, 1, 5), rawVote(118, 2, 4)},
		},
	}
	agg := New(source, &fakeEnricher{}, zap.NewNop())

	first, err := agg.Collect(context.Background(), mustQuery(t, 118))
	require.NoError(t, err)
	second, err := agg.Collect(context.Background(), mustQuery(t, 118))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCollectNonLegislativeSentinel(t *testing.T) {
	vote := rawVote(118, 1, 3)
	vote.LegislationType = ""
	vote.LegislationNumber = ""
	source := &fakeSource{votes: map[int][]domain.RawVoteRecord{118: {vote}}}
	agg := New(source, &fakeEnricher{}, zap.NewNop())

	records, err := agg.Collect(context.Background(), mustQuery(t, 118))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.NonLegislative, records[0].Legislation)
}

func TestCollectEnrichedQuestionWins(t *testing.T) {
	source := &fakeSource{votes: map[int][]domain.RawVoteRecord{118: {rawVote(118, 1, 3)}}}
	enr := &fakeEnricher{results: map[string]domain.EnrichmentResult{
		"118/1": {
			Question:  "On Motion to Suspend the Rules and Pass, as Amended",
			BillTitle: "Mail Traffic Deaths Reporting Act",
			SourceURL: "https://clerk.house.gov/Votes/2023001",
		},
	}}
	agg := New(source, enr, zap.NewNop())

	records, err := agg.Collect(context.Background(), mustQuery(t, 118))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "On Motion to Suspend the Rules and Pass, as Amended", records[0].Question)
	assert.Equal(t, "Mail Traffic Deaths Reporting Act", records[0].BillTitle)
	assert.Equal(t, "https://clerk.house.gov/Votes/2023001", records[0].URL)
}

func TestCollectSkipsFailedCongress(t *testing.T) {
	source := &fakeSource{
		votes:   map[int][]domain.RawVoteRecord{118: {rawVote(118, 1, 3)}},
		failing: map[int]bool{117: true},
	}
	agg := New(source, &fakeEnricher{}, zap.NewNop())

	records, err := agg.Collect(context.Background(), mustQuery(t, 117, 118))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 118, records[0].Congress)
}

func TestCollectAllCongressesFailed(t *testing.T) {
	source := &fakeSource{failing: map[int]bool{117: true, 118: true}}
	agg := New(source, &fakeEnricher{}, zap.NewNop())

	_, err := agg.Collect(context.Background(), mustQuery(t, 117, 118))
	require.Error(t, err)
	assert.True(t, apperrors.IsSourceUnavailable(err))
}

func TestCollectNoVotesFound(t *testing.T) {
	source := &fakeSource{}
	agg := New(source, &fakeEnricher{}, zap.NewNop())

	_, err := agg.Collect(context.Background(), mustQuery(t, 118))
	require.Error(t, err)
	assert.True(t, apperrors.IsNoVotesFound(err))
}

// TestCollectEndToEnd exercises the real collector and enricher against mock
// servers: two votes, one legislative with a scrapeable bill title, one
// non-legislative whose page yields nothing.
func TestCollectEndToEnd(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/member":
			_, _ = w.Write([]byte(`{
				"members": [
					{"bioguideId": "T000002", "name": "Thompson, Mike", "state": "CA",
					 "terms": [{"startYear": 2023, "endYear": 2025}]}
				]
			}`))
		case "/member/T000002/votes":
			_, _ = w.Write([]byte(`{
				"memberVotes": [
					{"congress": 118, "rollCallNumber": 55, "date": "2023-02-06",
					 "legislationType": "HR", "legislationNumber": "758",
					 "question": "On Motion to Suspend the Rules and Pass",
					 "voteCast": "Yea"},
					{"congress": 118, "rollCallNumber": 56, "date": "2023-02-07",
					 "question": "Motion to Adjourn", "voteCast": "Nay"}
				],
				"pagination": {"count": 2, "next": ""}
			}`))
		default:
			t.Errorf("unexpected API path %q", r.URL.Path)
		}
	}))
	defer apiServer.Close()

	htmlServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/Votes/2023055":
			_, _ = w.Write([]byte(`<html><body>
				<dl><dt>BILL TITLE</dt><dd>Mail Traffic Deaths Reporting Act</dd></dl>
			</body></html>`))
		case "/Votes/2023056":
			_, _ = w.Write([]byte(`<html><body><p>nothing useful here</p></body></html>`))
		default:
			t.Errorf("unexpected HTML path %q", r.URL.Path)
		}
	}))
	defer htmlServer.Close()

	source := collector.NewCongressSource(collector.Options{
		BaseURL:     apiServer.URL,
		APIKey:      "test-key",
		MinInterval: time.Millisecond,
		BaseBackoff: time.Millisecond,
	}, zap.NewNop())
	enr := enricher.New(htmlServer.URL, 5*time.Second, zap.NewNop())
	agg := New(source, enr, zap.NewNop())

	records, err := agg.Collect(context.Background(), mustQuery(t, 118))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "HR758", records[0].Legislation)
	assert.Equal(t, "Mail Traffic Deaths Reporting Act", records[0].BillTitle)
	assert.Equal(t, domain.VoteYea, records[0].Cast)
	assert.Equal(t, htmlServer.URL+"/Votes/2023055", records[0].URL)

	assert.Equal(t, domain.NonLegislative, records[1].Legislation)
	assert.Empty(t, records[1].BillTitle)
	assert.Equal(t, "Motion to Adjourn", records[1].Question)
	assert.Equal(t, htmlServer.URL+"/Votes/2023056", records[1].URL)
}
