package enricher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEnricher(baseURL string) Enricher {
	return New(baseURL, 5*time.Second, zap.NewNop())
}

func serveHTML(t *testing.T, expectedPath, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, expectedPath, r.URL.Path)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
}

func TestVoteURL(t *testing.T) {
	// The 118th Congress convened in 2023.
	assert.Equal(t, "https://clerk.house.gov/Votes/2023055",
		VoteURL("https://clerk.house.gov", 118, 55))
	assert.Equal(t, "https://clerk.house.gov/Votes/20231024",
		VoteURL("https://clerk.house.gov/", 118, 1024))
	assert.Equal(t, "https://clerk.house.gov/Votes/2025001",
		VoteURL("https://clerk.house.gov", 119, 1))
}

func TestEnrichStructuredMarkup(t *testing.T) {
	server := serveHTML(t, "/Votes/2023055", `
		<html><body>
		<dl>
			<dt>QUESTION</dt><dd>On Motion to Suspend the Rules and Pass</dd>
			<dt>BILL TITLE</dt><dd>Mail Traffic Deaths Reporting Act</dd>
		</dl>
		</body></html>`)
	defer server.Close()

	result := newTestEnricher(server.URL).Enrich(context.Background(), 118, 55)
	assert.Equal(t, "On Motion to Suspend the Rules and Pass", result.Question)
	assert.Equal(t, "Mail Traffic Deaths Reporting Act", result.BillTitle)
	assert.Equal(t, server.URL+"/Votes/2023055", result.SourceURL)
}

func TestEnrichFallbackPattern(t *testing.T) {
	// No definition list at all, so the secondary text pattern must win.
	server := serveHTML(t, "/Votes/2023055", `
		<html><body>
		<p>QUESTION: On Agreeing to the Resolution</p>
		<p>BILL TITLE: Providing for consideration of H.R. 21</p>
		</body></html>`)
	defer server.Close()

	result := newTestEnricher(server.URL).Enrich(context.Background(), 118, 55)
	assert.Equal(t, "On Agreeing to the Resolution", result.Question)
	assert.Equal(t, "Providing for consideration of H.R. 21", result.BillTitle)
}

func TestEnrichFieldsFallBackIndependently(t *testing.T) {
	// Question available via structured markup, bill title only via pattern.
	server := serveHTML(t, "/Votes/2023055", `
		<html><body>
		<dl><dt>QUESTION</dt><dd>On Passage</dd></dl>
		<p>BILL TITLE: Lower Energy Costs Act</p>
		</body></html>`)
	defer server.Close()

	result := newTestEnricher(server.URL).Enrich(context.Background(), 118, 55)
	assert.Equal(t, "On Passage", result.Question)
	assert.Equal(t, "Lower Energy Costs Act", result.BillTitle)
}

func TestEnrichNormalizesWhitespace(t *testing.T) {
	server := serveHTML(t, "/Votes/2023055", `
		<html><body>
		<dl><dt> QUESTION </dt><dd>  On
			Passage  </dd></dl>
		</body></html>`)
	defer server.Close()

	result := newTestEnricher(server.URL).Enrich(context.Background(), 118, 55)
	assert.Equal(t, "On Passage", result.Question)
}

func TestEnrichEmptyAfterTrimCountsAsAbsent(t *testing.T) {
	server := serveHTML(t, "/Votes/2023055", `
		<html><body>
		<dl><dt>QUESTION</dt><dd>   </dd></dl>
		<p>QUESTION: On the Motion to Adjourn</p>
		</body></html>`)
	defer server.Close()

	result := newTestEnricher(server.URL).Enrich(context.Background(), 118, 55)
	assert.Equal(t, "On the Motion to Adjourn", result.Question)
}

func TestEnrichServerErrorDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	result := newTestEnricher(server.URL).Enrich(context.Background(), 118, 55)
	assert.Empty(t, result.Question)
	assert.Empty(t, result.BillTitle)
	assert.Equal(t, server.URL+"/Votes/2023055", result.SourceURL)
}

func TestEnrichUnreachableHostDegradesToEmpty(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	result := newTestEnricher(server.URL).Enrich(context.Background(), 118, 55)
	assert.Empty(t, result.Question)
	assert.Empty(t, result.BillTitle)
	assert.NotEmpty(t, result.SourceURL)
}
