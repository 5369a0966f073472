package enricher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mbpa/rcv-votes/internal/domain"
	"github.com/mbpa/rcv-votes/internal/logging"
)

// Enricher defines the interface for best-effort roll call detail scraping
type Enricher interface {
	// Enrich fetches the roll call vote page and extracts the bill title and
	// full question text. It never fails: on any fetch or parse problem the
	// optional fields are left empty and SourceURL is still populated.
	Enrich(ctx context.Context, congress, rollCall int) domain.EnrichmentResult
}

// clerkEnricher scrapes vote pages from clerk.house.gov
type clerkEnricher struct {
	http    *resty.Client
	baseURL string
	log     *zap.Logger
}

// New creates a new clerk.house.gov enricher
func New(baseURL string, timeout time.Duration, log *zap.Logger) Enricher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetHeader("User-Agent", "rcv-votes/1.0")

	return &clerkEnricher{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// firstSessionYear returns the calendar year in which a congress convened.
// The 1st Congress convened in 1789 and each congress spans two years.
func firstSessionYear(congress int) int {
	return 1789 + 2*(congress-1)
}

// votePath returns the request path for a roll call vote page,
// e.g. /Votes/2023055.
func votePath(congress, rollCall int) string {
	return fmt.Sprintf("/Votes/%d%03d", firstSessionYear(congress), rollCall)
}

// VoteURL returns the public roll call vote page URL. It depends only on the
// congress and roll call number, so it is valid even when scraping fails.
func VoteURL(baseURL string, congress, rollCall int) string {
	return strings.TrimRight(baseURL, "/") + votePath(congress, rollCall)
}

func (e *clerkEnricher) Enrich(ctx context.Context, congress, rollCall int) domain.EnrichmentResult {
	log := logging.For(ctx, e.log)
	result := domain.EnrichmentResult{
		SourceURL: VoteURL(e.baseURL, congress, rollCall),
	}

	resp, err := e.http.R().SetContext(ctx).Get(votePath(congress, rollCall))
	if err != nil {
		log.Warn("failed to fetch vote page", zap.String("url", result.SourceURL), zap.Error(err))
		return result
	}
	if !resp.IsSuccess() {
		log.Warn("vote page returned non-success status",
			zap.String("url", result.SourceURL),
			zap.Int("status", resp.StatusCode()))
		return result
	}

	raw := string(resp.Body())
	p := page{raw: raw}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		p.doc = doc
	}

	result.Question = extract(questionStrategies, p)
	result.BillTitle = extract(billTitleStrategies, p)

	log.Debug("enriched roll call",
		zap.String("url", result.SourceURL),
		zap.Bool("has_question", result.Question != ""),
		zap.Bool("has_bill_title", result.BillTitle != ""))

	return result
}
