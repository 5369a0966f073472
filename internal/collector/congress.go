package collector

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mbpa/rcv-votes/internal/domain"
	apperrors "github.com/mbpa/rcv-votes/internal/errors"
	"github.com/mbpa/rcv-votes/internal/logging"
)

// Options configures the Congress.gov vote source
type Options struct {
	BaseURL     string
	APIKey      string
	PageSize    int
	MaxRetries  int
	MinInterval time.Duration
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	Timeout     time.Duration
}

func (o *Options) withDefaults() {
	if o.PageSize <= 0 {
		o.PageSize = 250
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.MinInterval <= 0 {
		o.MinInterval = 100 * time.Millisecond
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = time.Second
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 30 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
}

// congressSource implements VoteSource against the Congress.gov v3 API
type congressSource struct {
	http       *resty.Client
	limiter    RateLimiter
	pageSize   int
	maxRetries int
	log        *zap.Logger
}

// NewCongressSource creates a new Congress.gov vote source
func NewCongressSource(opts Options, log *zap.Logger) VoteSource {
	opts.withDefaults()

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("X-Api-Key", opts.APIKey).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "rcv-votes/1.0")

	return &congressSource{
		http:       client,
		limiter:    NewRateLimiter(opts.MinInterval, opts.BaseBackoff, opts.MaxBackoff),
		pageSize:   opts.PageSize,
		maxRetries: opts.MaxRetries,
		log:        log,
	}
}

type memberJSON struct {
	BioguideID string `json:"bioguideId"`
	Name       string `json:"name"` // "Thompson, Mike"
	State      string `json:"state"`
	Terms      []struct {
		StartYear int `json:"startYear"`
		EndYear   int `json:"endYear"`
	} `json:"terms"`
}

type memberSearchResponse struct {
	Members []memberJSON `json:"members"`
}

// surname returns the last-name portion of the API's "Last, First" format.
func (m memberJSON) surname() string {
	name := m.Name
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

func (m memberJSON) latestTermStart() int {
	latest := 0
	for _, t := range m.Terms {
		if t.StartYear > latest {
			latest = t.StartYear
		}
	}
	return latest
}

// ResolveMember searches the member directory by last name and state. When
// several members match, the exact case-insensitive last-name match wins,
// then the most recently serving member, then the lowest bioguide ID, so the
// result is reproducible.
func (s *congressSource) ResolveMember(ctx context.Context, lastName, state string) (domain.MemberIdentity, error) {
	log := logging.For(ctx, s.log)

	var payload memberSearchResponse
	err := s.getWithRetry(ctx, "/member", map[string]string{
		"lastName": lastName,
		"state":    state,
		"limit":    "250",
		"format":   "json",
	}, &payload)
	if err != nil {
		return domain.MemberIdentity{}, apperrors.NewSourceUnavailableError("member search failed", err)
	}

	var candidates []memberJSON
	for _, m := range payload.Members {
		if !strings.EqualFold(m.State, state) {
			continue
		}
		surname := m.surname()
		if strings.EqualFold(surname, lastName) ||
			strings.Contains(strings.ToLower(surname), strings.ToLower(lastName)) {
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		return domain.MemberIdentity{}, apperrors.NewMemberNotFoundError(lastName, state)
	}

	sort.Slice(candidates, func(i, j int) bool {
		exactI := strings.EqualFold(candidates[i].surname(), lastName)
		exactJ := strings.EqualFold(candidates[j].surname(), lastName)
		if exactI != exactJ {
			return exactI
		}
		si, sj := candidates[i].latestTermStart(), candidates[j].latestTermStart()
		if si != sj {
			return si > sj
		}
		return candidates[i].BioguideID < candidates[j].BioguideID
	})

	chosen := candidates[0]
	if len(candidates) > 1 {
		log.Info("multiple members matched, using deterministic tie-break",
			zap.Int("candidates", len(candidates)),
			zap.String("chosen", chosen.BioguideID))
	}

	return domain.MemberIdentity{
		ID:          chosen.BioguideID,
		DisplayName: chosen.Name,
		State:       strings.ToUpper(chosen.State),
	}, nil
}

type voteJSON struct {
	Congress          int    `json:"congress"`
	RollCallNumber    int    `json:"rollCallNumber"`
	Date              string `json:"date"`
	LegislationType   string `json:"legislationType"`
	LegislationNumber string `json:"legislationNumber"`
	Question          string `json:"question"`
	VoteCast          string `json:"voteCast"`
	BioguideID        string `json:"bioguideId"`
}

type votesResponse struct {
	Votes      []voteJSON `json:"memberVotes"`
	Pagination struct {
		Count int    `json:"count"`
		Next  string `json:"next"`
	} `json:"pagination"`
}

// FetchVotes retrieves all roll call votes cast by the member in a congress,
// following pagination until the source reports no further page.
func (s *congressSource) FetchVotes(ctx context.Context, memberID string, congress int) ([]domain.RawVoteRecord, error) {
	log := logging.For(ctx, s.log)
	path := fmt.Sprintf("/member/%s/votes", memberID)

	var records []domain.RawVoteRecord
	offset := 0
	for {
		var payload votesResponse
		err := s.getWithRetry(ctx, path, map[string]string{
			"congress": strconv.Itoa(congress),
			"offset":   strconv.Itoa(offset),
			"limit":    strconv.Itoa(s.pageSize),
			"format":   "json",
		}, &payload)
		if err != nil {
			return nil, apperrors.NewSourceUnavailableError(
				fmt.Sprintf("vote source unavailable for congress %d", congress), err)
		}

		for _, v := range payload.Votes {
			// The endpoint is scoped to one member, but filter defensively on
			// the bioguide ID when the source includes one.
			if v.BioguideID != "" && v.BioguideID != memberID {
				continue
			}

			record, err := parseVote(v)
			if err != nil {
				log.Warn("skipping malformed vote record",
					zap.Int("congress", congress),
					zap.Int("roll_call", v.RollCallNumber),
					zap.Error(err))
				continue
			}
			records = append(records, record)
		}

		if payload.Pagination.Next == "" {
			break
		}
		offset += s.pageSize
	}

	log.Debug("fetched votes",
		zap.String("member_id", memberID),
		zap.Int("congress", congress),
		zap.Int("count", len(records)))

	return records, nil
}

func parseVote(v voteJSON) (domain.RawVoteRecord, error) {
	if v.RollCallNumber < 1 {
		return domain.RawVoteRecord{}, fmt.Errorf("missing roll call number")
	}
	if v.VoteCast == "" {
		return domain.RawVoteRecord{}, fmt.Errorf("missing vote cast")
	}

	date, err := parseVoteDate(v.Date)
	if err != nil {
		return domain.RawVoteRecord{}, fmt.Errorf("invalid date %q: %w", v.Date, err)
	}

	return domain.RawVoteRecord{
		Congress:          v.Congress,
		RollCall:          v.RollCallNumber,
		Date:              date,
		LegislationType:   v.LegislationType,
		LegislationNumber: v.LegislationNumber,
		Question:          v.Question,
		Cast:              domain.ParseVoteCast(v.VoteCast),
	}, nil
}

// parseVoteDate accepts both the timestamped and date-only formats the API
// has been observed to return.
func parseVoteDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// getWithRetry performs a GET with rate limiting and exponential backoff on
// 429, 5xx and transport errors. Other non-success statuses fail immediately.
func (s *congressSource) getWithRetry(ctx context.Context, path string, params map[string]string, out interface{}) error {
	log := logging.For(ctx, s.log)

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := s.limiter.BackoffDelay(attempt - 1)
			log.Warn("retrying request",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := s.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(out).
			Get(path)
		if err != nil {
			lastErr = err
			continue
		}

		code := resp.StatusCode()
		switch {
		case code == http.StatusOK:
			return nil
		case code == http.StatusTooManyRequests || code >= 500:
			lastErr = fmt.Errorf("status %d from %s", code, path)
		default:
			return fmt.Errorf("status %d from %s", code, path)
		}
	}
	return lastErr
}
