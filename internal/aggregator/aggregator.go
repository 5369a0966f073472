package aggregator

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/mbpa/rcv-votes/internal/collector"
	"github.com/mbpa/rcv-votes/internal/domain"
	apperrors "github.com/mbpa/rcv-votes/internal/errors"
	"github.com/mbpa/rcv-votes/internal/enricher"
	"github.com/mbpa/rcv-votes/internal/logging"
)

// Aggregator defines the interface for collecting complete vote records
type Aggregator interface {
	// Collect resolves the member once, fetches and enriches every vote for
	// each requested congress, and returns the merged records ordered by
	// (congress, date, roll call number) ascending. Every vote returned by
	// the source appears exactly once in the result; enrichment failures
	// degrade fields to empty strings and never drop a record.
	Collect(ctx context.Context, query domain.MemberQuery) ([]domain.VoteRecord, error)
}

// aggregator implements the Aggregator interface
type aggregator struct {
	source   collector.VoteSource
	enricher enricher.Enricher
	log      *zap.Logger
}

// New creates a new aggregator
func New(source collector.VoteSource, enr enricher.Enricher, log *zap.Logger) Aggregator {
	return &aggregator{
		source:   source,
		enricher: enr,
		log:      log,
	}
}

func (a *aggregator) Collect(ctx context.Context, query domain.MemberQuery) ([]domain.VoteRecord, error) {
	log := logging.For(ctx, a.log)

	identity, err := a.source.ResolveMember(ctx, query.LastName, query.State)
	if err != nil {
		return nil, err
	}
	log.Info("resolved member",
		zap.String("member_id", identity.ID),
		zap.String("display_name", identity.DisplayName),
		zap.String("state", identity.State))

	var records []domain.VoteRecord
	var sourceErrs []error

	for _, congress := range query.Congresses {
		raws, err := a.source.FetchVotes(ctx, identity.ID, congress)
		if err != nil {
			// One unreachable congress must not sink the rest of the run.
			log.Warn("skipping congress after source failure",
				zap.Int("congress", congress),
				zap.Error(err))
			sourceErrs = append(sourceErrs, err)
			continue
		}

		for _, raw := range raws {
			enr := a.enricher.Enrich(ctx, raw.Congress, raw.RollCall)
			records = append(records, merge(raw, enr))
		}
		log.Info("collected congress votes",
			zap.Int("congress", congress),
			zap.Int("count", len(raws)))
	}

	if len(records) == 0 {
		if len(sourceErrs) > 0 {
			return nil, sourceErrs[0]
		}
		return nil, apperrors.NewNoVotesFoundError(query.LastName, query.Congresses)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Congress != records[j].Congress {
			return records[i].Congress < records[j].Congress
		}
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].RollCall < records[j].RollCall
	})

	return records, nil
}

// merge combines the API record with the scraped details. The scraped full
// question wins over the API's short question when present; the scraped bill
// title is the only source for that field.
func merge(raw domain.RawVoteRecord, enr domain.EnrichmentResult) domain.VoteRecord {
	question := enr.Question
	if question == "" {
		question = raw.Question
	}
	return domain.VoteRecord{
		Congress:    raw.Congress,
		Date:        raw.Date,
		RollCall:    raw.RollCall,
		Legislation: raw.Legislation(),
		Cast:        raw.Cast,
		Question:    question,
		BillTitle:   enr.BillTitle,
		URL:         enr.SourceURL,
	}
}
