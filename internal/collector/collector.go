package collector

import (
	"context"

	"github.com/mbpa/rcv-votes/internal/domain"
)

// VoteSource defines the interface for the structured roll call vote source
type VoteSource interface {
	// ResolveMember maps a last name and state to a stable member identity.
	// Returns a MEMBER_NOT_FOUND error when no member matches.
	ResolveMember(ctx context.Context, lastName, state string) (domain.MemberIdentity, error)

	// FetchVotes retrieves every roll call vote cast by the member in the
	// given congress. Pagination is transparent to the caller; repeated calls
	// with the same arguments reproduce the same sequence barring upstream
	// data changes. Returns a SOURCE_UNAVAILABLE error after retry exhaustion.
	FetchVotes(ctx context.Context, memberID string, congress int) ([]domain.RawVoteRecord, error)
}
