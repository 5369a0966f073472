package domain

import (
	"fmt"
	"strings"
	"time"
)

// VoteCast represents a member's recorded position on a roll call.
type VoteCast string

const (
	VoteYea       VoteCast = "Yea"
	VoteNay       VoteCast = "Nay"
	VotePresent   VoteCast = "Present"
	VoteNotVoting VoteCast = "Not Voting"
	VoteOther     VoteCast = "Other"
)

// NonLegislative is the sentinel used when a roll call has no associated bill,
// e.g. quorum calls and election of the Speaker.
const NonLegislative = "Non-Legislative"

// ParseVoteCast normalizes the vote position strings used by the API.
func ParseVoteCast(s string) VoteCast {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yea", "aye", "yes":
		return VoteYea
	case "nay", "no":
		return VoteNay
	case "present":
		return VotePresent
	case "not voting":
		return VoteNotVoting
	default:
		return VoteOther
	}
}

// MemberIdentity identifies a member in the Congress.gov API. Resolved once
// per run and reused across all congresses.
type MemberIdentity struct {
	ID          string
	DisplayName string
	State       string
}

// RawVoteRecord is one roll call as returned by the structured API, before
// enrichment. Votes by other members are filtered out by the collector.
type RawVoteRecord struct {
	Congress          int
	RollCall          int
	Date              time.Time
	LegislationType   string
	LegislationNumber string
	Question          string
	Cast              VoteCast
}

// Legislation returns the bill identifier with type and number concatenated
// ("HR758"), or the Non-Legislative sentinel when either part is absent.
func (r RawVoteRecord) Legislation() string {
	if r.LegislationType == "" || r.LegislationNumber == "" {
		return NonLegislative
	}
	return r.LegislationType + r.LegislationNumber
}

// EnrichmentResult holds the fields scraped from clerk.house.gov. BillTitle
// and Question are empty when extraction failed; SourceURL is always set.
type EnrichmentResult struct {
	BillTitle string
	Question  string
	SourceURL string
}

// VoteRecord is the final, exported unit. Exactly one exists per raw vote
// discovered by the collector, regardless of enrichment success.
type VoteRecord struct {
	Congress    int       `json:"congress"`
	Date        time.Time `json:"date"`
	RollCall    int       `json:"rollCallNumber"`
	Legislation string    `json:"legislation"`
	Cast        VoteCast  `json:"voteCast"`
	Question    string    `json:"question"`
	BillTitle   string    `json:"billTitle"`
	URL         string    `json:"rollCallVoteUrl"`
}

func (v VoteRecord) String() string {
	return fmt.Sprintf("%d/%d %s %s", v.Congress, v.RollCall, v.Legislation, v.Cast)
}
