package domain

import (
	"strings"

	apperrors "github.com/mbpa/rcv-votes/internal/errors"
)

// stateCodes covers the 50 states plus DC and the territories with
// non-voting delegates, all of which appear in House roll call data.
var stateCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true,
	"DC": true, "AS": true, "GU": true, "MP": true, "PR": true, "VI": true,
}

// MemberQuery is the validated input for one collection run. Construct it
// with NewMemberQuery; a zero value is not valid.
type MemberQuery struct {
	LastName   string
	State      string
	Congresses []int
}

// NewMemberQuery validates and normalizes caller input. The state is
// uppercased and checked against the recognized code table; congress numbers
// must be positive. Validation failures return an INVALID_QUERY error before
// any network call is made.
func NewMemberQuery(lastName, state string, congresses []int) (MemberQuery, error) {
	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return MemberQuery{}, apperrors.NewInvalidQueryError("lastName", "last name must not be empty")
	}

	state = strings.ToUpper(strings.TrimSpace(state))
	if !stateCodes[state] {
		return MemberQuery{}, apperrors.NewInvalidQueryError("state", "unrecognized state code: "+state)
	}

	if len(congresses) == 0 {
		return MemberQuery{}, apperrors.NewInvalidQueryError("congresses", "at least one congress number is required")
	}
	for _, c := range congresses {
		if c < 1 {
			return MemberQuery{}, apperrors.NewInvalidQueryError("congresses", "congress numbers must be positive")
		}
	}

	return MemberQuery{
		LastName:   lastName,
		State:      state,
		Congresses: append([]int(nil), congresses...),
	}, nil
}
