package recap

import (
	"errors"

	"github.com/mauv0809/touchline/internal/league"
)

var (
	ErrNotConfigured = errors.New("recap client is not configured")
	ErrEmptyRecap    = errors.New("recap response contained no text")
)

// MatchSummary is everything the model is told about a match.
type MatchSummary struct {
	Match  league.Match        `json:"match"`
	Home   league.Team         `json:"home"`
	Away   league.Team         `json:"away"`
	Events []league.MatchEvent `json:"events"`
}
