package recap

import "context"

// RecapClient writes a short prose summary of a finished match.
type RecapClient interface {
	Generate(ctx context.Context, summary MatchSummary) (string, error)
}
