package recap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/league"
	"github.com/mauv0809/touchline/internal/timeline"
	"github.com/sethvargo/go-retry"
	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-2.0-flash"

	requestTimeout = 20 * time.Second
	maxRetries     = 2
)

// APIClient generates recaps with the Gemini API.
type APIClient struct {
	genai      *genai.Client
	model      string
	newBackoff func() retry.Backoff
}

var _ RecapClient = (*APIClient)(nil)

// NewClient creates a recap client. An empty baseURL uses the SDK's Gemini
// endpoint and an empty model uses DefaultModel. Without an API key the
// client is created but every Generate call returns ErrNotConfigured.
func NewClient(ctx context.Context, baseURL, apiKey, model string) (*APIClient, error) {
	if model == "" {
		model = DefaultModel
	}
	c := &APIClient{
		model: model,
		newBackoff: func() retry.Backoff {
			return retry.WithMaxRetries(maxRetries, retry.NewExponential(500*time.Millisecond))
		},
	}
	if apiKey == "" {
		log.Warn("Recap API key not set, recaps are disabled")
		return c, nil
	}

	timeout := requestTimeout
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
			Timeout: &timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	c.genai = client
	return c, nil
}

// Generate asks the model for a recap. Server errors, rate limiting and
// transport failures are retried with an exponential backoff; other 4xx
// responses are not.
func (c *APIClient) Generate(ctx context.Context, summary MatchSummary) (string, error) {
	if c.genai == nil {
		return "", ErrNotConfigured
	}
	contents := genai.Text(Prompt(summary))

	attempt := 0
	text, err := retry.DoValue(ctx, c.newBackoff(), func(ctx context.Context) (string, error) {
		attempt++
		log.Debug("Requesting match recap", "model", c.model, "attempt", attempt)
		resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
		if err != nil {
			if retryable(err) {
				log.Warn("Recap request failed, retrying", "attempt", attempt, "error", err)
				return "", retry.RetryableError(err)
			}
			return "", err
		}
		return strings.TrimSpace(resp.Text()), nil
	})
	if err != nil {
		log.Error("Recap request failed", "model", c.model, "attempts", attempt, "error", err)
		return "", err
	}
	if text == "" {
		return "", ErrEmptyRecap
	}
	return text, nil
}

func retryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Prompt renders the instruction sent to the model.
func Prompt(summary MatchSummary) string {
	var sb strings.Builder
	m := summary.Match
	fmt.Fprintf(&sb, "Write a lively three sentence recap of this amateur %s match for the club chat.\n",
		strings.ToLower(strings.ReplaceAll(string(summary.Home.Sport), "_", " ")))
	fmt.Fprintf(&sb, "Final score: %s %d - %d %s.\n", summary.Home.Name, m.HomeScore, m.AwayScore, summary.Away.Name)
	if m.ArenaName != "" {
		fmt.Fprintf(&sb, "Venue: %s.\n", m.ArenaName)
	}

	names := make(map[string]string)
	for _, team := range []league.Team{summary.Home, summary.Away} {
		for _, p := range team.Roster {
			names[p.ID] = p.Name
		}
	}
	teams := map[string]string{summary.Home.ID: summary.Home.Name, summary.Away.ID: summary.Away.Name}

	events := timeline.Sort(summary.Events)
	if len(events) > 0 {
		sb.WriteString("Key moments:\n")
	}
	for _, e := range events {
		who := names[e.PlayerID]
		if who == "" {
			who = "unknown player"
		}
		line := fmt.Sprintf("- %d' %s: %s (%s)", e.Minute, strings.ToLower(strings.ReplaceAll(string(e.Type), "_", " ")), who, teams[e.TeamID])
		if assist := names[e.AssistPlayerID]; assist != "" {
			line += ", assisted by " + assist
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("Do not invent events that are not listed.")
	return sb.String()
}
