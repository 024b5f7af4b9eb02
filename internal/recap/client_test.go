package recap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mauv0809/touchline/internal/league"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func summary() MatchSummary {
	return MatchSummary{
		Match: league.Match{ID: "m1", HomeTeamID: "A", AwayTeamID: "B", HomeScore: 2, AwayScore: 1, ArenaName: "Fælledparken"},
		Home: league.Team{ID: "A", Name: "Alpha", Sport: league.SportFootball, Roster: []league.Player{
			{ID: "p1", Name: "Ada"}, {ID: "p2", Name: "Bo"},
		}},
		Away: league.Team{ID: "B", Name: "Bravo", Roster: []league.Player{{ID: "p9", Name: "Kim"}}},
		Events: []league.MatchEvent{
			{Type: league.EventGoal, TeamID: "B", PlayerID: "p9", Period: 1, Minute: 30},
			{Type: league.EventGoal, TeamID: "A", PlayerID: "p1", AssistPlayerID: "p2", Period: 1, Minute: 12},
		},
	}
}

func newTestClient(t *testing.T, url string) *APIClient {
	t.Helper()
	c, err := NewClient(context.Background(), url, "secret", "test-model")
	require.NoError(t, err)
	c.newBackoff = func() retry.Backoff {
		return retry.WithMaxRetries(maxRetries, retry.NewConstant(time.Millisecond))
	}
	return c
}

func TestPrompt(t *testing.T) {
	prompt := Prompt(summary())
	assert.Contains(t, prompt, "amateur football match")
	assert.Contains(t, prompt, "Alpha 2 - 1 Bravo")
	assert.Contains(t, prompt, "Venue: Fælledparken")
	assert.Contains(t, prompt, "- 12' goal: Ada (Alpha), assisted by Bo")
	assert.Less(t, strings.Index(prompt, "12'"), strings.Index(prompt, "30'"))
}

func TestGenerate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
			assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

			var req struct {
				Contents []*genai.Content `json:"contents"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Contents, 1)
			require.NotEmpty(t, req.Contents[0].Parts)
			assert.Contains(t, req.Contents[0].Parts[0].Text, "Alpha 2 - 1 Bravo")

			w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Alpha edge it.  "}]}}]}`))
		}))
		defer server.Close()

		text, err := newTestClient(t, server.URL).Generate(context.Background(), summary())
		require.NoError(t, err)
		assert.Equal(t, "Alpha edge it.", text)
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Third time lucky."}]}}]}`))
		}))
		defer server.Close()

		text, err := newTestClient(t, server.URL).Generate(context.Background(), summary())
		require.NoError(t, err)
		assert.Equal(t, "Third time lucky.", text)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).Generate(context.Background(), summary())
		assert.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("empty candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).Generate(context.Background(), summary())
		assert.ErrorIs(t, err, ErrEmptyRecap)
	})

	t.Run("gives up after the last retry", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).Generate(context.Background(), summary())
		var apiErr genai.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.Code)
		assert.Equal(t, int32(maxRetries+1), calls.Load())
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "from-env")
		c, err := NewClient(context.Background(), "", "", "")
		require.NoError(t, err)
		_, err = c.Generate(context.Background(), summary())
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
