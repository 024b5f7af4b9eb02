package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerStub struct {
	mu        sync.Mutex
	processed int
	published []string
}

func (r *runnerStub) ProcessMatches(dryRun bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed++
}

func (r *runnerStub) PublishStandings(tournamentID string, dryRun bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, tournamentID)
	return nil
}

func (r *runnerStub) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processed, len(r.published)
}

func TestAddJob(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Stop()

	_, err = s.AddJob("", "* * * * *", func() {})
	assert.ErrorIs(t, err, ErrEmptyJobName)

	_, err = s.AddJob("job", "  ", func() {})
	assert.ErrorIs(t, err, ErrEmptyCronExpr)

	_, err = s.AddJob("job", "not a cron", func() {})
	assert.Error(t, err)

	job, err := s.AddJob("job", "*/5 * * * *", func() {})
	require.NoError(t, err)
	assert.Equal(t, "job", job.Name())
	assert.Len(t, s.Jobs(), 1)
}

func TestRegisterJobs(t *testing.T) {
	t.Run("both jobs", func(t *testing.T) {
		s, err := New()
		require.NoError(t, err)
		defer s.Stop()

		runner := &runnerStub{}
		require.NoError(t, RegisterJobs(s, runner, "*/10 * * * *", "0 9 * * 1"))

		names := map[string]bool{}
		for _, job := range s.Jobs() {
			names[job.Name()] = true
		}
		assert.True(t, names[ProcessJobName])
		assert.True(t, names[DigestJobName])

		s.Start()
		for _, job := range s.Jobs() {
			require.NoError(t, job.RunNow())
		}
		assert.Eventually(t, func() bool {
			processed, published := runner.counts()
			return processed == 1 && published == 1
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, []string{""}, runner.published)
	})

	t.Run("empty digest cron disables the digest", func(t *testing.T) {
		s, err := New()
		require.NoError(t, err)
		defer s.Stop()

		require.NoError(t, RegisterJobs(s, &runnerStub{}, "*/10 * * * *", ""))
		require.Len(t, s.Jobs(), 1)
		assert.Equal(t, ProcessJobName, s.Jobs()[0].Name())
	})

	t.Run("invalid cron", func(t *testing.T) {
		s, err := New()
		require.NoError(t, err)
		defer s.Stop()

		assert.Error(t, RegisterJobs(s, &runnerStub{}, "every minute", ""))
	})
}

func TestStop_Idempotent(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	s.Start()
	require.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())
}
