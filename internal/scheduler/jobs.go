package scheduler

import "github.com/charmbracelet/log"

const (
	ProcessJobName = "process_matches"
	DigestJobName  = "standings_digest"
)

// Runner is the work the scheduled jobs trigger.
type Runner interface {
	ProcessMatches(dryRun bool)
	PublishStandings(tournamentID string, dryRun bool) error
}

// RegisterJobs adds the match processing and standings digest jobs. An empty
// cron expression leaves that job out.
func RegisterJobs(s *Service, runner Runner, processCron, digestCron string) error {
	if processCron != "" {
		if _, err := s.AddJob(ProcessJobName, processCron, func() {
			runner.ProcessMatches(false)
		}); err != nil {
			return err
		}
	}
	if digestCron != "" {
		if _, err := s.AddJob(DigestJobName, digestCron, func() {
			if err := runner.PublishStandings("", false); err != nil {
				log.Error("Failed to publish standings digest", "error", err)
			}
		}); err != nil {
			return err
		}
	}
	return nil
}
