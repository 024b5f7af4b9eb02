package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(formationCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(usageCmd)

	formationCmd.AddCommand(formationPresetCmd)
	formationCmd.AddCommand(formationSwapCmd)
	formationCmd.Flags().String("match", "", "Show the formation for one match")
	formationPresetCmd.Flags().String("match", "", "Apply the preset to one match only")
	formationSwapCmd.Flags().String("match", "", "Swap within one match only")

	matchCmd.AddCommand(matchTransitionCmd("accept"))
	matchCmd.AddCommand(matchTransitionCmd("start"))
	matchCmd.AddCommand(matchFinishCmd)
	matchCmd.AddCommand(matchTimelineCmd)
	matchCmd.AddCommand(matchRecapCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Announce finished matches and refresh standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/process", nil)
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest [tournament]",
	Short: "Post a standings table to Slack",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/digest"
		if len(args) == 1 {
			endpoint += "?tournament=" + url.QueryEscape(args[0])
		}
		return performRequest(http.MethodPost, endpoint, nil)
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams in the league",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/teams", nil)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings [tournament-id]",
	Short: "Show the league table, overall or for one tournament",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodGet, "/tournaments/"+url.PathEscape(args[0])+"/standings", nil)
		}
		return performRequest(http.MethodGet, "/standings", nil)
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets [sport]",
	Short: "List the formation presets of a sport",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/presets"
		if len(args) == 1 {
			endpoint += "?sport=" + url.QueryEscape(args[0])
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var formationCmd = &cobra.Command{
	Use:   "formation <team-id>",
	Short: "Show a team's formation and bench",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, formationPath(cmd, args[0], ""), nil)
	},
}

var formationPresetCmd = &cobra.Command{
	Use:   "preset <team-id> <preset>",
	Short: "Apply a preset formation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, formationPath(cmd, args[0], "/preset"), map[string]string{"preset": args[1]})
	},
}

var formationSwapCmd = &cobra.Command{
	Use:   "swap <team-id> <slot-id> <bench-player-id>",
	Short: "Bring a bench player into a slot",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, formationPath(cmd, args[0], "/swap"), map[string]string{"slot": args[1], "bench": args[2]})
	},
}

func formationPath(cmd *cobra.Command, teamID, suffix string) string {
	endpoint := "/teams/" + url.PathEscape(teamID) + "/formation" + suffix
	if matchID, _ := cmd.Flags().GetString("match"); matchID != "" {
		endpoint += "?match=" + url.QueryEscape(matchID)
	}
	return endpoint
}

var matchCmd = &cobra.Command{
	Use:   "match <match-id>",
	Short: "Show or drive a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches/"+url.PathEscape(args[0]), nil)
	},
}

func matchTransitionCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <match-id>",
		Short: "Move a match to the next state (" + action + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/"+action, nil)
		},
	}
}

var matchFinishCmd = &cobra.Command{
	Use:   "finish <match-id> [home-score away-score]",
	Short: "Finish a match, optionally with an explicit score",
	Args: cobra.MatchAll(cobra.RangeArgs(1, 3), func(cmd *cobra.Command, args []string) error {
		if len(args) == 2 {
			return fmt.Errorf("both scores are required")
		}
		return nil
	}),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body any
		if len(args) == 3 {
			home, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid home score: %w", err)
			}
			away, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid away score: %w", err)
			}
			body = map[string]int{"home_score": home, "away_score": away}
		}
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/finish", body)
	},
}

var matchTimelineCmd = &cobra.Command{
	Use:   "timeline <match-id>",
	Short: "Show the events of a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches/"+url.PathEscape(args[0])+"/timeline", nil)
	},
}

var matchRecapCmd = &cobra.Command{
	Use:   "recap <match-id>",
	Short: "Generate the written recap of a finished match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/recap", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Get persisted usage counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/usage", nil)
	},
}

func performRequest(method, endpoint string, payload any) error {
	target, err := url.Parse(host + endpoint)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if dryRun {
		q := target.Query()
		q.Set("dry_run", "true")
		target.RawQuery = q.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, target.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
