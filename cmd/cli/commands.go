package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	dryRun  bool
	verbose bool
	limit   int
)

func init() {
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render the leaderboard without editing the pinned message")
	syncCmd.Flags().BoolVar(&verbose, "verbose", false, "Log the sync at debug level on the server")
	leaderboardCmd.Flags().IntVar(&limit, "limit", 10, "Number of entries to fetch")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the pinned leaderboard message now",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		if dryRun {
			query.Set("dry_run", "true")
		}
		if verbose {
			query.Set("verbose", "true")
		}
		return performRequest(http.MethodPost, "/sync", query)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the current standings as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/leaderboard", url.Values{"limit": {strconv.Itoa(limit)}})
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

func performRequest(method, endpoint string, query url.Values) error {
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
