package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(expireCmd)

	roomsCmd.Flags().String("name", "", "Filter by room name")
	roomsCmd.Flags().String("location", "", "Filter by location")
	roomsCmd.Flags().String("time-range", "", "Comma separated time ranges")
	leaderboardCmd.Flags().Int("page", 1, "Page number")
	leaderboardCmd.Flags().Int("per-page", 10, "Rows per page")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil, nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil, nil)
	},
}

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List open game rooms",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		for flag, param := range map[string]string{"name": "name", "location": "location", "time-range": "timeRange"} {
			if v, _ := cmd.Flags().GetString(flag); v != "" {
				q.Set(param, v)
			}
		}
		return performRequest(http.MethodGet, withQuery("/api/game-rooms", q), nil, authHeader())
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the rating leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(perPage))
		return performRequest(http.MethodGet, withQuery("/api/leaderboard", q), nil, authHeader())
	},
}

var locationsCmd = &cobra.Command{
	Use:   "locations [query]",
	Short: "List locations, or search them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return performRequest(http.MethodGet, "/api/locations", nil, nil)
		}
		q := url.Values{}
		q.Set("query", args[0])
		return performRequest(http.MethodGet, withQuery("/api/locations/search", q), nil, nil)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <telegram-id> <username>",
	Short: "Exchange a Telegram identity for a bearer token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		telegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid telegram id %q: %w", args[0], err)
		}
		body, err := json.Marshal(map[string]any{"telegramId": telegramID, "username": args[1]})
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, "/api/auth/token", body, map[string]string{"X-Exchange-Secret": exchangeSecret})
	},
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Run one sweep over stale score submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/tasks/expire-submissions", nil, nil)
	},
}

func authHeader() map[string]string {
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func performRequest(method, endpoint string, body []byte, headers map[string]string) error {
	target := strings.TrimRight(host, "/") + endpoint
	fmt.Printf("Making %s request to %s\n", method, target)

	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
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
