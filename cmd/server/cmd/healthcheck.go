package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// HealthResponse is the body served by /api/health and /api/ready.
type HealthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func newHealthcheckCommand() *cobra.Command {
	var (
		timeout time.Duration
		url     string
		ready   bool
	)
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check if the server is healthy",
		Long: `Performs a health check by calling /api/health (or /api/ready with --ready).

This command is used by the Docker HEALTHCHECK to monitor container health.
It exits non-zero when the server is unhealthy or unreachable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = defaultHealthURL(ready)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			status, err := checkHealth(ctx, url)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", status)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	cmd.Flags().StringVar(&url, "url", "", "health check URL (default: http://localhost:{PORT}/api/health)")
	cmd.Flags().BoolVar(&ready, "ready", false, "check readiness, including the database")
	return cmd
}

func defaultHealthURL(ready bool) string {
	port := os.Getenv("PORT")
	if port == "" {
		port = os.Getenv("SERVER_PORT")
	}
	if port == "" {
		port = "5000"
	}
	path := "/api/health"
	if ready {
		path = "/api/ready"
	}
	return fmt.Sprintf("http://localhost:%s%s", port, path)
}

// checkHealth returns the reported status, or an error when the server is
// unreachable, answers with a non-200 status or reports success=false.
func checkHealth(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("invalid health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Success {
		return "", fmt.Errorf("unhealthy: status %d (%s)", resp.StatusCode, body.Status)
	}
	return body.Status, nil
}
