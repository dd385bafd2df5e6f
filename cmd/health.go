package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Print the health report of a running serve instance",
	RunE: func(_ *cobra.Command, _ []string) error {
		body, err := apiGet("/health")
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// apiGet talks to the local serve instance on the configured port.
func apiGet(path string) ([]byte, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	hc := &http.Client{Timeout: 10 * time.Second}
	resp, err := hc.Get(fmt.Sprintf("http://127.0.0.1:%d%s", cfg.App.Port, path))
	if err != nil {
		return nil, fmt.Errorf("is `%s serve` running? %w", app, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		fmt.Fprintln(os.Stderr, string(body))
		return nil, fmt.Errorf("api responded with status %d", resp.StatusCode)
	}
	return body, nil
}

func apiPost(path string) ([]byte, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	hc := &http.Client{Timeout: 10 * time.Second}
	resp, err := hc.Post(fmt.Sprintf("http://127.0.0.1:%d%s", cfg.App.Port, path), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("is `%s serve` running? %w", app, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		fmt.Fprintln(os.Stderr, string(body))
		return nil, fmt.Errorf("api responded with status %d", resp.StatusCode)
	}
	return body, nil
}
