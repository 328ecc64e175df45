package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mizan-cli",
		Short: "Mizan ledger CLI tool",
		Long:  `A command line interface for interacting with the Mizan ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Mizan API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(ledgerCmd(), partyCmd(), actionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger-wide operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Compare stored balances against document history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint("/api/v1/reports/consistency", nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show receivables and payables totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint("/api/v1/reports/summary", nil)
		},
	})

	return cmd
}

func partyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party",
		Short: "Party operations",
	}

	var from, to string
	statementCmd := &cobra.Command{
		Use:   "statement <party-id>",
		Short: "Print a party's account statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if from != "" {
				params.Set("from", from)
			}
			if to != "" {
				params.Set("to", to)
			}
			return getAndPrint("/api/v1/parties/"+args[0]+"/statement", params)
		},
	}
	statementCmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	statementCmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.AddCommand(statementCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "recompute <party-id>",
		Short: "Resum the party's documents and repair the stored balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAndPrint("/api/v1/parties/" + args[0] + "/recompute")
		},
	})

	return cmd
}

func actionsCmd() *cobra.Command {
	var actor, action string
	var limit int

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List recent action-log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if actor != "" {
				params.Set("actor", actor)
			}
			if action != "" {
				params.Set("action", action)
			}
			params.Set("limit", fmt.Sprintf("%d", limit))
			return getAndPrint("/api/v1/reports/actions", params)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Filter by actor")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action, e.g. document.create")
	cmd.Flags().IntVar(&limit, "limit", 20, "Max entries to return")

	return cmd
}

func getAndPrint(path string, params url.Values) error {
	target := baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postAndPrint(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
		return nil
	}

	printJSON(decoded)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
