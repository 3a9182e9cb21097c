package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"masterplan/internal/client"
)

var (
	apiURL        string
	outputJSON    bool
	outputCompact bool
)

var rootCmd = &cobra.Command{
	Use:   "masterplan",
	Short: "Browse and arrange plots on the masterplan",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON && outputCompact {
			return fmt.Errorf("choose either --json or --compact")
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	rootCmd.AddCommand(plotsCmd())
	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(dragCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaultAPI := os.Getenv("MASTERPLAN_API")
	if defaultAPI == "" {
		defaultAPI = client.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "API base URL")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")
	rootCmd.PersistentFlags().BoolVar(&outputCompact, "compact", false, "Output compact text")
}

func apiClient() *client.Client {
	return client.New(apiURL)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
