package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/oodux/internal/cli"
	"github.com/aretw0/oodux/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oodux",
	Short: "oodux inspects and drives stores through their devtools API",
	Long: `oodux talks to a running devtools server: it prints the state and the
action list, dispatches actions and replays recorded action scripts.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("addr", "http://localhost:8080", "Devtools server address")
	rootCmd.PersistentFlags().StringP("output", "o", cli.FormatJSON, "Output format (json|yaml|markdown); actions defaults to markdown on a terminal")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug|info|warn|error)")
}

func clientFor(cmd *cobra.Command) *cli.Client {
	addr, _ := cmd.Flags().GetString("addr")
	return cli.NewClient(addr)
}

func render(cmd *cobra.Command, v any) error {
	format, _ := cmd.Flags().GetString("output")
	return cli.Render(cmd.OutOrStdout(), format, v)
}

// renderTable prefers markdown on an interactive terminal unless -o was given.
func renderTable(cmd *cobra.Command, v any) error {
	if !cmd.Flags().Changed("output") && cli.IsTerminal(cmd.OutOrStdout()) {
		return cli.Render(cmd.OutOrStdout(), cli.FormatMarkdown, v)
	}
	return render(cmd, v)
}

func loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(cmd.ErrOrStderr(), level), nil
}
