package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/oodux"
	"github.com/aretw0/oodux/internal/cli"
	"github.com/aretw0/oodux/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of oodux",
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimSpace(oodux.Version)
		if cli.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout(), version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "oodux version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
