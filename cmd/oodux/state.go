package main

import (
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := clientFor(cmd).State(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, resp)
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the dispatchable actions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		actions, err := clientFor(cmd).Actions(cmd.Context())
		if err != nil {
			return err
		}
		return renderTable(cmd, actions)
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(actionsCmd)
}
