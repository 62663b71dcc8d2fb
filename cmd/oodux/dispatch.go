package main

import (
	"fmt"

	"github.com/aretw0/oodux/pkg/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <action> [payload]",
	Short: "Dispatch an action",
	Long: `Dispatches an action and prints the resulting state. The payload is
parsed as YAML, so 3, "text", [a, b] and {id: 1} all work. With --target the
action is sent raw to one slice, bypassing the conflict rule.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data any
		if len(args) == 2 {
			if err := yaml.Unmarshal([]byte(args[1]), &data); err != nil {
				return fmt.Errorf("invalid payload: %w", err)
			}
		}

		client := clientFor(cmd)
		target, _ := cmd.Flags().GetString("target")
		raw, _ := cmd.Flags().GetBool("raw")
		if target != "" || raw {
			resp, err := client.DispatchAction(cmd.Context(), domain.Action{Type: args[0], Data: data, Target: target})
			if err != nil {
				return err
			}
			return render(cmd, resp)
		}

		resp, err := client.Dispatch(cmd.Context(), args[0], data)
		if err != nil {
			return err
		}
		return render(cmd, resp)
	},
}

func init() {
	rootCmd.AddCommand(dispatchCmd)
	dispatchCmd.Flags().String("target", "", "Slice to send the raw action to")
	dispatchCmd.Flags().Bool("raw", false, "Send an untargeted raw action that reaches every slice")
}
