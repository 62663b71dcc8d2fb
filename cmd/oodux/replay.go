package main

import (
	"fmt"
	"os"

	"github.com/aretw0/oodux/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a recorded action script",
	Long: `Sends every action of a YAML or JSON script in order. A script is either
a list of actions or a document with an "actions" key. Use "-" to read
stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := loggerFor(cmd)
		if err != nil {
			return err
		}

		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		script, err := cli.LoadScript(in)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		stop, _ := cmd.Flags().GetBool("stop-on-error")
		res, replayErr := cli.Replay(ctx, cli.ClientDispatcher{Client: clientFor(cmd)}, script, stop, logger)
		if sig := ctx.Signal(); sig != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "replay interrupted by %v\n", sig)
		}
		if err := render(cmd, res); err != nil {
			return err
		}
		return replayErr
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("stop-on-error", false, "Stop at the first rejected action")
}
