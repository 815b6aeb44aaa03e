package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <target> [args...]",
		Short: "Build the target and then execute it with the given arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), request(cmd, nil), args[0], args[1:])
		},
	}
	// Everything after the target belongs to the executed program, not to
	// ruler.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
