package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/shadercache/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached artifacts of the current mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				Options: options(cmd),
				All:     all,
			})
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Remove the whole cache root, every mode included")
	return cmd
}
