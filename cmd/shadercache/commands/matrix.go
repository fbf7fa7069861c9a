package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/shadercache/internal/app"
)

func (c *CLI) newMatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix [names...]",
		Short: "Pre-compile every variant of the configured matrices",
		Long: "Builds the named variant matrices from shadercache.yaml, or all of them " +
			"when no name is given. A failing variant fails the whole matrix.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, _ := cmd.Flags().GetBool("list")
			skip, _ := cmd.Flags().GetStringArray("skip")
			outDir, _ := cmd.Flags().GetString("out-dir")

			return c.app.Matrix(cmd.Context(), app.MatrixOptions{
				Options: options(cmd),
				Names:   args,
				List:    list,
				Skip:    skip,
				OutDir:  outDir,
			})
		},
	}
	cmd.Flags().BoolP("list", "l", false, "List the retained variants without compiling")
	cmd.Flags().StringArray("skip", nil, "Skip variants matching all of these AXIS=VALUE or AXIS!=VALUE conditions")
	cmd.Flags().StringP("out-dir", "o", "", "Write every variant's artifact under this directory")
	return cmd
}
