package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/shadercache/internal/app"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <source>",
		Short: "Compile one shader, serving it from the cache when possible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, _ := cmd.Flags().GetString("entry")
			profile, _ := cmd.Flags().GetString("profile")
			defines, _ := cmd.Flags().GetStringArray("define")
			output, _ := cmd.Flags().GetString("output")

			return c.app.Compile(cmd.Context(), app.CompileOptions{
				Options: options(cmd),
				Source:  args[0],
				Entry:   entry,
				Profile: profile,
				Defines: defines,
				Output:  output,
			})
		},
	}
	cmd.Flags().StringP("entry", "e", "main", "Entry point name")
	cmd.Flags().StringP("profile", "p", "spirv", "Target profile, e.g. spirv-1.3, glsl-450, hlsl-6.0, msl-2.1")
	cmd.Flags().StringArrayP("define", "D", nil, "Macro binding NAME=VALUE (repeatable, order matters)")
	cmd.Flags().StringP("output", "o", "", "Write the artifact to this path ('-' for stdout)")
	return cmd
}
