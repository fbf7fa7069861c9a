// Package commands implements the CLI commands for shadercache.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/shadercache/internal/app"
	"go.trai.ch/shadercache/internal/build"
)

// CLI represents the command line interface for shadercache.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Compile(ctx context.Context, opts app.CompileOptions) error
	Matrix(ctx context.Context, opts app.MatrixOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	CacheList(ctx context.Context, opts app.Options) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "shadercache",
		Short:         "Compile shaders through a persistent, content-addressed cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.BoolP("no-cache", "n", false, "Recompile even when a valid cache entry exists")
	flags.String("prompt", "auto", "Retry prompt after a compile error: auto, tui, linear, or none")
	flags.BoolP("watch", "w", false, "Retry automatically when a file of the failed shader changes")
	flags.Bool("timings", false, "Print per-compile timings after the command")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.String("cache-dir", "", "Cache root directory (overrides the config file)")
	flags.String("mode", "", "Cache mode: debug or release (overrides the config file)")
	flags.String("compiler", "", "Compiler backend: naga or exec (overrides the config file)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newMatrixCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options reads the persistent flags shared by every command.
func options(cmd *cobra.Command) app.Options {
	flags := cmd.Flags()
	noCache, _ := flags.GetBool("no-cache")
	prompt, _ := flags.GetString("prompt")
	watch, _ := flags.GetBool("watch")
	timings, _ := flags.GetBool("timings")
	logJSON, _ := flags.GetBool("log-json")
	cacheDir, _ := flags.GetString("cache-dir")
	mode, _ := flags.GetString("mode")
	compiler, _ := flags.GetString("compiler")

	return app.Options{
		NoCache:  noCache,
		Prompt:   prompt,
		Watch:    watch,
		Timings:  timings,
		LogJSON:  logJSON,
		CacheDir: cacheDir,
		Mode:     mode,
		Compiler: compiler,
	}
}
