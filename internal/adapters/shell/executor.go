// Package shell runs an external shader compiler command.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// Placeholders substituted in command arguments.
const (
	PlaceholderInput   = "{input}"
	PlaceholderOutput  = "{output}"
	PlaceholderEntry   = "{entry}"
	PlaceholderProfile = "{profile}"
	// PlaceholderDefines must be a whole argument. It expands to one argument per macro.
	PlaceholderDefines = "{defines}"
)

// Compiler implements ports.Compiler by running an external command.
// The expanded source is written to a scratch directory so the command never
// sees unexpanded includes.
type Compiler struct {
	fs     afero.Fs
	cfg    domain.CompilerConfig
	logger ports.Logger
}

// NewCompiler creates a new Compiler. fsys must be backed by the OS filesystem.
func NewCompiler(fsys afero.Fs, cfg domain.CompilerConfig, logger ports.Logger) *Compiler {
	return &Compiler{
		fs:     fsys,
		cfg:    cfg,
		logger: logger,
	}
}

// Compile runs the command. A non-zero exit is reported as a *domain.Diagnostic
// carrying the command's combined output.
func (c *Compiler) Compile(ctx context.Context, in domain.CompileInput) (domain.Artifact, error) {
	if len(c.cfg.Command) == 0 {
		return nil, zerr.Wrap(domain.ErrCompilerFailed, "no compiler command configured")
	}

	scratch, err := afero.TempDir(c.fs, "", "shadercache-")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create scratch directory")
	}
	defer func() { _ = c.fs.RemoveAll(scratch) }()

	inputPath := filepath.Join(scratch, filepath.Base(in.SourcePath))
	outputPath := filepath.Join(scratch, "output.bin")
	if err := afero.WriteFile(c.fs, inputPath, []byte(in.Source), domain.FilePerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to write expanded source"), "path", inputPath)
	}

	argv := expandArgs(c.cfg.Command, c.cfg.DefineFlag, in, inputPath, outputPath)
	name := argv[0]
	cmdEnv := resolveEnvironment(os.Environ(), c.cfg.Env)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = name
	cmd.Dir = filepath.Dir(in.SourcePath)
	cmd.Env = cmdEnv

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return nil, zerr.With(zerr.Wrap(err, "compiler command failed"), "command", name)
		}
		msg := strings.ReplaceAll(strings.TrimSpace(output.String()), inputPath, in.SourcePath)
		if msg == "" {
			msg = exitErr.Error()
		}
		return nil, &domain.Diagnostic{SourcePath: in.SourcePath, Message: msg}
	}

	c.logOutput(output.String(), inputPath, in.SourcePath)

	artifact, err := afero.ReadFile(c.fs, outputPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "compiler produced no output"), "command", name)
	}
	return artifact, nil
}

// logOutput reports anything a successful compile printed, typically warnings.
func (c *Compiler) logOutput(out, scratchPath, sourcePath string) {
	for line := range strings.SplitSeq(strings.TrimSpace(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			c.logger.Warn(strings.ReplaceAll(line, scratchPath, sourcePath))
		}
	}
}

func expandArgs(command []string, defineFlag string, in domain.CompileInput, inputPath, outputPath string) []string {
	r := strings.NewReplacer(
		PlaceholderInput, inputPath,
		PlaceholderOutput, outputPath,
		PlaceholderEntry, in.EntryPoint,
		PlaceholderProfile, in.Profile,
	)

	argv := make([]string, 0, len(command)+len(in.Macros))
	for _, arg := range command {
		if arg == PlaceholderDefines {
			for _, m := range in.Macros {
				argv = append(argv, defineFlag+m.String())
			}
			continue
		}
		argv = append(argv, r.Replace(arg))
	}
	return argv
}

// resolveEnvironment applies overrides on top of the process environment.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
