// Package app implements the application layer for shadercache.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.trai.ch/shadercache/internal/adapters/cas"
	"go.trai.ch/shadercache/internal/adapters/detector"
	"go.trai.ch/shadercache/internal/adapters/fs"
	"go.trai.ch/shadercache/internal/adapters/nagac"
	"go.trai.ch/shadercache/internal/adapters/prompt"
	"go.trai.ch/shadercache/internal/adapters/shell"
	"go.trai.ch/shadercache/internal/adapters/telemetry"
	"go.trai.ch/shadercache/internal/adapters/tui"
	"go.trai.ch/shadercache/internal/adapters/watcher"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"go.trai.ch/shadercache/internal/engine/session"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	fs           afero.Fs
	opener       *cas.Opener
	logger       ports.Logger
	recorder     *telemetry.Recorder

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	cwd    string

	compiler ports.Compiler
	decider  ports.RetryDecider
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	fsys afero.Fs,
	opener *cas.Opener,
	log ports.Logger,
	recorder *telemetry.Recorder,
) *App {
	return &App{
		configLoader: loader,
		fs:           fsys,
		opener:       opener,
		logger:       log,
		recorder:     recorder,
		in:           os.Stdin,
		out:          os.Stdout,
		errOut:       os.Stderr,
	}
}

// WithIO sets the streams used for prompts and reports.
func (a *App) WithIO(in io.Reader, out, errOut io.Writer) *App {
	a.in, a.out, a.errOut = in, out, errOut
	return a
}

// WithWorkDir sets the directory configuration discovery starts from.
// By default the process working directory is used.
func (a *App) WithWorkDir(dir string) *App {
	a.cwd = dir
	return a
}

// WithCompiler replaces the configured compiler backend.
func (a *App) WithCompiler(c ports.Compiler) *App {
	a.compiler = c
	return a
}

// WithDecider replaces the retry decider chosen from the prompt flags.
func (a *App) WithDecider(d ports.RetryDecider) *App {
	a.decider = d
	return a
}

// Options are the settings shared by every command.
type Options struct {
	// NoCache forces recompilation. Results are still stored.
	NoCache bool
	// Prompt is one of auto, tui, linear or none.
	Prompt string
	// Watch also retries as soon as a file of the failed source changes.
	Watch bool
	// Timings prints the recorded compile spans after the command.
	Timings bool
	// LogJSON switches the logger to JSON output.
	LogJSON bool

	CacheDir string
	Mode     string
	Compiler string
}

// project loads the configuration and applies the flag overrides.
// When requireConfig is false a missing configuration file selects defaults.
func (a *App) project(opts Options, requireConfig bool) (*domain.Project, error) {
	if opts.LogJSON {
		if j, ok := a.logger.(interface{ SetJSON(bool) }); ok {
			j.SetJSON(true)
		}
	}

	project, err := a.loadProject(requireConfig)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(project, opts, a.workDir()); err != nil {
		return nil, err
	}
	return project, nil
}

// compileEnv is everything a compiling command needs once the project is known.
type compileEnv struct {
	project *domain.Project
	tracer  ports.Tracer
	session *session.Session
}

func (a *App) prepare(opts Options, requireConfig bool) (*compileEnv, error) {
	project, err := a.project(opts, requireConfig)
	if err != nil {
		return nil, err
	}

	compiler, err := a.newCompiler(project)
	if err != nil {
		return nil, err
	}

	cache := project.Cache
	cache.Compiler = project.Compiler.Fingerprint()

	tracer := telemetry.NewOTelTracer("shadercache")
	sess := session.New(
		fs.NewExpander(a.fs, fs.NewHasher(cache.Seed)),
		a.opener.Open(cache),
		compiler,
		a.newDecider(opts),
		tracer,
		a.logger,
		session.WithForce(opts.NoCache),
	)

	return &compileEnv{project: project, tracer: tracer, session: sess}, nil
}

func (a *App) workDir() string {
	if a.cwd != "" {
		return a.cwd
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (a *App) loadProject(requireConfig bool) (*domain.Project, error) {
	cwd := a.workDir()
	project, err := a.configLoader.Load(cwd)
	if err == nil {
		return project, nil
	}
	if !requireConfig && errors.Is(err, domain.ErrConfigNotFound) {
		return domain.DefaultProject(cwd), nil
	}
	return nil, zerr.Wrap(err, "failed to load configuration")
}

func applyOverrides(p *domain.Project, opts Options, cwd string) error {
	if opts.CacheDir != "" {
		p.Cache.Root = opts.CacheDir
		if !filepath.IsAbs(opts.CacheDir) {
			p.Cache.Root = filepath.Join(cwd, opts.CacheDir)
		}
	}

	if opts.Mode != "" {
		mode, err := domain.ParseMode(opts.Mode)
		if err != nil {
			return err
		}
		p.Cache.Mode = mode
	}

	switch kind := domain.CompilerKind(opts.Compiler); kind {
	case "":
	case domain.CompilerNaga:
		p.Compiler.Kind = kind
	case domain.CompilerExec:
		if len(p.Compiler.Command) == 0 {
			return zerr.Wrap(domain.ErrUnknownCompiler, "exec compiler selected but no command is configured")
		}
		p.Compiler.Kind = kind
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownCompiler, "failed to select compiler"), "kind", opts.Compiler)
	}

	return nil
}

func (a *App) newCompiler(p *domain.Project) (ports.Compiler, error) {
	if a.compiler != nil {
		return a.compiler, nil
	}

	switch p.Compiler.Kind {
	case domain.CompilerNaga, "":
		return nagac.New(nagac.Options{
			Debug:    p.Cache.Mode.IsDebug(),
			Validate: p.Compiler.Validate,
		}), nil
	case domain.CompilerExec:
		return shell.NewCompiler(a.fs, p.Compiler, a.logger), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownCompiler, "failed to create compiler"), "kind", p.Compiler.Kind)
	}
}

func (a *App) newDecider(opts Options) ports.RetryDecider {
	if a.decider != nil {
		return a.decider
	}

	var d ports.RetryDecider
	switch detector.ResolveMode(detector.DetectEnvironment(), opts.Prompt) {
	case detector.ModeTUI:
		d = tui.NewDecider(a.in, a.errOut)
	case detector.ModeLinear:
		d = prompt.NewLinear(a.in, a.errOut)
	}

	if opts.Watch {
		w := watcher.NewDecider(a.logger, watcher.DefaultWindow)
		if d == nil {
			return w
		}
		return prompt.NewFirstOf(d, w)
	}
	if d == nil {
		return prompt.Abort{}
	}
	return d
}

// traced installs the span recorder for the duration of fn and prints the
// timings report when requested. Sessions must be prepared inside fn so their
// tracer uses the installed provider.
func (a *App) traced(ctx context.Context, opts Options, fn func() error) error {
	seen := len(a.recorder.Spans())
	shutdown := telemetry.Setup(a.recorder)
	err := fn()
	_ = shutdown(context.WithoutCancel(ctx))

	if opts.Timings {
		a.printTimings(a.recorder.Spans()[seen:])
	}
	return err
}
