// Package config provides the configuration loader for shadercache.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only configuration schema version understood.
const SupportedVersion = "1"

var validMatrixNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	fs     afero.Fs
	logger ports.Logger
}

// NewLoader creates a new Loader reading through fsys.
func NewLoader(fsys afero.Fs, logger ports.Logger) *Loader {
	return &Loader{fs: fsys, logger: logger}
}

// Load finds the nearest configuration file at or above cwd and parses it.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file Configfile
	if err := readAndUnmarshalYAML(l.fs, configPath, &file); err != nil {
		return nil, err
	}

	if file.Version != "" && file.Version != SupportedVersion {
		l.logger.Warn(fmt.Sprintf("%s declares version %q, expected %q", configPath, file.Version, SupportedVersion))
	}

	project, err := buildProject(configPath, &file)
	if err != nil {
		return nil, zerr.With(err, "config", configPath)
	}
	return project, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "failed to locate configuration"), "cwd", cwd)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into target.
func readAndUnmarshalYAML[T any](fsys afero.Fs, configPath string, target *T) error {
	data, err := afero.ReadFile(fsys, configPath)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", configPath)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", configPath)
	}

	return nil
}

func buildProject(configPath string, file *Configfile) (*domain.Project, error) {
	root := resolvePath(filepath.Dir(configPath), file.Root)
	project := domain.DefaultProject(root)
	project.ConfigPath = configPath

	mode, err := domain.ParseMode(file.Cache.Mode)
	if err != nil {
		return nil, err
	}
	if file.Cache.Dir != "" {
		project.Cache.Root = resolvePath(root, file.Cache.Dir)
	}
	project.Cache.Mode = mode
	project.Cache.Seed = file.Cache.Seed

	compiler, err := buildCompiler(file.Compiler)
	if err != nil {
		return nil, err
	}
	project.Compiler = compiler

	for name, dto := range file.Matrices {
		spec, err := buildMatrix(root, name, dto)
		if err != nil {
			return nil, zerr.With(err, "matrix", name)
		}
		project.Matrices[name] = spec
	}

	return project, nil
}

func buildCompiler(dto CompilerDTO) (domain.CompilerConfig, error) {
	cfg := domain.DefaultCompilerConfig()

	switch kind := domain.CompilerKind(strings.ToLower(dto.Kind)); kind {
	case "", domain.CompilerNaga:
		cfg.Kind = domain.CompilerNaga
	case domain.CompilerExec:
		if len(dto.Command) == 0 {
			return cfg, zerr.Wrap(domain.ErrConfigParseFailed, "exec compiler requires a command")
		}
		cfg.Kind = domain.CompilerExec
	default:
		return cfg, zerr.With(zerr.Wrap(domain.ErrUnknownCompiler, "failed to configure compiler"), "kind", dto.Kind)
	}

	cfg.Command = dto.Command
	if dto.DefineFlag != "" {
		cfg.DefineFlag = dto.DefineFlag
	}
	cfg.Env = dto.Env
	if dto.Validate != nil {
		cfg.Validate = *dto.Validate
	}
	return cfg, nil
}

func buildMatrix(root, name string, dto MatrixDTO) (domain.MatrixSpec, error) {
	if !validMatrixNameRegex.MatchString(name) {
		return domain.MatrixSpec{}, zerr.Wrap(domain.ErrInvalidMatrix, "matrix names may only contain letters, digits, '_' and '-'")
	}
	if dto.Source == "" {
		return domain.MatrixSpec{}, zerr.Wrap(domain.ErrInvalidMatrix, "matrix has no source")
	}

	macros, err := parseMacros(dto.Macros)
	if err != nil {
		return domain.MatrixSpec{}, err
	}

	axes := make([]domain.Axis, 0, len(dto.Axes))
	for _, a := range dto.Axes {
		axis, err := buildAxis(a)
		if err != nil {
			return domain.MatrixSpec{}, zerr.With(err, "axis", a.Name)
		}
		axes = append(axes, axis)
	}

	skip := make([][]string, 0, len(dto.Skip))
	for _, rule := range dto.Skip {
		skip = append(skip, skipConditions(rule))
	}

	return domain.MatrixSpec{
		Name:       name,
		SourcePath: resolvePath(root, dto.Source),
		EntryPoint: dto.Entry,
		Profile:    dto.Profile,
		Macros:     macros,
		Axes:       axes,
		Exclusive:  dto.Exclusive,
		SkipWhen:   skip,
	}, nil
}

func buildAxis(dto AxisDTO) (domain.Axis, error) {
	axis := domain.Axis{Name: dto.Name, Values: dto.Values}
	for value, bindings := range dto.Emit {
		if !slices.Contains(dto.Values, value) {
			return domain.Axis{}, zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "emit names an unknown value"), "value", value)
		}
		macros, err := parseMacros(bindings)
		if err != nil {
			return domain.Axis{}, err
		}
		if axis.Emit == nil {
			axis.Emit = make(map[string]domain.Macros, len(dto.Emit))
		}
		axis.Emit[value] = macros
	}
	return axis, nil
}

// skipConditions turns {A: "1", B: "!0"} into ["A=1", "B!=0"], sorted by axis.
func skipConditions(rule map[string]string) []string {
	conds := make([]string, 0, len(rule))
	for axis, value := range rule {
		if negated, ok := strings.CutPrefix(value, "!"); ok {
			conds = append(conds, axis+"!="+negated)
		} else {
			conds = append(conds, axis+"="+value)
		}
	}
	slices.Sort(conds)
	return conds
}

func parseMacros(raw []string) (domain.Macros, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return domain.ParseMacros(raw)
}

func resolvePath(base, path string) string {
	if path == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
