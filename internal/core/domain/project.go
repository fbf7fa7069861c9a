package domain

import (
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// CompilerKind selects the compiler backend.
type CompilerKind string

const (
	// CompilerNaga compiles WGSL in-process.
	CompilerNaga CompilerKind = "naga"
	// CompilerExec runs an external compiler command.
	CompilerExec CompilerKind = "exec"
)

// CompilerConfig configures the compiler backend.
type CompilerConfig struct {
	Kind CompilerKind
	// Command is the external compiler argv with placeholders, used by CompilerExec.
	Command []string
	// DefineFlag prefixes each macro binding on the external command line.
	DefineFlag string
	// Env overrides environment variables of the external command.
	Env map[string]string
	// Validate enables IR validation in the in-process compiler.
	Validate bool
}

// DefaultCompilerConfig returns the in-process compiler with validation enabled.
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		Kind:       CompilerNaga,
		DefineFlag: "-D",
		Validate:   true,
	}
}

// Fingerprint identifies the backend and every setting that changes its output.
// Only the fields the selected kind reads are included.
func (c CompilerConfig) Fingerprint() string {
	kind := c.Kind
	if kind == "" {
		kind = CompilerNaga
	}

	fields := []string{string(kind)}
	switch kind {
	case CompilerExec:
		fields = append(fields, "command", strconv.Itoa(len(c.Command)))
		fields = append(fields, c.Command...)
		fields = append(fields, "define", c.DefineFlag, "env")
		for _, k := range slices.Sorted(maps.Keys(c.Env)) {
			fields = append(fields, k+"="+c.Env[k])
		}
	default:
		fields = append(fields, "validate="+strconv.FormatBool(c.Validate))
	}

	for i, f := range fields {
		fields[i] = strconv.Quote(f)
	}
	return strings.Join(fields, " ")
}

// Project is a loaded configuration file.
type Project struct {
	// Root is the absolute directory source paths resolve against.
	Root       string
	ConfigPath string
	Cache      CacheConfig
	Compiler   CompilerConfig
	Matrices   map[string]MatrixSpec
}

// MatrixNames returns the defined matrix names in sorted order.
func (p *Project) MatrixNames() []string {
	return slices.Sorted(maps.Keys(p.Matrices))
}

// DefaultProject returns the settings used when no configuration file exists.
func DefaultProject(root string) *Project {
	return &Project{
		Root: root,
		Cache: CacheConfig{
			Root: filepath.Join(root, CacheDirName),
			Mode: ModeRelease,
		},
		Compiler: DefaultCompilerConfig(),
		Matrices: make(map[string]MatrixSpec),
	}
}
