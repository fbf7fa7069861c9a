// Package nagac compiles WGSL in-process with the naga shader compiler.
package nagac

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
)

var _ ports.Compiler = (*Compiler)(nil)

// Options configures the naga pipeline.
type Options struct {
	// Debug emits SPIR-V debug instructions.
	Debug bool
	// Validate runs IR validation before code generation.
	Validate bool
}

// Compiler is a ports.Compiler backed by naga.
type Compiler struct {
	opts Options
}

// New creates a Compiler.
func New(opts Options) *Compiler {
	return &Compiler{opts: opts}
}

// Compile parses, lowers and validates the WGSL source and generates code for the
// requested profile. Macros are appended to the source as module-scope constants,
// so line numbers in diagnostics match the expanded source.
func (c *Compiler) Compile(ctx context.Context, in domain.CompileInput) (domain.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := ParseProfile(in.Profile)
	if err != nil {
		return nil, err
	}

	source := withMacros(in.Source, in.Macros)

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, diagnostic(in, err.Error())
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, diagnostic(in, err.Error())
	}

	if c.opts.Validate {
		problems, err := naga.Validate(module)
		if err != nil {
			return nil, diagnostic(in, err.Error())
		}
		if len(problems) > 0 {
			return nil, diagnostic(in, validationMessage(problems))
		}
	}

	if err := checkEntryPoint(module, in.EntryPoint); err != nil {
		return nil, diagnostic(in, err.Error())
	}

	out, err := c.generate(module, target, in.EntryPoint)
	if err != nil {
		return nil, diagnostic(in, err.Error())
	}
	return out, nil
}

func (c *Compiler) generate(module *ir.Module, target Target, entry string) (domain.Artifact, error) {
	switch target.Backend {
	case BackendSPIRV:
		return naga.GenerateSPIRV(module, spirv.Options{Version: target.SPIRV, Debug: c.opts.Debug})

	case BackendGLSL:
		opts := glsl.DefaultOptions()
		opts.LangVersion = target.GLSL
		opts.EntryPoint = entry
		code, _, err := glsl.Compile(module, opts)
		return domain.Artifact(code), err

	case BackendHLSL:
		opts := hlsl.DefaultOptions()
		opts.ShaderModel = target.ShaderModel
		opts.EntryPoint = entry
		code, _, err := hlsl.Compile(module, opts)
		return domain.Artifact(code), err

	case BackendMSL:
		opts := msl.DefaultOptions()
		opts.LangVersion = target.MSL
		opts.FakeMissingBindings = true
		code, _, err := msl.Compile(module, opts)
		return domain.Artifact(code), err

	default:
		return nil, fmt.Errorf("unsupported backend %q", target.Backend)
	}
}

// withMacros appends one constant declaration per macro. WGSL module-scope
// declarations are order independent.
func withMacros(source string, macros domain.Macros) string {
	if len(macros) == 0 {
		return source
	}

	var b strings.Builder
	b.WriteString(source)
	if !strings.HasSuffix(source, "\n") {
		b.WriteByte('\n')
	}
	for _, m := range macros {
		fmt.Fprintf(&b, "const %s = %s;\n", m.Name, m.Value)
	}
	return b.String()
}

func checkEntryPoint(module *ir.Module, entry string) error {
	names := make([]string, 0, len(module.EntryPoints))
	for _, ep := range module.EntryPoints {
		if ep.Name == entry {
			return nil
		}
		names = append(names, ep.Name)
	}
	slices.Sort(names)
	return fmt.Errorf("%w %q (available: %s)", domain.ErrEntryPointNotFound, entry, strings.Join(names, ", "))
}

func validationMessage(problems []ir.ValidationError) string {
	lines := make([]string, 0, len(problems))
	for _, p := range problems {
		lines = append(lines, p.Error())
	}
	return strings.Join(lines, "\n")
}

func diagnostic(in domain.CompileInput, msg string) *domain.Diagnostic {
	return &domain.Diagnostic{SourcePath: in.SourcePath, Message: msg}
}
