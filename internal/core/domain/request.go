package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// MaxMacros is the maximum number of macro bindings a single request may carry.
const MaxMacros = 16

var macroNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Macro is a named preprocessor binding passed to the compiler.
type Macro struct {
	Name  string
	Value string
}

// String renders the macro as NAME=VALUE.
func (m Macro) String() string {
	return m.Name + "=" + m.Value
}

// ParseMacro parses NAME=VALUE. A bare NAME binds the value "1".
func ParseMacro(s string) (Macro, error) {
	name, value, found := strings.Cut(s, "=")
	if !found {
		value = "1"
	}
	name = strings.TrimSpace(name)
	if !macroNameRegex.MatchString(name) {
		return Macro{}, zerr.With(zerr.Wrap(ErrInvalidMacro, "failed to parse macro"), "macro", s)
	}
	return Macro{Name: name, Value: value}, nil
}

// Macros is an ordered list of macro bindings. Order is part of a request's identity.
type Macros []Macro

// ParseMacros parses each NAME=VALUE string in order.
func ParseMacros(defs []string) (Macros, error) {
	out := make(Macros, 0, len(defs))
	for _, d := range defs {
		m, err := ParseMacro(d)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Strings renders every binding as NAME=VALUE.
func (ms Macros) Strings() []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

// String joins the bindings with spaces.
func (ms Macros) String() string {
	return strings.Join(ms.Strings(), " ")
}

// Clone returns a copy that does not share the backing array.
func (ms Macros) Clone() Macros {
	if ms == nil {
		return nil
	}
	out := make(Macros, len(ms))
	copy(out, ms)
	return out
}

// Concat returns a new list holding ms followed by other.
func (ms Macros) Concat(other Macros) Macros {
	out := make(Macros, 0, len(ms)+len(other))
	out = append(out, ms...)
	return append(out, other...)
}

// CompileRequest fully identifies one compilation.
type CompileRequest struct {
	SourcePath string
	EntryPoint string
	Profile    string
	Macros     Macros
}

// Validate checks that the request can be handed to a compiler.
func (r CompileRequest) Validate() error {
	missing := ""
	switch {
	case r.SourcePath == "":
		missing = "source"
	case r.EntryPoint == "":
		missing = "entry_point"
	case r.Profile == "":
		missing = "profile"
	}
	if missing != "" {
		return zerr.With(zerr.Wrap(ErrInvalidRequest, "compile request rejected"), "missing_field", missing)
	}

	if len(r.Macros) > MaxMacros {
		err := zerr.Wrap(ErrTooManyMacros, "compile request rejected")
		return zerr.With(zerr.With(err, "count", len(r.Macros)), "max", MaxMacros)
	}

	for _, m := range r.Macros {
		if !macroNameRegex.MatchString(m.Name) {
			return zerr.With(zerr.Wrap(ErrInvalidMacro, "compile request rejected"), "macro", m.Name)
		}
	}
	return nil
}

// CompileInput is what a compiler receives: the fully expanded source plus the request parameters.
type CompileInput struct {
	// SourcePath is the root source file, used for diagnostics only.
	SourcePath string
	Source     string
	EntryPoint string
	Profile    string
	Macros     Macros
}
