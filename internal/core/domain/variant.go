package domain

import "strings"

// Axis is one dimension of a variant matrix. The first value is the axis default.
type Axis struct {
	Name   string
	Values []string
	// Emit overrides the bindings produced for a value. Values without an entry
	// bind Name=Value.
	Emit map[string]Macros
}

// Default returns the first value of the axis.
func (a Axis) Default() string {
	if len(a.Values) == 0 {
		return ""
	}
	return a.Values[0]
}

// Bindings returns the macro bindings selected by value.
func (a Axis) Bindings(value string) Macros {
	if emit, ok := a.Emit[value]; ok {
		return emit.Clone()
	}
	return Macros{{Name: a.Name, Value: value}}
}

// Selection maps axis names to the chosen value.
type Selection map[string]string

// SkipFunc reports whether a selection should be left out of the matrix.
type SkipFunc func(sel Selection) bool

// Variant is one retained cell of a matrix.
type Variant struct {
	Selection Selection
	// Key is the ordered macro bindings identifying the cell.
	Key Macros
}

// MatrixSpec describes a matrix build: one source compiled under every retained variant.
type MatrixSpec struct {
	Name       string
	SourcePath string
	EntryPoint string
	Profile    string
	// Macros are bound before each variant's key.
	Macros Macros
	Axes   []Axis
	// Exclusive lists groups of axes of which at most one may leave its default.
	Exclusive [][]string
	// SkipWhen lists rules of "axis=value" or "axis!=value" conditions. A
	// selection is skipped when every condition of one rule holds.
	SkipWhen [][]string
	// Skip is an additional programmatic rule.
	Skip SkipFunc
}

// Request builds the compile request for one variant.
func (s MatrixSpec) Request(v Variant) CompileRequest {
	return CompileRequest{
		SourcePath: s.SourcePath,
		EntryPoint: s.EntryPoint,
		Profile:    s.Profile,
		Macros:     s.Macros.Concat(v.Key),
	}
}

// GridEntry is a compiled variant.
type GridEntry struct {
	Variant
	Artifact Artifact
	CacheKey string
	CacheHit bool
}

// VariantGrid holds the compiled artifacts of a matrix in enumeration order.
type VariantGrid struct {
	Name    string
	Axes    []Axis
	entries []GridEntry
	index   map[string]int
}

// NewVariantGrid creates an empty grid for the given axes.
func NewVariantGrid(name string, axes []Axis) *VariantGrid {
	return &VariantGrid{
		Name:  name,
		Axes:  axes,
		index: make(map[string]int),
	}
}

// Add appends a compiled variant.
func (g *VariantGrid) Add(e GridEntry) {
	g.index[e.Key.String()] = len(g.entries)
	g.entries = append(g.entries, e)
}

// Len returns the number of compiled variants.
func (g *VariantGrid) Len() int {
	return len(g.entries)
}

// Entries returns the compiled variants in enumeration order.
func (g *VariantGrid) Entries() []GridEntry {
	out := make([]GridEntry, len(g.entries))
	copy(out, g.entries)
	return out
}

// Get returns the variant identified by key.
func (g *VariantGrid) Get(key Macros) (GridEntry, bool) {
	i, ok := g.index[key.String()]
	if !ok {
		return GridEntry{}, false
	}
	return g.entries[i], true
}

// Lookup returns the variant chosen by sel. Axes missing from sel take their default value.
func (g *VariantGrid) Lookup(sel Selection) (GridEntry, bool) {
	var key Macros
	for _, a := range g.Axes {
		v, ok := sel[a.Name]
		if !ok {
			v = a.Default()
		}
		key = append(key, a.Bindings(v)...)
	}
	return g.Get(key)
}

// String renders the selection as name=value pairs in axis order.
func (s Selection) String(axes []Axis) string {
	parts := make([]string, 0, len(axes))
	for _, a := range axes {
		if v, ok := s[a.Name]; ok {
			parts = append(parts, a.Name+"="+v)
		}
	}
	return strings.Join(parts, " ")
}
