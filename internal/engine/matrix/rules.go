package matrix

import (
	"strings"

	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Condition is a single axis=value or axis!=value test.
type Condition struct {
	Axis   string
	Value  string
	Negate bool
}

// Holds reports whether the condition is true for sel.
func (c Condition) Holds(sel domain.Selection) bool {
	return (sel[c.Axis] == c.Value) != c.Negate
}

// String renders the condition in the form accepted by ParseCondition.
func (c Condition) String() string {
	if c.Negate {
		return c.Axis + "!=" + c.Value
	}
	return c.Axis + "=" + c.Value
}

// ParseCondition parses "axis=value" or "axis!=value".
func ParseCondition(s string) (Condition, error) {
	if name, value, ok := strings.Cut(s, "!="); ok {
		return newCondition(s, name, value, true)
	}
	if name, value, ok := strings.Cut(s, "="); ok {
		return newCondition(s, name, value, false)
	}
	return Condition{}, zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "malformed skip condition"), "condition", s)
}

func newCondition(raw, name, value string, negate bool) (Condition, error) {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return Condition{}, zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "malformed skip condition"), "condition", raw)
	}
	return Condition{Axis: name, Value: value, Negate: negate}, nil
}

// When skips a selection if every condition holds.
func When(conds ...Condition) domain.SkipFunc {
	return func(sel domain.Selection) bool {
		for _, c := range conds {
			if !c.Holds(sel) {
				return false
			}
		}
		return len(conds) > 0
	}
}

// Exclusive skips selections where more than one of the named axes is set to
// a value other than its default.
func Exclusive(axes []domain.Axis, names ...string) domain.SkipFunc {
	defaults := make(map[string]string, len(axes))
	for _, a := range axes {
		defaults[a.Name] = a.Default()
	}

	return func(sel domain.Selection) bool {
		active := 0
		for _, n := range names {
			if v, ok := sel[n]; ok && v != defaults[n] {
				active++
			}
		}
		return active > 1
	}
}

// Any skips a selection if any of the rules does. Nil rules are ignored.
func Any(rules ...domain.SkipFunc) domain.SkipFunc {
	return func(sel domain.Selection) bool {
		for _, r := range rules {
			if r != nil && r(sel) {
				return true
			}
		}
		return false
	}
}

// Rules combines the declarative rules of spec with spec.Skip.
func Rules(spec domain.MatrixSpec) (domain.SkipFunc, error) {
	known := make(map[string]bool, len(spec.Axes))
	for _, a := range spec.Axes {
		known[a.Name] = true
	}

	rules := make([]domain.SkipFunc, 0, len(spec.Exclusive)+len(spec.SkipWhen)+1)
	for _, group := range spec.Exclusive {
		for _, name := range group {
			if !known[name] {
				return nil, zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "exclusive group names an unknown axis"), "axis", name)
			}
		}
		rules = append(rules, Exclusive(spec.Axes, group...))
	}

	for _, rule := range spec.SkipWhen {
		conds := make([]Condition, 0, len(rule))
		for _, raw := range rule {
			c, err := ParseCondition(raw)
			if err != nil {
				return nil, err
			}
			if !known[c.Axis] {
				return nil, zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "skip condition names an unknown axis"), "condition", raw)
			}
			conds = append(conds, c)
		}
		rules = append(rules, When(conds...))
	}

	return Any(append(rules, spec.Skip)...), nil
}
