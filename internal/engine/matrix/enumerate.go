// Package matrix enumerates and builds shader variant matrices.
package matrix

import (
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Enumerate returns the retained cells of the Cartesian product of axes in
// enumeration order: the first axis is outermost and the last varies fastest.
// Cells for which skip reports true are left out. A nil skip keeps every cell.
func Enumerate(axes []domain.Axis, skip domain.SkipFunc) ([]domain.Variant, error) {
	if err := validateAxes(axes); err != nil {
		return nil, err
	}

	total := 1
	for _, a := range axes {
		total *= len(a.Values)
	}

	variants := make([]domain.Variant, 0, total)
	keys := make(map[string]domain.Selection, total)
	idx := make([]int, len(axes))
	for range total {
		sel := make(domain.Selection, len(axes))
		for i, a := range axes {
			sel[a.Name] = a.Values[idx[i]]
		}
		advance(idx, axes)

		if skip != nil && skip(sel) {
			continue
		}

		key := keyOf(axes, sel)
		if prev, dup := keys[key.String()]; dup {
			err := zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "variants bind identical macros"), "key", key.String())
			return nil, zerr.With(zerr.With(err, "variant", sel.String(axes)), "previous", prev.String(axes))
		}
		keys[key.String()] = sel
		variants = append(variants, domain.Variant{Selection: sel, Key: key})
	}
	return variants, nil
}

// advance increments idx like an odometer with the last axis as the lowest digit.
func advance(idx []int, axes []domain.Axis) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < len(axes[i].Values) {
			return
		}
		idx[i] = 0
	}
}

func keyOf(axes []domain.Axis, sel domain.Selection) domain.Macros {
	var key domain.Macros
	for _, a := range axes {
		key = append(key, a.Bindings(sel[a.Name])...)
	}
	return key
}

func validateAxes(axes []domain.Axis) error {
	seen := make(map[string]struct{}, len(axes))
	for _, a := range axes {
		if a.Name == "" {
			return zerr.Wrap(domain.ErrInvalidMatrix, "axis has no name")
		}
		if _, dup := seen[a.Name]; dup {
			return zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "duplicate axis"), "axis", a.Name)
		}
		seen[a.Name] = struct{}{}

		if len(a.Values) == 0 {
			return zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "axis has no values"), "axis", a.Name)
		}
		values := make(map[string]struct{}, len(a.Values))
		bindings := make(map[string]string, len(a.Values))
		for _, v := range a.Values {
			if _, dup := values[v]; dup {
				err := zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "duplicate axis value"), "axis", a.Name)
				return zerr.With(err, "value", v)
			}
			values[v] = struct{}{}

			b := a.Bindings(v).String()
			if prev, dup := bindings[b]; dup {
				err := zerr.With(zerr.Wrap(domain.ErrInvalidMatrix, "axis values emit identical macros"), "axis", a.Name)
				return zerr.With(zerr.With(err, "value", v), "previous", prev)
			}
			bindings[b] = v
		}
	}
	return nil
}
