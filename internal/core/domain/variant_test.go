package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shadercache/internal/core/domain"
)

func TestAxis_Bindings(t *testing.T) {
	t.Parallel()

	axis := domain.Axis{
		Name:   "QUALITY",
		Values: []string{"low", "high"},
		Emit: map[string]domain.Macros{
			"high": {{Name: "QUALITY_HIGH", Value: "1"}, {Name: "SAMPLES", Value: "16"}},
		},
	}

	assert.Equal(t, "low", axis.Default())
	assert.Equal(t, "QUALITY=low", axis.Bindings("low").String())
	assert.Equal(t, "QUALITY_HIGH=1 SAMPLES=16", axis.Bindings("high").String())

	// Emitted bindings are copies.
	b := axis.Bindings("high")
	b[0].Value = "0"
	assert.Equal(t, "1", axis.Emit["high"][0].Value)

	assert.Empty(t, domain.Axis{Name: "EMPTY"}.Default())
}

func TestMatrixSpec_Request(t *testing.T) {
	t.Parallel()

	spec := domain.MatrixSpec{
		SourcePath: "lit.wgsl",
		EntryPoint: "fs_main",
		Profile:    "spirv",
		Macros:     domain.Macros{{Name: "BASE", Value: "1"}},
	}
	v := domain.Variant{Key: domain.Macros{{Name: "A", Value: "0"}}}

	req := spec.Request(v)
	assert.Equal(t, "lit.wgsl", req.SourcePath)
	assert.Equal(t, "fs_main", req.EntryPoint)
	assert.Equal(t, "spirv", req.Profile)
	assert.Equal(t, "BASE=1 A=0", req.Macros.String())
	assert.Len(t, spec.Macros, 1)
}

func TestVariantGrid(t *testing.T) {
	t.Parallel()

	axes := []domain.Axis{
		{Name: "A", Values: []string{"0", "1"}},
		{Name: "B", Values: []string{"x", "y"}},
	}
	grid := domain.NewVariantGrid("lit", axes)

	add := func(a, b string) {
		grid.Add(domain.GridEntry{
			Variant: domain.Variant{
				Selection: domain.Selection{"A": a, "B": b},
				Key:       domain.Macros{{Name: "A", Value: a}, {Name: "B", Value: b}},
			},
			Artifact: domain.Artifact(a + b),
		})
	}
	add("0", "x")
	add("1", "x")
	add("1", "y")

	require.Equal(t, 3, grid.Len())
	entries := grid.Entries()
	assert.Equal(t, domain.Artifact("0x"), entries[0].Artifact)
	assert.Equal(t, domain.Artifact("1y"), entries[2].Artifact)

	e, ok := grid.Get(domain.Macros{{Name: "A", Value: "1"}, {Name: "B", Value: "x"}})
	require.True(t, ok)
	assert.Equal(t, domain.Artifact("1x"), e.Artifact)

	e, ok = grid.Lookup(domain.Selection{"A": "1"})
	require.True(t, ok)
	assert.Equal(t, domain.Artifact("1x"), e.Artifact)

	_, ok = grid.Lookup(domain.Selection{"B": "y"})
	assert.False(t, ok)

	// Entries returns a copy.
	entries[0].CacheHit = true
	assert.False(t, grid.Entries()[0].CacheHit)
}

func TestSelection_String(t *testing.T) {
	t.Parallel()

	axes := []domain.Axis{{Name: "B"}, {Name: "A"}, {Name: "C"}}
	sel := domain.Selection{"A": "1", "B": "0"}
	assert.Equal(t, "B=0 A=1", sel.String(axes))
}
