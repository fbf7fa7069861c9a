package nagac

import (
	"strconv"
	"strings"

	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Backend names an output language.
type Backend string

const (
	// BackendSPIRV emits a SPIR-V binary module.
	BackendSPIRV Backend = "spirv"
	// BackendGLSL emits GLSL source for a single entry point.
	BackendGLSL Backend = "glsl"
	// BackendHLSL emits HLSL source.
	BackendHLSL Backend = "hlsl"
	// BackendMSL emits Metal Shading Language source.
	BackendMSL Backend = "msl"
)

// Target is a parsed profile string.
type Target struct {
	Backend     Backend
	SPIRV       spirv.Version
	GLSL        glsl.Version
	ShaderModel hlsl.ShaderModel
	MSL         msl.Version
}

var glslVersions = map[string]glsl.Version{
	"330":    glsl.Version330,
	"400":    glsl.Version400,
	"410":    glsl.Version410,
	"420":    glsl.Version420,
	"430":    glsl.Version430,
	"450":    glsl.Version450,
	"460":    glsl.Version460,
	"es-300": glsl.VersionES300,
	"es-310": glsl.VersionES310,
	"es-320": glsl.VersionES320,
}

var shaderModels = map[string]hlsl.ShaderModel{
	"5.0": hlsl.ShaderModel5_0,
	"5.1": hlsl.ShaderModel5_1,
	"6.0": hlsl.ShaderModel6_0,
	"6.1": hlsl.ShaderModel6_1,
	"6.2": hlsl.ShaderModel6_2,
	"6.3": hlsl.ShaderModel6_3,
	"6.4": hlsl.ShaderModel6_4,
	"6.5": hlsl.ShaderModel6_5,
	"6.6": hlsl.ShaderModel6_6,
	"6.7": hlsl.ShaderModel6_7,
}

var mslVersions = map[string]msl.Version{
	"1.2": msl.Version1_2,
	"2.0": msl.Version2_0,
	"2.1": msl.Version2_1,
	"2.3": msl.Version2_3,
	"3.0": msl.Version3_0,
}

// ParseProfile parses a profile such as "spirv", "spirv-1.5", "glsl-450",
// "glsl-es-300", "hlsl-6.0" or "msl-2.1". A bare backend name selects its default version.
func ParseProfile(profile string) (Target, error) {
	name, version, _ := strings.Cut(strings.ToLower(strings.TrimSpace(profile)), "-")

	var (
		t  = Target{Backend: Backend(name)}
		ok bool
	)
	switch t.Backend {
	case BackendSPIRV:
		t.SPIRV, ok = parseSPIRVVersion(version)
	case BackendGLSL:
		t.GLSL, ok = lookupOr(glslVersions, version, glsl.Version330)
	case BackendHLSL:
		t.ShaderModel, ok = lookupOr(shaderModels, version, hlsl.ShaderModel5_1)
	case BackendMSL:
		t.MSL, ok = lookupOr(mslVersions, version, msl.Version2_1)
	}

	if !ok {
		return Target{}, zerr.With(zerr.Wrap(domain.ErrInvalidProfile, "unsupported naga profile"), "profile", profile)
	}
	return t, nil
}

func lookupOr[V any](table map[string]V, key string, def V) (V, bool) {
	if key == "" {
		return def, true
	}
	v, ok := table[key]
	return v, ok
}

func parseSPIRVVersion(s string) (spirv.Version, bool) {
	if s == "" {
		return spirv.Version1_3, true
	}
	major, minor, ok := strings.Cut(s, ".")
	if !ok || major != "1" {
		return spirv.Version{}, false
	}
	n, err := strconv.ParseUint(minor, 10, 8)
	if err != nil || n > 6 {
		return spirv.Version{}, false
	}
	return spirv.Version{Major: 1, Minor: uint8(n)}, true
}
