package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrSourceNotFound is returned when the root source file of a request does not exist.
	ErrSourceNotFound = zerr.New("source file not found")

	// ErrIncludeNotFound is returned when an include directive names a file that does not exist.
	ErrIncludeNotFound = zerr.New("couldn't find #included file")

	// ErrCircularInclude is returned when a file includes itself, directly or transitively.
	ErrCircularInclude = zerr.New("circular #include detected")

	// ErrSourceReadFailed is returned when a source or include file exists but cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source file")

	// ErrCompileFailed is returned when the compiler rejects the source.
	ErrCompileFailed = zerr.New("shader compilation failed")

	// ErrCompileAborted is returned when the retry decider gives up after a compile failure.
	ErrCompileAborted = zerr.New("shader compilation aborted")

	// ErrCompilerFailed is returned when the compiler itself could not run.
	ErrCompilerFailed = zerr.New("shader compiler failed to run")

	// ErrCacheIO is returned when the cache store cannot read or persist an entry.
	ErrCacheIO = zerr.New("shader cache I/O failure")

	// ErrInvalidRequest is returned when a compile request is missing required fields.
	ErrInvalidRequest = zerr.New("invalid compile request")

	// ErrInvalidMacro is returned when a macro name is not a valid identifier.
	ErrInvalidMacro = zerr.New("invalid macro definition")

	// ErrTooManyMacros is returned when a request carries more than MaxMacros bindings.
	ErrTooManyMacros = zerr.New("too many macro definitions")

	// ErrInvalidProfile is returned when a target profile string is not understood by the compiler.
	ErrInvalidProfile = zerr.New("invalid target profile")

	// ErrEntryPointNotFound is returned when the entry point does not exist in the compiled module.
	ErrEntryPointNotFound = zerr.New("entry point not found")

	// ErrUnknownCompiler is returned when the configured compiler kind is not supported.
	ErrUnknownCompiler = zerr.New("unknown compiler kind, expected 'naga' or 'exec'")

	// ErrInvalidMatrix is returned when a variant matrix definition is malformed.
	ErrInvalidMatrix = zerr.New("invalid variant matrix")

	// ErrMatrixNotFound is returned when a requested matrix is not defined in the configuration.
	ErrMatrixNotFound = zerr.New("matrix not found")

	// ErrMatrixBuildFailed is returned when any variant of a matrix fails to build.
	ErrMatrixBuildFailed = zerr.New("variant matrix build failed")

	// ErrInvalidCacheMode is returned when the cache mode is neither debug nor release.
	ErrInvalidCacheMode = zerr.New("invalid cache mode, expected 'debug' or 'release'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrOutputWriteFailed is returned when a compiled artifact cannot be written to the requested output path.
	ErrOutputWriteFailed = zerr.New("failed to write output file")
)

// DiagnosticOf returns the compiler diagnostic carried by err, or an empty string.
func DiagnosticOf(err error) string {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d.Message
	}
	return ""
}
