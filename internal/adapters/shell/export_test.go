package shell

import "go.trai.ch/shadercache/internal/core/domain"

// ExpandArgs exposes expandArgs for testing.
func ExpandArgs(command []string, defineFlag string, in domain.CompileInput, inputPath, outputPath string) []string {
	return expandArgs(command, defineFlag, in, inputPath, outputPath)
}

// ResolveEnvironment exposes resolveEnvironment for testing.
func ResolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	return resolveEnvironment(sysEnv, overrides)
}

// LookPath exposes lookPath for testing.
func LookPath(file string, env []string) (string, error) {
	return lookPath(file, env)
}
