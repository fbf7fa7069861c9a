package config

// Configfile represents the structure of the shadercache.yaml configuration file.
type Configfile struct {
	Version  string               `yaml:"version"`
	Root     string               `yaml:"root"`
	Cache    CacheDTO             `yaml:"cache"`
	Compiler CompilerDTO          `yaml:"compiler"`
	Matrices map[string]MatrixDTO `yaml:"matrices"`
}

// CacheDTO configures the on-disk cache.
type CacheDTO struct {
	Dir  string `yaml:"dir"`
	Mode string `yaml:"mode"`
	Seed uint64 `yaml:"seed"`
}

// CompilerDTO selects and configures the compiler backend.
type CompilerDTO struct {
	Kind       string            `yaml:"kind"`
	Command    []string          `yaml:"command"`
	DefineFlag string            `yaml:"defineFlag"`
	Env        map[string]string `yaml:"env"`
	Validate   *bool             `yaml:"validate"`
}

// MatrixDTO represents a variant matrix definition.
type MatrixDTO struct {
	Source    string              `yaml:"source"`
	Entry     string              `yaml:"entry"`
	Profile   string              `yaml:"profile"`
	Macros    []string            `yaml:"macros"`
	Axes      []AxisDTO           `yaml:"axes"`
	Exclusive [][]string          `yaml:"exclusive"`
	Skip      []map[string]string `yaml:"skip"`
}

// AxisDTO represents one matrix axis.
type AxisDTO struct {
	Name   string              `yaml:"name"`
	Values []string            `yaml:"values"`
	Emit   map[string][]string `yaml:"emit"`
}
