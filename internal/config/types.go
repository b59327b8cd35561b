package config

// Config represents the complete envcheck configuration.
// Every field has a default matching the stock devcontainer layout, so a
// missing config file is never an error.
type Config struct {
	Python              PythonConfig   `yaml:"python"`
	GPU                 GPUConfig      `yaml:"gpu"`
	Geo                 GeoConfig      `yaml:"geo"`
	Packages            PackagesConfig `yaml:"packages"`
	DevTools            DevToolsConfig `yaml:"dev_tools"`
	Mounts              MountsConfig   `yaml:"mounts"`
	ProbeTimeoutSeconds int            `yaml:"probe_timeout_seconds"`
	Logging             LoggingConfig  `yaml:"logging"`
}

// PythonConfig selects the interpreter used for every module probe
type PythonConfig struct {
	Interpreter string `yaml:"interpreter"` // empty: python, then python3 on PATH
	VenvDir     string `yaml:"venv_dir"`
}

// GPUConfig tunes the device smoke test
type GPUConfig struct {
	SmokeMatrixSize int `yaml:"smoke_matrix_size"`
}

// GeoConfig names the geospatial tool and modules
type GeoConfig struct {
	ConfigTool    string   `yaml:"config_tool"`
	BindingModule string   `yaml:"binding_module"`
	Optional      []string `yaml:"optional"`
}

// PackagesConfig lists the required modules and optional version constraints
type PackagesConfig struct {
	Required    []string          `yaml:"required"`
	Constraints map[string]string `yaml:"constraints"`
}

// DevToolsConfig lists optional developer tooling modules
type DevToolsConfig struct {
	Tools []string `yaml:"tools"`
}

// MountsConfig lists data mount points to inspect
type MountsConfig struct {
	Paths []string `yaml:"paths"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
