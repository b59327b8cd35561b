package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"envcheck/internal/configdir"
)

const (
	systemConfigFile  = "config.yaml"
	projectConfigFile = ".envcheck.yaml"
)

// Load loads and merges configuration from system and project files.
// Priority: defaults < system config < project config (working directory)
func Load() (Config, error) {
	cfg := DefaultConfig()

	if err := mergeConfigFile(&cfg, SystemConfigPath()); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to load system config: %w", err)
	}

	if projectPath := ProjectConfigPath(); projectPath != "" {
		if err := mergeConfigFile(&cfg, projectPath); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to load project config: %w", err)
		}
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// LoadFrom loads configuration from a specific file path on top of the defaults
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := mergeConfigFile(&cfg, path); err != nil {
		return cfg, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// ProbeTimeout returns the per-process timeout as a duration
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

func mergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path is operator supplied or a fixed location
	if err != nil {
		return err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfig(cfg, &overlay)
	return nil
}

// mergeConfig merges non-zero values from src into dst. Lists replace the
// defaults wholesale; constraints merge per package.
func mergeConfig(dst, src *Config) {
	if src.Python.Interpreter != "" {
		dst.Python.Interpreter = src.Python.Interpreter
	}
	if src.Python.VenvDir != "" {
		dst.Python.VenvDir = src.Python.VenvDir
	}

	if src.GPU.SmokeMatrixSize != 0 {
		dst.GPU.SmokeMatrixSize = src.GPU.SmokeMatrixSize
	}

	if src.Geo.ConfigTool != "" {
		dst.Geo.ConfigTool = src.Geo.ConfigTool
	}
	if src.Geo.BindingModule != "" {
		dst.Geo.BindingModule = src.Geo.BindingModule
	}
	if src.Geo.Optional != nil {
		dst.Geo.Optional = src.Geo.Optional
	}

	if src.Packages.Required != nil {
		dst.Packages.Required = src.Packages.Required
	}
	if len(src.Packages.Constraints) > 0 {
		if dst.Packages.Constraints == nil {
			dst.Packages.Constraints = make(map[string]string, len(src.Packages.Constraints))
		}
		for name, constraint := range src.Packages.Constraints {
			dst.Packages.Constraints[name] = constraint
		}
	}

	if src.DevTools.Tools != nil {
		dst.DevTools.Tools = src.DevTools.Tools
	}

	if src.Mounts.Paths != nil {
		dst.Mounts.Paths = src.Mounts.Paths
	}

	if src.ProbeTimeoutSeconds != 0 {
		dst.ProbeTimeoutSeconds = src.ProbeTimeoutSeconds
	}

	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.File != "" {
		dst.Logging.File = src.Logging.File
	}
}

func formatValidationErrors(errors []ValidationError) string {
	if len(errors) == 0 {
		return ""
	}
	if len(errors) == 1 {
		return errors[0].Error()
	}
	result := fmt.Sprintf("%d validation errors:\n", len(errors))
	for _, err := range errors {
		result += "  - " + err.Error() + "\n"
	}
	return result
}

// SystemConfigPath returns the path to the system configuration file
func SystemConfigPath() string {
	return filepath.Join(configdir.ConfigDir(), systemConfigFile)
}

// ProjectConfigPath returns the project configuration file in the working directory
func ProjectConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, projectConfigFile)
}
