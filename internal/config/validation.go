package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const maxSmokeMatrixSize = 16384

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePython()...)
	errors = append(errors, c.validateGPU()...)
	errors = append(errors, c.validateGeo()...)
	errors = append(errors, c.validatePackages()...)
	errors = append(errors, validateModuleNames("dev_tools.tools", c.DevTools.Tools)...)
	errors = append(errors, c.validateMounts()...)
	errors = append(errors, c.validateProbeTimeout()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validatePython() []ValidationError {
	if c.Python.VenvDir == "" || strings.ContainsAny(c.Python.VenvDir, `/\`) {
		return []ValidationError{{
			Path:    "python.venv_dir",
			Message: fmt.Sprintf("must be a single directory name, got '%s'", c.Python.VenvDir),
		}}
	}
	return nil
}

func (c *Config) validateGPU() []ValidationError {
	size := c.GPU.SmokeMatrixSize
	if size >= 1 && size <= maxSmokeMatrixSize {
		return nil
	}
	return []ValidationError{{
		Path:    "gpu.smoke_matrix_size",
		Message: fmt.Sprintf("must be between 1 and %d, got %d", maxSmokeMatrixSize, size),
	}}
}

func (c *Config) validateGeo() []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(c.Geo.ConfigTool) == "" {
		errors = append(errors, ValidationError{Path: "geo.config_tool", Message: "must not be empty"})
	}
	if !isModuleName(c.Geo.BindingModule) {
		errors = append(errors, ValidationError{
			Path:    "geo.binding_module",
			Message: fmt.Sprintf("invalid module name '%s'", c.Geo.BindingModule),
		})
	}
	errors = append(errors, validateModuleNames("geo.optional", c.Geo.Optional)...)
	return errors
}

func (c *Config) validatePackages() []ValidationError {
	var errors []ValidationError

	if len(c.Packages.Required) == 0 {
		errors = append(errors, ValidationError{Path: "packages.required", Message: "must list at least one module"})
	}
	errors = append(errors, validateModuleNames("packages.required", c.Packages.Required)...)

	for name, constraint := range c.Packages.Constraints {
		path := "packages.constraints." + name
		if !slices.Contains(c.Packages.Required, name) {
			errors = append(errors, ValidationError{
				Path:    path,
				Message: "constraint for a module that is not in packages.required",
			})
			continue
		}
		if _, err := semver.NewConstraint(constraint); err != nil {
			errors = append(errors, ValidationError{
				Path:    path,
				Message: fmt.Sprintf("invalid version constraint '%s': %v", constraint, err),
			})
		}
	}

	return errors
}

func (c *Config) validateMounts() []ValidationError {
	var errors []ValidationError
	for i, p := range c.Mounts.Paths {
		if !strings.HasPrefix(p, "/") {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("mounts.paths[%d]", i),
				Message: fmt.Sprintf("must be an absolute path, got '%s'", p),
			})
		}
	}
	return errors
}

func (c *Config) validateProbeTimeout() []ValidationError {
	if c.ProbeTimeoutSeconds >= 1 {
		return nil
	}
	return []ValidationError{{
		Path:    "probe_timeout_seconds",
		Message: fmt.Sprintf("must be at least 1, got %d", c.ProbeTimeoutSeconds),
	}}
}

func (c *Config) validateLogging() []ValidationError {
	validLevels := []string{"debug", "info", "warn", "error"}
	if slices.Contains(validLevels, c.Logging.Level) {
		return nil
	}
	return []ValidationError{{
		Path:    "logging.level",
		Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
	}}
}

func validateModuleNames(path string, names []string) []ValidationError {
	var errors []ValidationError
	for i, name := range names {
		if !isModuleName(name) {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("%s[%d]", path, i),
				Message: fmt.Sprintf("invalid module name '%s'", name),
			})
		}
	}
	return errors
}

// isModuleName accepts dotted Python identifiers such as osgeo.gdal.
// Anything else could never import, so it is rejected early.
func isModuleName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9' && i > 0:
			default:
				return false
			}
		}
	}
	return true
}
