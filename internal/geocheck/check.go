// Package geocheck verifies the system GDAL install, its Python bindings
// and the optional geospatial packages.
package geocheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"envcheck/internal/check"
	"envcheck/internal/cmdexec"
	"envcheck/internal/logging"
	"envcheck/internal/python"
)

// Title is the report section heading.
const Title = "🌍 GEOSPATIAL (GDAL)"

// ErrBindingMissing is the failure cause when the binding module does not import.
var ErrBindingMissing = errors.New("python GDAL bindings not installed")

// ModuleProber is the part of python.Probe this check needs.
type ModuleProber interface {
	Modules(ctx context.Context, names ...string) (map[string]python.Module, error)
}

// Check passes iff BindingModule imports. The config tool and the optional
// modules are reported but never change the outcome.
type Check struct {
	Runner        cmdexec.Runner
	Probe         ModuleProber
	ConfigTool    string   // e.g. "gdal-config"
	BindingModule string   // e.g. "osgeo.gdal"
	Optional      []string // e.g. rasterio, geopandas, shapely
	Timeout       time.Duration
	Logger        *logging.Logger
}

// Name returns the check name.
func (c *Check) Name() string { return check.NameGDAL }

// Title returns the section heading.
func (c *Check) Title() string { return Title }

// Run executes the geospatial check.
func (c *Check) Run(ctx context.Context) check.Result {
	result := check.NewResult(c.Name(), c.Title())

	if version, err := c.systemVersion(ctx); err != nil {
		c.Logger.Debug("check.gdal.system_missing", "System GDAL query failed", map[string]interface{}{
			"tool":  c.ConfigTool,
			"error": err.Error(),
		})
		result.Errorf("System GDAL not found (check Dockerfile)")
	} else {
		result.Okf("System GDAL: %s", version)
		result.Fact("gdal.system", version)
	}

	names := append([]string{c.BindingModule}, c.Optional...)
	modules, err := c.Probe.Modules(ctx, names...)
	if err != nil {
		result.Errorf("Could not probe Python modules: %v", err)
		return result.Fail(err)
	}

	binding := modules[c.BindingModule]
	if binding.OK {
		result.Okf("Python GDAL: %s", binding.DisplayVersion())
		result.Fact("gdal.python", binding.DisplayVersion())
	} else {
		result.Warnf("Python GDAL bindings not installed")
	}

	var installed, missing []string
	for _, name := range c.Optional {
		m := modules[name]
		if !m.OK {
			missing = append(missing, name)
			continue
		}
		installed = append(installed, fmt.Sprintf("%s %s", name, m.DisplayVersion()))
		result.Fact(name+".version", m.DisplayVersion())
	}
	if len(installed) > 0 {
		result.Okf("Geospatial: %s", strings.Join(installed, ", "))
	}
	if len(missing) > 0 {
		result.Warnf("Missing: %s (uv sync --extra dev --extra geo)", strings.Join(missing, ", "))
	}

	if !binding.OK {
		return result.Fail(ErrBindingMissing)
	}
	return result.Pass()
}

// systemVersion runs "<tool> --version". A missing tool, a non-zero exit and
// empty output are all treated as absent.
func (c *Check) systemVersion(ctx context.Context) (string, error) {
	if c.ConfigTool == "" {
		return "", errors.New("no config tool configured")
	}
	stdout, stderr, err := cmdexec.RunContext(ctx, c.Runner, c.Timeout, c.ConfigTool, "--version")
	if err != nil {
		return "", errors.New(cmdexec.Describe(err, stderr))
	}
	version := strings.TrimSpace(stdout)
	if version == "" {
		return "", fmt.Errorf("%s printed no version", c.ConfigTool)
	}
	return version, nil
}
