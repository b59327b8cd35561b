// Package pkgcheck verifies the required Python packages and reports the
// optional developer tools.
package pkgcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"envcheck/internal/check"
	"envcheck/internal/logging"
	"envcheck/internal/python"
)

// Section headings.
const (
	PackagesTitle = "📦 CORE PACKAGES"
	DevToolsTitle = "🔧 DEV TOOLS"
)

// ModuleProber is the part of python.Probe these checks need.
type ModuleProber interface {
	Modules(ctx context.Context, names ...string) (map[string]python.Module, error)
}

// Packages fails when any required module does not import, or when a module
// violates its version constraint.
type Packages struct {
	Probe       ModuleProber
	Required    []string
	Constraints map[string]string // module -> semver constraint, e.g. "torch": ">=2.2"
	Logger      *logging.Logger
}

// Name returns the check name.
func (c *Packages) Name() string { return check.NamePackages }

// Title returns the section heading.
func (c *Packages) Title() string { return PackagesTitle }

// Run executes the packages check.
func (c *Packages) Run(ctx context.Context) check.Result {
	result := check.NewResult(c.Name(), c.Title())

	modules, err := c.Probe.Modules(ctx, c.Required...)
	if err != nil {
		result.Errorf("Could not probe packages: %v", err)
		return result.Fail(err)
	}

	var problems []string
	for _, name := range c.Required {
		m := modules[name]
		if !m.OK {
			result.Errorf("%s: NOT INSTALLED", name)
			problems = append(problems, name+" missing")
			continue
		}
		result.Fact(name+".version", m.DisplayVersion())

		constraint, ok := c.Constraints[name]
		if !ok {
			result.Okf("%s: %s", name, m.DisplayVersion())
			continue
		}
		if err := satisfies(m.Version, constraint); err != nil {
			result.Errorf("%s: %s (%v)", name, m.DisplayVersion(), err)
			problems = append(problems, fmt.Sprintf("%s %v", name, err))
			continue
		}
		result.Okf("%s: %s (%s)", name, m.DisplayVersion(), constraint)
	}

	if len(problems) > 0 {
		c.Logger.Info("check.packages.failed", "Required packages missing or out of range", map[string]interface{}{
			"problems": problems,
		})
		return result.Fail(fmt.Errorf("packages: %s", strings.Join(problems, "; ")))
	}
	return result.Pass()
}

// satisfies reports why version does not meet constraint, or nil.
func satisfies(version, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	if version == "" {
		return fmt.Errorf("no version reported, wants %s", constraint)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("unparseable version, wants %s", constraint)
	}
	if !c.Check(v) {
		return fmt.Errorf("wants %s", constraint)
	}
	return nil
}

// DevTools reports the developer tools. Missing tools are warnings and the
// check always passes.
type DevTools struct {
	Probe  ModuleProber
	Tools  []string
	Logger *logging.Logger
}

// Name returns the check name.
func (c *DevTools) Name() string { return check.NameDevTools }

// Title returns the section heading.
func (c *DevTools) Title() string { return DevToolsTitle }

// Run executes the dev tools check.
func (c *DevTools) Run(ctx context.Context) check.Result {
	result := check.NewResult(c.Name(), c.Title())

	modules, err := c.Probe.Modules(ctx, c.Tools...)
	if err != nil {
		result.Warnf("Could not probe dev tools: %v", err)
		return result.Pass()
	}

	for _, name := range c.Tools {
		m := modules[name]
		if !m.OK {
			result.Warnf("%s not installed (install with: uv sync --extra dev)", name)
			continue
		}
		result.Okf("%s: %s", name, m.DisplayVersion())
		result.Fact(name+".version", m.DisplayVersion())
	}
	return result.Pass()
}
