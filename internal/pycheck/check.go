// Package pycheck verifies that the interpreter runs from the project's
// virtual environment.
package pycheck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"envcheck/internal/check"
	"envcheck/internal/logging"
	"envcheck/internal/python"
)

// Title is the report section heading.
const Title = "🐍 PYTHON"

// Interpreter is the part of python.Probe this check needs.
type Interpreter interface {
	Info(ctx context.Context) (python.Info, error)
}

// Check passes when the interpreter executable lives under VenvDir.
type Check struct {
	Interpreter Interpreter
	VenvDir     string                                 // e.g. ".venv"
	Stat        func(name string) (fs.FileInfo, error) // nil means os.Stat
	Logger      *logging.Logger
}

// Name returns the check name.
func (c *Check) Name() string { return check.NamePython }

// Title returns the section heading.
func (c *Check) Title() string { return Title }

// Run executes the Python check.
func (c *Check) Run(ctx context.Context) check.Result {
	result := check.NewResult(c.Name(), c.Title())

	info, err := c.Interpreter.Info(ctx)
	if err != nil {
		if errors.Is(err, python.ErrInterpreterNotFound) {
			result.Failf("Python interpreter not found")
			result.Hintf("Run 'uv sync' to create %s", c.VenvDir)
			return result.Fail(err)
		}
		return result.Failf("Could not query Python: %v", err)
	}

	result.Textf("Version:    %s", info.Version)
	result.Textf("Executable: %s", info.Executable)
	result.Fact("python.version", info.Version)

	if strings.Contains(info.Executable, c.VenvDir) {
		result.Okf("Running in %s (uv environment)", c.VenvDir)
		return result.Pass()
	}

	result.Warnf("Not running in %s - run 'uv sync' first", c.VenvDir)
	if info.InVirtualEnv() {
		result.Hintf("Another virtual environment is active: %s", info.Prefix)
	}
	if local := c.localInterpreter(); local != "" {
		result.Hintf("%s exists: use 'uv run python' or activate it", local)
	}
	c.Logger.Info("check.python.outside_venv", "Interpreter is outside the project environment", map[string]interface{}{
		"executable": info.Executable,
		"venv_dir":   c.VenvDir,
	})
	return result.Fail(fmt.Errorf("interpreter %s is not inside %s", info.Executable, c.VenvDir))
}

// localInterpreter returns VenvDir/bin/python when it exists.
func (c *Check) localInterpreter() string {
	stat := c.Stat
	if stat == nil {
		stat = os.Stat
	}
	candidate := filepath.Join(c.VenvDir, "bin", "python")
	if _, err := stat(candidate); err != nil {
		return ""
	}
	return candidate
}
