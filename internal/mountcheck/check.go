// Package mountcheck reports data mount points. Mounts are optional, so the
// check always passes.
package mountcheck

import (
	"context"
	"os"
	"strconv"

	"envcheck/internal/check"
	"envcheck/internal/logging"
)

// Title is the report section heading.
const Title = "💾 DATA MOUNTS"

// Check inspects each path without ever failing.
type Check struct {
	Paths  []string
	FS     FileSystem // nil means RealFileSystem
	Logger *logging.Logger
}

// Name returns the check name.
func (c *Check) Name() string { return check.NameDataMounts }

// Title returns the section heading.
func (c *Check) Title() string { return Title }

// Run executes the mounts check.
func (c *Check) Run(ctx context.Context) check.Result {
	result := check.NewResult(c.Name(), c.Title())
	fsys := c.FS
	if fsys == nil {
		fsys = &RealFileSystem{}
	}

	readable := 0
	for _, path := range c.Paths {
		if ctx.Err() != nil {
			break
		}

		info, err := fsys.Stat(path)
		switch {
		case os.IsNotExist(err):
			result.Infof("%s not present", path)
			continue
		case os.IsPermission(err):
			result.Warnf("%s exists but not readable", path)
			continue
		case err != nil:
			result.Warnf("%s: %v", path, err)
			continue
		case !info.IsDir():
			result.Warnf("%s is not a directory", path)
			continue
		}

		entries, err := fsys.ReadDir(path)
		if err != nil {
			if os.IsPermission(err) {
				result.Warnf("%s exists but not readable", path)
			} else {
				result.Warnf("%s: %v", path, err)
			}
			c.Logger.Debug("check.mounts.unreadable", "Mount point could not be listed", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}

		readable++
		result.Okf("%s (%d items)", path, len(entries))
		result.Fact("mount."+path, strconv.Itoa(len(entries)))
	}

	if readable == 0 {
		result.Infof("No data mounts found (may be expected)")
		result.Detailf("Configure in .devcontainer/devcontainer.json")
	}
	return result.Pass()
}
