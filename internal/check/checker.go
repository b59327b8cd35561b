package check

import "context"

// Fixed check names, in report order.
const (
	NamePython     = "Python"
	NameGPU        = "GPU"
	NameGDAL       = "GDAL"
	NamePackages   = "Packages"
	NameDevTools   = "Dev Tools"
	NameDataMounts = "Data Mounts"
)

// Order is the display order of the six checks.
var Order = []string{NamePython, NameGPU, NameGDAL, NamePackages, NameDevTools, NameDataMounts}

// CriticalNames are the checks whose conjunction decides the exit status.
var CriticalNames = []string{NamePython, NameGPU, NamePackages}

// Checker is implemented by all check types.
// A Checker never returns an error: missing tools, modules and devices are
// reported inside the Result.
//
// Implementations:
//   - pycheck.Check: interpreter and virtual environment
//   - gpucheck.Check: CUDA, devices and compute smoke test
//   - geocheck.Check: GDAL tool, bindings and optional geospatial modules
//   - pkgcheck.Packages, pkgcheck.DevTools: required packages and optional developer tools
//   - mountcheck.Check: data mount points
type Checker interface {
	Name() string
	Title() string
	Run(ctx context.Context) Result
}
