// Package python inspects a Python interpreter from the outside by running
// short scripts and reading back a JSON result line.
package python

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"envcheck/internal/cmdexec"
	"envcheck/internal/logging"
)

// ErrInterpreterNotFound is returned when no usable interpreter can be located.
var ErrInterpreterNotFound = errors.New("python interpreter not found")

// defaultInterpreters are tried in order when none is configured.
var defaultInterpreters = []string{"python", "python3"}

// Info describes the interpreter itself.
type Info struct {
	Version    string `json:"version"`
	Executable string `json:"executable"`
	Prefix     string `json:"prefix"`
	BasePrefix string `json:"base_prefix"`
}

// InVirtualEnv reports whether the interpreter runs inside any venv.
func (i Info) InVirtualEnv() bool {
	return i.Prefix != "" && i.Prefix != i.BasePrefix
}

// Module is the outcome of importing one module.
type Module struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DisplayVersion returns the reported version or "installed" when the module has none.
func (m Module) DisplayVersion() string {
	if m.Version == "" {
		return "installed"
	}
	return m.Version
}

// Device is a CUDA device as torch sees it.
type Device struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	TotalMemory uint64 `json:"total_memory"`
}

// MemoryGB converts total memory to GiB.
func (d Device) MemoryGB() float64 {
	return float64(d.TotalMemory) / (1024 * 1024 * 1024)
}

// CUDAInfo is torch's view of the accelerator stack.
type CUDAInfo struct {
	Available    bool     `json:"available"`
	CUDAVersion  string   `json:"cuda_version"`
	CuDNNVersion string   `json:"cudnn_version"`
	Devices      []Device `json:"devices"`
}

// Probe runs scripts through one resolved interpreter. Module results are
// cached for the life of the probe.
type Probe struct {
	runner     cmdexec.Runner
	configured string
	timeout    time.Duration
	logger     *logging.Logger

	resolveOnce sync.Once
	resolved    string
	resolveErr  error

	mu      sync.Mutex
	modules map[string]Module
}

// NewProbe creates a probe. An empty interpreter means python, then python3 on PATH.
func NewProbe(runner cmdexec.Runner, interpreter string, timeout time.Duration, logger *logging.Logger) *Probe {
	return &Probe{
		runner:     runner,
		configured: interpreter,
		timeout:    timeout,
		logger:     logger,
		modules:    make(map[string]Module),
	}
}

// Interpreter returns the resolved interpreter path.
func (p *Probe) Interpreter() (string, error) {
	p.resolveOnce.Do(func() {
		candidates := defaultInterpreters
		if p.configured != "" {
			candidates = []string{p.configured}
		}
		for _, candidate := range candidates {
			path, err := p.runner.LookPath(candidate)
			if err == nil {
				p.resolved = path
				p.logger.Debug("probe.python.resolved", "Resolved Python interpreter", map[string]interface{}{
					"candidate": candidate,
					"path":      path,
				})
				return
			}
		}
		p.resolveErr = fmt.Errorf("%w (tried %s)", ErrInterpreterNotFound, strings.Join(candidates, ", "))
	})
	return p.resolved, p.resolveErr
}

// Info queries version and prefix information from the interpreter.
func (p *Probe) Info(ctx context.Context) (Info, error) {
	result, err := p.runScript(ctx, "info", infoScript)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Version:    result.Get("version").String(),
		Executable: result.Get("executable").String(),
		Prefix:     result.Get("prefix").String(),
		BasePrefix: result.Get("base_prefix").String(),
	}, nil
}

// Modules imports every named module in a single interpreter run, returning
// results keyed by name. Names already probed are served from the cache.
func (p *Probe) Modules(ctx context.Context, names ...string) (map[string]Module, error) {
	out := make(map[string]Module, len(names))
	var missing []string

	p.mu.Lock()
	for _, name := range names {
		if m, ok := p.modules[name]; ok {
			out[name] = m
		} else if !containsName(missing, name) {
			missing = append(missing, name)
		}
	}
	p.mu.Unlock()

	if len(missing) == 0 {
		return out, nil
	}

	result, err := p.runScript(ctx, "modules", modulesScript, missing...)
	if err != nil {
		return out, err
	}

	// Dotted names such as osgeo.gdal are literal keys, not gjson paths.
	entries := make(map[string]gjson.Result, len(missing))
	result.ForEach(func(key, value gjson.Result) bool {
		entries[key.String()] = value
		return true
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range missing {
		entry, found := entries[name]
		m := Module{Name: name}
		if !found {
			m.Error = "no result from interpreter"
		} else {
			m.OK = entry.Get("ok").Bool()
			m.Version = entry.Get("version").String()
			m.Error = entry.Get("error").String()
		}
		p.modules[name] = m
		out[name] = m
	}
	return out, nil
}

// Module imports a single module.
func (p *Probe) Module(ctx context.Context, name string) (Module, error) {
	modules, err := p.Modules(ctx, name)
	if err != nil {
		return Module{Name: name}, err
	}
	return modules[name], nil
}

// CUDA asks torch about CUDA availability and devices. torch must import.
func (p *Probe) CUDA(ctx context.Context) (CUDAInfo, error) {
	result, err := p.runScript(ctx, "cuda", cudaScript)
	if err != nil {
		return CUDAInfo{}, err
	}

	info := CUDAInfo{
		Available:    result.Get("available").Bool(),
		CUDAVersion:  result.Get("cuda_version").String(),
		CuDNNVersion: result.Get("cudnn_version").String(),
	}
	result.Get("devices").ForEach(func(_, d gjson.Result) bool {
		info.Devices = append(info.Devices, Device{
			Index:       int(d.Get("index").Int()),
			Name:        d.Get("name").String(),
			TotalMemory: d.Get("total_memory").Uint(),
		})
		return true
	})
	return info, nil
}

// SmokeTest multiplies a size x size random matrix by itself on the first
// CUDA device. Any exception raised by torch comes back as the error text.
func (p *Probe) SmokeTest(ctx context.Context, size int) error {
	result, err := p.runScript(ctx, "smoke", smokeScript, strconv.Itoa(size))
	if err != nil {
		return err
	}
	if result.Get("ok").Bool() {
		return nil
	}
	msg := result.Get("error").String()
	if msg == "" {
		msg = "unknown error"
	}
	return errors.New(msg)
}

func (p *Probe) runScript(ctx context.Context, name, script string, args ...string) (gjson.Result, error) {
	interpreter, err := p.Interpreter()
	if err != nil {
		return gjson.Result{}, err
	}

	argv := append([]string{"-c", script}, args...)
	start := time.Now()
	stdout, stderr, runErr := cmdexec.RunContext(ctx, p.runner, p.timeout, interpreter, argv...)

	p.logger.Debug("probe.python.run", "Ran Python probe script", map[string]interface{}{
		"script":      name,
		"interpreter": interpreter,
		"args":        args,
		"duration_ms": time.Since(start).Milliseconds(),
		"ok":          runErr == nil,
	})

	if raw, ok := extractResult(stdout); ok {
		return gjson.Parse(raw), nil
	}
	if runErr != nil {
		return gjson.Result{}, fmt.Errorf("%s probe failed: %s", name, cmdexec.Describe(runErr, stderr))
	}
	return gjson.Result{}, fmt.Errorf("%s probe produced no result", name)
}

// extractResult finds the last marker holding valid JSON. The marker may
// follow unterminated output on the same line.
func extractResult(stdout string) (string, bool) {
	lines := strings.Split(stdout, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		idx := strings.LastIndex(lines[i], resultMarker)
		if idx < 0 {
			continue
		}
		raw := strings.TrimSpace(lines[i][idx+len(resultMarker):])
		if gjson.Valid(raw) {
			return raw, true
		}
	}
	return "", false
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
