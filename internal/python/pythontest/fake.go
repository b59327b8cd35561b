// Package pythontest provides a scripted stand-in for a Python interpreter.
package pythontest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"envcheck/internal/python"
)

// DefaultPath is the interpreter path reported by a zero-config fake.
const DefaultPath = "/workspace/.venv/bin/python"

// CommandFunc fakes a non-Python command.
type CommandFunc func(args []string) (stdout, stderr string, err error)

// Interpreter implements cmdexec.Runner, answering probe scripts from its fields.
// Modules not listed import with ModuleNotFoundError.
type Interpreter struct {
	Path     string
	Info     python.Info
	Modules  map[string]python.Module
	CUDA     python.CUDAInfo
	CUDAErr  error
	SmokeMsg string // exception text raised by the matmul; empty means success
	SmokeErr error  // process-level failure (crash, timeout)
	Commands map[string]CommandFunc

	mu   sync.Mutex
	runs []string
}

// New returns a fake at DefaultPath running inside a .venv.
func New() *Interpreter {
	return &Interpreter{
		Path: DefaultPath,
		Info: python.Info{
			Version:    "3.12.3",
			Executable: DefaultPath,
			Prefix:     "/workspace/.venv",
			BasePrefix: "/usr",
		},
		Modules:  make(map[string]python.Module),
		Commands: make(map[string]CommandFunc),
	}
}

// WithModules marks each name as importable at the given version ("" for none).
func (f *Interpreter) WithModules(versions map[string]string) *Interpreter {
	for name, version := range versions {
		f.Modules[name] = python.Module{Name: name, OK: true, Version: version}
	}
	return f
}

// Runs returns the probe kinds executed so far (info, modules, cuda, smoke, or a command name).
func (f *Interpreter) Runs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.runs...)
}

// LookPath resolves python names to Path and known commands to /usr/bin.
func (f *Interpreter) LookPath(file string) (string, error) {
	if f.Path != "" && (file == "python" || file == "python3" || file == f.Path) {
		return f.Path, nil
	}
	if _, ok := f.Commands[file]; ok {
		return "/usr/bin/" + file, nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

// Run dispatches on the interpreter path or a registered command.
func (f *Interpreter) Run(_ context.Context, name string, args ...string) (string, string, error) {
	if name != f.Path || f.Path == "" {
		cmd, ok := f.Commands[name]
		if !ok {
			cmd, ok = f.Commands[strings.TrimPrefix(name, "/usr/bin/")]
		}
		if !ok {
			return "", "", &exec.Error{Name: name, Err: exec.ErrNotFound}
		}
		f.record(name)
		return cmd(args)
	}

	if len(args) < 2 || args[0] != "-c" {
		return "", "", errors.New("fake interpreter expects -c <script>")
	}
	script, rest := args[1], args[2:]

	switch {
	case strings.Contains(script, "importlib"):
		f.record("modules")
		return f.modules(rest)
	case strings.Contains(script, "torch.matmul"):
		f.record("smoke")
		return f.smoke()
	case strings.Contains(script, "torch.cuda.is_available"):
		f.record("cuda")
		return f.cuda()
	case strings.Contains(script, "base_prefix"):
		f.record("info")
		return result(f.Info)
	}
	return "", "", fmt.Errorf("fake interpreter: unknown script")
}

func (f *Interpreter) modules(names []string) (string, string, error) {
	out := make(map[string]map[string]interface{}, len(names))
	for _, name := range names {
		if m, ok := f.Modules[name]; ok && m.OK {
			out[name] = map[string]interface{}{"ok": true, "version": m.Version}
			continue
		}
		out[name] = map[string]interface{}{
			"ok":    false,
			"error": fmt.Sprintf("ModuleNotFoundError: No module named '%s'", name),
		}
	}
	// Unterminated noise before the marker mimics modules printing during import.
	stdout, stderr, err := result(out)
	return "loading..." + stdout, stderr, err
}

func (f *Interpreter) cuda() (string, string, error) {
	if f.CUDAErr != nil {
		return "", "Traceback (most recent call last):\nRuntimeError: driver crashed\n", f.CUDAErr
	}
	if m, ok := f.Modules["torch"]; !ok || !m.OK {
		return "", "ModuleNotFoundError: No module named 'torch'\n", errors.New("exit status 1")
	}
	return result(f.CUDA)
}

func (f *Interpreter) smoke() (string, string, error) {
	if f.SmokeErr != nil {
		return "", "Segmentation fault\n", f.SmokeErr
	}
	if f.SmokeMsg != "" {
		return result(map[string]interface{}{"ok": false, "error": f.SmokeMsg})
	}
	return result(map[string]interface{}{"ok": true})
}

func (f *Interpreter) record(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, kind)
}

func result(v interface{}) (string, string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", "", err
	}
	return "ENVCHECK_RESULT " + string(data) + "\n", "", nil
}
