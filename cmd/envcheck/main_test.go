package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envcheck/internal/python"
	"envcheck/internal/python/pythontest"
)

func healthyInterpreter() *pythontest.Interpreter {
	f := pythontest.New().WithModules(map[string]string{
		"torch":       "2.3.1+cu121",
		"torchvision": "0.18.1+cu121",
		"numpy":       "1.26.4",
		"scipy":       "1.13.1",
		"pandas":      "2.2.2",
		"polars":      "0.20.31",
		"matplotlib":  "3.9.0",
		"seaborn":     "0.13.2",
		"tqdm":        "4.66.4",
		"jupyter":     "",
		"osgeo.gdal":  "3.8.4",
		"pytest":      "8.2.2",
		"ruff":        "0.4.10",
		"black":       "24.4.2",
	})
	f.CUDA = python.CUDAInfo{
		Available:    true,
		CUDAVersion:  "12.1",
		CuDNNVersion: "8902",
		Devices:      []python.Device{{Index: 0, Name: "Tesla T4", TotalMemory: 16106127360}},
	}
	return f
}

// writeConfig points the mounts at a temp dir so the run never touches /run.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	mount := filepath.Join(dir, "media")
	require.NoError(t, os.Mkdir(mount, 0o755))

	path := filepath.Join(dir, "envcheck.yaml")
	content := "mounts:\n  paths:\n    - " + mount + "\nprobe_timeout_seconds: 5\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, f *pythontest.Interpreter, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr, f)
	return code, stdout.String(), stderr.String()
}

func TestExecute_AllCriticalPass(t *testing.T) {
	code, out, _ := run(t, healthyInterpreter(), "--config", writeConfig(t, ""))

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "ENVIRONMENT CHECK - ")
	assert.Contains(t, out, "GPU 0: Tesla T4 (15.0 GB)")
	assert.Contains(t, out, "GPU compute test passed")
	assert.Contains(t, out, "✅ ALL CRITICAL CHECKS PASSED - Environment ready!")

	sections := []string{"🐍 PYTHON", "🎮 GPU / CUDA", "🌍 GEOSPATIAL (GDAL)", "📦 CORE PACKAGES", "🔧 DEV TOOLS", "💾 DATA MOUNTS"}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		require.Greater(t, idx, last, "section %q missing or out of order", s)
		last = idx
	}
}

func TestExecute_GPUFailureExitsOne(t *testing.T) {
	f := healthyInterpreter()
	f.CUDA = python.CUDAInfo{}

	code, out, _ := run(t, f, "--config", writeConfig(t, ""))

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "❌ CUDA not available")
	assert.Contains(t, out, "❌ GPU (critical)")
	assert.Contains(t, out, "❌ SOME CRITICAL CHECKS FAILED")
}

func TestExecute_NonCriticalFailuresKeepExitZero(t *testing.T) {
	f := healthyInterpreter()
	delete(f.Modules, "osgeo.gdal")
	delete(f.Modules, "pytest")
	delete(f.Modules, "ruff")
	delete(f.Modules, "black")

	code, out, _ := run(t, f, "--config", writeConfig(t, ""))

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "❌ GDAL ")
	assert.Contains(t, out, "✅ Dev Tools ")
	assert.Contains(t, out, "pytest not installed (install with: uv sync --extra dev)")
}

func TestExecute_MissingPackageExitsOne(t *testing.T) {
	f := healthyInterpreter()
	delete(f.Modules, "seaborn")

	code, out, _ := run(t, f, "--config", writeConfig(t, ""))

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "❌ seaborn: NOT INSTALLED")
}

func TestExecute_UnhealthyRunKeepsStderrClean(t *testing.T) {
	f := healthyInterpreter()
	f.Info.Executable = "/usr/bin/python3"
	f.Info.Prefix = "/usr"
	f.SmokeMsg = "CUDA error: no kernel image is available for execution on the device"
	delete(f.Modules, "scipy")

	code, out, stderr := run(t, f, "--config", writeConfig(t, ""))

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "GPU compute test failed: CUDA error")
	assert.Contains(t, out, "❌ scipy: NOT INSTALLED")
	assert.Empty(t, stderr)
}

func TestExecute_SaveWritesJSON(t *testing.T) {
	savePath := filepath.Join(t.TempDir(), "out", "env.json")

	code, _, stderr := run(t, healthyInterpreter(), "--config", writeConfig(t, ""), "--save", savePath)
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "Report saved to")

	data, err := os.ReadFile(savePath)
	require.NoError(t, err)

	var doc struct {
		CriticalOK bool `json:"critical_ok"`
		ExitCode   int  `json:"exit_code"`
		Checks     []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.True(t, doc.CriticalOK)
	assert.Equal(t, 0, doc.ExitCode)
	require.Len(t, doc.Checks, 6)
	assert.Equal(t, "Data Mounts", doc.Checks[5].Name)
}

func TestExecute_LogLevelFlagEmitsEvents(t *testing.T) {
	code, _, stderr := run(t, healthyInterpreter(), "--config", writeConfig(t, ""), "--log-level", "info")

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, `"type":"suite.complete"`)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid log level", []string{"--log-level", "loud"}},
		{"unknown flag", []string{"--nope"}},
		{"missing config file", []string{"--config", "/nonexistent/envcheck.yaml"}},
		{"unexpected argument", []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.name == "invalid log level" {
				args = append([]string{"--config", writeConfig(t, "")}, args...)
			}
			code, _, stderr := run(t, healthyInterpreter(), args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestExecute_ConfigTest(t *testing.T) {
	code, out, _ := run(t, healthyInterpreter(), "config", "test", writeConfig(t, ""))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "✅ Configuration is VALID")
	assert.Contains(t, out, "Probe Timeout:      5s")

	bad := writeConfig(t, "gpu:\n  smoke_matrix_size: 20000\n")
	code, _, stderr := run(t, healthyInterpreter(), "config", "test", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Configuration validation FAILED")
}

func TestExecute_TUIFallsBackWithoutTerminal(t *testing.T) {
	code, out, _ := run(t, healthyInterpreter(), "--config", writeConfig(t, ""), "tui")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "ALL CRITICAL CHECKS PASSED")
}

func TestExecute_Version(t *testing.T) {
	code, out, _ := run(t, healthyInterpreter(), "version")

	assert.Equal(t, 0, code)
	assert.Equal(t, "envcheck version dev\n", out)
}
