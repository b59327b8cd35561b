package gpucheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envcheck/internal/check"
	"envcheck/internal/gpu"
	"envcheck/internal/python"
	"envcheck/internal/python/pythontest"
)

type staticDriver struct{ report gpu.GPUReport }

func (s staticDriver) DetectGPUs() gpu.GPUReport { return s.report }

func cudaInterpreter() *pythontest.Interpreter {
	f := pythontest.New().WithModules(map[string]string{"torch": "2.3.1+cu121"})
	f.CUDA = python.CUDAInfo{
		Available:    true,
		CUDAVersion:  "12.1",
		CuDNNVersion: "8902",
		Devices: []python.Device{
			{Index: 0, Name: "NVIDIA RTX A6000", TotalMemory: 51527024640},
			{Index: 1, Name: "NVIDIA RTX A6000", TotalMemory: 51527024640},
		},
	}
	return f
}

func newCheck(f *pythontest.Interpreter, driver gpu.Prober) *Check {
	return &Check{
		Probe:      python.NewProbe(f, "", time.Second, nil),
		Driver:     driver,
		MatrixSize: 1000,
	}
}

func texts(r check.Result, kind check.LineKind) []string {
	var out []string
	for _, l := range r.Lines {
		if l.Kind == kind {
			out = append(out, l.Text)
		}
	}
	return out
}

func TestCheck_Passes(t *testing.T) {
	driver := staticDriver{report: gpu.GPUReport{DriverOK: true, DriverVersion: "550.54.14"}}

	result := newCheck(cudaInterpreter(), driver).Run(context.Background())

	require.True(t, result.Passed)
	assert.Equal(t, []string{
		"CUDA version: 12.1",
		"cuDNN version: 8902",
		"GPU count: 2",
		"GPU compute test passed",
	}, texts(result, check.KindOK))
	assert.Equal(t, []string{
		"GPU 0: NVIDIA RTX A6000 (48.0 GB)",
		"GPU 1: NVIDIA RTX A6000 (48.0 GB)",
	}, texts(result, check.KindDetail))
	assert.Equal(t, []string{"Driver version: 550.54.14"}, texts(result, check.KindText))
	assert.Equal(t, "2.3.1+cu121", result.Facts["torch.version"])
}

func TestCheck_DriverLineCarriesCUDADriverVersion(t *testing.T) {
	driver := staticDriver{report: gpu.GPUReport{DriverOK: true, DriverVersion: "550.54.14", CUDAVersion: 12040}}

	result := newCheck(cudaInterpreter(), driver).Run(context.Background())

	require.True(t, result.Passed)
	assert.Equal(t, []string{"Driver version: 550.54.14 (CUDA driver 12.4)"}, texts(result, check.KindText))
}

func TestCheck_TorchMissing(t *testing.T) {
	result := newCheck(pythontest.New(), nil).Run(context.Background())

	assert.False(t, result.Passed)
	assert.Equal(t, []string{"PyTorch not installed"}, texts(result, check.KindFail))
}

func TestCheck_CUDAUnavailable(t *testing.T) {
	f := cudaInterpreter()
	f.CUDA = python.CUDAInfo{}

	result := newCheck(f, nil).Run(context.Background())

	assert.False(t, result.Passed)
	assert.ErrorIs(t, result.Err, ErrCUDAUnavailable)
	assert.Equal(t, []string{"CUDA not available"}, texts(result, check.KindFail))
	assert.Equal(t, []string{
		"Check: nvidia-smi in terminal",
		"Check: GPU passthrough in devcontainer.json",
	}, texts(result, check.KindHint))
	assert.NotContains(t, f.Runs(), "smoke")
}

func TestCheck_CUDAUnavailableButDriverSeesGPUs(t *testing.T) {
	f := cudaInterpreter()
	f.CUDA = python.CUDAInfo{}
	driver := staticDriver{report: gpu.GPUReport{
		DriverOK:      true,
		DriverVersion: "535.104.05",
		GPUs:          []gpu.GPUInfo{{Name: "Tesla T4"}},
	}}

	result := newCheck(f, driver).Run(context.Background())

	hints := texts(result, check.KindHint)
	require.Len(t, hints, 3)
	assert.Contains(t, hints[0], "Driver 535.104.05 sees 1 GPU(s)")
}

func TestCheck_SmokeTestFailures(t *testing.T) {
	tests := []struct {
		name     string
		smokeMsg string
		smokeErr error
		wantLine string
	}{
		{
			name:     "exception during matmul",
			smokeMsg: "CUDA out of memory. Tried to allocate 4.00 MiB",
			wantLine: "GPU compute test failed: CUDA out of memory. Tried to allocate 4.00 MiB",
		},
		{
			name:     "interpreter crash",
			smokeErr: errors.New("signal: segmentation fault"),
			wantLine: "GPU compute test failed: smoke probe failed: signal: segmentation fault: Segmentation fault",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := cudaInterpreter()
			f.SmokeMsg = tt.smokeMsg
			f.SmokeErr = tt.smokeErr

			result := newCheck(f, nil).Run(context.Background())

			assert.False(t, result.Passed)
			require.Error(t, result.Err)
			assert.Equal(t, []string{tt.wantLine}, texts(result, check.KindFail))
		})
	}
}

func TestCheck_CUDAProbeError(t *testing.T) {
	f := cudaInterpreter()
	f.CUDAErr = errors.New("exit status 1")

	result := newCheck(f, nil).Run(context.Background())

	assert.False(t, result.Passed)
	fails := texts(result, check.KindFail)
	require.Len(t, fails, 1)
	assert.Contains(t, fails[0], "CUDA query failed")
}
