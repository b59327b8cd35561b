// Package gpucheck verifies that PyTorch can see and use a CUDA device.
package gpucheck

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"envcheck/internal/check"
	"envcheck/internal/gpu"
	"envcheck/internal/logging"
	"envcheck/internal/python"
)

// Title is the report section heading.
const Title = "🎮 GPU / CUDA"

// ErrCUDAUnavailable is the failure cause when torch reports no CUDA.
var ErrCUDAUnavailable = errors.New("CUDA not available")

// Probe is the part of python.Probe this check needs.
type Probe interface {
	Module(ctx context.Context, name string) (python.Module, error)
	CUDA(ctx context.Context) (python.CUDAInfo, error)
	SmokeTest(ctx context.Context, size int) error
}

// Check runs the torch CUDA probe and a matmul smoke test. Driver is optional
// and only adds the driver version and a hint when torch sees no CUDA.
type Check struct {
	Probe      Probe
	Driver     gpu.Prober
	MatrixSize int
	Logger     *logging.Logger
}

// Name returns the check name.
func (c *Check) Name() string { return check.NameGPU }

// Title returns the section heading.
func (c *Check) Title() string { return Title }

// Run executes the GPU check.
func (c *Check) Run(ctx context.Context) check.Result {
	result := check.NewResult(c.Name(), c.Title())

	torch, err := c.Probe.Module(ctx, "torch")
	if err != nil {
		return result.Failf("Could not probe PyTorch: %v", err)
	}
	if !torch.OK {
		return result.Failf("PyTorch not installed")
	}
	result.Fact("torch.version", torch.DisplayVersion())

	cuda, err := c.Probe.CUDA(ctx)
	if err != nil {
		return result.Failf("CUDA query failed: %v", err)
	}

	var driver gpu.GPUReport
	if c.Driver != nil {
		driver = c.Driver.DetectGPUs()
	}

	if !cuda.Available {
		result.Errorf("CUDA not available")
		if driver.DriverOK && len(driver.GPUs) > 0 {
			result.Hintf("Driver %s sees %d GPU(s) but PyTorch has no CUDA: check for a CPU-only torch build",
				driver.DriverVersion, len(driver.GPUs))
		}
		result.Hintf("Check: nvidia-smi in terminal")
		result.Hintf("Check: GPU passthrough in devcontainer.json")
		return result.Fail(ErrCUDAUnavailable)
	}

	result.Okf("CUDA version: %s", orNone(cuda.CUDAVersion))
	result.Okf("cuDNN version: %s", orNone(cuda.CuDNNVersion))
	result.Okf("GPU count: %d", len(cuda.Devices))
	if driver.DriverOK && driver.DriverVersion != "" {
		if cudaDriver := driver.CUDAVersionString(); cudaDriver != "" {
			result.Textf("Driver version: %s (CUDA driver %s)", driver.DriverVersion, cudaDriver)
		} else {
			result.Textf("Driver version: %s", driver.DriverVersion)
		}
		result.Fact("gpu.driver", driver.DriverVersion)
	}
	for _, d := range cuda.Devices {
		result.Detailf("GPU %d: %s (%.1f GB)", d.Index, d.Name, d.MemoryGB())
		result.Fact("gpu."+strconv.Itoa(d.Index), d.Name)
	}
	result.Fact("cuda.version", cuda.CUDAVersion)
	result.Fact("cudnn.version", cuda.CuDNNVersion)

	if err := c.Probe.SmokeTest(ctx, c.MatrixSize); err != nil {
		c.Logger.Info("check.gpu.smoke_failed", "GPU compute test failed", map[string]interface{}{
			"size":  c.MatrixSize,
			"error": err.Error(),
		})
		result.Errorf("GPU compute test failed: %v", err)
		return result.Fail(fmt.Errorf("compute test: %w", err))
	}
	result.Okf("GPU compute test passed")
	return result.Pass()
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
