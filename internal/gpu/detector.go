//go:build cuda

package gpu

import (
	"fmt"
	"time"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"envcheck/internal/cmdexec"
	"envcheck/internal/logging"
)

// Detector reads GPU inventory through NVML, falling back to nvidia-smi when
// the NVML library cannot be loaded
type Detector struct {
	nvml     NVMLInterface
	fallback Prober
	logger   *logging.Logger
}

// NewDetector creates a detector using the system NVML library
func NewDetector(logger *logging.Logger, runner cmdexec.Runner, timeout time.Duration) *Detector {
	return &Detector{
		nvml:     NewRealNVML(),
		fallback: NewSMIDetector(runner, timeout, logger),
		logger:   logger,
	}
}

// NewDetectorWithNVML creates a detector with a custom NVML interface and no fallback (for testing)
func NewDetectorWithNVML(nvmlInterface NVMLInterface, logger *logging.Logger) *Detector {
	return &Detector{
		nvml:   nvmlInterface,
		logger: logger,
	}
}

// DetectGPUs performs GPU detection and returns a report
func (d *Detector) DetectGPUs() GPUReport {
	d.logger.Debug("gpu.detect.start", "Starting NVML GPU detection", nil)

	report := GPUReport{
		Source: SourceNVML,
		GPUs:   make([]GPUInfo, 0),
	}

	ret := d.nvml.Init()
	if ret != nvml.SUCCESS {
		report.ErrorMessage = fmt.Sprintf("Failed to initialize NVML: %v", nvml.ErrorString(ret))
		d.logger.Info("gpu.nvml.init.failed", "NVML initialization failed", map[string]interface{}{
			"error": report.ErrorMessage,
		})
		if d.fallback != nil {
			if fb := d.fallback.DetectGPUs(); fb.DriverOK {
				return fb
			}
		}
		return report
	}
	defer d.nvml.Shutdown()

	report.DriverOK = true

	if driverVersion, ret := d.nvml.SystemGetDriverVersion(); ret == nvml.SUCCESS {
		report.DriverVersion = driverVersion
	} else {
		d.logger.Info("gpu.driver.version.failed", "Failed to get driver version", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	}

	if cudaVersion, ret := d.nvml.SystemGetCudaDriverVersion(); ret == nvml.SUCCESS {
		report.CUDAVersion = cudaVersion
	} else {
		d.logger.Info("gpu.cuda.version.failed", "Failed to get CUDA driver version", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	}

	count, ret := d.nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		report.ErrorMessage = fmt.Sprintf("Failed to get device count: %v", nvml.ErrorString(ret))
		d.logger.Info("gpu.device.count.failed", "Failed to get GPU count", map[string]interface{}{
			"error": report.ErrorMessage,
		})
		return report
	}

	for i := 0; i < count; i++ {
		device, ret := d.nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			d.logger.Info("gpu.device.handle.failed", "Failed to get device handle", map[string]interface{}{
				"index": i,
				"error": nvml.ErrorString(ret),
			})
			continue
		}

		info := GPUInfo{Index: i}
		if name, ret := device.GetName(); ret == nvml.SUCCESS {
			info.Name = name
		}
		if mem, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
			info.MemoryBytes = mem.Total
		}

		report.GPUs = append(report.GPUs, info)
		d.logger.Debug("gpu.device.detected", "GPU device detected", map[string]interface{}{
			"index":        i,
			"name":         info.Name,
			"memory_bytes": info.MemoryBytes,
		})
	}

	return report
}
