//go:build !cuda

package gpu

import (
	"time"

	"envcheck/internal/cmdexec"
	"envcheck/internal/logging"
)

// Detector reads GPU inventory through nvidia-smi when built without the cuda tag.
type Detector struct {
	smi    *SMIDetector
	logger *logging.Logger
}

// NewDetector creates a detector backed by nvidia-smi.
func NewDetector(logger *logging.Logger, runner cmdexec.Runner, timeout time.Duration) *Detector {
	return &Detector{
		smi:    NewSMIDetector(runner, timeout, logger),
		logger: logger,
	}
}

// DetectGPUs delegates to nvidia-smi.
func (d *Detector) DetectGPUs() GPUReport {
	d.logger.Debug("gpu.detect.smi", "NVML not compiled in (build with -tags cuda), using nvidia-smi", nil)
	return d.smi.DetectGPUs()
}
