package gpu

import "fmt"

// Report sources
const (
	SourceNVML = "nvml"
	SourceSMI  = "nvidia-smi"
)

// GPUInfo represents information about a single GPU as the driver sees it
type GPUInfo struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	MemoryBytes uint64 `json:"memory_bytes"`
}

// MemoryGB returns total memory in GiB
func (g GPUInfo) MemoryGB() float64 {
	return float64(g.MemoryBytes) / (1024 * 1024 * 1024)
}

// GPUReport represents the driver-level detection result
type GPUReport struct {
	Source        string    `json:"source"`
	DriverOK      bool      `json:"driver_ok"`
	DriverVersion string    `json:"driver_version,omitempty"`
	CUDAVersion   int       `json:"cuda_version,omitempty"` // NVML encoding, e.g. 12020
	GPUs          []GPUInfo `json:"gpus"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}

// CUDAVersionString renders the NVML integer form (12020) as "12.2".
func (r GPUReport) CUDAVersionString() string {
	if r.CUDAVersion <= 0 {
		return ""
	}
	return fmt.Sprintf("%d.%d", r.CUDAVersion/1000, (r.CUDAVersion%1000)/10)
}

// Prober is implemented by the NVML and nvidia-smi detectors
type Prober interface {
	DetectGPUs() GPUReport
}
