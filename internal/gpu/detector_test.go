//go:build cuda

package gpu

import (
	"testing"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const mockDriverVersion = "535.104.05"

func TestDetector_DetectGPUs_Success(t *testing.T) {
	mock := NewMockNVML()
	mock.DriverVersion = mockDriverVersion
	mock.CudaVersion = 12020
	mock.DeviceCount = 2
	mock.Devices = []MockDevice{
		{Name: "NVIDIA GeForce RTX 4090", MemoryTotal: 24 * 1024 * 1024 * 1024, MemoryInfoReturn: nvml.SUCCESS},
		{Name: "NVIDIA GeForce RTX 3080", MemoryTotal: 10 * 1024 * 1024 * 1024, MemoryInfoReturn: nvml.SUCCESS},
	}

	report := NewDetectorWithNVML(mock, nil).DetectGPUs()

	if !report.DriverOK {
		t.Fatalf("Expected DriverOK, got error %q", report.ErrorMessage)
	}
	if report.Source != SourceNVML {
		t.Errorf("Expected source %s, got %s", SourceNVML, report.Source)
	}
	if report.DriverVersion != mockDriverVersion {
		t.Errorf("Expected driver %s, got %s", mockDriverVersion, report.DriverVersion)
	}
	if report.CUDAVersionString() != "12.2" {
		t.Errorf("Expected CUDA 12.2, got %s", report.CUDAVersionString())
	}
	if len(report.GPUs) != 2 {
		t.Fatalf("Expected 2 GPUs, got %d", len(report.GPUs))
	}
	if report.GPUs[0].MemoryGB() != 24 {
		t.Errorf("Expected 24 GB, got %.1f", report.GPUs[0].MemoryGB())
	}
	if !mock.ShutdownCalled {
		t.Error("Expected NVML shutdown after detection")
	}
}

func TestDetector_DetectGPUs_InitFailure(t *testing.T) {
	mock := NewMockNVML()
	mock.InitReturn = nvml.ERROR_LIBRARY_NOT_FOUND

	report := NewDetectorWithNVML(mock, nil).DetectGPUs()

	if report.DriverOK {
		t.Error("Expected DriverOK=false when NVML init fails")
	}
	if report.ErrorMessage == "" {
		t.Error("Expected error message")
	}
	if len(report.GPUs) != 0 {
		t.Errorf("Expected no GPUs, got %d", len(report.GPUs))
	}
}

type staticProber struct{ report GPUReport }

func (s staticProber) DetectGPUs() GPUReport { return s.report }

func TestDetector_DetectGPUs_FallsBackToSMI(t *testing.T) {
	mock := NewMockNVML()
	mock.InitReturn = nvml.ERROR_LIBRARY_NOT_FOUND

	d := NewDetectorWithNVML(mock, nil)
	d.fallback = staticProber{report: GPUReport{Source: SourceSMI, DriverOK: true, GPUs: []GPUInfo{{Name: "A100"}}}}

	report := d.DetectGPUs()
	if report.Source != SourceSMI || len(report.GPUs) != 1 {
		t.Errorf("Expected nvidia-smi fallback report, got %+v", report)
	}
}

func TestDetector_DetectGPUs_SkipsBadHandles(t *testing.T) {
	mock := NewMockNVML()
	mock.DeviceCount = 2
	mock.Devices = []MockDevice{{Name: "only one", MemoryInfoReturn: nvml.SUCCESS}}

	report := NewDetectorWithNVML(mock, nil).DetectGPUs()

	if len(report.GPUs) != 1 {
		t.Errorf("Expected invalid handle to be skipped, got %d GPUs", len(report.GPUs))
	}
}
