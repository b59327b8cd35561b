package gpu

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"envcheck/internal/cmdexec"
	"envcheck/internal/logging"
)

var smiQueryArgs = []string{
	"--query-gpu=index,name,memory.total,driver_version",
	"--format=csv,noheader,nounits",
}

// SMIDetector reads GPU inventory from nvidia-smi. It needs no cgo and is the
// detector of builds without the cuda tag.
type SMIDetector struct {
	runner  cmdexec.Runner
	timeout time.Duration
	logger  *logging.Logger
}

// NewSMIDetector creates a detector backed by nvidia-smi
func NewSMIDetector(runner cmdexec.Runner, timeout time.Duration, logger *logging.Logger) *SMIDetector {
	return &SMIDetector{
		runner:  runner,
		timeout: timeout,
		logger:  logger,
	}
}

// DetectGPUs runs nvidia-smi and parses its CSV output
func (d *SMIDetector) DetectGPUs() GPUReport {
	report := GPUReport{
		Source: SourceSMI,
		GPUs:   make([]GPUInfo, 0),
	}

	if _, err := d.runner.LookPath("nvidia-smi"); err != nil {
		report.ErrorMessage = "nvidia-smi not found in PATH"
		d.logger.Debug("gpu.smi.missing", "nvidia-smi not available", nil)
		return report
	}

	stdout, stderr, err := cmdexec.RunWithTimeout(d.runner, d.timeout, "nvidia-smi", smiQueryArgs...)
	if err != nil {
		report.ErrorMessage = fmt.Sprintf("nvidia-smi failed: %s", cmdexec.Describe(err, stderr))
		d.logger.Info("gpu.smi.failed", "nvidia-smi query failed", map[string]interface{}{
			"error": report.ErrorMessage,
		})
		return report
	}

	gpus, driver, err := parseSMIOutput(stdout)
	if err != nil {
		report.ErrorMessage = fmt.Sprintf("failed to parse nvidia-smi output: %v", err)
		d.logger.Info("gpu.smi.parse_failed", "Could not parse nvidia-smi output", map[string]interface{}{
			"error": err.Error(),
		})
		return report
	}

	report.DriverOK = true
	report.DriverVersion = driver
	report.GPUs = gpus

	d.logger.Info("gpu.smi.detected", "GPU inventory read from nvidia-smi", map[string]interface{}{
		"count":  len(gpus),
		"driver": driver,
	})
	return report
}

// parseSMIOutput parses "index, name, memory MiB, driver" rows.
func parseSMIOutput(out string) ([]GPUInfo, string, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(out)))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 4

	records, err := reader.ReadAll()
	if err != nil {
		return nil, "", err
	}

	gpus := make([]GPUInfo, 0, len(records))
	driver := ""
	for _, rec := range records {
		index, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, "", fmt.Errorf("invalid index %q", rec[0])
		}
		memMiB, err := strconv.ParseUint(strings.TrimSpace(rec[2]), 10, 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid memory %q", rec[2])
		}
		gpus = append(gpus, GPUInfo{
			Index:       index,
			Name:        strings.TrimSpace(rec[1]),
			MemoryBytes: memMiB * 1024 * 1024,
		})
		if driver == "" {
			driver = strings.TrimSpace(rec[3])
		}
	}
	return gpus, driver, nil
}
