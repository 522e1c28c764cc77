// Package cuda probes NVIDIA GPU availability through nvidia-smi, the
// same signal the transcriber's cuda device setting depends on.
package cuda

import (
	"fmt"
	"os/exec"
	"strings"
)

// GPU describes one device reported by nvidia-smi.
type GPU struct {
	Name          string
	DriverVersion string
	MemoryTotal   string
}

// Report is the outcome of a CUDA availability probe.
type Report struct {
	Available   bool
	CUDAVersion string // CUDA version advertised by the driver
	GPUs        []GPU
}

// Probe runs nvidia-smi and parses its output. A missing binary or a
// failing run means CUDA is not available; that is a valid report, not an
// error.
func Probe() *Report {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return &Report{}
	}

	query := exec.Command("nvidia-smi",
		"--query-gpu=name,driver_version,memory.total",
		"--format=csv,noheader")
	out, err := query.Output()
	if err != nil {
		return &Report{}
	}

	report := &Report{GPUs: ParseGPUQuery(string(out))}
	report.Available = len(report.GPUs) > 0

	if banner, err := exec.Command("nvidia-smi").Output(); err == nil {
		report.CUDAVersion = ParseCUDAVersion(string(banner))
	}
	return report
}

// ParseGPUQuery parses the CSV produced by
// nvidia-smi --query-gpu=name,driver_version,memory.total --format=csv,noheader.
func ParseGPUQuery(out string) []GPU {
	var gpus []GPU
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			continue
		}
		gpu := GPU{
			Name:          strings.TrimSpace(fields[0]),
			DriverVersion: strings.TrimSpace(fields[1]),
		}
		if len(fields) > 2 {
			gpu.MemoryTotal = strings.TrimSpace(fields[2])
		}
		if gpu.Name == "" {
			continue
		}
		gpus = append(gpus, gpu)
	}
	return gpus
}

// ParseCUDAVersion extracts the CUDA version from the nvidia-smi banner
// ("... CUDA Version: 12.4 ..."). Returns "" when absent.
func ParseCUDAVersion(banner string) string {
	const marker = "CUDA Version:"
	idx := strings.Index(banner, marker)
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(banner[idx+len(marker):])
	if end := strings.IndexAny(rest, " |\n"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// Summary renders the report in a one-value-per-line form.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CUDA available: %t\n", r.Available)
	if !r.Available {
		b.WriteString("CUDA is NOT available. Transcription will use the CPU.\n")
		return b.String()
	}
	if r.CUDAVersion != "" {
		fmt.Fprintf(&b, "CUDA version: %s\n", r.CUDAVersion)
	}
	fmt.Fprintf(&b, "Number of GPUs: %d\n", len(r.GPUs))
	first := r.GPUs[0]
	fmt.Fprintf(&b, "Current GPU name: %s\n", first.Name)
	if first.DriverVersion != "" {
		fmt.Fprintf(&b, "Driver version: %s\n", first.DriverVersion)
	}
	if first.MemoryTotal != "" {
		fmt.Fprintf(&b, "GPU memory: %s\n", first.MemoryTotal)
	}
	return b.String()
}
