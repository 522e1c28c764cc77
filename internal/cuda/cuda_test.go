package cuda

import (
	"strings"
	"testing"
)

func TestParseGPUQuery(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []GPU
	}{
		{
			name: "single gpu",
			out:  "NVIDIA GeForce RTX 3090, 550.54.14, 24576 MiB\n",
			want: []GPU{{Name: "NVIDIA GeForce RTX 3090", DriverVersion: "550.54.14", MemoryTotal: "24576 MiB"}},
		},
		{
			name: "two gpus",
			out: "NVIDIA A100-SXM4-40GB, 535.129.03, 40960 MiB\n" +
				"NVIDIA A100-SXM4-40GB, 535.129.03, 40960 MiB\n",
			want: []GPU{
				{Name: "NVIDIA A100-SXM4-40GB", DriverVersion: "535.129.03", MemoryTotal: "40960 MiB"},
				{Name: "NVIDIA A100-SXM4-40GB", DriverVersion: "535.129.03", MemoryTotal: "40960 MiB"},
			},
		},
		{
			name: "empty output",
			out:  "\n",
			want: nil,
		},
		{
			name: "missing memory column",
			out:  "NVIDIA T4, 470.42.01\n",
			want: []GPU{{Name: "NVIDIA T4", DriverVersion: "470.42.01"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGPUQuery(tt.out)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d GPUs, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("gpu[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseCUDAVersion(t *testing.T) {
	banner := `+-----------------------------------------------------------------------------+
| NVIDIA-SMI 550.54.14    Driver Version: 550.54.14    CUDA Version: 12.4     |
|-------------------------------+----------------------+----------------------+`

	if got := ParseCUDAVersion(banner); got != "12.4" {
		t.Errorf("ParseCUDAVersion() = %q, want %q", got, "12.4")
	}

	if got := ParseCUDAVersion("no marker here"); got != "" {
		t.Errorf("ParseCUDAVersion() = %q, want empty", got)
	}
}

func TestSummary(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		report := &Report{}
		summary := report.Summary()
		if !strings.Contains(summary, "CUDA available: false") {
			t.Errorf("summary missing availability line: %s", summary)
		}
		if !strings.Contains(summary, "CPU") {
			t.Errorf("summary missing CPU fallback note: %s", summary)
		}
	})

	t.Run("available", func(t *testing.T) {
		report := &Report{
			Available:   true,
			CUDAVersion: "12.4",
			GPUs: []GPU{
				{Name: "NVIDIA GeForce RTX 3090", DriverVersion: "550.54.14", MemoryTotal: "24576 MiB"},
			},
		}
		summary := report.Summary()
		for _, want := range []string{
			"CUDA available: true",
			"CUDA version: 12.4",
			"Number of GPUs: 1",
			"NVIDIA GeForce RTX 3090",
		} {
			if !strings.Contains(summary, want) {
				t.Errorf("summary missing %q:\n%s", want, summary)
			}
		}
	})
}
