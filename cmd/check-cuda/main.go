// check-cuda reports whether CUDA is usable for transcription: GPU
// presence, CUDA/driver versions and device names as seen by nvidia-smi.
package main

import (
	"fmt"
	"os"

	"scribe/internal/cuda"
)

func main() {
	report := cuda.Probe()
	fmt.Print(report.Summary())

	if !report.Available {
		fmt.Fprintln(os.Stderr, "Hint: pass --device cpu to transcribe, or install the NVIDIA driver.")
	}
}
