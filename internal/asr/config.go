package asr

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ModelSizes lists the whisper model identifiers that can be requested.
var ModelSizes = []string{
	"tiny", "tiny.en", "base", "base.en", "small", "small.en",
	"medium", "medium.en", "large-v1", "large-v2", "large-v3",
	"distil-small.en", "distil-medium.en", "distil-large-v2", "distil-large-v3",
}

// ComputeTypes lists the supported inference precisions.
var ComputeTypes = []string{"float16", "int8_float16", "int8", "float32"}

// Config holds the configuration for the whisper recognizer
type Config struct {
	ModelsDir   string // Base directory holding downloaded models
	ModelSize   string // tiny, base, small, medium, large-v3, ...
	Device      string // cuda or cpu
	ComputeType string // float16, int8_float16, int8, float32
	Language    string // language code hint, empty for auto-detect
	BeamSize    int    // decoding beam width (1 = greedy)
	NumThreads  int    // number of threads for inference
	SampleRate  int    // audio sample rate (typically 16000)

	// Resolved model file paths, filled in by Resolve
	EncoderPath string
	DecoderPath string
	TokensPath  string
}

// NewConfig returns a configuration with the default model and decoding
// settings.
func NewConfig() *Config {
	return &Config{
		ModelsDir:   "models",
		ModelSize:   "medium",
		Device:      "cuda",
		ComputeType: "float16",
		BeamSize:    5,
		NumThreads:  4,
		SampleRate:  16000,
	}
}

// IsValidModelSize reports whether size is a known model identifier.
func IsValidModelSize(size string) bool {
	for _, s := range ModelSizes {
		if s == size {
			return true
		}
	}
	return false
}

// IsValidComputeType reports whether ct is a supported precision.
func IsValidComputeType(ct string) bool {
	for _, c := range ComputeTypes {
		if c == ct {
			return true
		}
	}
	return false
}

// Normalize validates the option set and applies the CPU precision rule:
// on CPU only int8 and float32 are usable, anything else is replaced with
// int8. It returns the effective compute type.
func (c *Config) Normalize() (string, error) {
	if !IsValidModelSize(c.ModelSize) {
		return "", fmt.Errorf("unknown model size %q (valid: %s)", c.ModelSize, strings.Join(ModelSizes, ", "))
	}
	if c.Device != "cuda" && c.Device != "cpu" {
		return "", fmt.Errorf("unknown device %q (valid: cuda, cpu)", c.Device)
	}
	if !IsValidComputeType(c.ComputeType) {
		return "", fmt.Errorf("unknown compute type %q (valid: %s)", c.ComputeType, strings.Join(ComputeTypes, ", "))
	}
	if c.BeamSize < 1 {
		return "", fmt.Errorf("beam size must be positive, got %d", c.BeamSize)
	}

	if c.Device == "cpu" && c.ComputeType != "int8" && c.ComputeType != "float32" {
		c.ComputeType = "int8"
	}
	return c.ComputeType, nil
}

// useInt8Files reports whether the quantized onnx exports should be
// preferred for the configured precision.
func (c *Config) useInt8Files() bool {
	return c.ComputeType == "int8" || c.ComputeType == "int8_float16"
}

// ModelDir returns the directory expected to hold the configured model,
// following the sherpa-onnx release naming.
func (c *Config) ModelDir() string {
	return filepath.Join(c.ModelsDir, "sherpa-onnx-whisper-"+c.ModelSize)
}

// Resolve locates the encoder, decoder and tokens files for the configured
// model size and precision. Quantized (.int8.onnx) exports are preferred
// for int8 compute types, full-precision exports otherwise, falling back
// to whichever variant is present.
func (c *Config) Resolve() error {
	modelDir := c.ModelDir()
	if _, err := os.Stat(modelDir); os.IsNotExist(err) {
		return fmt.Errorf("model directory not found: %s", modelDir)
	}

	encoderPath := findModelFile(modelDir, c.fileCandidates("encoder"))
	if encoderPath == "" {
		return fmt.Errorf("encoder model not found in %s", modelDir)
	}
	c.EncoderPath = encoderPath

	decoderPath := findModelFile(modelDir, c.fileCandidates("decoder"))
	if decoderPath == "" {
		return fmt.Errorf("decoder model not found in %s", modelDir)
	}
	c.DecoderPath = decoderPath

	tokensPath := findModelFile(modelDir, []string{
		c.ModelSize + "-tokens.txt",
		"tokens.txt",
	})
	if tokensPath == "" {
		return fmt.Errorf("tokens file not found in %s", modelDir)
	}
	c.TokensPath = tokensPath

	return nil
}

// fileCandidates builds the search order for an encoder or decoder file.
func (c *Config) fileCandidates(part string) []string {
	quantized := []string{
		fmt.Sprintf("%s-%s.int8.onnx", c.ModelSize, part),
		part + ".int8.onnx",
	}
	full := []string{
		fmt.Sprintf("%s-%s.onnx", c.ModelSize, part),
		part + ".onnx",
	}
	if c.useInt8Files() {
		return append(quantized, full...)
	}
	return append(full, quantized...)
}

// findModelFile searches for a model file in the given directory
// Returns the first matching file path or empty string if not found
func findModelFile(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DownloadHint returns the commands for fetching the configured model,
// shown when model files are missing.
func (c *Config) DownloadHint() string {
	name := "sherpa-onnx-whisper-" + c.ModelSize
	return fmt.Sprintf(
		"  curl -SL -O https://github.com/k2-fsa/sherpa-onnx/releases/download/asr-models/%s.tar.bz2\n"+
			"  tar xvf %s.tar.bz2 -C %s/\n", name, name, c.ModelsDir)
}
