package asr

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

// SupportedFormats lists audio formats ffmpeg is expected to decode here.
var SupportedFormats = []string{".mp3", ".m4a", ".aac", ".ogg", ".flac", ".wav", ".webm", ".opus"}

// IsSupportedFormat checks if the file extension is a supported audio format
func IsSupportedFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range SupportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// pcmPipe is a running ffmpeg decode streaming 16-bit mono PCM on stdout.
// Diagnostics are buffered so a failed decode can be reported with
// ffmpeg's own message.
type pcmPipe struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
}

// startPCMPipe launches ffmpeg decoding inputPath to 16-bit mono PCM at
// the given sample rate, streamed on stdout. The command is bound to ctx
// so cancellation kills the decode.
func startPCMPipe(ctx context.Context, inputPath string, sampleRate int) (*pcmPipe, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: please install ffmpeg to decode audio files")
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	)

	pipe := &pcmPipe{cmd: cmd}
	cmd.Stderr = &pipe.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	pipe.stdout = stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return pipe, nil
}

// Wait reaps ffmpeg and returns its failure, if any, with the captured
// diagnostics attached.
func (p *pcmPipe) Wait() error {
	err := p.cmd.Wait()
	if err == nil {
		return nil
	}
	if msg := strings.TrimSpace(p.stderr.String()); msg != "" {
		return fmt.Errorf("ffmpeg decode failed: %s", msg)
	}
	return fmt.Errorf("ffmpeg decode failed: %w", err)
}

// GetAudioDuration returns the duration of an audio file in seconds
func GetAudioDuration(inputPath string) (float64, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0, fmt.Errorf("ffprobe not found: please install ffmpeg")
	}

	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		inputPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to get audio duration: %w", err)
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(output)), "%f", &duration)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// bytesToFloat32 converts 16-bit PCM bytes to float32 samples
func bytesToFloat32(data []byte) []float32 {
	samples := make([]float32, len(data)/2)
	for i := 0; i < len(samples); i++ {
		sample := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(sample) / 32768.0
	}
	return samples
}
