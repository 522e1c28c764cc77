package asr

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// VADConfig holds configuration for Voice Activity Detection
type VADConfig struct {
	ModelPath          string  // Path to silero_vad.onnx
	Threshold          float32 // Speech detection threshold (0-1)
	MinSpeechDuration  float32 // Minimum speech duration in seconds
	MinSilenceDuration float32 // Minimum silence duration to split in seconds
}

// DefaultVADConfig returns the VAD thresholds used for long-file
// transcription: a second of silence splits segments so the decoder sees
// natural sentence boundaries.
func DefaultVADConfig(modelPath string) *VADConfig {
	return &VADConfig{
		ModelPath:          modelPath,
		Threshold:          0.5,
		MinSpeechDuration:  0.25,
		MinSilenceDuration: 1.0,
	}
}

// streamWithVAD decodes the audio through Silero VAD, transcribes each
// detected speech span and emits it as one segment. Silence never reaches
// the model.
func (r *Recognizer) streamWithVAD(ctx context.Context, inputPath string, vadConfig *VADConfig, emit func(Segment)) error {
	if _, err := os.Stat(vadConfig.ModelPath); os.IsNotExist(err) {
		return fmt.Errorf("VAD model not found: %s", vadConfig.ModelPath)
	}

	vadModelConfig := sherpa.VadModelConfig{
		SileroVad: sherpa.SileroVadModelConfig{
			Model:              vadConfig.ModelPath,
			Threshold:          vadConfig.Threshold,
			MinSilenceDuration: vadConfig.MinSilenceDuration,
			MinSpeechDuration:  vadConfig.MinSpeechDuration,
			WindowSize:         512,
		},
		SampleRate: r.config.SampleRate,
		NumThreads: 1,
		Debug:      0,
	}

	vad := sherpa.NewVoiceActivityDetector(&vadModelConfig, 30) // 30 seconds buffer
	if vad == nil {
		return fmt.Errorf("failed to create VAD")
	}
	defer sherpa.DeleteVoiceActivityDetector(vad)

	pipe, err := startPCMPipe(ctx, inputPath, r.config.SampleRate)
	if err != nil {
		return err
	}

	drain := func() {
		for !vad.IsEmpty() {
			span := vad.Front()
			vad.Pop()

			start := float64(span.Start) / float64(r.config.SampleRate)
			end := float64(span.Start+len(span.Samples)) / float64(r.config.SampleRate)
			emit(Segment{
				Start: start,
				End:   end,
				Text:  r.decodeSamples(span.Samples),
			})
		}
	}

	reader := bufio.NewReader(pipe.stdout)
	windowBytes := 512 * 2 // VAD window, 16-bit samples

	for {
		if err := ctx.Err(); err != nil {
			pipe.Wait()
			return err
		}

		buffer := make([]byte, windowBytes)
		n, readErr := io.ReadFull(reader, buffer)
		if n == 0 {
			break
		}

		vad.AcceptWaveform(bytesToFloat32(buffer[:n]))
		drain()

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			pipe.Wait()
			return fmt.Errorf("failed to read audio stream: %w", readErr)
		}
	}

	if err := ctx.Err(); err != nil {
		pipe.Wait()
		return err
	}
	if err := pipe.Wait(); err != nil {
		return err
	}

	vad.Flush()
	drain()

	return nil
}
