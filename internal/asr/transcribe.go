package asr

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// chunkSec is the window fed to the model when VAD is off. Whisper handles
// up to 30 seconds natively.
const chunkSec = 30

// SegmentCallback is invoked for every segment the engine yields, in
// arrival order. kept reports whether the accumulator retained the text
// (false for blank segments and detected repetition loops).
type SegmentCallback func(seg Segment, kept bool)

// Options control a single transcription run.
type Options struct {
	VADFilter bool   // segment by voice activity instead of fixed windows
	VADModel  string // path to silero_vad.onnx, required when VADFilter is set

	OnSegment SegmentCallback // invoked per segment, in arrival order
}

// Transcribe runs a full transcription of the audio file: pre-flight
// check, model load, segment consumption through the loop filter. A nil
// error with an empty Result.Text means the engine produced no speech; a
// non-nil error means the run failed and no result is available.
func Transcribe(ctx context.Context, config *Config, audioPath string, opts Options) (*Result, error) {
	// Pre-flight: never load the model for a path that does not exist.
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	if err := config.Resolve(); err != nil {
		return nil, err
	}

	recognizer, err := NewRecognizer(config)
	if err != nil {
		return nil, err
	}
	defer recognizer.Close()

	return recognizer.TranscribeFile(ctx, audioPath, opts)
}

// TranscribeFile consumes the audio file with an already-loaded model.
func (r *Recognizer) TranscribeFile(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	start := time.Now()

	// Duration is advisory (progress and reporting); a failed probe does
	// not abort the run.
	duration, _ := GetAudioDuration(audioPath)

	acc := &Accumulator{}
	segments := 0

	emit := func(seg Segment) {
		segments++
		kept := acc.Add(seg.Text)
		if opts.OnSegment != nil {
			opts.OnSegment(seg, kept)
		}
	}

	var err error
	if opts.VADFilter {
		err = r.streamWithVAD(ctx, audioPath, DefaultVADConfig(opts.VADModel), emit)
	} else {
		err = r.streamChunks(ctx, audioPath, emit)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("transcription interrupted: %w", ctx.Err())
		}
		return nil, err
	}

	language := r.config.Language
	if language == "" {
		language = "auto"
	}

	return &Result{
		Text:     acc.Text(),
		Language: language,
		Duration: duration,
		Elapsed:  time.Since(start).Seconds(),
		Segments: segments,
		Skipped:  acc.Skipped(),
	}, nil
}

// streamChunks decodes the audio in fixed windows, one segment per window.
// An ffmpeg failure surfaces as an error, never as a silently empty run.
func (r *Recognizer) streamChunks(ctx context.Context, audioPath string, emit func(Segment)) error {
	pipe, err := startPCMPipe(ctx, audioPath, r.config.SampleRate)
	if err != nil {
		return err
	}

	readErr := r.consumeChunks(ctx, bufio.NewReader(pipe.stdout), emit)
	waitErr := pipe.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if readErr != nil {
		return readErr
	}
	return waitErr
}

// consumeChunks reads fixed PCM windows from reader and decodes each into
// one segment. Returns nil at end of stream, the read error otherwise.
func (r *Recognizer) consumeChunks(ctx context.Context, reader io.Reader, emit func(Segment)) error {
	chunkBytes := r.config.SampleRate * chunkSec * 2

	var offset float64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		buffer := make([]byte, chunkBytes)
		n, readErr := io.ReadFull(reader, buffer)
		if n > 0 {
			samples := bytesToFloat32(buffer[:n])
			end := offset + float64(len(samples))/float64(r.config.SampleRate)
			emit(Segment{
				Start: offset,
				End:   end,
				Text:  r.decodeSamples(samples),
			})
			offset = end
		}

		switch readErr {
		case nil:
		case io.EOF, io.ErrUnexpectedEOF:
			return nil
		default:
			return fmt.Errorf("failed to read audio stream: %w", readErr)
		}
	}
}
