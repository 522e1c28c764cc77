package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"scribe/internal/asr"
	"scribe/internal/history"
	"scribe/internal/ingest"
	"scribe/internal/writer"

	"github.com/joho/godotenv"
)

const previewLength = 200

func main() {
	// Load .env if present; environment overrides built-in defaults.
	_ = godotenv.Load()

	var (
		modelSize    = flag.String("model_size", "medium", "Whisper model size (tiny..large-v3, distil variants)")
		language     = flag.String("language", "", "Language code of the audio (e.g. 'ru', 'en'). Auto-detect when empty")
		device       = flag.String("device", "cuda", "Compute device: cuda or cpu")
		computeType  = flag.String("compute_type", "float16", "Inference precision: float16, int8_float16, int8, float32")
		beamSize     = flag.Int("beam_size", 5, "Beam width for decoding. 1-3 recommended for long files")
		vadFilter    = flag.Bool("vad_filter", false, "Use VAD to skip silence (recommended for long files)")
		outputFile   = flag.String("output_file", "", "Output text file (default: <input_basename>_transcribed_fw.txt)")
		showFullText = flag.Bool("show_full_text", false, "Print the full text instead of a 200-character preview")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <audio file or YouTube URL>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s lecture.mp3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --model_size small --device cpu lecture.mp3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --vad_filter --beam_size 3 https://youtu.be/xxxx\n", os.Args[0])
	}

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: audio file is required\n\n")
		flag.Usage()
		os.Exit(1)
	}
	input := flag.Arg(0)

	config := asr.NewConfig()
	config.ModelSize = *modelSize
	config.Device = *device
	config.ComputeType = *computeType
	config.Language = *language
	config.BeamSize = *beamSize
	if dir := os.Getenv("SCRIBE_MODEL_DIR"); dir != "" {
		config.ModelsDir = dir
	}

	requested := config.ComputeType
	effective, err := config.Normalize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if effective != requested {
		fmt.Fprintf(os.Stderr, "Compute type %q is not usable on CPU. Using %q.\n", requested, effective)
	}

	vadModel := os.Getenv("SCRIBE_VAD_MODEL")
	if vadModel == "" {
		vadModel = "models/silero_vad.onnx"
	}

	// Honor Ctrl+C: the run aborts cleanly and reports no result.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	audioPath := input
	if ingest.IsYouTubeURL(input) {
		fmt.Fprintf(os.Stderr, "Downloading audio from: %s\n", input)
		path, cleanup, err := ingest.NewDownloader().DownloadAudio(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: download failed: %v\n", err)
			recordRun(config, input, nil, err)
			return
		}
		defer cleanup()
		audioPath = path
		fmt.Fprintf(os.Stderr, "Downloaded to: %s\n", path)
	}

	if !ingest.IsYouTubeURL(input) && !asr.IsSupportedFormat(audioPath) {
		fmt.Fprintf(os.Stderr, "Warning: %q is not a known audio format; passing it to ffmpeg anyway\n",
			audioPath)
	}

	// Duration is read up front so the banner announces it before any
	// segments arrive. When ffprobe cannot tell, the line is omitted.
	duration, _ := asr.GetAudioDuration(audioPath)
	printBanner(os.Stderr, config, audioPath, *vadFilter, duration)

	progress := newProgressPrinter()
	result, err := asr.Transcribe(ctx, config, audioPath, asr.Options{
		VADFilter: *vadFilter,
		VADModel:  vadModel,
		OnSegment: progress.onSegment,
	})

	fmt.Fprintln(os.Stderr, strings.Repeat("=", 60))
	if err != nil {
		reportFailure(config, err)
		recordRun(config, input, nil, err)
		return
	}

	reportResult(result, *showFullText)
	recordRun(config, input, result, nil)

	outPath := *outputFile
	if outPath == "" {
		outPath = writer.DefaultOutputPath(audioPath)
	}

	backup, err := writer.SaveWithBackup(result.Text, outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save result: %v\n", err)
		return
	}
	if backup != "" {
		fmt.Fprintf(os.Stderr, "Previous content moved to: %s\n", backup)
	}
	fmt.Fprintf(os.Stderr, "Text saved to: %s\n", outPath)
}

func printBanner(w io.Writer, config *asr.Config, audioPath string, vadFilter bool, duration float64) {
	language := config.Language
	if language == "" {
		language = "auto-detect"
	}
	vad := "off"
	if vadFilter {
		vad = "on"
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "File:         %s\n", audioPath)
	if info, err := os.Stat(audioPath); err == nil {
		sizeMB := float64(info.Size()) / (1024 * 1024)
		fmt.Fprintf(w, "Size:         %.1f MB\n", sizeMB)
		if sizeMB > 100 {
			printLargeFileHints(w, config, vadFilter)
		}
	}
	if duration > 0 {
		fmt.Fprintf(w, "Duration:     %.2f seconds (~%.1f minutes)\n", duration, duration/60)
	}
	fmt.Fprintf(w, "Model:        %s\n", config.ModelSize)
	fmt.Fprintf(w, "Device:       %s\n", config.Device)
	fmt.Fprintf(w, "Compute type: %s\n", config.ComputeType)
	fmt.Fprintf(w, "Beam size:    %d\n", config.BeamSize)
	fmt.Fprintf(w, "Language:     %s\n", language)
	fmt.Fprintf(w, "VAD filter:   %s\n", vad)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func printLargeFileHints(w io.Writer, config *asr.Config, vadFilter bool) {
	fmt.Fprintln(w, "Large file detected. Recommendations:")
	if !vadFilter {
		fmt.Fprintln(w, "  - enable the VAD filter (--vad_filter)")
	}
	if config.ComputeType == "float16" && config.Device == "cuda" {
		fmt.Fprintln(w, "  - use --compute_type int8 to save VRAM")
	}
	if config.BeamSize > 3 {
		fmt.Fprintf(w, "  - reduce --beam_size to 1-3 (currently %d)\n", config.BeamSize)
	}
}

func reportFailure(config *asr.Config, err error) {
	fmt.Fprintf(os.Stderr, "Transcription failed: %v\n", err)
	if strings.Contains(err.Error(), "not found in") || strings.Contains(err.Error(), "model directory not found") {
		fmt.Fprintf(os.Stderr, "\nHint: download the model first:\n%s", config.DownloadHint())
		return
	}
	fmt.Fprintln(os.Stderr, "Possible solutions:")
	fmt.Fprintln(os.Stderr, "  - check the audio file format")
	fmt.Fprintln(os.Stderr, "  - try a smaller model (--model_size medium instead of large-v3)")
	fmt.Fprintln(os.Stderr, "  - use --compute_type int8 to lower memory use")
	fmt.Fprintln(os.Stderr, "  - enable the VAD filter (--vad_filter)")
}

func reportResult(result *asr.Result, showFullText bool) {
	fmt.Fprintf(os.Stderr, "Language: %s\n", result.Language)
	fmt.Fprintf(os.Stderr, "Processing time: %.2f seconds (%.1f minutes)\n",
		result.Elapsed, result.Elapsed/60)
	if speed := result.Speed(); speed > 0 {
		fmt.Fprintf(os.Stderr, "Speed: %.2fx realtime\n", speed)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "Segments skipped by loop detection: %d\n", result.Skipped)
	}

	if result.Text == "" {
		fmt.Fprintln(os.Stderr, "Transcription finished but the text is empty.")
		fmt.Fprintln(os.Stderr, "Possible causes:")
		fmt.Fprintln(os.Stderr, "  - the audio contains only silence")
		fmt.Fprintln(os.Stderr, "  - the VAD filter is too aggressive")
		fmt.Fprintln(os.Stderr, "  - a problem with the audio file format")
		return
	}

	fmt.Fprintf(os.Stderr, "Got %d characters of text\n", utf8.RuneCountInString(result.Text))
	if showFullText {
		fmt.Fprintln(os.Stderr, strings.Repeat("-", 60))
		fmt.Println(result.Text)
		fmt.Fprintln(os.Stderr, strings.Repeat("-", 60))
		return
	}

	preview := []rune(result.Text)
	if len(preview) > previewLength {
		fmt.Fprintf(os.Stderr, "Preview (first %d characters):\n", previewLength)
		fmt.Printf("%q...\n", string(preview[:previewLength]))
		fmt.Fprintln(os.Stderr, "Use --show_full_text to print everything")
	} else {
		fmt.Printf("%q\n", string(preview))
	}
}

// recordRun appends the run to the history database when configured.
func recordRun(config *asr.Config, input string, result *asr.Result, runErr error) {
	dbPath := os.Getenv("SCRIBE_HISTORY_DB")
	if dbPath == "" {
		return
	}

	store, err := history.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	run := &history.Run{
		AudioPath:   input,
		ModelSize:   config.ModelSize,
		Device:      config.Device,
		ComputeType: config.ComputeType,
		Language:    config.Language,
		Status:      history.StatusCompleted,
	}
	if result != nil {
		run.DurationSec = result.Duration
		run.ElapsedSec = result.Elapsed
		run.Chars = utf8.RuneCountInString(result.Text)
		run.Segments = result.Segments
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Record(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record history: %v\n", err)
	}
}

// progressPrinter reports segment progress every 10 seconds or every 50
// segments, and announces repetition loops when the filter kicks in.
type progressPrinter struct {
	start      time.Time
	lastReport time.Time
	segments   int
	looping    bool
}

func newProgressPrinter() *progressPrinter {
	now := time.Now()
	return &progressPrinter{start: now, lastReport: now}
}

func (p *progressPrinter) onSegment(seg asr.Segment, kept bool) {
	p.segments++

	skippedByLoop := !kept && strings.TrimSpace(seg.Text) != ""
	if skippedByLoop && !p.looping {
		text := strings.TrimSpace(seg.Text)
		if runes := []rune(text); len(runes) > 50 {
			text = string(runes[:50]) + "..."
		}
		fmt.Fprintf(os.Stderr, "Warning: repetition loop at segment %d: %q\n", p.segments, text)
		fmt.Fprintln(os.Stderr, "Skipping repeated segments...")
	}
	p.looping = skippedByLoop

	if time.Since(p.lastReport) > 10*time.Second || p.segments%50 == 0 {
		elapsed := time.Since(p.start).Seconds()
		fmt.Fprintf(os.Stderr, "PROGRESS: %d segments | %.0fs elapsed | ~%.0fs of audio processed\n",
			p.segments, elapsed, seg.End)
		p.lastReport = time.Now()
	}
}
