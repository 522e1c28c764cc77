package asr

import (
	"fmt"
	"strings"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// Recognizer handles speech recognition using the sherpa-onnx whisper
// models. It is safe for sequential use only.
type Recognizer struct {
	config     *Config
	recognizer *sherpa.OfflineRecognizer
}

// NewRecognizer creates a recognizer for the configured model, device and
// precision. The model files must have been resolved beforehand via
// Config.Resolve.
func NewRecognizer(config *Config) (*Recognizer, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.EncoderPath == "" || config.DecoderPath == "" || config.TokensPath == "" {
		if err := config.Resolve(); err != nil {
			return nil, err
		}
	}

	decodingMethod, maxActivePaths := decodingParams(config.BeamSize)

	sherpaConfig := sherpa.OfflineRecognizerConfig{
		FeatConfig: sherpa.FeatureConfig{
			SampleRate: config.SampleRate,
			FeatureDim: 80,
		},
		ModelConfig: sherpa.OfflineModelConfig{
			Whisper: sherpa.OfflineWhisperModelConfig{
				Encoder:  config.EncoderPath,
				Decoder:  config.DecoderPath,
				Language: config.Language,
				Task:     "transcribe",
			},
			Tokens:     config.TokensPath,
			NumThreads: config.NumThreads,
			Provider:   config.Device,
			Debug:      0,
		},
		DecodingMethod: decodingMethod,
		MaxActivePaths: maxActivePaths,
	}

	recognizer := sherpa.NewOfflineRecognizer(&sherpaConfig)
	if recognizer == nil {
		return nil, fmt.Errorf("failed to create whisper recognizer (model %s, device %s)",
			config.ModelSize, config.Device)
	}

	return &Recognizer{
		config:     config,
		recognizer: recognizer,
	}, nil
}

// decodingParams maps the beam size onto a sherpa decoding method. Active
// paths only apply to beam search; greedy decoding leaves them unset.
func decodingParams(beamSize int) (string, int) {
	if beamSize > 1 {
		return "modified_beam_search", beamSize
	}
	return "greedy_search", 0
}

// Close releases resources used by the recognizer.
func (r *Recognizer) Close() error {
	if r.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(r.recognizer)
		r.recognizer = nil
	}
	return nil
}

// decodeSamples runs one chunk of audio through the model and returns the
// decoded text. Each chunk gets a fresh stream, so decoding never
// conditions on earlier text.
func (r *Recognizer) decodeSamples(samples []float32) string {
	if len(samples) == 0 {
		return ""
	}

	stream := sherpa.NewOfflineStream(r.recognizer)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(r.config.SampleRate, samples)
	r.recognizer.Decode(stream)

	result := stream.GetResult()
	if result == nil {
		return ""
	}
	return strings.TrimSpace(result.Text)
}
