package main

import (
	"strings"
	"testing"

	"scribe/internal/asr"
)

func TestPrintBannerAnnouncesDuration(t *testing.T) {
	config := asr.NewConfig()
	config.ModelSize = "small"

	var buf strings.Builder
	printBanner(&buf, config, "lecture.mp3", true, 754.3)
	out := buf.String()

	for _, want := range []string{
		"File:         lecture.mp3",
		"Duration:     754.30 seconds (~12.6 minutes)",
		"Model:        small",
		"Language:     auto-detect",
		"VAD filter:   on",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q:\n%s", want, out)
		}
	}
}

func TestPrintBannerSkipsUnknownDuration(t *testing.T) {
	var buf strings.Builder
	printBanner(&buf, asr.NewConfig(), "lecture.mp3", false, 0)

	if strings.Contains(buf.String(), "Duration:") {
		t.Errorf("banner should omit an unknown duration:\n%s", buf.String())
	}
}
