package ingest

import "testing"

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"http://youtube.com/watch?v=abc", true},
		{"https://music.youtube.com/watch?v=abc", true},
		{"lecture.mp3", false},
		{"/data/youtube.com/audio.wav", false},
		{"https://vimeo.com/12345", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsYouTubeURL(tt.input); got != tt.want {
				t.Errorf("IsYouTubeURL(%q) = %t, want %t", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{`audio/mp4; codecs="mp4a.40.2"`, ".m4a"},
		{`audio/webm; codecs="opus"`, ".webm"},
		{"audio/unknown", ".audio"},
	}

	for _, tt := range tests {
		if got := extensionFor(tt.mimeType); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.mimeType, got, tt.want)
		}
	}
}
