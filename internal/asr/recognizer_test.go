package asr

import "testing"

func TestDecodingParams(t *testing.T) {
	tests := []struct {
		name       string
		beamSize   int
		wantMethod string
		wantPaths  int
	}{
		{"beam 1 decodes greedily", 1, "greedy_search", 0},
		{"beam 2 switches to beam search", 2, "modified_beam_search", 2},
		{"default beam 5", 5, "modified_beam_search", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, paths := decodingParams(tt.beamSize)
			if method != tt.wantMethod {
				t.Errorf("decodingParams(%d) method = %q, want %q", tt.beamSize, method, tt.wantMethod)
			}
			if paths != tt.wantPaths {
				t.Errorf("decodingParams(%d) paths = %d, want %d", tt.beamSize, paths, tt.wantPaths)
			}
		})
	}
}
