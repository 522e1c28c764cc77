package asr

// Segment is a timed span of decoded text produced by the engine.
type Segment struct {
	Start float64 `json:"start"` // in seconds
	End   float64 `json:"end"`   // in seconds
	Text  string  `json:"text"`
}

// Result represents the complete transcription result
type Result struct {
	Text     string  `json:"text"`     // newline-joined segment texts
	Language string  `json:"language"` // detected or requested language
	Duration float64 `json:"duration"` // audio duration in seconds
	Elapsed  float64 `json:"elapsed"`  // processing time in seconds
	Segments int     `json:"segments"` // number of segments consumed
	Skipped  int     `json:"skipped"`  // segments dropped by loop detection
}

// Speed returns the realtime factor of the run, or 0 when unknown.
func (r *Result) Speed() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return r.Duration / r.Elapsed
}
