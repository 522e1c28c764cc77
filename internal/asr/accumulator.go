package asr

import (
	"strings"
	"unicode/utf8"
)

const (
	// repeatMinLength is the minimum trimmed length for a segment text to
	// count towards loop detection. Short interjections repeat naturally.
	repeatMinLength = 10
	// repeatLimit is the number of identical consecutive segments kept
	// before further repeats are skipped.
	repeatLimit = 3
)

// Accumulator collects segment texts in arrival order, dropping blank
// segments and suppressing decoder repetition loops. The loop filter is a
// heuristic: a trimmed text longer than repeatMinLength that matches the
// previous segment bumps a repeat counter, and once the counter passes
// repeatLimit identical segments are skipped until the text changes.
type Accumulator struct {
	texts    []string
	lastText string
	repeats  int
	skipped  int
}

// Add consumes one segment text and reports whether it was kept.
func (a *Accumulator) Add(text string) bool {
	cur := strings.TrimSpace(text)

	if cur == a.lastText && utf8.RuneCountInString(cur) > repeatMinLength {
		a.repeats++
		if a.repeats > repeatLimit {
			a.skipped++
			return false
		}
	} else {
		a.repeats = 1
		a.lastText = cur
	}

	if cur == "" {
		return false
	}

	a.texts = append(a.texts, cur)
	return true
}

// Looping reports whether the accumulator is currently inside a detected
// repetition loop.
func (a *Accumulator) Looping() bool {
	return a.repeats > repeatLimit
}

// Text returns the newline-joined accumulation.
func (a *Accumulator) Text() string {
	return strings.Join(a.texts, "\n")
}

// Count returns the number of kept segments.
func (a *Accumulator) Count() int {
	return len(a.texts)
}

// Skipped returns the number of segments dropped by loop detection.
func (a *Accumulator) Skipped() int {
	return a.skipped
}
