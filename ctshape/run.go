package ctshape

import (
	"unicode/utf16"

	"golang.org/x/text/unicode/bidi"
)

// ExpansionSide controls justification at one end of a run.
type ExpansionSide uint8

const (
	// ExpansionAllow lets the computed default decide.
	ExpansionAllow ExpansionSide = iota
	// ExpansionForbid suppresses expansion at this end of the run.
	ExpansionForbid
	// ExpansionForce adds an expansion opportunity at this end of the run.
	ExpansionForce
)

func (e ExpansionSide) String() string {
	switch e {
	case ExpansionForbid:
		return "forbid"
	case ExpansionForce:
		return "force"
	}
	return "allow"
}

// ExpansionBehavior controls justification at both ends of a run. Left and
// right refer to visual sides.
type ExpansionBehavior struct {
	Left, Right ExpansionSide
}

// TabSize is the distance between tab stops, either in pixels or as a
// multiple of the width of a space.
type TabSize struct {
	Value    float32
	InSpaces bool
}

// DefaultTabSize is 8 spaces.
var DefaultTabSize = TabSize{Value: 8, InSpaces: true}

// WidthInPixels resolves a tab size against the width of a space.
func (ts TabSize) WidthInPixels(spaceWidth float32) float32 {
	if ts.InSpaces {
		return ts.Value * spaceWidth
	}
	return ts.Value
}

// Run is a directional run of text to lay out. Text is a sequence of UTF-16
// code units and all character offsets refer to it. A run is not modified by
// layout.
type Run struct {
	Text              []uint16
	Direction         bidi.Direction
	Expansion         float32 // extra space to distribute for justification
	ExpansionBehavior ExpansionBehavior
	AllowTabs         bool
	TabSize           TabSize
	XPos              float32 // x-position of the run, for tab stops
	SpacingDisabled   bool    // no letter/word spacing and no expansion
}

// NewRun creates a run from a string, with tabs enabled and a default tab size.
func NewRun(text string, dir bidi.Direction) *Run {
	return &Run{
		Text:      utf16.Encode([]rune(text)),
		Direction: dir,
		AllowTabs: true,
		TabSize:   DefaultTabSize,
	}
}

// Len is the length of the run in code units.
func (r *Run) Len() int {
	return len(r.Text)
}

// LTR reports whether the run is set left-to-right.
func (r *Run) LTR() bool {
	return r.Direction != bidi.RightToLeft
}

// String returns the text of the run.
func (r *Run) String() string {
	return string(utf16.Decode(r.Text))
}
