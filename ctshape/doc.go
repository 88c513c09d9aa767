/*
Package ctshape lays out complex text runs.

A [Controller] takes a styled, directional run of UTF-16 text, splits it
into sub-runs of constant font and small-caps state, has every sub-run shaped
by a [Shaper], and merges the results into a single stream of glyphs with
adjusted advances. Adjustments include justification (expansion), letter
and word spacing, tab stops and the substitution of control characters.

The glyph stream may then be queried:
  - [Controller.Advance] walks the stream up to a character offset,
    optionally emitting paint-ready glyphs into a [GlyphSink]
  - [Controller.OffsetForPosition] maps an x-position to a character offset
  - accessors report the total advance and the glyph bounding box

Fonts, font fallback and shaping are collaborators supplied by the client
through [Style]. Package ctsfnt provides them on top of
golang.org/x/image/font/sfnt, package cthb on top of the HarfBuzz port of
go-text/typesetting.

A controller keeps a cursor between calls to Advance and is therefore not
safe for concurrent use. Separate texts should use separate controllers.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ctshape

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'complextext.shape'.
func tracer() tracing.Trace {
	return tracing.Select("complextext.shape")
}

var (
	// ErrCannotShape is returned by shapers which are unable to produce glyphs
	// for a span of text. The controller then falls back to missing glyphs.
	ErrCannotShape = errors.New("ctshape: cannot shape text")
	// ErrNilStyle flags a missing style or a style without a font resolver.
	ErrNilStyle = errors.New("ctshape: style without fonts")
	// ErrNilShaper flags a style without a shaper.
	ErrNilShaper = errors.New("ctshape: style without shaper")
	// ErrNoFonts flags an empty list of fonts.
	ErrNoFonts = errors.New("ctshape: no fonts")
)

// errLayout wraps a message as a user-facing layout error.
func errLayout(err error, x string) error {
	return fmt.Errorf("complex text layout: %s: %w", x, err)
}

// assert panics when condition is false.
func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
