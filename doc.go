/*
Package complextext lays out runs of complex text.

We will stick to the following nomenclature:

▪︎ A "run" is a sequence of characters in a single direction and a single
style. Characters are UTF-16 code units, and all offsets into a run count
code units.

▪︎ A "sub-run" is a part of a run which is set in a single font. Font
fallback and synthesized small capitals split a run into sub-runs.

▪︎ The "glyph stream" of a run is the concatenation of the shaped glyphs of
all its sub-runs, in visual order, with advances adjusted for spacing,
justification and tab stops.

The heavy lifting is done by package ctshape, which holds the layout
controller. Package ctbreak finds user-perceived characters. Fonts and
shapers are collaborators: ctshape/ctsfnt provides them on top of
golang.org/x/image/font/sfnt, ctshape/cthb on top of the HarfBuzz port of
go-text/typesetting.

This package bundles a run, its style and its controller into a [Layout],
answering queries a text renderer typically asks: widths of substrings,
selection rectangles, glyphs for painting a range of characters, and the
overflow of glyph ink beyond the line box.

# Status

There is no bidi resolution: the direction of a run is an input.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package complextext

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'complextext'
func tracer() tracing.Trace {
	return tracing.Select("complextext")
}

// errLayout wraps a message as a user-facing layout error.
func errLayout(err error, x string) error {
	return fmt.Errorf("complextext: %s: %w", x, err)
}
