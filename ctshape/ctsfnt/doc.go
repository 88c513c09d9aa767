/*
Package ctsfnt provides fonts and a simple shaper for complex text layout,
built on golang.org/x/image/font/sfnt.

The shaper of this package maps every code point to the glyph the font's
cmap table assigns to it, with advances from the hmtx table and optional
pair kerning from the kern table. It does not apply OpenType layout
features and thus is unfit for scripts depending on them. Use package cthb
for these.

Fonts of this package hold an sfnt.Buffer and are not safe for concurrent
use.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ctsfnt

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'complextext.sfnt'.
func tracer() tracing.Trace {
	return tracing.Select("complextext.sfnt")
}

func errFont(err error, x string) error {
	return fmt.Errorf("ctsfnt: %s: %w", x, err)
}
