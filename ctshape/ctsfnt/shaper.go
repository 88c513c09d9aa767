package ctsfnt

import (
	"fmt"
	"slices"

	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctbreak"
	"github.com/npillmayer/complextext/ctshape"
)

// Shaper sets one glyph per code point. It shapes with fonts of this
// package only.
type Shaper struct {
	// Kerning applies pair kerning from the font's kern table.
	Kerning bool
}

var _ ctshape.Shaper = (*Shaper)(nil)

// NewShaper creates a shaper which applies kerning.
func NewShaper() *Shaper {
	return &Shaper{Kerning: true}
}

// Shape maps text to glyphs in visual order.
func (s *Shaper) Shape(text []uint16, f ctshape.Font, params ctshape.ShapeParams) (ctshape.ShapedSpan, error) {
	sf, ok := f.(*Font)
	if !ok {
		return ctshape.ShapedSpan{}, fmt.Errorf("%w: font %v is not an sfnt font", ctshape.ErrCannotShape, f)
	}
	var span ctshape.ShapedSpan
	for i := 0; i < len(text); {
		r, n := ctbreak.DecodeRune(text, i)
		g := sf.GlyphIndex(r)
		span.Glyphs = append(span.Glyphs, g)
		span.Advances = append(span.Advances, ctshape.Size{W: sf.WidthForGlyph(g)})
		span.Indices = append(span.Indices, i)
		i += n
	}
	if params.Direction == bidi.RightToLeft {
		slices.Reverse(span.Glyphs)
		slices.Reverse(span.Advances)
		slices.Reverse(span.Indices)
	}
	if s.Kerning {
		// kern pairs are visual pairs
		for i := 1; i < len(span.Glyphs); i++ {
			span.Advances[i-1].W += sf.Kern(span.Glyphs[i-1], span.Glyphs[i])
		}
	}
	tracer().Debugf("shaped %d code units into %d glyphs", len(text), span.Len())
	return span, nil
}
