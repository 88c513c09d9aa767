package ctshape

import (
	"slices"

	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctbreak"
)

// --- Test collaborators ----------------------------------------------------

// testFont has table-driven advances. Glyph IDs are code points.
type testFont struct {
	name       string
	scale      float32
	advances   map[rune]float32
	covers     func(rune) bool
	caps       bool    // supports small caps natively
	bold       float32 // synthetic bold offset
	smallCaps  *testFont
	noFeatures *testFont
}

const (
	testDefaultWidth = 8
	testNotdefWidth  = 7
	testSpaceWidth   = 5
)

func newTestFont(name string, advances map[rune]float32) *testFont {
	return &testFont{name: name, scale: 1, advances: advances}
}

func (f *testFont) Size() float32 { return 10 * f.scale }

func (f *testFont) WidthForGlyph(g GlyphID) float32 {
	switch g {
	case NotdefGlyph:
		return testNotdefWidth * f.scale
	case DeletedGlyph:
		return 0
	case ' ':
		return testSpaceWidth * f.scale
	}
	if w, ok := f.advances[rune(g)]; ok {
		return w * f.scale
	}
	return testDefaultWidth * f.scale
}

func (f *testFont) SpaceWidth() float32 { return f.WidthForGlyph(' ') }

func (f *testFont) SpaceGlyph() GlyphID { return ' ' }

func (f *testFont) BoundsForGlyph(g GlyphID) Rect {
	if g == DeletedGlyph {
		return Rect{}
	}
	return Rect{X: 0, Y: -8 * f.scale, W: f.WidthForGlyph(g), H: 10 * f.scale}
}

func (f *testFont) SyntheticBoldOffset() float32 { return f.bold }

func (f *testFont) SupportsVariantCaps(c VariantCaps) bool {
	return c == CapsNormal || f.caps
}

func (f *testFont) SmallCapsFont() Font {
	if f.smallCaps == nil {
		f.smallCaps = &testFont{name: f.name + "-sc", scale: f.scale * 0.5, advances: f.advances}
	}
	return f.smallCaps
}

func (f *testFont) NoSynthesizableFeaturesFont() Font {
	if f.noFeatures != nil {
		return f.noFeatures
	}
	return f
}

func (f *testFont) HasGlyph(r rune) bool {
	return f.covers == nil || f.covers(r)
}

func (f *testFont) String() string { return f.name }

var _ GlyphCoverage = (*testFont)(nil)

// testShaper sets one glyph per code point, in visual order.
type testShaper struct {
	fail   Font // fail to shape with this font
	params []ShapeParams
	texts  []string
}

func (s *testShaper) Shape(text []uint16, font Font, params ShapeParams) (ShapedSpan, error) {
	s.params = append(s.params, params)
	s.texts = append(s.texts, string(decode(text)))
	if font == s.fail {
		return ShapedSpan{}, ErrCannotShape
	}
	var span ShapedSpan
	for i := 0; i < len(text); {
		r, n := ctbreak.DecodeRune(text, i)
		g := GlyphID(r)
		span.Glyphs = append(span.Glyphs, g)
		span.Advances = append(span.Advances, Size{W: font.WidthForGlyph(g)})
		span.Indices = append(span.Indices, i)
		i += n
	}
	if params.Direction == bidi.RightToLeft {
		slices.Reverse(span.Glyphs)
		slices.Reverse(span.Advances)
		slices.Reverse(span.Indices)
	}
	return span, nil
}

func decode(text []uint16) []rune {
	var rs []rune
	for i := 0; i < len(text); {
		r, n := ctbreak.DecodeRune(text, i)
		rs = append(rs, r)
		i += n
	}
	return rs
}

// abFont has advances of 10 for 'A' and 12 for 'B'.
func abFont() *testFont {
	return newTestFont("ab", map[rune]float32{'A': 10, 'B': 12})
}

func testStyle(fonts ...Font) (*Style, *testShaper) {
	resolver, err := NewFallbackResolver(fonts...)
	if err != nil {
		panic(err)
	}
	shaper := &testShaper{}
	return &Style{Fonts: resolver, Shaper: shaper}, shaper
}

func mustController(style *Style, run *Run, opts ...Option) *Controller {
	c, err := New(style, run, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// width measures like a text layout does: by differencing two advances.
func width(c *Controller, from, length int) float32 {
	c.Advance(from, nil, ByWholeGlyphs)
	before := c.RunWidthSoFar()
	c.Advance(from+length, nil, ByWholeGlyphs)
	return c.RunWidthSoFar() - before
}
