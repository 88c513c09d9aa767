package layoutcmp

import (
	"slices"

	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctbreak"
	"github.com/npillmayer/complextext/ctshape"
)

const (
	defaultSize   = 10
	defaultWidth  = 8
	defaultNotdef = 7
	defaultSpace  = 5
)

// TableFont is a font with metrics from a FontSpec. Glyph IDs are code
// points.
type TableFont struct {
	spec      FontSpec
	scale     float32
	advances  map[rune]float32
	smallCaps *TableFont
}

var _ ctshape.Font = (*TableFont)(nil)
var _ ctshape.GlyphCoverage = (*TableFont)(nil)

// NewTableFont creates a font from a spec, filling in defaults.
func NewTableFont(spec FontSpec) *TableFont {
	if spec.Size == 0 {
		spec.Size = defaultSize
	}
	if spec.DefaultWidth == 0 {
		spec.DefaultWidth = defaultWidth
	}
	if spec.NotdefWidth == 0 {
		spec.NotdefWidth = defaultNotdef
	}
	if spec.SpaceWidth == 0 {
		spec.SpaceWidth = defaultSpace
	}
	f := &TableFont{spec: spec, scale: 1, advances: make(map[rune]float32)}
	for key, w := range spec.Advances {
		f.advances[[]rune(key)[0]] = w
	}
	return f
}

func (f *TableFont) String() string { return f.spec.Name }

// Name is the name of the font spec.
func (f *TableFont) Name() string { return f.spec.Name }

func (f *TableFont) Size() float32 { return f.spec.Size * f.scale }

func (f *TableFont) WidthForGlyph(g ctshape.GlyphID) float32 {
	switch g {
	case ctshape.NotdefGlyph:
		return f.spec.NotdefWidth * f.scale
	case ctshape.DeletedGlyph:
		return 0
	case ' ':
		return f.spec.SpaceWidth * f.scale
	}
	if w, ok := f.advances[rune(g)]; ok {
		return w * f.scale
	}
	return f.spec.DefaultWidth * f.scale
}

func (f *TableFont) SpaceWidth() float32 { return f.WidthForGlyph(' ') }

func (f *TableFont) SpaceGlyph() ctshape.GlyphID { return ' ' }

// BoundsForGlyph returns a box of 80% of the size above the baseline and
// 20% below it.
func (f *TableFont) BoundsForGlyph(g ctshape.GlyphID) ctshape.Rect {
	if g == ctshape.DeletedGlyph {
		return ctshape.Rect{}
	}
	size := f.Size()
	return ctshape.Rect{Y: -0.8 * size, W: f.WidthForGlyph(g), H: size}
}

func (f *TableFont) SyntheticBoldOffset() float32 { return f.spec.Bold }

func (f *TableFont) SupportsVariantCaps(c ctshape.VariantCaps) bool {
	return c == ctshape.CapsNormal || f.spec.SmallCaps
}

// SmallCapsFont returns the font at half the scale.
func (f *TableFont) SmallCapsFont() ctshape.Font {
	if f.smallCaps == nil {
		spec := f.spec
		spec.Name += "-sc"
		f.smallCaps = &TableFont{spec: spec, scale: f.scale * 0.5, advances: f.advances}
	}
	return f.smallCaps
}

func (f *TableFont) NoSynthesizableFeaturesFont() ctshape.Font { return f }

// HasGlyph reports whether r has an advance in the spec, unless the font
// covers everything.
func (f *TableFont) HasGlyph(r rune) bool {
	if f.spec.CoversAll || r == ' ' {
		return true
	}
	_, ok := f.advances[r]
	return ok
}

// TableShaper sets one glyph per code point. Code points not covered by the
// font get a .notdef glyph.
type TableShaper struct{}

var _ ctshape.Shaper = TableShaper{}

func (TableShaper) Shape(text []uint16, font ctshape.Font, params ctshape.ShapeParams) (ctshape.ShapedSpan, error) {
	var span ctshape.ShapedSpan
	cov, _ := font.(ctshape.GlyphCoverage)
	for i := 0; i < len(text); {
		r, n := ctbreak.DecodeRune(text, i)
		g := ctshape.GlyphID(r)
		if cov != nil && !cov.HasGlyph(r) {
			g = ctshape.NotdefGlyph
		}
		span.Glyphs = append(span.Glyphs, g)
		span.Advances = append(span.Advances, ctshape.Size{W: font.WidthForGlyph(g)})
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
