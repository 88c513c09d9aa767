package ctsfnt

import (
	"errors"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/npillmayer/complextext/ctshape"
)

// SmallCapsScale is the size of synthesized small capitals relative to the
// font size.
const SmallCapsScale = 0.7

// ErrSize flags a negative font size.
var ErrSize = errors.New("font size must not be negative")

// Font is an sfnt font at a given size. It implements ctshape.Font and the
// optional interfaces ctshape.GlyphCoverage and ctshape.VerticalMetrics.
type Font struct {
	sf        *sfnt.Font
	name      string
	size      float32
	ppem      fixed.Int26_6
	hinting   font.Hinting
	bold      float32
	buf       *sfnt.Buffer
	smallCaps *Font
}

var _ ctshape.Font = (*Font)(nil)
var _ ctshape.GlyphCoverage = (*Font)(nil)
var _ ctshape.VerticalMetrics = (*Font)(nil)

// Option configures a Font.
type Option func(*Font)

// WithHinting sets the hinting applied to advances and bounds.
func WithHinting(h font.Hinting) Option {
	return func(f *Font) {
		f.hinting = h
	}
}

// WithSyntheticBold makes every glyph advance by an extra offset, as
// synthesized bold text does.
func WithSyntheticBold(offset float32) Option {
	return func(f *Font) {
		f.bold = offset
	}
}

// Parse parses an OpenType font from data and sets it in size.
func Parse(data []byte, size float32, opts ...Option) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, errFont(err, "cannot parse font")
	}
	return New(sf, size, opts...)
}

// New sets a parsed font in size.
func New(sf *sfnt.Font, size float32, opts ...Option) (*Font, error) {
	if sf == nil {
		return nil, errFont(ctshape.ErrNoFonts, "nil font")
	}
	if size < 0 {
		return nil, errFont(ErrSize, "cannot create font")
	}
	f := &Font{
		sf:   sf,
		size: size,
		ppem: fixed.Int26_6(size*64 + 0.5),
		buf:  &sfnt.Buffer{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if name, err := sf.Name(f.buf, sfnt.NameIDFull); err == nil {
		f.name = name
	}
	tracer().Debugf("font %q at size %.2f", f.name, size)
	return f, nil
}

// SFNT returns the underlying parsed font.
func (f *Font) SFNT() *sfnt.Font { return f.sf }

// Name is the full name of the font, if present in its name table.
func (f *Font) Name() string { return f.name }

func (f *Font) String() string { return f.name }

// Size is the font size, in pixels per em.
func (f *Font) Size() float32 { return f.size }

// GlyphIndex returns the glyph for r, or NotdefGlyph.
func (f *Font) GlyphIndex(r rune) ctshape.GlyphID {
	gid, err := f.sf.GlyphIndex(f.buf, r)
	if err != nil {
		return ctshape.NotdefGlyph
	}
	return ctshape.GlyphID(gid)
}

// HasGlyph reports whether the font maps r to a glyph.
func (f *Font) HasGlyph(r rune) bool {
	return f.GlyphIndex(r) != ctshape.NotdefGlyph
}

func (f *Font) valid(g ctshape.GlyphID) bool {
	return g != ctshape.DeletedGlyph && int(g) < f.sf.NumGlyphs()
}

// WidthForGlyph returns the advance of glyph g.
func (f *Font) WidthForGlyph(g ctshape.GlyphID) float32 {
	if !f.valid(g) {
		return 0
	}
	adv, err := f.sf.GlyphAdvance(f.buf, sfnt.GlyphIndex(g), f.ppem, f.hinting)
	if err != nil {
		tracer().Debugf("no advance for glyph %d: %v", g, err)
		return 0
	}
	return fromFixed(adv)
}

// SpaceGlyph is the glyph of U+0020.
func (f *Font) SpaceGlyph() ctshape.GlyphID {
	return f.GlyphIndex(' ')
}

// SpaceWidth is the advance of U+0020.
func (f *Font) SpaceWidth() float32 {
	return f.WidthForGlyph(f.SpaceGlyph())
}

// BoundsForGlyph returns the ink bounds of glyph g, y growing downwards.
func (f *Font) BoundsForGlyph(g ctshape.GlyphID) ctshape.Rect {
	if !f.valid(g) {
		return ctshape.Rect{}
	}
	b, _, err := f.sf.GlyphBounds(f.buf, sfnt.GlyphIndex(g), f.ppem, f.hinting)
	if err != nil {
		return ctshape.Rect{}
	}
	return ctshape.Rect{
		X: fromFixed(b.Min.X),
		Y: fromFixed(b.Min.Y),
		W: fromFixed(b.Max.X - b.Min.X),
		H: fromFixed(b.Max.Y - b.Min.Y),
	}
}

// Kern returns the kerning between two glyphs. Fonts without a kern table
// do not kern.
func (f *Font) Kern(left, right ctshape.GlyphID) float32 {
	if !f.valid(left) || !f.valid(right) {
		return 0
	}
	k, err := f.sf.Kern(f.buf, sfnt.GlyphIndex(left), sfnt.GlyphIndex(right), f.ppem, f.hinting)
	if err != nil {
		return 0
	}
	return fromFixed(k)
}

// Ascent is the distance from the baseline to the top of a line.
func (f *Font) Ascent() float32 {
	m, err := f.sf.Metrics(f.buf, f.ppem, f.hinting)
	if err != nil {
		return 0
	}
	return fromFixed(m.Ascent)
}

// Descent is the distance from the baseline to the bottom of a line.
func (f *Font) Descent() float32 {
	m, err := f.sf.Metrics(f.buf, f.ppem, f.hinting)
	if err != nil {
		return 0
	}
	return fromFixed(m.Descent)
}

// SyntheticBoldOffset is the extra advance configured with WithSyntheticBold.
func (f *Font) SyntheticBoldOffset() float32 { return f.bold }

// SupportsVariantCaps is false for every caps variant other than normal:
// without access to OpenType layout features, small caps are always
// synthesized.
func (f *Font) SupportsVariantCaps(c ctshape.VariantCaps) bool {
	return c == ctshape.CapsNormal
}

// SmallCapsFont returns the font set in SmallCapsScale of the size.
func (f *Font) SmallCapsFont() ctshape.Font {
	if f.smallCaps == nil {
		f.smallCaps = &Font{
			sf:      f.sf,
			name:    f.name,
			size:    f.size * SmallCapsScale,
			ppem:    fixed.Int26_6(f.size*SmallCapsScale*64 + 0.5),
			hinting: f.hinting,
			bold:    f.bold,
			buf:     f.buf,
		}
	}
	return f.smallCaps
}

// NoSynthesizableFeaturesFont returns f, as sfnt fonts never apply font
// features.
func (f *Font) NoSynthesizableFeaturesFont() ctshape.Font { return f }

func fromFixed(x fixed.Int26_6) float32 {
	return float32(x) / 64
}
