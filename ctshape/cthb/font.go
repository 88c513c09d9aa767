package cthb

import (
	"bytes"
	"errors"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"

	"github.com/npillmayer/complextext/ctshape"
)

// SmallCapsScale is the size of synthesized small capitals relative to the
// font size.
const SmallCapsScale = 0.7

// ErrSize flags a negative font size.
var ErrSize = errors.New("font size must not be negative")

// Font is a go-text font face at a given size. It implements ctshape.Font and
// the optional interfaces ctshape.GlyphCoverage and ctshape.VerticalMetrics.
type Font struct {
	face      *font.Face
	name      string
	size      float32
	scale     float32 // font units to size
	bold      float32
	caps      map[ctshape.VariantCaps]bool
	smallCaps *Font
}

var _ ctshape.Font = (*Font)(nil)
var _ ctshape.GlyphCoverage = (*Font)(nil)
var _ ctshape.VerticalMetrics = (*Font)(nil)

// Option configures a Font.
type Option func(*Font)

// WithSyntheticBold makes every glyph advance by an extra offset, as
// synthesized bold text does.
func WithSyntheticBold(offset float32) Option {
	return func(f *Font) {
		f.bold = offset
	}
}

// WithName sets a name for the font, used in traces and diagnostics.
func WithName(name string) Option {
	return func(f *Font) {
		f.name = name
	}
}

// Parse parses an OpenType font from data and sets it in size.
func Parse(data []byte, size float32, opts ...Option) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, errFont(err, "cannot parse font")
	}
	return New(face, size, opts...)
}

// New sets a parsed font face in size. The face is owned by the font
// afterwards.
func New(face *font.Face, size float32, opts ...Option) (*Font, error) {
	if face == nil {
		return nil, errFont(ctshape.ErrNoFonts, "nil font face")
	}
	if size < 0 {
		return nil, errFont(ErrSize, "cannot create font")
	}
	upem := float32(face.Upem())
	if upem == 0 {
		upem = 1000
	}
	f := &Font{
		face:  face,
		size:  size,
		scale: size / upem,
		caps:  make(map[ctshape.VariantCaps]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	tracer().Debugf("font %q at size %.2f", f.name, size)
	return f, nil
}

// Face returns the go-text font face.
func (f *Font) Face() *font.Face { return f.face }

func (f *Font) String() string {
	if f.name == "" {
		return "hb-font"
	}
	return f.name
}

// Size is the font size, in pixels per em.
func (f *Font) Size() float32 { return f.size }

// GlyphIndex returns the glyph for r, or NotdefGlyph.
func (f *Font) GlyphIndex(r rune) ctshape.GlyphID {
	gid, ok := f.face.NominalGlyph(r)
	if !ok {
		return ctshape.NotdefGlyph
	}
	return ctshape.GlyphID(gid)
}

// HasGlyph reports whether the font's cmap maps r to a glyph.
func (f *Font) HasGlyph(r rune) bool {
	_, ok := f.face.NominalGlyph(r)
	return ok
}

// WidthForGlyph returns the horizontal advance of glyph g.
func (f *Font) WidthForGlyph(g ctshape.GlyphID) float32 {
	if g == ctshape.DeletedGlyph {
		return 0
	}
	return f.face.HorizontalAdvance(font.GID(g)) * f.scale
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
	if g == ctshape.DeletedGlyph {
		return ctshape.Rect{}
	}
	ext, ok := f.face.GlyphExtents(font.GID(g))
	if !ok {
		return ctshape.Rect{}
	}
	// extents grow upwards, with a negative height
	return ctshape.Rect{
		X: ext.XBearing * f.scale,
		Y: -ext.YBearing * f.scale,
		W: ext.Width * f.scale,
		H: -ext.Height * f.scale,
	}
}

// Ascent is the distance from the baseline to the top of a line.
func (f *Font) Ascent() float32 {
	ext, ok := f.face.FontHExtents()
	if !ok {
		return 0
	}
	return ext.Ascender * f.scale
}

// Descent is the distance from the baseline to the bottom of a line.
func (f *Font) Descent() float32 {
	ext, ok := f.face.FontHExtents()
	if !ok {
		return 0
	}
	return -ext.Descender * f.scale
}

// SyntheticBoldOffset is the extra advance configured with WithSyntheticBold.
func (f *Font) SyntheticBoldOffset() float32 { return f.bold }

// capsFeatureTags lists the features a font must carry to set a caps variant
// natively.
var capsFeatureTags = map[ctshape.VariantCaps][]ot.Tag{
	ctshape.CapsSmall:     {ot.MustNewTag("smcp")},
	ctshape.CapsAllSmall:  {ot.MustNewTag("smcp"), ot.MustNewTag("c2sc")},
	ctshape.CapsPetite:    {ot.MustNewTag("pcap")},
	ctshape.CapsAllPetite: {ot.MustNewTag("pcap"), ot.MustNewTag("c2pc")},
	ctshape.CapsUnicase:   {ot.MustNewTag("unic")},
	ctshape.CapsTitling:   {ot.MustNewTag("titl")},
}

// SupportsVariantCaps reports whether the font's GSUB table carries the
// features for a caps variant.
func (f *Font) SupportsVariantCaps(c ctshape.VariantCaps) bool {
	if c == ctshape.CapsNormal {
		return true
	}
	if supported, ok := f.caps[c]; ok {
		return supported
	}
	supported := len(capsFeatureTags[c]) > 0
	for _, tag := range capsFeatureTags[c] {
		if _, ok := f.face.GSUB.FindFeatureIndex(tag); !ok {
			supported = false
			break
		}
	}
	tracer().Debugf("font %s supports %s: %v", f, c, supported)
	f.caps[c] = supported
	return supported
}

// SmallCapsFont returns the font set in SmallCapsScale of the size.
func (f *Font) SmallCapsFont() ctshape.Font {
	if f.smallCaps == nil {
		f.smallCaps = &Font{
			face:  f.face,
			name:  f.name,
			size:  f.size * SmallCapsScale,
			scale: f.scale * SmallCapsScale,
			bold:  f.bold,
			caps:  f.caps,
		}
	}
	return f.smallCaps
}

// NoSynthesizableFeaturesFont returns f. Caps features are requested per
// shaping call and are switched off by the layout for synthesized runs.
func (f *Font) NoSynthesizableFeaturesFont() ctshape.Font { return f }
