package ctshape

import (
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctbreak"
)

// GlyphID identifies a glyph within a font.
type GlyphID uint32

const (
	// NotdefGlyph is the glyph used for characters missing from a font.
	NotdefGlyph GlyphID = 0
	// DeletedGlyph marks glyphs which take up space but must not be painted.
	DeletedGlyph GlyphID = 0xffff
)

// VariantCaps is the CSS font-variant-caps setting of a style.
type VariantCaps uint8

const (
	CapsNormal VariantCaps = iota
	CapsSmall
	CapsAllSmall
	CapsPetite
	CapsAllPetite
	CapsUnicase
	CapsTitling
)

var capsNames = []string{"normal", "small-caps", "all-small-caps",
	"petite-caps", "all-petite-caps", "unicase", "titling-caps"}

func (c VariantCaps) String() string {
	if int(c) < len(capsNames) {
		return capsNames[c]
	}
	return "caps(?)"
}

// ParseVariantCaps looks up a caps variant by its CSS keyword.
func ParseVariantCaps(s string) (VariantCaps, bool) {
	for i, name := range capsNames {
		if name == s {
			return VariantCaps(i), true
		}
	}
	return CapsNormal, false
}

// isAll reports whether every character, not only lower case ones, should
// be set in small caps.
func (c VariantCaps) isAll() bool {
	return c == CapsAllSmall || c == CapsAllPetite
}

// isSmallCaps reports whether c asks for small or petite capitals.
func (c VariantCaps) isSmallCaps() bool {
	return c.isAll() || c == CapsSmall || c == CapsPetite
}

// Font is a font at a given size, as far as layout is concerned.
// All measures are in the same unit as the font size, y growing downwards.
//
// Fonts are compared by identity: sub-runs are split wherever the font
// changes. Implementations should therefore be pointer types.
type Font interface {
	Size() float32
	WidthForGlyph(g GlyphID) float32
	SpaceWidth() float32
	SpaceGlyph() GlyphID
	BoundsForGlyph(g GlyphID) Rect
	// SyntheticBoldOffset is the extra advance of synthesized bold text.
	SyntheticBoldOffset() float32
	// SupportsVariantCaps reports whether the font can set a caps variant
	// without synthesis.
	SupportsVariantCaps(c VariantCaps) bool
	// SmallCapsFont is the reduced-size variant used for synthesized small caps.
	SmallCapsFont() Font
	// NoSynthesizableFeaturesFont is the variant of this font with synthesized
	// features (small caps, super-/subscripts) turned off.
	NoSynthesizableFeaturesFont() Font
}

// VerticalMetrics is implemented by fonts which know their ascent and
// descent (both positive values).
type VerticalMetrics interface {
	Ascent() float32
	Descent() float32
}

// GlyphCoverage is implemented by fonts which are able to tell if they carry
// a glyph for a character.
type GlyphCoverage interface {
	HasGlyph(r rune) bool
}

// FontResolver selects fonts for text.
type FontResolver interface {
	PrimaryFont() Font
	// FontForCombiningSequence returns the font to render a combining
	// character sequence with. It may return nil if no font can be found.
	FontForCombiningSequence(seq []uint16) Font
}

// ShapeParams are the parameters a Shaper receives together with a span of text.
type ShapeParams struct {
	Direction bidi.Direction
	Locale    language.Tag
	Caps      VariantCaps // caps variant the font should set natively
}

// ShapedSpan is the result of shaping a span of text: glyphs in visual order
// together with their advances and the index of the first character (relative
// to the span) each glyph maps to.
//
// Origins is optional. If present, it holds one glyph offset per glyph.
type ShapedSpan struct {
	Glyphs         []GlyphID
	Advances       []Size
	Origins        []Point
	Indices        []int
	InitialAdvance Size
}

// Len is the number of glyphs.
func (s ShapedSpan) Len() int {
	return len(s.Glyphs)
}

// Shaper turns a span of text into glyphs.
//
// Shape returns an error wrapping ErrCannotShape if the font is unsuitable
// for the shaper.
type Shaper interface {
	Shape(text []uint16, font Font, params ShapeParams) (ShapedSpan, error)
}

// --- Fallback resolver -----------------------------------------------------

// FallbackResolver resolves fonts from a list, in order of preference. The
// first font in the list is the primary font.
//
// A combining sequence is rendered with the first font covering all of its
// characters, otherwise with the first font covering its base character.
// Fonts not implementing GlyphCoverage are assumed to cover everything.
// Control characters and white space always resolve to the primary font.
type FallbackResolver struct {
	fonts []Font
}

var _ FontResolver = (*FallbackResolver)(nil)

// NewFallbackResolver creates a resolver for a list of fonts.
func NewFallbackResolver(fonts ...Font) (*FallbackResolver, error) {
	if len(fonts) == 0 {
		return nil, ErrNoFonts
	}
	for _, f := range fonts {
		if f == nil {
			return nil, errLayout(ErrNoFonts, "nil font in fallback list")
		}
	}
	return &FallbackResolver{fonts: fonts}, nil
}

// PrimaryFont returns the first font of the list.
func (fr *FallbackResolver) PrimaryFont() Font {
	return fr.fonts[0]
}

// Fonts returns the list of fonts.
func (fr *FallbackResolver) Fonts() []Font {
	return fr.fonts
}

// FontForCombiningSequence returns the first font able to render seq, or nil.
func (fr *FallbackResolver) FontForCombiningSequence(seq []uint16) Font {
	if len(seq) == 0 {
		return fr.PrimaryFont()
	}
	base, _ := ctbreak.DecodeRune(seq, 0)
	if TreatAsSpace(base) || treatAsZeroWidthSpace(base) || isControlCharacter(base) {
		return fr.PrimaryFont()
	}
	for _, f := range fr.fonts {
		if coversAll(f, seq) {
			return f
		}
	}
	for _, f := range fr.fonts {
		if covers(f, base) {
			return f
		}
	}
	tracer().Debugf("no font for sequence starting with %U", base)
	return nil
}

func covers(f Font, r rune) bool {
	if cov, ok := f.(GlyphCoverage); ok {
		return cov.HasGlyph(r)
	}
	return true
}

func coversAll(f Font, seq []uint16) bool {
	for i := 0; i < len(seq); {
		r, n := ctbreak.DecodeRune(seq, i)
		i += n
		if isDefaultIgnorable(r) {
			continue
		}
		if !covers(f, r) {
			return false
		}
	}
	return true
}
