package cthb

import (
	"fmt"
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctbreak"
	"github.com/npillmayer/complextext/ctshape"
)

// Shaper shapes text with HarfBuzz. It shapes with fonts of this package
// only. Buffers are re-used between calls.
type Shaper struct {
	hb      shaping.HarfbuzzShaper
	runes   []rune
	offsets []int // code unit offset of each rune
}

var _ ctshape.Shaper = (*Shaper)(nil)

// NewShaper creates a HarfBuzz shaper.
func NewShaper() *Shaper {
	return &Shaper{}
}

// Shape shapes text and returns glyphs in visual order.
func (s *Shaper) Shape(text []uint16, f ctshape.Font, params ctshape.ShapeParams) (ctshape.ShapedSpan, error) {
	hf, ok := f.(*Font)
	if !ok {
		return ctshape.ShapedSpan{}, fmt.Errorf("%w: font %v is not a HarfBuzz font", ctshape.ErrCannotShape, f)
	}
	s.decode(text)
	input := shaping.Input{
		Text:         s.runes,
		RunStart:     0,
		RunEnd:       len(s.runes),
		Direction:    di.DirectionLTR,
		Face:         hf.face,
		FontFeatures: capsFeatures(params.Caps),
		Size:         fixed.Int26_6(hf.size*64 + 0.5),
		Script:       detectScript(s.runes),
		Language:     language.NewLanguage(params.Locale.String()),
	}
	if params.Direction == bidi.RightToLeft {
		input.Direction = di.DirectionRTL
	}
	out := s.hb.Shape(input)
	span := ctshape.ShapedSpan{
		Glyphs:   make([]ctshape.GlyphID, len(out.Glyphs)),
		Advances: make([]ctshape.Size, len(out.Glyphs)),
		Indices:  make([]int, len(out.Glyphs)),
	}
	var origins []ctshape.Point
	for i, g := range out.Glyphs {
		span.Glyphs[i] = ctshape.GlyphID(g.GlyphID)
		span.Advances[i] = ctshape.Size{W: fromFixed(g.Advance)}
		span.Indices[i] = s.offsets[g.ClusterIndex]
		if g.XOffset != 0 || g.YOffset != 0 {
			if origins == nil {
				origins = make([]ctshape.Point, len(out.Glyphs))
			}
			origins[i] = ctshape.Point{X: fromFixed(g.XOffset), Y: -fromFixed(g.YOffset)}
		}
	}
	span.Origins = origins
	tracer().Debugf("shaped %d runes (%s) into %d glyphs", len(s.runes), input.Script, span.Len())
	return span, nil
}

// decode converts UTF-16 text to runes, remembering the code unit offset of
// every rune. Unpaired surrogates become U+FFFD.
func (s *Shaper) decode(text []uint16) {
	s.runes = s.runes[:0]
	s.offsets = s.offsets[:0]
	for i := 0; i < len(text); {
		r, n := ctbreak.DecodeRune(text, i)
		if ctbreak.IsSurrogate(r) {
			r = unicode.ReplacementChar
		}
		s.runes = append(s.runes, r)
		s.offsets = append(s.offsets, i)
		i += n
	}
}

// detectScript returns the script of the first character with a script
// other than Common or Inherited.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		scr := language.LookupScript(r)
		if scr != language.Common && scr != language.Inherited && scr != language.Unknown {
			return scr
		}
	}
	return language.Latin
}

// capsFeatures switches on the OpenType features for a caps variant.
func capsFeatures(c ctshape.VariantCaps) []shaping.FontFeature {
	tags := capsFeatureTags[c]
	if len(tags) == 0 {
		return nil
	}
	features := make([]shaping.FontFeature, len(tags))
	for i, tag := range tags {
		features[i] = shaping.FontFeature{Tag: tag, Value: 1}
	}
	return features
}

func fromFixed(x fixed.Int26_6) float32 {
	return float32(x) / 64
}
