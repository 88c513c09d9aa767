package cthb

import (
	"errors"
	"testing"
	"unicode/utf16"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctshape"
)

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("no font"), 12)
	assert.Error(t, err)
	_, err = Parse(goregular.TTF, -2)
	assert.True(t, errors.Is(err, ErrSize))
	_, err = New(nil, 12)
	assert.True(t, errors.Is(err, ctshape.ErrNoFonts))
}

func TestFontMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "complextext.hb")
	defer teardown()
	//
	f, err := Parse(goregular.TTF, 16, WithName("Go Regular"))
	require.NoError(t, err)
	assert.Equal(t, "Go Regular", f.String())
	assert.True(t, f.HasGlyph('x'))
	assert.False(t, f.HasGlyph('中'))
	x := f.GlyphIndex('x')
	assert.Greater(t, f.WidthForGlyph(x), float32(0))
	assert.Greater(t, f.SpaceWidth(), float32(0))
	b := f.BoundsForGlyph(x)
	assert.Less(t, b.Y, float32(0))
	assert.Greater(t, b.H, float32(0))
	assert.InDelta(t, 0, b.MaxY(), 0.5, "x sits on the baseline")
	assert.Greater(t, f.Ascent(), float32(0))
	assert.Greater(t, f.Descent(), float32(0))
	assert.Equal(t, float32(0), f.WidthForGlyph(ctshape.DeletedGlyph))
}

func TestVariantCapsSupport(t *testing.T) {
	f, err := Parse(goregular.TTF, 10)
	require.NoError(t, err)
	assert.True(t, f.SupportsVariantCaps(ctshape.CapsNormal))
	assert.False(t, f.SupportsVariantCaps(ctshape.CapsSmall), "Go fonts have no small caps")
	assert.False(t, f.SupportsVariantCaps(ctshape.CapsSmall), "cached answer")
	sc := f.SmallCapsFont()
	assert.InDelta(t, 7, sc.Size(), 0.001)
	x := f.GlyphIndex('x')
	assert.InDelta(t, f.WidthForGlyph(x)*SmallCapsScale, sc.WidthForGlyph(x), 0.001)
	//
	assert.Nil(t, capsFeatures(ctshape.CapsNormal))
	features := capsFeatures(ctshape.CapsAllSmall)
	require.Len(t, features, 2)
	assert.Equal(t, "c2sc", features[1].Tag.String())
	assert.Equal(t, uint32(1), features[0].Value)
}

func TestDetectScript(t *testing.T) {
	assert.Equal(t, language.Latin, detectScript([]rune("12 ab")))
	assert.Equal(t, language.Arabic, detectScript([]rune(" ال")))
	assert.Equal(t, language.Latin, detectScript([]rune("1, 2")))
}

func TestShaper(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "complextext.hb")
	defer teardown()
	//
	f, err := Parse(gomono.TTF, 10)
	require.NoError(t, err)
	shaper := NewShaper()
	m := f.WidthForGlyph(f.GlyphIndex('m'))
	//
	span, err := shaper.Shape(utf16.Encode([]rune("abc")), f, ctshape.ShapeParams{Direction: bidi.LeftToRight})
	require.NoError(t, err)
	require.Equal(t, 3, span.Len())
	assert.Equal(t, []int{0, 1, 2}, span.Indices)
	assert.Equal(t, f.GlyphIndex('a'), span.Glyphs[0])
	assert.InDelta(t, m, span.Advances[1].W, 0.05)
	//
	span, err = shaper.Shape(utf16.Encode([]rune("abc")), f, ctshape.ShapeParams{Direction: bidi.RightToLeft})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, span.Indices)
	//
	span, err = shaper.Shape(utf16.Encode([]rune("a\U0001F600b")), f, ctshape.ShapeParams{Direction: bidi.LeftToRight})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, span.Indices)
	//
	span, err = shaper.Shape([]uint16{'a', 0xd800, 'b'}, f, ctshape.ShapeParams{Direction: bidi.LeftToRight})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, span.Indices)
}

func TestShaperRejectsForeignFonts(t *testing.T) {
	f, err := Parse(gomono.TTF, 10)
	require.NoError(t, err)
	_, err = NewShaper().Shape([]uint16{'a'}, foreign{f}, ctshape.ShapeParams{})
	assert.True(t, errors.Is(err, ctshape.ErrCannotShape))
}

func TestLayoutWithHarfBuzz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "complextext.shape")
	defer teardown()
	//
	mono, err := Parse(gomono.TTF, 10)
	require.NoError(t, err)
	fonts, err := ctshape.NewFallbackResolver(mono)
	require.NoError(t, err)
	style := &ctshape.Style{Fonts: fonts, Shaper: NewShaper()}
	m := mono.WidthForGlyph(mono.GlyphIndex('m'))
	for _, dir := range []bidi.Direction{bidi.LeftToRight, bidi.RightToLeft} {
		c, err := ctshape.New(style, ctshape.NewRun("abcd", dir))
		require.NoError(t, err)
		assert.InDelta(t, 4*m, c.TotalWidth(), 0.2)
		if dir == bidi.LeftToRight {
			assert.Equal(t, 1, c.OffsetForPosition(1.5*m, false))
		} else {
			assert.Equal(t, 2, c.OffsetForPosition(1.5*m, false))
		}
	}
	//
	style.VariantCaps = ctshape.CapsSmall
	c, err := ctshape.New(style, ctshape.NewRun("Ab", bidi.LeftToRight))
	require.NoError(t, err)
	require.Len(t, c.Runs(), 2)
	assert.InDelta(t, m+m*SmallCapsScale, c.TotalWidth(), 0.2)
}

// foreign hides a font behind another type.
type foreign struct {
	ctshape.Font
}
