package complextext

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctshape"
	"github.com/npillmayer/complextext/ctshape/cthb"
	"github.com/npillmayer/complextext/ctshape/ctsfnt"
)

// monoLayout lays out text in Go Mono at size 10 and returns the layout
// together with the advance of a glyph.
func monoLayout(t *testing.T, text string, dir bidi.Direction, wordSpacing float32) (*Layout, float32) {
	t.Helper()
	mono, err := ctsfnt.Parse(gomono.TTF, 10)
	require.NoError(t, err)
	fonts, err := ctshape.NewFallbackResolver(mono)
	require.NoError(t, err)
	style := &ctshape.Style{Fonts: fonts, Shaper: &ctsfnt.Shaper{}, WordSpacing: wordSpacing}
	l, err := NewLayout(style, ctshape.NewRun(text, dir))
	require.NoError(t, err)
	return l, mono.WidthForGlyph(mono.GlyphIndex('m'))
}

func TestNewLayoutErrors(t *testing.T) {
	_, err := NewLayout(nil, ctshape.NewRun("a", bidi.LeftToRight))
	assert.True(t, errors.Is(err, ctshape.ErrNilStyle))
	_, err = LayoutText("a", bidi.LeftToRight)
	assert.True(t, errors.Is(err, ctshape.ErrNoFonts))
	_, err = LayoutText("a", bidi.LeftToRight, nil)
	assert.True(t, errors.Is(err, ctshape.ErrNoFonts))
}

func TestWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "complextext")
	defer teardown()
	//
	l, m := monoLayout(t, "abcd", bidi.LeftToRight, 0)
	assert.InDelta(t, 4*m, l.TotalWidth(), 0.001)
	assert.InDelta(t, l.TotalWidth(), l.Width(0, 4), 0.001)
	assert.InDelta(t, 2*m, l.Width(1, 2), 0.001)
	assert.InDelta(t, m, l.Width(0, 1), 0.001, "measuring backwards rewinds")
	assert.InDelta(t, 0, l.Width(2, 0), 0.001)
}

func TestWidthWithWordSpacing(t *testing.T) {
	l, m := monoLayout(t, "a b", bidi.LeftToRight, 2)
	assert.InDelta(t, 3*m+2, l.TotalWidth(), 0.001)
	assert.InDelta(t, l.TotalWidth(), l.Width(0, 3), 0.001)
	assert.InDelta(t, m, l.Width(0, 1), 0.001)
	// the word spacing of a leading space belongs to the preceding word
	assert.InDelta(t, 2*m, l.Width(1, 2), 0.001)
	assert.InDelta(t, m, l.Width(2, 1), 0.001)
}

func TestSelectionRect(t *testing.T) {
	line := ctshape.Rect{X: 5, Y: 1, W: 100, H: 20}
	l, m := monoLayout(t, "abc", bidi.LeftToRight, 0)
	r := l.SelectionRect(1, 2, line)
	assert.InDelta(t, 5+m, r.X, 0.001)
	assert.Equal(t, float32(math.Ceil(float64(m))), r.W)
	assert.Equal(t, line.Y, r.Y)
	assert.Equal(t, line.H, r.H)
	//
	l, m = monoLayout(t, "abc", bidi.RightToLeft, 0)
	r = l.SelectionRect(0, 1, line)
	assert.InDelta(t, 5+2*m, r.X, 0.001, "first character of RTL text is rightmost")
	r = l.SelectionRect(1, 3, line)
	assert.InDelta(t, 5, r.X, 0.001)
}

func TestGlyphsForRange(t *testing.T) {
	l, m := monoLayout(t, "abcd", bidi.LeftToRight, 0)
	l.Width(0, 4) // move the cursor
	glyphs := l.GlyphsForRange(1, 3)
	require.Equal(t, 2, glyphs.Len())
	assert.InDelta(t, m, glyphs.InitialAdvance().W, 0.001)
	assert.Equal(t, 1, glyphs.Glyphs()[0].StringOffset)
	assert.Equal(t, 2, glyphs.Glyphs()[1].StringOffset)
	assert.True(t, l.GlyphsForRange(2, 2).IsEmpty())
	//
	l, m = monoLayout(t, "abcd", bidi.RightToLeft, 0)
	glyphs = l.GlyphsForRange(1, 3)
	require.Equal(t, 2, glyphs.Len())
	assert.Equal(t, 2, glyphs.Glyphs()[0].StringOffset, "glyphs are ordered left to right")
	assert.Equal(t, 1, glyphs.Glyphs()[1].StringOffset)
	assert.InDelta(t, m, glyphs.InitialAdvance().W, 0.001)
	assert.InDelta(t, 2*m, glyphs.Advances().W, 0.001)
}

func TestGlyphOverflow(t *testing.T) {
	l, _ := monoLayout(t, "Hag", bidi.LeftToRight, 0)
	bounds := l.GlyphOverflow(true)
	assert.GreaterOrEqual(t, bounds.Top, float32(5), "cap height")
	assert.GreaterOrEqual(t, bounds.Bottom, float32(1), "descender of g")
	overflow := l.GlyphOverflow(false)
	assert.LessOrEqual(t, overflow.Top, bounds.Top)
	assert.LessOrEqual(t, overflow.Bottom, bounds.Bottom)
	assert.GreaterOrEqual(t, overflow.Left, float32(0))
	//
	l, _ = monoLayout(t, "", bidi.LeftToRight, 0)
	assert.Equal(t, GlyphOverflow{}, l.GlyphOverflow(true))
}

func TestEmphasisMarkCenters(t *testing.T) {
	l, m := monoLayout(t, "a b", bidi.LeftToRight, 0)
	centers, err := l.EmphasisMarkCenters(0, 3)
	require.NoError(t, err)
	require.Len(t, centers, 2)
	assert.InDelta(t, m/2, centers[0], 0.001)
	assert.InDelta(t, 2*m+m/2, centers[1], 0.001)
}

func TestLayoutText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "complextext")
	defer teardown()
	//
	regular, err := cthb.Parse(goregular.TTF, 12)
	require.NoError(t, err)
	mono, err := cthb.Parse(gomono.TTF, 12)
	require.NoError(t, err)
	l, err := LayoutText("Hello", bidi.LeftToRight, regular, mono)
	require.NoError(t, err)
	assert.Greater(t, l.TotalWidth(), float32(0))
	assert.Equal(t, 5, l.OffsetForPosition(l.TotalWidth()+10, true))
	assert.Equal(t, 0, l.OffsetForPosition(-10, true))
	assert.Empty(t, l.FallbackFonts())
	assert.NotNil(t, l.Controller())
	assert.Equal(t, 5, l.Run().Len())
}
