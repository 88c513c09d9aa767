package ctshape

import (
	"testing"
	"unicode/utf16"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/unicode/bidi"
)

// --- Test Suite Preparation ------------------------------------------------

type ControllerTestEnviron struct {
	suite.Suite
	font  *testFont
	style *Style
}

// listen for 'go test' command --> run test methods
func TestControllerFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "complextext.shape")
	defer teardown()
	suite.Run(t, new(ControllerTestEnviron))
}

// run once, before test suite methods
func (env *ControllerTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("complextext.shape").SetTraceLevel(tracing.LevelInfo)
}

// run before each test method
func (env *ControllerTestEnviron) SetupTest() {
	env.font = abFont()
	env.style, _ = testStyle(env.font)
}

// run once, after test suite methods
func (env *ControllerTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

// --- Tests -----------------------------------------------------------------

func (env *ControllerTestEnviron) TestRoundTripAB() {
	c := mustController(env.style, NewRun("AB", bidi.LeftToRight))
	env.Equal(float32(22), c.TotalWidth())
	env.Equal(float32(10), width(c, 0, 1))
	env.Equal(float32(12), width(c, 1, 1))
	env.Equal(float32(22), width(c, 0, 2))
	for _, partial := range []bool{false, true} {
		env.Equal(0, c.OffsetForPosition(5, partial), "x=5, partial=%v", partial)
		env.Equal(1, c.OffsetForPosition(15, partial), "x=15, partial=%v", partial)
		env.Equal(2, c.OffsetForPosition(25, partial), "x=25, partial=%v", partial)
	}
	env.Equal(0, c.OffsetForPosition(-1, false))
}

func (env *ControllerTestEnviron) TestEmptyRun() {
	c := mustController(env.style, NewRun("", bidi.LeftToRight))
	env.Empty(c.Runs())
	env.Equal(float32(0), c.TotalWidth())
	env.Equal(0, c.OffsetForPosition(3, true))
	c.Advance(5, nil, ByWholeGlyphs)
	env.Equal(float32(0), c.RunWidthSoFar())
}

func (env *ControllerTestEnviron) TestWidthEqualsTotalAdvance() {
	env.style.LetterSpacing = 1
	env.style.WordSpacing = 2
	texts := []string{"AB AB\tBA", "A\u00a0B  A", " AB"}
	for _, dir := range []bidi.Direction{bidi.LeftToRight, bidi.RightToLeft} {
		for _, text := range texts {
			run := NewRun(text, dir)
			run.Expansion = 6
			c := mustController(env.style, run)
			n := run.Len()
			env.InDelta(c.TotalWidth(), width(c, 0, n), 0.001, "%q", text)
			sum := float32(0)
			for _, adv := range c.AdjustedAdvances() {
				sum += adv.W
			}
			env.InDelta(c.TotalWidth(), sum, 0.001, "%q", text)
		}
	}
}

func (env *ControllerTestEnviron) TestWidthAdditivity() {
	env.style.LetterSpacing = 0.5
	run := NewRun("AB BA\tAAB", bidi.LeftToRight)
	run.Expansion = 4
	c := mustController(env.style, run)
	n := run.Len()
	total := width(c, 0, n)
	for a := 0; a <= n; a++ {
		for b := 0; a+b <= n; b++ {
			w1 := width(c, a, b)
			w2 := width(c, a+b, n-a-b)
			env.InDelta(width(c, a, n-a), w1+w2, 0.001, "split %d+%d+%d", a, b, n-a-b)
		}
	}
	env.InDelta(c.TotalWidth(), total, 0.001)
}

func (env *ControllerTestEnviron) TestAdvanceIdempotence() {
	c := mustController(env.style, NewRun("ABBA", bidi.LeftToRight))
	buf := &GlyphBuffer{}
	c.Advance(2, buf, ByWholeGlyphs)
	env.Equal(2, buf.Len())
	w := c.RunWidthSoFar()
	c.Advance(2, buf, ByWholeGlyphs)
	env.Equal(2, buf.Len(), "second advance to same offset must not emit glyphs")
	env.Equal(w, c.RunWidthSoFar())
	env.Equal(2, c.NumGlyphsSoFar())
	c.Advance(4, buf, ByWholeGlyphs)
	env.Equal(4, buf.Len())
	env.Equal(float32(44), c.RunWidthSoFar())
}

func (env *ControllerTestEnviron) TestAdvanceResetsWhenMovingBack() {
	c := mustController(env.style, NewRun("ABBA", bidi.LeftToRight))
	c.Advance(3, nil, ByWholeGlyphs)
	env.Equal(float32(34), c.RunWidthSoFar())
	c.Advance(1, nil, ByWholeGlyphs)
	env.Equal(float32(10), c.RunWidthSoFar())
	env.Equal(1, c.NumGlyphsSoFar())
	c.Advance(99, nil, ByWholeGlyphs)
	env.Equal(float32(44), c.RunWidthSoFar())
}

func (env *ControllerTestEnviron) TestLoneTab() {
	for _, tt := range []struct {
		xpos, want float32
	}{
		{0, 40}, {15, 25}, {38, 42}, {80, 40},
	} {
		run := &Run{
			Text:      []uint16{'\t'},
			AllowTabs: true,
			TabSize:   TabSize{Value: 40},
			XPos:      tt.xpos,
		}
		c := mustController(env.style, run)
		env.Equal(tt.want, c.TotalWidth(), "tab at x=%.0f", tt.xpos)
		env.Equal([]GlyphID{DeletedGlyph}, c.AdjustedGlyphs())
	}
	run := &Run{Text: []uint16{'\t'}, TabSize: TabSize{Value: 40}}
	c := mustController(env.style, run)
	env.Equal(float32(testSpaceWidth), c.TotalWidth(), "tabs not allowed: tab is a space")
}

func (env *ControllerTestEnviron) TestTabsInSpaces() {
	run := NewRun("A\tB", bidi.LeftToRight) // default tab size is 8 spaces
	c := mustController(env.style, run)
	env.Equal([]Size{{W: 10}, {W: 30}, {W: 12}}, c.AdjustedAdvances())
}

func (env *ControllerTestEnviron) TestSingleSpaceExpansion() {
	run := NewRun("A B", bidi.LeftToRight)
	run.Expansion = 10
	c := mustController(env.style, run)
	env.Equal([]Size{{W: 10}, {W: 15}, {W: 12}}, c.AdjustedAdvances())
	env.Equal(float32(37), c.TotalWidth())
	//
	run = NewRun("A B", bidi.RightToLeft)
	run.Expansion = 10
	c = mustController(env.style, run)
	// visual order B, space, A; the space expands to its left
	env.Equal([]Size{{W: 22}, {W: 5}, {W: 10}}, c.AdjustedAdvances())
	env.Equal(float32(37), c.TotalWidth())
}

func (env *ControllerTestEnviron) TestForcedExpansion() {
	run := NewRun("AB", bidi.LeftToRight)
	run.Expansion = 8
	run.ExpansionBehavior = ExpansionBehavior{Left: ExpansionForce, Right: ExpansionForce}
	c := mustController(env.style, run)
	// two opportunities: left of 'A' (grows the initial advance) and right of 'B'
	env.Equal([]Size{{W: 14}, {W: 16}}, c.AdjustedAdvances())
	env.Equal(Size{W: 4}, c.Runs()[0].InitialAdvance())
	env.Equal(float32(30), c.TotalWidth())
}

func (env *ControllerTestEnviron) TestIdeographExpansion() {
	env.style.ExpandAroundIdeographs = true
	run := NewRun("中文", bidi.LeftToRight)
	run.Expansion = 9
	c := mustController(env.style, run)
	// 3 opportunities of 3 units: both sides of the first, right of the second
	env.Equal([]Size{{W: 14}, {W: 11}}, c.AdjustedAdvances())
	env.Equal(float32(25), c.TotalWidth())
}

func (env *ControllerTestEnviron) TestSpacing() {
	env.style.LetterSpacing = 2
	c := mustController(env.style, NewRun("AB", bidi.LeftToRight))
	env.Equal(float32(26), c.TotalWidth())
	c = mustController(env.style, NewRun("A\u200bB", bidi.LeftToRight))
	env.Equal(float32(26), c.TotalWidth(), "zero width space gets no letter spacing")
	//
	env.style.LetterSpacing = 0
	env.style.WordSpacing = 3
	c = mustController(env.style, NewRun("A B", bidi.LeftToRight))
	env.Equal([]Size{{W: 10}, {W: 8}, {W: 12}}, c.AdjustedAdvances())
	c = mustController(env.style, NewRun(" A", bidi.LeftToRight))
	env.Equal(float32(15), c.TotalWidth(), "leading space gets no word spacing")
	c = mustController(env.style, NewRun("\u00a0A", bidi.LeftToRight))
	env.Equal(float32(18), c.TotalWidth(), "leading no-break space gets word spacing")
	//
	run := NewRun("A B", bidi.LeftToRight)
	run.SpacingDisabled = true
	c = mustController(env.style, run)
	env.Equal(float32(27), c.TotalWidth())
}

func (env *ControllerTestEnviron) TestSyntheticBold() {
	env.font.bold = 1
	c := mustController(env.style, NewRun("AB", bidi.LeftToRight))
	env.Equal(float32(24), c.TotalWidth())
}

func (env *ControllerTestEnviron) TestControlCharacters() {
	c := mustController(env.style, NewRun("A\u0001B", bidi.LeftToRight))
	env.Equal([]GlyphID{'A', NotdefGlyph, 'B'}, c.AdjustedGlyphs())
	env.Equal(float32(10+testNotdefWidth+12), c.TotalWidth())
	//
	c = mustController(env.style, NewRun("A\u200bB", bidi.LeftToRight))
	env.Equal([]GlyphID{'A', ' ', 'B'}, c.AdjustedGlyphs())
	env.Equal(float32(22), c.TotalWidth())
	//
	c = mustController(env.style, NewRun("A\nB", bidi.LeftToRight))
	env.Equal([]GlyphID{'A', '\n', 'B'}, c.AdjustedGlyphs())
	env.Equal(float32(27), c.TotalWidth())
}

func (env *ControllerTestEnviron) TestGlyphBoundingBox() {
	c := mustController(env.style, NewRun("AB", bidi.LeftToRight))
	env.Equal(float32(0), c.MinGlyphBoundingBoxX())
	env.Equal(float32(22), c.MaxGlyphBoundingBoxX())
	env.Equal(float32(-8), c.MinGlyphBoundingBoxY())
	env.Equal(float32(2), c.MaxGlyphBoundingBoxY())
}

func (env *ControllerTestEnviron) TestGlyphBoundingBoxPerSubRun() {
	env.font.covers = func(r rune) bool { return r < 0x80 }
	greek := newTestFont("greek", map[rune]float32{'Ω': 9})
	style, _ := testStyle(env.font, greek)
	c := mustController(style, NewRun("AΩB", bidi.LeftToRight))
	env.Len(c.Runs(), 3)
	env.Equal(float32(31), c.TotalWidth())
	// glyph origins restart with every sub-run
	env.Equal(float32(0), c.MinGlyphBoundingBoxX())
	env.Equal(float32(12), c.MaxGlyphBoundingBoxX())
}

func (env *ControllerTestEnviron) TestTextEmphasis() {
	c := mustController(env.style, NewRun("A B\u0301", bidi.LeftToRight), ForTextEmphasis())
	env.Equal([]GlyphID{'A', DeletedGlyph, 'B', DeletedGlyph}, c.AdjustedGlyphs())
}

func (env *ControllerTestEnviron) TestFallbackFonts() {
	env.font.covers = func(r rune) bool { return r < 0x80 }
	greek := newTestFont("greek", map[rune]float32{'Ω': 9})
	style, _ := testStyle(env.font, greek)
	c := mustController(style, NewRun("AΩB", bidi.LeftToRight))
	env.Len(c.Runs(), 3)
	env.Equal(float32(31), c.TotalWidth())
	env.Empty(c.FallbackFonts())
	c.Advance(3, nil, ByWholeGlyphs)
	env.Equal([]Font{greek}, c.FallbackFonts())
}

func (env *ControllerTestEnviron) TestMissingFont() {
	env.font.covers = func(r rune) bool { return r < 0x80 }
	c := mustController(env.style, NewRun("AΩB", bidi.LeftToRight))
	env.Len(c.Runs(), 3)
	env.Equal([]GlyphID{'A', NotdefGlyph, 'B'}, c.AdjustedGlyphs())
	env.Equal(Font(env.font), c.Runs()[1].Font())
	env.Equal(float32(10+testNotdefWidth+12), c.TotalWidth())
}

func (env *ControllerTestEnviron) TestShaperFailure() {
	style, shaper := testStyle(env.font)
	shaper.fail = env.font
	c := mustController(style, NewRun("AB", bidi.LeftToRight))
	env.Len(c.Runs(), 1)
	env.Equal([]GlyphID{NotdefGlyph, NotdefGlyph}, c.AdjustedGlyphs())
	env.Equal(float32(2*testNotdefWidth), c.TotalWidth())
}

func (env *ControllerTestEnviron) TestZeroSizeFont() {
	env.font.scale = 0
	c := mustController(env.style, NewRun("AB", bidi.LeftToRight))
	env.Empty(c.Runs())
}

func (env *ControllerTestEnviron) TestConstructionErrors() {
	run := NewRun("AB", bidi.LeftToRight)
	_, err := New(nil, run)
	env.ErrorIs(err, ErrNilStyle)
	_, err = New(&Style{Fonts: env.style.Fonts}, run)
	env.ErrorIs(err, ErrNilShaper)
	_, err = NewFromRuns(&Style{}, run, nil)
	env.ErrorIs(err, ErrNilStyle)
}

func (env *ControllerTestEnviron) TestRightToLeft() {
	c := mustController(env.style, NewRun("AB", bidi.RightToLeft))
	env.False(c.IsLTROnly())
	env.Equal([]GlyphID{'B', 'A'}, c.AdjustedGlyphs())
	env.Equal(float32(10), width(c, 0, 1))
	env.Equal(float32(12), width(c, 1, 1))
	env.Equal(2, c.OffsetForPosition(-1, true))
	env.Equal(0, c.OffsetForPosition(30, true))
	c.Advance(0, nil, ByWholeGlyphs)
	buf := &GlyphBuffer{}
	c.Advance(2, buf, ByWholeGlyphs)
	env.Equal(2, buf.Len())
	env.Equal(0, buf.Glyphs()[0].StringOffset, "glyphs are emitted in logical order")
	env.Equal(GlyphID('A'), buf.Glyphs()[0].Glyph)
	env.Equal(1, buf.Glyphs()[1].StringOffset)
}

func (env *ControllerTestEnviron) TestRightToLeftMultipleRuns() {
	env.font.covers = func(r rune) bool { return r < 0x80 }
	greek := newTestFont("greek", map[rune]float32{'Ω': 9})
	style, _ := testStyle(env.font, greek)
	c := mustController(style, NewRun("AΩB", bidi.RightToLeft))
	env.Len(c.Runs(), 3)
	// storage order is visual order
	env.Equal(2, c.Runs()[0].StringLocation())
	env.Equal(0, c.Runs()[2].StringLocation())
	env.Equal([]int{2, 1, 0}, c.runIndices)
	env.Equal([]int{0, 1, 2}, c.glyphCountFromStartToIndex)
	env.Equal(float32(10), width(c, 0, 1))
	env.Equal(float32(9), width(c, 1, 1))
	env.Equal(float32(12), width(c, 2, 1))
	env.Equal(2, c.OffsetForPosition(5, false))
	env.Equal(1, c.OffsetForPosition(15, false))
	env.Equal(0, c.OffsetForPosition(25, false))
}

func (env *ControllerTestEnviron) TestHitTestingMonotonic() {
	for _, dir := range []bidi.Direction{bidi.LeftToRight, bidi.RightToLeft} {
		c := mustController(env.style, NewRun("AB BA\u0301B", dir))
		for _, partial := range []bool{false, true} {
			prev := c.OffsetForPosition(-1, partial)
			for x := float32(-0.5); x <= c.TotalWidth()+1; x += 0.25 {
				offset := c.OffsetForPosition(x, partial)
				if dir == bidi.LeftToRight {
					env.GreaterOrEqual(offset, prev, "ltr x=%.2f partial=%v", x, partial)
				} else {
					env.LessOrEqual(offset, prev, "rtl x=%.2f partial=%v", x, partial)
				}
				env.NotEqual(5, offset, "offset inside of cluster at x=%.2f", x)
				prev = offset
			}
		}
	}
}

func (env *ControllerTestEnviron) TestRightToLeftMirroring() {
	ltr := mustController(env.style, NewRun("AB", bidi.LeftToRight))
	rtl := mustController(env.style, NewRun("AB", bidi.RightToLeft))
	w := ltr.TotalWidth()
	env.Equal(w, rtl.TotalWidth())
	for _, x := range []float32{1, 3, 8, 14, 19, 21} {
		for _, partial := range []bool{false, true} {
			env.Equal(ltr.OffsetForPosition(x, partial), rtl.OffsetForPosition(w-x, partial),
				"x=%.0f partial=%v", x, partial)
		}
	}
}

func (env *ControllerTestEnviron) TestPartialGlyphs() {
	chars := utf16.Encode([]rune("fi"))
	span := ShapedSpan{
		Glyphs:   []GlyphID{0xfb01},
		Advances: []Size{{W: 10}},
		Indices:  []int{0},
	}
	run := &Run{Text: chars}
	ctr := NewComplexTextRun(span, env.font, chars, 0, 0, 2, true)
	c, err := NewFromRuns(env.style, run, []*ComplexTextRun{ctr})
	env.Require().NoError(err)
	c.Advance(1, nil, IncludePartialGlyphs)
	env.Equal(float32(5), c.RunWidthSoFar())
	c.Advance(2, nil, IncludePartialGlyphs)
	env.Equal(float32(10), c.RunWidthSoFar())
	c.Advance(1, nil, ByWholeGlyphs)
	env.Equal(float32(10), c.RunWidthSoFar())
	c.Advance(2, nil, ByWholeGlyphs)
	env.Equal(float32(10), c.RunWidthSoFar())
	// caret positions within a ligature are interpolated
	env.Equal(0, c.OffsetForPosition(4, false))
	env.Equal(1, c.OffsetForPosition(6, false))
	env.Equal(1, c.OffsetForPosition(6, true))
	env.Equal(2, c.OffsetForPosition(8, true))
}

func (env *ControllerTestEnviron) TestNonMonotonicRun() {
	chars := utf16.Encode([]rune("abc"))
	span := ShapedSpan{
		Glyphs:   []GlyphID{1, 2, 3},
		Advances: []Size{{W: 10}, {W: 10}, {W: 10}},
		Indices:  []int{0, 2, 1},
	}
	ctr := NewComplexTextRun(span, env.font, chars, 0, 0, 3, true)
	c, err := NewFromRuns(env.style, &Run{Text: chars}, []*ComplexTextRun{ctr})
	env.Require().NoError(err)
	env.True(ctr.IsMonotonic(), "externally supplied runs are not modified")
	r := c.Runs()[0]
	env.False(r.IsMonotonic())
	env.Equal(1, r.EndOffsetAt(0))
	env.Equal(3, r.EndOffsetAt(1))
	env.Equal(2, r.EndOffsetAt(2))
	env.Equal(float32(30), width(c, 0, 3))
}

func (env *ControllerTestEnviron) TestPaintAdvancesWithOrigins() {
	chars := utf16.Encode([]rune("ab"))
	span := ShapedSpan{
		Glyphs:   []GlyphID{1, 2},
		Advances: []Size{{W: 10}, {W: 10}},
		Origins:  []Point{{}, {X: 2, Y: 1}},
		Indices:  []int{0, 1},
	}
	ctr := NewComplexTextRun(span, env.font, chars, 0, 0, 2, true)
	c, err := NewFromRuns(env.style, &Run{Text: chars}, []*ComplexTextRun{ctr})
	env.Require().NoError(err)
	buf := &GlyphBuffer{}
	c.Advance(2, buf, ByWholeGlyphs)
	env.Equal([]GlyphRecord{
		{Glyph: 1, Font: env.font, Advance: Size{W: 12, H: -1}, StringOffset: 0},
		{Glyph: 2, Font: env.font, Advance: Size{W: 8, H: 1}, StringOffset: 1},
	}, buf.Glyphs())
	env.Equal(c.TotalAdvance(), buf.Advances())
}

func (env *ControllerTestEnviron) TestPaintAdvancesAcrossRuns() {
	chars := utf16.Encode([]rune("abc"))
	first := NewComplexTextRun(ShapedSpan{
		Glyphs:   []GlyphID{1, 2},
		Advances: []Size{{W: 10}, {W: 10}},
		Indices:  []int{0, 1},
	}, env.font, chars[:2], 0, 0, 2, true)
	second := NewComplexTextRun(ShapedSpan{
		Glyphs:         []GlyphID{3},
		Advances:       []Size{{W: 10}},
		Indices:        []int{0},
		InitialAdvance: Size{W: 3},
	}, env.font, chars[2:], 2, 0, 1, true)
	c, err := NewFromRuns(env.style, &Run{Text: chars}, []*ComplexTextRun{first, second})
	env.Require().NoError(err)
	env.Equal(float32(33), c.TotalWidth())
	buf := &GlyphBuffer{}
	c.Advance(3, buf, ByWholeGlyphs)
	env.Equal(3, buf.Len())
	env.Equal(float32(13), buf.Glyphs()[1].Advance.W, "last glyph points to the next run's first glyph")
	env.Equal(float32(10), buf.Glyphs()[2].Advance.W)
	env.Equal(Size{}, buf.InitialAdvance())
	env.Equal(c.TotalWidth(), buf.InitialAdvance().W+buf.Advances().W)
}
