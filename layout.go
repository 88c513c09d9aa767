package complextext

import (
	"math"

	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctshape"
	"github.com/npillmayer/complextext/ctshape/cthb"
)

// Layout owns a run of text, its style and the layout controller for it.
// A Layout is not safe for concurrent use.
type Layout struct {
	style     *ctshape.Style
	run       *ctshape.Run
	ctrl      *ctshape.Controller
	lastStyle ctshape.GlyphIterationStyle
}

// NewLayout lays out a run of text in a style.
func NewLayout(style *ctshape.Style, run *ctshape.Run, opts ...ctshape.Option) (*Layout, error) {
	ctrl, err := ctshape.New(style, run, opts...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("layout of %s: %d sub-runs, width %.2f", run, len(ctrl.Runs()), ctrl.TotalWidth())
	return &Layout{
		style:     style,
		run:       ctrl.Run(),
		ctrl:      ctrl,
		lastStyle: ctshape.ByWholeGlyphs,
	}, nil
}

// LayoutText lays out a string in a list of HarfBuzz fonts, the first of
// them being the primary font.
func LayoutText(text string, dir bidi.Direction, fonts ...*cthb.Font) (*Layout, error) {
	list := make([]ctshape.Font, len(fonts))
	for i, f := range fonts {
		if f == nil {
			return nil, errLayout(ctshape.ErrNoFonts, "nil font")
		}
		list[i] = f
	}
	resolver, err := ctshape.NewFallbackResolver(list...)
	if err != nil {
		return nil, err
	}
	style := &ctshape.Style{Fonts: resolver, Shaper: cthb.NewShaper()}
	return NewLayout(style, ctshape.NewRun(text, dir))
}

// Controller returns the layout controller.
func (l *Layout) Controller() *ctshape.Controller { return l.ctrl }

// Run returns the run of text.
func (l *Layout) Run() *ctshape.Run { return l.run }

// Style returns the style of the text.
func (l *Layout) Style() *ctshape.Style { return l.style }

// TotalWidth is the width of the whole run.
func (l *Layout) TotalWidth() float32 { return l.ctrl.TotalWidth() }

// FallbackFonts lists the fonts other than the primary font met by queries
// so far.
func (l *Layout) FallbackFonts() []ctshape.Font { return l.ctrl.FallbackFonts() }

// advance moves the controller's cursor, rewinding it first if it has last
// been moved with a different iteration style.
func (l *Layout) advance(offset int, sink ctshape.GlyphSink, style ctshape.GlyphIterationStyle) float32 {
	if style != l.lastStyle {
		l.ctrl.Advance(0, nil, style)
		l.lastStyle = style
	}
	l.ctrl.Advance(offset, sink, style)
	return l.ctrl.RunWidthSoFar()
}

// Width measures length characters starting at from, counting whole glyphs.
//
// A substring starting with a space after the start of the run does not
// include the word spacing of that space: it belongs to the preceding word.
func (l *Layout) Width(from, length int) float32 {
	before := l.advance(from, nil, ctshape.ByWholeGlyphs)
	if ws := l.style.WordSpacing; ws != 0 && from > 0 && from < l.run.Len() &&
		ctshape.TreatAsSpace(rune(l.run.Text[from])) {
		before += ws
	}
	after := l.advance(from+length, nil, ctshape.ByWholeGlyphs)
	return after - before
}

// OffsetForPosition returns the character offset for a horizontal position,
// relative to the left edge of the run.
func (l *Layout) OffsetForPosition(x float32, includePartialGlyphs bool) int {
	return l.ctrl.OffsetForPosition(x, includePartialGlyphs)
}

// SelectionRect returns the part of a line box covering the characters
// [from, to). Widths are rounded up to whole units.
func (l *Layout) SelectionRect(from, to int, line ctshape.Rect) ctshape.Rect {
	before := l.advance(from, nil, ctshape.IncludePartialGlyphs)
	after := l.advance(to, nil, ctshape.IncludePartialGlyphs)
	r := line
	if l.run.LTR() {
		r.X += before
	} else {
		r.X += l.ctrl.TotalWidth() - after
	}
	r.W = float32(math.Ceil(float64(after - before)))
	return r
}

// GlyphsForRange returns the glyphs for painting the characters [from, to),
// left to right. The initial advance of the buffer is the distance from the
// left edge of the run to the origin of the first glyph.
func (l *Layout) GlyphsForRange(from, to int) *ctshape.GlyphBuffer {
	var skipped ctshape.GlyphBuffer
	glyphs := &ctshape.GlyphBuffer{}
	l.advance(0, nil, ctshape.IncludePartialGlyphs)
	l.ctrl.Advance(from, &skipped, ctshape.IncludePartialGlyphs)
	l.ctrl.Advance(to, glyphs, ctshape.IncludePartialGlyphs)
	if glyphs.IsEmpty() {
		return glyphs
	}
	var initial ctshape.Size
	if l.run.LTR() {
		// paint advances sum up to layout advances
		initial = skipped.InitialAdvance().Add(skipped.Advances())
	} else {
		total := l.ctrl.TotalAdvance()
		a, b := skipped.Advances(), glyphs.Advances()
		initial = ctshape.Size{W: total.W - a.W - b.W, H: total.H - a.H - b.H}
		glyphs.Reverse()
	}
	glyphs.SetInitialAdvance(initial)
	return glyphs
}

// GlyphOverflow is the extent of glyph ink beyond the box of a line, in
// whole units.
type GlyphOverflow struct {
	Left, Right, Top, Bottom float32
}

// GlyphOverflow reports how far glyphs paint outside of the run's line box.
// The line box spans the width of the run and, vertically, the ascent and
// descent of the primary font, if the font knows them.
//
// If computeBounds is set, Top and Bottom are the distances of the top- and
// bottommost ink from the baseline instead.
func (l *Layout) GlyphOverflow(computeBounds bool) GlyphOverflow {
	c := l.ctrl
	if len(c.AdjustedGlyphs()) == 0 {
		return GlyphOverflow{}
	}
	var ascent, descent float32
	if vm, ok := l.style.PrimaryFont().(ctshape.VerticalMetrics); ok && !computeBounds {
		ascent, descent = vm.Ascent(), vm.Descent()
	}
	return GlyphOverflow{
		Left:   max(0, ceil(-c.MinGlyphBoundingBoxX())),
		Right:  max(0, ceil(c.MaxGlyphBoundingBoxX()-c.TotalWidth())),
		Top:    max(0, ceil(-c.MinGlyphBoundingBoxY())-ascent),
		Bottom: max(0, ceil(c.MaxGlyphBoundingBoxY())-descent),
	}
}

// EmphasisMarkCenters returns the horizontal centers of the glyphs of the
// characters [from, to) which receive an emphasis mark, left to right.
// Spaces, control characters and combining marks do not receive emphasis.
func (l *Layout) EmphasisMarkCenters(from, to int) ([]float32, error) {
	emph, err := NewLayout(l.style, l.run, ctshape.ForTextEmphasis())
	if err != nil {
		return nil, err
	}
	glyphs := emph.GlyphsForRange(from, to)
	var centers []float32
	x := glyphs.InitialAdvance().W
	for _, g := range glyphs.Glyphs() {
		if g.Glyph != ctshape.DeletedGlyph {
			centers = append(centers, x+g.Font.WidthForGlyph(g.Glyph)/2)
		}
		x += g.Advance.W
	}
	return centers, nil
}

func ceil(x float32) float32 {
	return float32(math.Ceil(float64(x)))
}
