package layoutcmp

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/npillmayer/complextext"
	"github.com/npillmayer/complextext/ctshape"
)

// Tolerance is the maximum deviation of measured from expected values.
const Tolerance = 0.01

// Build lays out the input of a fixture.
func Build(fx Fixture) (*complextext.Layout, error) {
	ctx := fx.Context
	fonts := make([]ctshape.Font, len(ctx.Fonts))
	for i, spec := range ctx.Fonts {
		fonts[i] = NewTableFont(spec)
	}
	resolver, err := ctshape.NewFallbackResolver(fonts...)
	if err != nil {
		return nil, err
	}
	caps := ctshape.CapsNormal
	if ctx.Caps != "" {
		caps, _ = ctshape.ParseVariantCaps(ctx.Caps)
	}
	style := &ctshape.Style{
		Fonts:                  resolver,
		Shaper:                 TableShaper{},
		Locale:                 parseLanguage(ctx.Language),
		VariantCaps:            caps,
		NoSmallCapsSynthesis:   ctx.NoCapsSynthesis,
		LetterSpacing:          ctx.LetterSpacing,
		WordSpacing:            ctx.WordSpacing,
		ExpandAroundIdeographs: ctx.ExpandIdeographs,
	}
	dir, err := parseDirection(ctx.Dir)
	if err != nil {
		return nil, err
	}
	run := ctshape.NewRun(fx.Input, dir)
	run.Expansion = ctx.Expansion
	run.XPos = ctx.XPos
	run.AllowTabs = !ctx.DisallowTabs
	if ctx.TabSize != 0 {
		run.TabSize = ctshape.TabSize{Value: ctx.TabSize, InSpaces: true}
	}
	if ctx.ForbidLeftExpand {
		run.ExpansionBehavior.Left = ctshape.ExpansionForbid
	}
	if ctx.ForbidRightExpand {
		run.ExpansionBehavior.Right = ctshape.ExpansionForbid
	}
	var opts []ctshape.Option
	if ctx.ForTextEmphasis {
		opts = append(opts, ctshape.ForTextEmphasis())
	}
	return complextext.NewLayout(style, run, opts...)
}

// Check lays out a fixture and compares the results with its expectations.
// All mismatches are reported.
func Check(fx Fixture) error {
	l, err := Build(fx)
	if err != nil {
		return fmt.Errorf("build layout: %w", err)
	}
	var errs []error
	mismatch := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	want := fx.Expect
	if !near(l.TotalWidth(), want.TotalWidth) {
		mismatch("total width: got %.2f, want %.2f", l.TotalWidth(), want.TotalWidth)
	}
	for _, w := range want.Widths {
		if got := l.Width(w.From, w.Len); !near(got, w.Width) {
			mismatch("width of [%d,+%d): got %.2f, want %.2f", w.From, w.Len, got, w.Width)
		}
	}
	for _, h := range want.Hits {
		if got := l.OffsetForPosition(h.X, h.Partial); got != h.Offset {
			mismatch("offset for x=%.2f (partial=%v): got %d, want %d", h.X, h.Partial, got, h.Offset)
		}
	}
	if len(want.Glyphs) > 0 {
		errs = append(errs, compareGlyphs(l.GlyphsForRange(0, l.Run().Len()), want.Glyphs)...)
	}
	if len(want.FallbackFonts) > 0 {
		l.GlyphsForRange(0, l.Run().Len())
		var names []string
		for _, f := range l.FallbackFonts() {
			names = append(names, fmt.Sprint(f))
		}
		if !slices.Equal(names, want.FallbackFonts) {
			mismatch("fallback fonts: got %v, want %v", names, want.FallbackFonts)
		}
	}
	if len(errs) > 0 {
		tracer().Infof("fixture %s: %d mismatches", fx.Name, len(errs))
	}
	return errors.Join(errs...)
}

func compareGlyphs(buf *ctshape.GlyphBuffer, want []Glyph) []error {
	got := buf.Glyphs()
	if len(got) != len(want) {
		return []error{fmt.Errorf("glyph count: got %d, want %d (%s)", len(got), len(want), buf)}
	}
	var errs []error
	for i := range want {
		g, w := got[i], want[i]
		if uint32(g.Glyph) != w.G || g.StringOffset != w.Offset || !near(g.Advance.W, w.Advance) {
			errs = append(errs, fmt.Errorf("glyph[%d]: got %s, want [%d@%d %.2f]", i, g, w.G, w.Offset, w.Advance))
		}
	}
	return errs
}

func near(got, want float32) bool {
	return math.Abs(float64(got-want)) <= Tolerance
}
