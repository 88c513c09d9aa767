package main

import (
	"fmt"
	"strings"

	"github.com/thatisuday/commando"

	"github.com/npillmayer/complextext/ctshape"
)

func runMeasureCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	l, _ := mustLayout(args, flags)
	n := l.Run().Len()
	from := mustFlagInt(flags["from"], "from")
	length := mustFlagInt(flags["len"], "len")
	if length < 0 {
		length = n - from
	}
	if from < 0 || from > n || from+length > n {
		fatalf("range [%d,+%d) out of bounds of text of length %d", from, length, n)
	}
	fmt.Printf("Text: %q (%d code units, %s)\n", l.Run().String(), n, directionName(l.Run()))
	fmt.Printf("Total width: %.2f\n", l.TotalWidth())
	fmt.Printf("Width of [%d,+%d): %.2f\n", from, length, l.Width(from, length))
	fmt.Printf("Sub-runs: %d\n", len(l.Controller().Runs()))
	overflow := l.GlyphOverflow(false)
	fmt.Printf("Glyph overflow: left=%.0f right=%.0f top=%.0f bottom=%.0f\n",
		overflow.Left, overflow.Right, overflow.Top, overflow.Bottom)
	l.GlyphsForRange(0, n)
	if fb := l.FallbackFonts(); len(fb) > 0 {
		names := make([]string, len(fb))
		for i, f := range fb {
			names[i] = fmt.Sprint(f)
		}
		fmt.Printf("Fallback fonts: %s\n", strings.Join(names, ","))
	}
}

func runHitTestCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	l, _ := mustLayout(args, flags)
	x, err := parseFloat(flags["pos"], "pos")
	if err != nil {
		fatalf("%v", err)
	}
	partial := mustFlagBool(flags["partial"], "partial")
	offset := l.OffsetForPosition(x, partial)
	fmt.Printf("x=%.2f -> offset %d (of %d, width %.2f)\n", x, offset, l.Run().Len(), l.TotalWidth())
}

func runGlyphsCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	l, _ := mustLayout(args, flags)
	n := l.Run().Len()
	from := mustFlagInt(flags["from"], "from")
	to := mustFlagInt(flags["to"], "to")
	if to < 0 {
		to = n
	}
	if from < 0 || from > to || to > n {
		fatalf("range [%d,%d) out of bounds of text of length %d", from, to, n)
	}
	fmt.Println(formatGlyphOutput(l.GlyphsForRange(from, to)))
}

func directionName(run *ctshape.Run) string {
	if run.LTR() {
		return "ltr"
	}
	return "rtl"
}

// formatGlyphOutput formats a glyph buffer as
// [initial|glyph=offset+advance|...], with deleted glyphs as '-'.
func formatGlyphOutput(buf *ctshape.GlyphBuffer) string {
	var b strings.Builder
	b.WriteString("[")
	fmt.Fprintf(&b, "%.2f", buf.InitialAdvance().W)
	for _, g := range buf.Glyphs() {
		b.WriteString("|")
		if g.Glyph == ctshape.DeletedGlyph {
			b.WriteString("-")
		} else {
			fmt.Fprintf(&b, "%d", g.Glyph)
		}
		fmt.Fprintf(&b, "=%d+%.2f", g.StringOffset, g.Advance.W)
		if g.Advance.H != 0 {
			fmt.Fprintf(&b, ",%.2f", g.Advance.H)
		}
	}
	b.WriteString("]")
	return b.String()
}
