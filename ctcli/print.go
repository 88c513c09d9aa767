package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"

	"github.com/npillmayer/complextext/ctbreak"
	"github.com/npillmayer/complextext/ctshape"
)

func printGlyphs(buf *ctshape.GlyphBuffer) {
	pterm.Printf("initial advance = %s\n", buf.InitialAdvance())
	data := [][]string{
		{"Index", "Glyph", "Offset", "Advance", "Font"},
	}
	for i, g := range buf.Glyphs() {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			formatGlyph(g.Glyph),
			fmt.Sprintf("%d", g.StringOffset),
			g.Advance.String(),
			fmt.Sprint(g.Font),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatGlyph(g ctshape.GlyphID) string {
	switch g {
	case ctshape.DeletedGlyph:
		return "(deleted)"
	case ctshape.NotdefGlyph:
		return ".notdef"
	}
	return fmt.Sprintf("%d", g)
}

func printCharacters(run *ctshape.Run) {
	data := [][]string{
		{"Offset", "Code point", "Char", "Name"},
	}
	for i := 0; i < run.Len(); {
		r, n := ctbreak.DecodeRune(run.Text, i)
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%U", r),
			printable(r),
			runenames.Name(r),
		})
		i += n
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printable(r rune) string {
	if ctshape.TreatAsSpace(r) || r < 0x20 || (r >= 0x7f && r < 0xa0) {
		return ""
	}
	return string(r)
}

func printRuns(c *ctshape.Controller) {
	data := [][]string{
		{"Run", "Location", "Length", "Dir", "Glyphs", "Font"},
	}
	for i, r := range c.Runs() {
		dir := "ltr"
		if !r.IsLTR() {
			dir = "rtl"
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", r.StringLocation()),
			fmt.Sprintf("%d", r.StringLength()),
			dir,
			fmt.Sprintf("%d", r.GlyphCount()),
			fmt.Sprint(r.Font()),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Printf("total advance = %s\n", c.TotalAdvance())
}
