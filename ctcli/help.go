package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "style", "font", "fonts", "caps":
		pterm.Info.Println("Style")
		pterm.Println(`
	font <name> [<fallback> ...]   load fonts by file path or builtin name
	size <px>                      set the font size
	backend hb|sfnt                select the shaper
	lang <tag>                     set the locale (e.g. tr for Turkish casing)
	caps <variant> [nosynth]       normal, small-caps, all-small-caps, petite-caps, ...
	letter <px>                    letter spacing
	word <px>                      word spacing
	expansion <px>                 extra space to distribute for justification
	`)
	case "query", "queries", "measure", "hit":
		pterm.Info.Println("Queries")
		pterm.Println(`
	measure [<from> [<len>]]       total width and width of a range of characters
	hit <x> [partial]              character offset at a horizontal position
	select [<from> [<to>]]         selection rectangle of a range of characters
	glyphs [<from> [<to>]]         glyphs painting a range of characters
	runs                           sub-runs of the layout
	overflow [bounds]              glyph ink outside of the line box
	emphasis                       centers of emphasis marks
	chars                          characters of the text
	info                           font information and coverage of the text
	`)
	default:
		pterm.Info.Println("General Help")
		pterm.Println(`
	text "<text>"                  set the text to lay out
	dir ltr|rtl                    set the direction of the run
	help style | help queries      more help
	quit                           leave
	`)
	}
}
