package fontload

import (
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Info holds naming and metrics information about a font. Metrics are in
// font units.
type Info struct {
	Family     string
	Subfamily  string
	Version    string
	NumGlyphs  int
	UnitsPerEm sfnt.Units
	Ascent     int
	Descent    int // positive below the baseline
	LineGap    int
}

// Info collects naming and metrics information. Missing name entries are
// left empty.
func (f *ScalableFont) Info() Info {
	var buf sfnt.Buffer
	info := Info{
		Family:     f.name(&buf, sfnt.NameIDFamily),
		Subfamily:  f.name(&buf, sfnt.NameIDSubfamily),
		Version:    f.name(&buf, sfnt.NameIDVersion),
		NumGlyphs:  f.SFNT.NumGlyphs(),
		UnitsPerEm: f.SFNT.UnitsPerEm(),
	}
	// at ppem = units per em, 26.6 metrics are font units times 64
	m, err := f.SFNT.Metrics(&buf, fixed.I(int(info.UnitsPerEm)), font.HintingNone)
	if err != nil {
		tracer().Infof("cannot read metrics of %s: %v", f.Fontname, err)
		return info
	}
	info.Ascent = m.Ascent.Round()
	info.Descent = m.Descent.Round()
	info.LineGap = max(0, m.Height.Round()-info.Ascent-info.Descent)
	return info
}

func (f *ScalableFont) name(buf *sfnt.Buffer, id sfnt.NameID) string {
	s, err := f.SFNT.Name(buf, id)
	if err != nil {
		return ""
	}
	return s
}

// Missing returns the characters of text the font has no glyph for, in
// order of first occurrence. Control characters are not reported.
func (f *ScalableFont) Missing(text string) []rune {
	var buf sfnt.Buffer
	var missing []rune
	seen := make(map[rune]bool)
	for _, r := range text {
		if seen[r] || unicode.IsControl(r) {
			continue
		}
		seen[r] = true
		if g, err := f.SFNT.GlyphIndex(&buf, r); err != nil || g == 0 {
			missing = append(missing, r)
		}
	}
	return missing
}
