package ctshape

import (
	"fmt"
	"slices"
	"strings"
)

// GlyphRecord is a glyph ready to be painted. Advance is the paint advance
// to the origin of the next glyph; StringOffset is the offset of the first
// character the glyph maps to, relative to the run.
type GlyphRecord struct {
	Glyph        GlyphID
	Font         Font
	Advance      Size
	StringOffset int
}

func (g GlyphRecord) String() string {
	return fmt.Sprintf("[%d@%d %s]", g.Glyph, g.StringOffset, g.Advance)
}

// GlyphSink receives glyphs in visual order from Controller.Advance.
type GlyphSink interface {
	// SetInitialAdvance sets the offset before the first glyph.
	SetInitialAdvance(Size)
	AddGlyph(GlyphRecord)
}

// GlyphBuffer is a GlyphSink collecting glyphs in memory.
type GlyphBuffer struct {
	initialAdvance Size
	glyphs         []GlyphRecord
}

var _ GlyphSink = (*GlyphBuffer)(nil)

// SetInitialAdvance sets the offset before the first glyph.
func (b *GlyphBuffer) SetInitialAdvance(s Size) {
	b.initialAdvance = s
}

// InitialAdvance is the offset before the first glyph.
func (b *GlyphBuffer) InitialAdvance() Size {
	return b.initialAdvance
}

// AddGlyph appends a glyph.
func (b *GlyphBuffer) AddGlyph(g GlyphRecord) {
	b.glyphs = append(b.glyphs, g)
}

// Glyphs returns the glyphs collected so far.
func (b *GlyphBuffer) Glyphs() []GlyphRecord {
	return b.glyphs
}

// Len is the number of glyphs.
func (b *GlyphBuffer) Len() int {
	return len(b.glyphs)
}

// IsEmpty is true for a buffer without glyphs.
func (b *GlyphBuffer) IsEmpty() bool {
	return len(b.glyphs) == 0
}

// Reverse reverses the order of glyphs in the buffer.
func (b *GlyphBuffer) Reverse() {
	slices.Reverse(b.glyphs)
}

// Advances sums up the paint advances of all glyphs.
func (b *GlyphBuffer) Advances() Size {
	var s Size
	for _, g := range b.glyphs {
		s = s.Add(g.Advance)
	}
	return s
}

// Reset empties the buffer.
func (b *GlyphBuffer) Reset() {
	b.initialAdvance = Size{}
	b.glyphs = b.glyphs[:0]
}

func (b *GlyphBuffer) String() string {
	var sb strings.Builder
	sb.WriteString(b.initialAdvance.String())
	for _, g := range b.glyphs {
		sb.WriteByte(' ')
		sb.WriteString(g.String())
	}
	return sb.String()
}
