package ctbreak

import (
	"sort"
	"unicode/utf16"

	"github.com/go-text/typesetting/segmenter"
	"golang.org/x/text/language"
)

// Mode selects the kind of boundaries an iterator reports.
type Mode int

const (
	// CharacterMode reports boundaries of extended grapheme clusters.
	CharacterMode Mode = iota
	// CaretMode reports positions where a text caret may be placed.
	CaretMode
)

func (m Mode) String() string {
	if m == CaretMode {
		return "caret"
	}
	return "character"
}

// Boundary is an oracle for cluster boundaries within a fixed text.
// Positions are UTF-16 code unit offsets.
type Boundary interface {
	// Following returns the first boundary strictly after pos.
	Following(pos int) (int, bool)
	// Preceding returns the last boundary strictly before pos.
	Preceding(pos int) (int, bool)
	// IsBoundary reports whether pos is a boundary.
	IsBoundary(pos int) bool
}

// Factory creates boundary oracles for texts. Implementations may take the
// locale into account.
type Factory interface {
	Iterator(text []uint16, mode Mode, locale language.Tag) Boundary
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(text []uint16, mode Mode, locale language.Tag) Boundary

// Iterator calls f.
func (f FactoryFunc) Iterator(text []uint16, mode Mode, locale language.Tag) Boundary {
	return f(text, mode, locale)
}

// Default returns a factory backed by the UAX #29 grapheme segmenter.
//
// Grapheme clusters do not vary by locale in UAX #29, so the locale is
// ignored. Caret positions are placed at grapheme cluster boundaries, too.
func Default() Factory {
	return FactoryFunc(func(text []uint16, mode Mode, locale language.Tag) Boundary {
		return Graphemes(text)
	})
}

// Boundaries is a sorted list of boundary offsets. It always contains 0 and
// the length of the text it was created for.
type Boundaries []int

var _ Boundary = Boundaries{}

// Graphemes segments text into extended grapheme clusters and returns the
// cluster boundaries as UTF-16 offsets.
func Graphemes(text []uint16) Boundaries {
	if len(text) == 0 {
		return Boundaries{0}
	}
	runes := utf16.Decode(text)
	// rune index -> UTF-16 offset
	offsets := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		offsets[i] = pos
		pos += runeLen(r)
	}
	offsets[len(runes)] = pos
	var seg segmenter.Segmenter
	seg.Init(runes)
	it := seg.GraphemeIterator()
	b := make(Boundaries, 0, len(runes)+1)
	for it.Next() {
		g := it.Grapheme()
		b = append(b, offsets[g.Offset])
	}
	b = append(b, len(text))
	tracer().Debugf("%d grapheme boundaries in text of length %d", len(b), len(text))
	return b
}

// Following returns the first boundary strictly after pos.
func (b Boundaries) Following(pos int) (int, bool) {
	i := sort.SearchInts(b, pos+1)
	if i >= len(b) {
		return 0, false
	}
	return b[i], true
}

// Preceding returns the last boundary strictly before pos.
func (b Boundaries) Preceding(pos int) (int, bool) {
	i := sort.SearchInts(b, pos)
	if i == 0 {
		return 0, false
	}
	return b[i-1], true
}

// IsBoundary reports whether pos is a boundary.
func (b Boundaries) IsBoundary(pos int) bool {
	i := sort.SearchInts(b, pos)
	return i < len(b) && b[i] == pos
}

// runeLen is the number of UTF-16 code units a decoded rune occupied.
// Unpaired surrogates are decoded to U+FFFD and occupied one unit.
func runeLen(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
