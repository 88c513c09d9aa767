package ctshape

import (
	"fmt"

	"github.com/npillmayer/complextext/ctbreak"
)

// ComplexTextRun is a shaped sub-run of text set in a single font and a
// single case variant.
//
// A ComplexTextRun borrows its characters from the text of the run it is
// part of. Character indices of glyphs are relative to this span of
// characters, while StringLocation is the offset of the span within the run.
// Glyphs are stored in visual order.
type ComplexTextRun struct {
	font           Font
	characters     []uint16
	stringLocation int
	indexBegin     int
	indexEnd       int
	ltr            bool
	glyphs         []GlyphID
	baseAdvances   []Size
	glyphOrigins   []Point
	indices        []int
	initialAdvance Size
	monotonic      bool
	// character offset of the next mapped character, for non-monotonic runs
	glyphEndOffsets []int
}

// NewComplexTextRun wraps the output of a shaper. chars is the span of
// characters which has been shaped, loc the offset of chars within the run,
// and [begin,end) the range of chars covered by this sub-run.
//
// Shaper output with inconsistent lengths or out of range indices is a
// contract violation.
func NewComplexTextRun(span ShapedSpan, font Font, chars []uint16, loc, begin, end int, ltr bool) *ComplexTextRun {
	n := len(span.Glyphs)
	assert(len(span.Advances) == n, "ctshape: shaper returned inconsistent advances")
	assert(len(span.Indices) == n, "ctshape: shaper returned inconsistent indices")
	assert(span.Origins == nil || len(span.Origins) == n, "ctshape: shaper returned inconsistent origins")
	assert(begin >= 0 && begin <= end && end <= len(chars), "ctshape: sub-run bounds out of range")
	for _, inx := range span.Indices {
		assert(inx >= 0 && inx < len(chars), "ctshape: glyph maps to character out of range")
	}
	return &ComplexTextRun{
		font:           font,
		characters:     chars,
		stringLocation: loc,
		indexBegin:     begin,
		indexEnd:       end,
		ltr:            ltr,
		glyphs:         span.Glyphs,
		baseAdvances:   span.Advances,
		glyphOrigins:   span.Origins,
		indices:        span.Indices,
		initialAdvance: span.InitialAdvance,
		monotonic:      true,
	}
}

// NewMissingGlyphsRun synthesizes a sub-run of .notdef glyphs, one for every
// code point of chars[begin:end]. Default ignorable code points do not get
// a glyph. Every glyph advances by the width of .notdef in font.
func NewMissingGlyphsRun(font Font, chars []uint16, loc, begin, end int, ltr bool) *ComplexTextRun {
	assert(begin >= 0 && begin <= end && end <= len(chars), "ctshape: sub-run bounds out of range")
	indices := make([]int, 0, end-begin)
	for r := begin; r < end; {
		c, n := ctbreak.DecodeRune(chars[:end], r)
		if !isDeletedForRendering(c) {
			indices = append(indices, r)
		}
		r += n
	}
	if !ltr {
		for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}
	glyphs := make([]GlyphID, len(indices))
	advances := make([]Size, len(indices))
	w := font.WidthForGlyph(NotdefGlyph)
	for i := range advances {
		advances[i] = Size{W: w}
	}
	return &ComplexTextRun{
		font:           font,
		characters:     chars,
		stringLocation: loc,
		indexBegin:     begin,
		indexEnd:       end,
		ltr:            ltr,
		glyphs:         glyphs,
		baseAdvances:   advances,
		indices:        indices,
		monotonic:      true,
	}
}

// Font is the font of the sub-run.
func (r *ComplexTextRun) Font() Font { return r.font }

// Characters is the span of characters the sub-run borrows from its run.
func (r *ComplexTextRun) Characters() []uint16 { return r.characters }

// StringLocation is the offset of the characters within the run.
func (r *ComplexTextRun) StringLocation() int { return r.stringLocation }

// StringLength is the number of characters of the span.
func (r *ComplexTextRun) StringLength() int { return len(r.characters) }

// IndexBegin is the first character of the span covered by the sub-run.
func (r *ComplexTextRun) IndexBegin() int { return r.indexBegin }

// IndexEnd is the end of the range of characters covered by the sub-run.
func (r *ComplexTextRun) IndexEnd() int { return r.indexEnd }

// IsLTR reports whether the sub-run is set left-to-right.
func (r *ComplexTextRun) IsLTR() bool { return r.ltr }

// GlyphCount is the number of glyphs of the sub-run.
func (r *ComplexTextRun) GlyphCount() int { return len(r.glyphs) }

// Glyphs are the glyphs in visual order.
func (r *ComplexTextRun) Glyphs() []GlyphID { return r.glyphs }

// BaseAdvances are the unadjusted advances of the glyphs.
func (r *ComplexTextRun) BaseAdvances() []Size { return r.baseAdvances }

// GlyphOrigins are the glyph offsets, if the shaper reported any, or nil.
func (r *ComplexTextRun) GlyphOrigins() []Point { return r.glyphOrigins }

// InitialAdvance is the offset before the first glyph.
func (r *ComplexTextRun) InitialAdvance() Size { return r.initialAdvance }

// IsMonotonic is false if the glyph to character mapping is out of order.
func (r *ComplexTextRun) IsMonotonic() bool { return r.monotonic }

// IndexAt returns the index of the first character glyph i maps to,
// relative to the span of characters.
func (r *ComplexTextRun) IndexAt(i int) int {
	assert(i >= 0 && i < len(r.indices), "ctshape: glyph index out of range")
	return r.indices[i]
}

// EndOffsetAt returns the character offset after glyph i for a non-monotonic
// sub-run, i.e. the next greater character index any glyph maps to.
func (r *ComplexTextRun) EndOffsetAt(i int) int {
	assert(!r.monotonic, "ctshape: end offsets requested for monotonic sub-run")
	assert(i >= 0 && i < len(r.glyphEndOffsets), "ctshape: glyph index out of range")
	return r.glyphEndOffsets[i]
}

// setIsNonMonotonic marks the glyph to character mapping as out of order and
// builds the table of end offsets. It must be called at most once.
func (r *ComplexTextRun) setIsNonMonotonic() {
	assert(r.monotonic, "ctshape: sub-run already marked non-monotonic")
	r.monotonic = false
	mapped := make([]bool, len(r.characters))
	for _, inx := range r.indices {
		mapped[inx] = true
	}
	r.glyphEndOffsets = make([]int, len(r.indices))
	for i, inx := range r.indices {
		next := r.indexEnd
		for j := inx + 1; j < len(r.characters); j++ {
			if mapped[j] {
				next = j
				break
			}
		}
		r.glyphEndOffsets[i] = next
	}
}

func (r *ComplexTextRun) growInitialAdvanceHorizontally(delta float32) {
	r.initialAdvance.W += delta
}

// glyphEnd returns the end of the range of characters glyph i covers.
func (r *ComplexTextRun) glyphEnd(i int) int {
	if !r.monotonic {
		return r.EndOffsetAt(i)
	}
	return r.neighborEnd(i)
}

// neighborEnd bounds the characters of glyph i by the index of the glyph
// following it in reading direction.
func (r *ComplexTextRun) neighborEnd(i int) int {
	start := r.IndexAt(i)
	end := r.indexEnd
	if r.ltr && i+1 < len(r.glyphs) {
		end = r.IndexAt(i + 1)
	} else if !r.ltr && i > 0 {
		end = r.IndexAt(i - 1)
	}
	return max(start, end)
}

func (r *ComplexTextRun) String() string {
	dir := "ltr"
	if !r.ltr {
		dir = "rtl"
	}
	return fmt.Sprintf("run@%d[%d:%d] %s %d glyphs", r.stringLocation, r.indexBegin,
		r.indexEnd, dir, len(r.glyphs))
}
