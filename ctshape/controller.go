package ctshape

import (
	"cmp"
	"math"
	"slices"
)

// Controller lays out a run of text and answers queries about the
// resulting glyph stream.
//
// Sub-runs are stored in visual order. For runs containing right-to-left
// sub-runs, a permutation of sub-run indices yields logical order, which
// is the order Advance walks in.
type Controller struct {
	style           *Style
	run             *Run
	ltr             bool
	end             int
	forTextEmphasis bool

	expansion               float32 // remaining expansion, consumed during adjustment
	expansionPerOpportunity float32

	runs            []*ComplexTextRun
	smallCapsBuffer []uint16

	adjustedBaseAdvances []Size
	glyphOrigins         []Point // may be shorter than adjustedBaseAdvances
	adjustedGlyphs       []GlyphID

	runIndices                 []int // logical order of sub-runs
	glyphCountFromStartToIndex []int // glyphs stored before a sub-run

	totalAdvance         Size
	minGlyphBoundingBoxX float32
	maxGlyphBoundingBoxX float32
	minGlyphBoundingBoxY float32
	maxGlyphBoundingBoxY float32
	isLTROnly            bool

	fallbackFonts []Font
	cursor        cursor
}

// cursor is the state of incremental advancing through the glyph stream.
type cursor struct {
	currentCharacter        int
	currentRun              int // in logical order
	glyphInCurrentRun       int // glyphs consumed, in reading direction
	characterInCurrentGlyph int
	runWidthSoFar           float32
	numGlyphsSoFar          int
}

func (c *cursor) reset() {
	*c = cursor{}
}

// Option configures a controller.
type Option func(*Controller)

// ForTextEmphasis prepares the glyph stream for placing emphasis marks:
// glyphs of characters which cannot receive an emphasis mark are deleted.
func ForTextEmphasis() Option {
	return func(c *Controller) {
		c.forTextEmphasis = true
	}
}

// New lays out run with style. It segments the run into sub-runs, shapes
// them and adjusts the glyph advances.
//
// The controller keeps references to style and run, which must not be
// modified while the controller is in use.
func New(style *Style, run *Run, opts ...Option) (*Controller, error) {
	c, err := newController(style, run, opts)
	if err != nil {
		return nil, err
	}
	if style.Shaper == nil {
		return nil, ErrNilShaper
	}
	c.collectComplexTextRuns()
	c.finishConstruction()
	tracer().Debugf("laid out run of length %d in %d sub-runs, total advance %s",
		c.end, len(c.runs), c.totalAdvance)
	return c, nil
}

// NewFromRuns creates a controller from sub-runs which have been shaped
// elsewhere. The sub-runs must be in visual order. They are not modified.
func NewFromRuns(style *Style, run *Run, runs []*ComplexTextRun, opts ...Option) (*Controller, error) {
	c, err := newController(style, run, opts)
	if err != nil {
		return nil, err
	}
	c.runs = make([]*ComplexTextRun, len(runs))
	for i, r := range runs {
		assert(r != nil, "ctshape: nil sub-run")
		copied := *r
		c.runs[i] = &copied
	}
	c.finishConstruction()
	return c, nil
}

func newController(style *Style, run *Run, opts []Option) (*Controller, error) {
	if style == nil || style.Fonts == nil {
		return nil, ErrNilStyle
	}
	if style.PrimaryFont() == nil {
		return nil, errLayout(ErrNoFonts, "font resolver has no primary font")
	}
	if run == nil {
		run = &Run{}
	}
	c := &Controller{
		style:                style,
		run:                  run,
		ltr:                  run.LTR(),
		end:                  run.Len(),
		expansion:            run.Expansion,
		isLTROnly:            true,
		minGlyphBoundingBoxX: math.MaxFloat32,
		maxGlyphBoundingBoxX: -math.MaxFloat32,
		minGlyphBoundingBoxY: math.MaxFloat32,
		maxGlyphBoundingBoxY: -math.MaxFloat32,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.computeExpansionOpportunity()
	return c, nil
}

func (c *Controller) computeExpansionOpportunity() {
	if c.expansion == 0 {
		c.expansionPerOpportunity = 0
		return
	}
	count, _ := ExpansionOpportunityCount(c.run.Text, c.ltr, c.run.ExpansionBehavior,
		c.style.ExpandAroundIdeographs)
	if count == 0 {
		c.expansionPerOpportunity = 0
		return
	}
	c.expansionPerOpportunity = c.expansion / float32(count)
}

// finishConstruction adjusts the glyph stream and, if sub-runs may be out of
// logical order, builds the tables for walking them in logical order.
func (c *Controller) finishConstruction() {
	c.adjustGlyphsAndAdvances()
	if c.isLTROnly {
		return
	}
	n := len(c.runs)
	c.runIndices = make([]int, n)
	for i := range c.runIndices {
		c.runIndices[i] = n - i - 1
	}
	slices.SortStableFunc(c.runIndices, func(a, b int) int {
		return cmp.Compare(stringBegin(c.runs[a]), stringBegin(c.runs[b]))
	})
	c.glyphCountFromStartToIndex = make([]int, n)
	count := 0
	for i, r := range c.runs {
		c.glyphCountFromStartToIndex[i] = count
		count += r.GlyphCount()
	}
}

func stringBegin(r *ComplexTextRun) int {
	return r.stringLocation + r.indexBegin
}

// glyphOrigin returns the origin offset of glyph i of the glyph stream.
func (c *Controller) glyphOrigin(i int) Point {
	if i < len(c.glyphOrigins) {
		return c.glyphOrigins[i]
	}
	return Point{}
}

func (c *Controller) addFallbackFont(f Font) {
	if !slices.Contains(c.fallbackFonts, f) {
		c.fallbackFonts = append(c.fallbackFonts, f)
	}
}

// --- Queries ---------------------------------------------------------------

// Style returns the style the controller lays out with.
func (c *Controller) Style() *Style { return c.style }

// Run returns the run laid out.
func (c *Controller) Run() *Run { return c.run }

// TotalAdvance is the sum of all adjusted advances.
func (c *Controller) TotalAdvance() Size { return c.totalAdvance }

// TotalWidth is the horizontal part of the total advance.
func (c *Controller) TotalWidth() float32 { return c.totalAdvance.W }

// RunWidthSoFar is the width of the glyphs consumed by Advance.
func (c *Controller) RunWidthSoFar() float32 { return c.cursor.runWidthSoFar }

// NumGlyphsSoFar is the number of glyphs completely consumed by Advance.
func (c *Controller) NumGlyphsSoFar() int { return c.cursor.numGlyphsSoFar }

// MinGlyphBoundingBoxX is the leftmost extent of any glyph.
func (c *Controller) MinGlyphBoundingBoxX() float32 { return c.minGlyphBoundingBoxX }

// MaxGlyphBoundingBoxX is the rightmost extent of any glyph.
func (c *Controller) MaxGlyphBoundingBoxX() float32 { return c.maxGlyphBoundingBoxX }

// MinGlyphBoundingBoxY is the topmost extent of any glyph.
func (c *Controller) MinGlyphBoundingBoxY() float32 { return c.minGlyphBoundingBoxY }

// MaxGlyphBoundingBoxY is the bottommost extent of any glyph.
func (c *Controller) MaxGlyphBoundingBoxY() float32 { return c.maxGlyphBoundingBoxY }

// Runs returns the sub-runs in visual order.
func (c *Controller) Runs() []*ComplexTextRun { return c.runs }

// AdjustedGlyphs returns the glyph stream in visual order.
func (c *Controller) AdjustedGlyphs() []GlyphID { return c.adjustedGlyphs }

// AdjustedAdvances returns the adjusted advances of the glyph stream.
func (c *Controller) AdjustedAdvances() []Size { return c.adjustedBaseAdvances }

// IsLTROnly reports whether all sub-runs are set left-to-right.
func (c *Controller) IsLTROnly() bool { return c.isLTROnly }

// FallbackFonts are the fonts other than the primary font met by Advance.
func (c *Controller) FallbackFonts() []Font { return c.fallbackFonts }
