package ctshape

import (
	"github.com/npillmayer/complextext/ctbreak"
)

// OffsetForPosition returns the character offset at x-position h, measured
// from the left edge of the run.
//
// Positions are snapped to caret positions (grapheme cluster boundaries).
// If includePartialGlyphs is set, the offset is rounded to the nearer edge
// of the cluster hit; otherwise the offset of the cluster's start is
// returned.
func (c *Controller) OffsetForPosition(h float32, includePartialGlyphs bool) int {
	if h >= c.totalAdvance.W {
		if c.ltr {
			return c.end
		}
		return 0
	}
	if h < 0 {
		if c.ltr {
			return 0
		}
		return c.end
	}
	x := h
	offsetIntoAdjustedGlyphs := 0
	for _, ctr := range c.runs {
		for j := 0; j < ctr.GlyphCount(); j++ {
			adjustedAdvance := c.adjustedBaseAdvances[offsetIntoAdjustedGlyphs+j].W
			var hit bool
			if c.ltr {
				hit = x < adjustedAdvance
			} else {
				hit = x <= adjustedAdvance && adjustedAdvance != 0
			}
			if hit {
				return c.offsetInGlyph(ctr, j, offsetIntoAdjustedGlyphs, x, includePartialGlyphs)
			}
			x -= adjustedAdvance
		}
		offsetIntoAdjustedGlyphs += ctr.GlyphCount()
	}
	// rounding errors may let us miss the last glyph
	tracer().Infof("position %.2f not within glyphs of run of width %.2f", h, c.totalAdvance.W)
	if c.ltr {
		return c.end
	}
	return 0
}

// offsetInGlyph locates x within glyph j of ctr. x is relative to the left
// edge of the glyph.
func (c *Controller) offsetInGlyph(ctr *ComplexTextRun, j, offsetIntoAdjustedGlyphs int, x float32,
	includePartialGlyphs bool) int {
	//
	ltr := c.ltr
	glyphCount := ctr.GlyphCount()
	adjustedAdvance := c.adjustedBaseAdvances[offsetIntoAdjustedGlyphs+j].W
	hitGlyphStart := ctr.IndexAt(j)
	hitGlyphEnd := ctr.indexEnd
	if ltr && j+1 < glyphCount {
		hitGlyphEnd = ctr.IndexAt(j + 1)
	} else if !ltr && j > 0 {
		hitGlyphEnd = ctr.IndexAt(j - 1)
	}
	hitGlyphEnd = max(hitGlyphStart, hitGlyphEnd)
	glyphChars := float32(hitGlyphEnd - hitGlyphStart)

	// characters share the glyph's advance evenly
	var hitIndex int
	switch {
	case ltr:
		hitIndex = int(float32(hitGlyphStart) + glyphChars*(x/adjustedAdvance))
	case hitGlyphStart == hitGlyphEnd:
		hitIndex = hitGlyphStart
	case x != 0:
		hitIndex = int(float32(hitGlyphEnd) - glyphChars*(x/adjustedAdvance))
	default:
		hitIndex = hitGlyphEnd - 1
	}

	stringLength := ctr.StringLength()
	carets := c.style.breaks().Iterator(ctr.Characters(), ctbreak.CaretMode, c.style.Locale)
	clusterStart := hitIndex
	if !carets.IsBoundary(hitIndex) {
		clusterStart, _ = carets.Preceding(hitIndex)
	}
	if !includePartialGlyphs {
		return ctr.stringLocation + clusterStart
	}
	clusterEnd, ok := carets.Following(hitIndex)
	if !ok {
		clusterEnd = stringLength
	}

	inCluster := func(k int) bool {
		inx := ctr.IndexAt(k)
		return inx >= clusterStart && inx < clusterEnd
	}
	var clusterWidth float32
	if clusterEnd-clusterStart > 1 {
		// the cluster may span more than one glyph
		clusterWidth = adjustedAdvance
		for k := j - 1; k >= 0 && inCluster(k); k-- {
			w := c.adjustedBaseAdvances[offsetIntoAdjustedGlyphs+k].W
			clusterWidth += w
			x += w
		}
		for k := j + 1; k < glyphCount && inCluster(k); k++ {
			clusterWidth += c.adjustedBaseAdvances[offsetIntoAdjustedGlyphs+k].W
		}
	} else {
		clusterWidth = adjustedAdvance / float32(max(1, hitGlyphEnd-hitGlyphStart))
		if ltr {
			x -= clusterWidth * float32(hitIndex-hitGlyphStart)
		} else {
			x -= clusterWidth * float32(max(0, hitGlyphEnd-hitIndex-1))
		}
	}
	if x <= clusterWidth/2 {
		if ltr {
			return ctr.stringLocation + clusterStart
		}
		return ctr.stringLocation + clusterEnd
	}
	if ltr {
		return ctr.stringLocation + clusterEnd
	}
	return ctr.stringLocation + clusterStart
}
