package ctshape

import (
	"math"

	"github.com/npillmayer/complextext/ctbreak"
)

// adjustGlyphsAndAdvances builds the adjusted glyph stream from the sub-runs,
// in glyph (visual) order. It substitutes widths of spaces, tabs and control
// characters, and applies synthetic bold, letter and word spacing and
// justification. It also accumulates the total advance and the glyph
// bounding box.
func (c *Controller) adjustGlyphsAndAdvances() {
	ltr := c.ltr
	behavior := c.run.ExpansionBehavior
	afterExpansion := behavior.Left == ExpansionForbid
	hasExtraSpacing := (c.style.hasExtraSpacing() || c.expansion != 0) && !c.run.SpacingDisabled
	runForcesLeft := behavior.Left == ExpansionForce
	runForcesRight := behavior.Right == ExpansionForce
	runForbidsLeft := behavior.Left == ExpansionForbid
	runForbidsRight := behavior.Right == ExpansionForbid

	for runIndex, ctr := range c.runs {
		var glyphOrigin Point
		font := ctr.Font()
		if !ctr.IsLTR() {
			c.isLTROnly = false
		}
		spaceWidth := font.SpaceWidth()
		chars := ctr.Characters()
		origins := ctr.GlyphOrigins()
		previousCharacterIndex := math.MinInt
		if !ltr {
			previousCharacterIndex = math.MaxInt
		}
		isMonotonic := true

		for glyphIndex := 0; glyphIndex < ctr.GlyphCount(); glyphIndex++ {
			characterIndex := ctr.IndexAt(glyphIndex)
			if (ltr && characterIndex < previousCharacterIndex) || (!ltr && characterIndex > previousCharacterIndex) {
				isMonotonic = false
			}
			ch := rune(chars[characterIndex])
			codepoint, _ := ctbreak.DecodeRune(chars, characterIndex)

			treatAsSpace := TreatAsSpace(ch)
			glyph := ctr.glyphs[glyphIndex]
			advance := ctr.baseAdvances[glyphIndex]
			if treatAsSpace {
				advance.W = spaceWidth
			}
			if ch == tabCharacter && c.run.AllowTabs {
				advance.W = c.style.TabWidth(font, c.run.TabSize, c.run.XPos+c.totalAdvance.W)
				glyph = DeletedGlyph // tabs advance but are invisible
			} else if treatAsZeroWidthSpace(ch) && !treatAsSpace {
				advance.W = 0
				glyph = font.SpaceGlyph()
			}
			if isVisibleControlCharacter(ch) {
				glyph = NotdefGlyph
				advance.W = font.WidthForGlyph(glyph)
			}

			if glyphIndex == 0 {
				advance.Expand(ctr.initialAdvance.W, ctr.initialAdvance.H)
				if origins != nil {
					advance.Expand(-origins[0].X, -origins[0].Y)
				}
			}
			advance.Expand(font.SyntheticBoldOffset(), 0)

			if hasExtraSpacing {
				// glyphs without width do not get letter spacing
				if advance.W != 0 {
					advance.W += c.style.LetterSpacing
				}
				characterIndexInRun := characterIndex + ctr.stringLocation
				isFirstCharacter := characterIndexInRun == 0
				isLastCharacter := characterIndexInRun+1 == c.end ||
					(isLeadSurrogate(chars[characterIndex]) && characterIndexInRun+2 == c.end &&
						characterIndex+1 < len(chars) && isTrailSurrogate(chars[characterIndex+1]))

				ctx := expansionContext{
					ideograph:      c.style.ExpandAroundIdeographs && IsCJKIdeographOrSymbol(codepoint),
					treatAsSpace:   treatAsSpace,
					ltr:            ltr,
					afterExpansion: afterExpansion,
				}
				first, last := isFirstCharacter, isLastCharacter
				if !ltr {
					first, last = last, first
				}
				ctx.forceLeft = runForcesLeft && first
				ctx.forceRight = runForcesRight && last
				ctx.forbidLeft = runForbidsLeft && first
				ctx.forbidRight = runForbidsRight && last

				if treatAsSpace || ctx.ideograph || ctx.forceLeft || ctx.forceRight {
					if c.expansion != 0 {
						expandLeft, expandRight := expansionLocation(ctx)
						if expandLeft {
							c.expansion -= c.expansionPerOpportunity
							if len(c.adjustedBaseAdvances) == 0 {
								advance.W += c.expansionPerOpportunity
								ctr.growInitialAdvanceHorizontally(c.expansionPerOpportunity)
							} else {
								c.adjustedBaseAdvances[len(c.adjustedBaseAdvances)-1].W += c.expansionPerOpportunity
								c.totalAdvance.W += c.expansionPerOpportunity
							}
						}
						if expandRight {
							c.expansion -= c.expansionPerOpportunity
							advance.W += c.expansionPerOpportunity
							afterExpansion = true
						}
					} else {
						afterExpansion = false
					}
					if treatAsSpace && (ch != tabCharacter || !c.run.AllowTabs) &&
						(characterIndex > 0 || runIndex > 0 || ch == noBreakSpace) && c.style.WordSpacing != 0 {
						advance.W += c.style.WordSpacing
					}
				} else {
					afterExpansion = false
				}
			}

			c.totalAdvance = c.totalAdvance.Add(advance)

			if c.forTextEmphasis && (!canReceiveTextEmphasis(codepoint) || isCombiningMark(codepoint)) {
				glyph = DeletedGlyph
			}

			c.adjustedBaseAdvances = append(c.adjustedBaseAdvances, advance)
			if origins != nil {
				for len(c.glyphOrigins) < len(c.adjustedBaseAdvances)-1 {
					c.glyphOrigins = append(c.glyphOrigins, Point{})
				}
				c.glyphOrigins = append(c.glyphOrigins, origins[glyphIndex])
			}
			c.adjustedGlyphs = append(c.adjustedGlyphs, glyph)

			bounds := font.BoundsForGlyph(glyph).Moved(glyphOrigin.X, glyphOrigin.Y)
			c.minGlyphBoundingBoxX = min(c.minGlyphBoundingBoxX, bounds.X)
			c.maxGlyphBoundingBoxX = max(c.maxGlyphBoundingBoxX, bounds.MaxX())
			c.minGlyphBoundingBoxY = min(c.minGlyphBoundingBoxY, bounds.Y)
			c.maxGlyphBoundingBoxY = max(c.maxGlyphBoundingBoxY, bounds.MaxY())
			glyphOrigin.Move(advance)

			previousCharacterIndex = characterIndex
		}
		if !isMonotonic && ctr.monotonic {
			tracer().Debugf("sub-run %s is non-monotonic", ctr)
			ctr.setIsNonMonotonic()
		}
	}
	assert(len(c.adjustedBaseAdvances) == len(c.adjustedGlyphs), "ctshape: adjusted glyphs and advances differ in length")
}
