package ctshape

// GlyphIterationStyle selects how Advance accounts for glyphs which map to
// more than one character.
type GlyphIterationStyle uint8

const (
	// IncludePartialGlyphs counts a fraction of a glyph's width, proportional
	// to the number of its characters consumed.
	IncludePartialGlyphs GlyphIterationStyle = iota
	// ByWholeGlyphs counts a glyph's full width as soon as its first
	// character is consumed.
	ByWholeGlyphs
)

// Advance moves the cursor to character offset, consuming glyphs in logical
// order. The width of the glyphs consumed is reported by RunWidthSoFar.
//
// If sink is not nil, every glyph consumed is passed to it, together with a
// paint advance. Moving to an offset before the current one restarts from the
// beginning of the run.
func (c *Controller) Advance(offset int, sink GlyphSink, style GlyphIterationStyle) {
	cur := &c.cursor
	offset = min(offset, c.end)
	if offset < cur.currentCharacter {
		tracer().Debugf("advance to %d behind cursor at %d, resetting", offset, cur.currentCharacter)
		cur.reset()
	}
	cur.currentCharacter = offset

	runCount := len(c.runs)
	currentRunIndex, leftmostGlyph := c.indexOfCurrentRun()
	for cur.currentRun < runCount {
		ctr := c.runs[currentRunIndex]
		ltr := ctr.IsLTR()
		glyphCount := ctr.GlyphCount()
		glyphIndexIntoCurrentRun := cur.glyphInCurrentRun
		if !ltr {
			glyphIndexIntoCurrentRun = glyphCount - 1 - cur.glyphInCurrentRun
		}
		glyphIndexIntoController := leftmostGlyph + glyphIndexIntoCurrentRun
		if ctr.Font() != c.style.PrimaryFont() {
			c.addFallbackFont(ctr.Font())
		}
		// the first glyph to draw carries the initial advance
		if leftmostGlyph == 0 && sink != nil {
			sink.SetInitialAdvance(ctr.InitialAdvance())
		}

		for cur.glyphInCurrentRun < glyphCount {
			glyphStartOffset := ctr.IndexAt(glyphIndexIntoCurrentRun)
			glyphEndOffset := ctr.glyphEnd(glyphIndexIntoCurrentRun)
			adjustedBaseAdvance := c.adjustedBaseAdvances[glyphIndexIntoController]

			if glyphStartOffset+ctr.stringLocation >= cur.currentCharacter {
				return
			}
			if sink != nil && cur.characterInCurrentGlyph == 0 {
				sink.AddGlyph(GlyphRecord{
					Glyph:        c.adjustedGlyphs[glyphIndexIntoController],
					Font:         ctr.Font(),
					Advance:      c.paintAdvance(ctr, currentRunIndex, glyphIndexIntoCurrentRun, glyphIndexIntoController),
					StringOffset: ctr.stringLocation + glyphStartOffset,
				})
			}

			oldCharacterInCurrentGlyph := cur.characterInCurrentGlyph
			cur.characterInCurrentGlyph = min(cur.currentCharacter-ctr.stringLocation, glyphEndOffset) - glyphStartOffset
			cur.runWidthSoFar += adjustedBaseAdvance.W *
				c.runWidthSoFarFraction(glyphStartOffset, glyphEndOffset, oldCharacterInCurrentGlyph, style)

			if glyphEndOffset+ctr.stringLocation > cur.currentCharacter {
				return
			}

			cur.numGlyphsSoFar++
			cur.glyphInCurrentRun++
			cur.characterInCurrentGlyph = 0
			if ltr {
				glyphIndexIntoCurrentRun++
				glyphIndexIntoController++
			} else {
				glyphIndexIntoCurrentRun--
				glyphIndexIntoController--
			}
		}
		currentRunIndex, leftmostGlyph = c.incrementCurrentRun(leftmostGlyph)
		cur.glyphInCurrentRun = 0
	}
}

// paintAdvance converts the layout advance of a glyph into the distance to
// the origin of the next glyph to paint.
//
// The layout advance of the first glyph of a sub-run includes the sub-run's
// initial advance, which has to be taken out. The last glyph of a sub-run
// has to point to the first glyph of the next sub-run, including that
// sub-run's initial advance.
func (c *Controller) paintAdvance(ctr *ComplexTextRun, runIndex, glyphInRun, glyphInController int) Size {
	origin := c.glyphOrigin(glyphInController)
	next := c.glyphOrigin(glyphInController + 1)
	paint := c.adjustedBaseAdvances[glyphInController]
	if glyphInRun == 0 {
		paint.W -= ctr.initialAdvance.W - origin.X
		paint.H -= ctr.initialAdvance.H - origin.Y
	}
	paint.W += next.X - origin.X
	paint.H += next.Y - origin.Y
	if glyphInRun == ctr.GlyphCount()-1 && runIndex+1 < len(c.runs) {
		following := c.runs[runIndex+1].initialAdvance
		paint.W += following.W - next.X
		paint.H += following.H - next.Y
	}
	paint.H = -paint.H // y grows downwards
	return paint
}

// runWidthSoFarFraction is the fraction of a glyph's width to count when
// moving from character oldCharacterInCurrentGlyph of the glyph to the
// cursor's current character within it.
func (c *Controller) runWidthSoFarFraction(glyphStartOffset, glyphEndOffset, oldCharacterInCurrentGlyph int,
	style GlyphIterationStyle) float32 {
	//
	if glyphStartOffset == glyphEndOffset {
		// more than one glyph for a character
		return 1
	}
	if style == ByWholeGlyphs {
		if oldCharacterInCurrentGlyph == 0 {
			return 1
		}
		return 0
	}
	return float32(c.cursor.characterInCurrentGlyph-oldCharacterInCurrentGlyph) /
		float32(glyphEndOffset-glyphStartOffset)
}

// indexOfCurrentRun returns the storage index of the cursor's current sub-run
// and the index of its leftmost glyph within the glyph stream.
func (c *Controller) indexOfCurrentRun() (runIndex, leftmostGlyph int) {
	runCount := len(c.runs)
	if c.cursor.currentRun >= runCount {
		return runCount, 0
	}
	if c.isLTROnly {
		for i := 0; i < c.cursor.currentRun; i++ {
			leftmostGlyph += c.runs[i].GlyphCount()
		}
		return c.cursor.currentRun, leftmostGlyph
	}
	runIndex = c.runIndices[c.cursor.currentRun]
	return runIndex, c.glyphCountFromStartToIndex[runIndex]
}

func (c *Controller) incrementCurrentRun(leftmostGlyph int) (runIndex, leftmost int) {
	if c.isLTROnly {
		leftmostGlyph += c.runs[c.cursor.currentRun].GlyphCount()
		c.cursor.currentRun++
		return c.cursor.currentRun, leftmostGlyph
	}
	c.cursor.currentRun++
	return c.indexOfCurrentRun()
}
