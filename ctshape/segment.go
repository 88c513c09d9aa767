package ctshape

import (
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctbreak"
)

// collectComplexTextRuns breaks up the run into sub-runs of constant font
// and small-caps state, and shapes each of them.
//
// Font fallback is not performed on capitalized characters of synthesized
// small caps. When small caps synthesis kicks in for the first time,
// segmentation restarts at the last font transition, so that no sub-run
// mixes synthesized and native glyphs.
func (c *Controller) collectComplexTextRuns() {
	if c.end == 0 || c.style.PrimaryFont().Size() == 0 {
		return
	}
	text := c.run.Text
	fonts := c.style.Fonts
	caps := c.style.VariantCaps
	allCaps := caps.isAll()
	noSynthesis := c.style.NoSmallCapsSynthesis
	casing := caseMapping(c.style.Locale)
	if caps.isSmallCaps() {
		c.smallCapsBuffer = make([]uint16, c.end)
	}
	graphemes := c.style.breaks().Iterator(text, ctbreak.CharacterMode, c.style.Locale)

	var font, nextFont, synthesizedFont, smallSynthesizedFont Font
	var isSmallCaps, nextIsSmallCaps bool
	indexOfFontTransition := 0

	currentIndex, base := ctbreak.NextCombiningSequence(text, 0, graphemes)
	nextFont = fonts.FontForCombiningSequence(text[:currentIndex])
	capital, hasCapital := capitalized(base, casing)
	if shouldSynthesizeSmallCaps(noSynthesis, nextFont, base, hasCapital, caps) {
		synthesizedFont = nextFont.NoSynthesizableFeaturesFont()
		smallSynthesizedFont = smallCapsFontOf(synthesizedFont)
		c.writeSmallCaps(0, currentIndex, capital, hasCapital)
		nextIsSmallCaps = true
	}

	for currentIndex < c.end {
		font = nextFont
		isSmallCaps = nextIsSmallCaps
		previousIndex := currentIndex

		currentIndex, base = ctbreak.NextCombiningSequence(text, currentIndex, graphemes)
		capital, hasCapital = capitalized(base, casing)

		if synthesizedFont != nil {
			if hasCapital {
				c.writeSmallCaps(previousIndex, currentIndex, capital, true)
				nextIsSmallCaps = true
			} else {
				if allCaps {
					copy(c.smallCapsBuffer[previousIndex:currentIndex], text[previousIndex:currentIndex])
				}
				nextIsSmallCaps = allCaps
			}
		}

		nextFont = fonts.FontForCombiningSequence(text[previousIndex:currentIndex])

		if synthesizedFont == nil && shouldSynthesizeSmallCaps(noSynthesis, nextFont, base, hasCapital, caps) {
			// synthesize the whole sub-run if any character requires it
			synthesizedFont = nextFont.NoSynthesizableFeaturesFont()
			smallSynthesizedFont = smallCapsFontOf(synthesizedFont)
			nextIsSmallCaps = true
			tracer().Debugf("small caps synthesis at %d, restarting at %d", previousIndex, indexOfFontTransition)
			currentIndex = indexOfFontTransition
			continue
		}

		if nextFont != font || nextIsSmallCaps != isSmallCaps {
			if itemLength := previousIndex - indexOfFontTransition; itemLength > 0 {
				c.collectSpan(indexOfFontTransition, itemLength, font, synthesizedFont,
					smallSynthesizedFont, isSmallCaps)
				if nextFont != font {
					synthesizedFont, smallSynthesizedFont = nil, nil
					nextIsSmallCaps = false
				}
			}
			indexOfFontTransition = previousIndex
		}
	}

	assert(c.end >= indexOfFontTransition, "ctshape: font transition beyond end of run")
	if itemLength := c.end - indexOfFontTransition; itemLength > 0 {
		c.collectSpan(indexOfFontTransition, itemLength, nextFont, synthesizedFont,
			smallSynthesizedFont, nextIsSmallCaps)
	}
	if !c.ltr {
		slices.Reverse(c.runs)
	}
}

// writeSmallCaps fills the small caps buffer for text[from:to], replacing the
// base character by its capital, if there is one.
func (c *Controller) writeSmallCaps(from, to int, capital rune, hasCapital bool) {
	text := c.run.Text
	i := from
	if hasCapital {
		i += encodeRune(c.smallCapsBuffer[from:to], capital)
	}
	copy(c.smallCapsBuffer[i:to], text[i:to])
}

// encodeRune writes r to buf and returns the number of code units written.
func encodeRune(buf []uint16, r rune) int {
	if utf16.RuneLen(r) == 2 {
		r1, r2 := utf16.EncodeRune(r)
		buf[0], buf[1] = uint16(r1), uint16(r2)
		tracer().Debugf("capital %U written as surrogate pair", r)
		return 2
	}
	buf[0] = uint16(r)
	return 1
}

func smallCapsFontOf(f Font) Font {
	if sc := f.SmallCapsFont(); sc != nil {
		return sc
	}
	return f
}

// collectSpan shapes the span [start, start+length) with the font in effect
// for it.
func (c *Controller) collectSpan(start, length int, font, synthesized, smallSynthesized Font, smallCaps bool) {
	text := c.run.Text
	switch {
	case synthesized != nil && smallCaps:
		c.collectRunsForCharacters(c.smallCapsBuffer[start:start+length], start, smallSynthesized, true)
	case synthesized != nil:
		c.collectRunsForCharacters(text[start:start+length], start, synthesized, true)
	default:
		c.collectRunsForCharacters(text[start:start+length], start, font, false)
	}
}

// collectRunsForCharacters shapes a span of characters and appends the
// resulting sub-run. Spans without a font, and spans the shaper is unable to
// handle, are set in missing glyphs.
func (c *Controller) collectRunsForCharacters(chars []uint16, loc int, font Font, synthesized bool) {
	if font == nil {
		tracer().Debugf("no font for span at %d, setting missing glyphs", loc)
		c.runs = append(c.runs, NewMissingGlyphsRun(c.style.PrimaryFont(), chars, loc, 0, len(chars), c.ltr))
		return
	}
	params := ShapeParams{
		Direction: bidi.LeftToRight,
		Locale:    c.style.Locale,
		Caps:      c.style.VariantCaps,
	}
	if !c.ltr {
		params.Direction = bidi.RightToLeft
	}
	if synthesized {
		params.Caps = CapsNormal
	}
	span, err := c.style.Shaper.Shape(chars, font, params)
	if err != nil {
		tracer().Infof("shaping span at %d failed, setting missing glyphs: %v", loc, err)
		c.runs = append(c.runs, NewMissingGlyphsRun(font, chars, loc, 0, len(chars), c.ltr))
		return
	}
	c.runs = append(c.runs, NewComplexTextRun(span, font, chars, loc, 0, len(chars), c.ltr))
}
