package ctshape

import (
	"github.com/npillmayer/complextext/ctbreak"
)

// ExpansionOpportunityCount counts the places in text where justification
// may insert space. It also reports whether the text ends after an
// expansion opportunity.
//
// Spaces are one opportunity each. If ideographs expands around CJK
// ideographs and symbols, these count as opportunities on both sides, with
// adjacent ones sharing an opportunity. The counting runs in visual order.
func ExpansionOpportunityCount(text []uint16, ltr bool, behavior ExpansionBehavior, ideographs bool) (int, bool) {
	count := 0
	afterExpansion := behavior.Left == ExpansionForbid
	if behavior.Left == ExpansionForce {
		count++
		afterExpansion = true
	}
	step := func(c rune) {
		if TreatAsSpace(c) {
			count++
			afterExpansion = true
			return
		}
		if ideographs && IsCJKIdeographOrSymbol(c) {
			if !afterExpansion {
				count++
			}
			count++
			afterExpansion = true
			return
		}
		afterExpansion = false
	}
	if ltr {
		for i := 0; i < len(text); {
			c, n := ctbreak.DecodeRune(text, i)
			step(c)
			i += n
		}
	} else {
		for i := len(text); i > 0; {
			c, n := decodeLastRune(text[:i])
			step(c)
			i -= n
		}
	}
	if !afterExpansion && behavior.Right == ExpansionForce {
		count++
		afterExpansion = true
	} else if afterExpansion && behavior.Right == ExpansionForbid && count > 0 {
		count--
		afterExpansion = false
	}
	return count, afterExpansion
}

// decodeLastRune decodes the code point ending text.
func decodeLastRune(text []uint16) (rune, int) {
	n := len(text)
	if n >= 2 && isTrailSurrogate(text[n-1]) && isLeadSurrogate(text[n-2]) {
		return ctbreak.DecodeRune(text, n-2)
	}
	return rune(text[n-1]), 1
}

func isLeadSurrogate(u uint16) bool  { return u >= 0xd800 && u < 0xdc00 }
func isTrailSurrogate(u uint16) bool { return u >= 0xdc00 && u < 0xe000 }

// expansionContext describes a character which is an expansion opportunity.
// Left and right are visual sides.
type expansionContext struct {
	ideograph      bool
	treatAsSpace   bool
	ltr            bool
	afterExpansion bool // the preceding character already expanded to its right
	forbidLeft     bool
	forbidRight    bool
	forceLeft      bool
	forceRight     bool
}

// expansionLocation decides on which sides of a character to insert
// expansion. Ideographs expand on both sides, spaces on their trailing side.
// No side directly after an expansion expands again. Forbidding or forcing
// expansion for a side overrides the default; doing both is a contract
// violation.
func expansionLocation(ctx expansionContext) (left, right bool) {
	left, right = ctx.ideograph, ctx.ideograph
	if ctx.treatAsSpace {
		if ctx.ltr {
			right = true
		} else {
			left = true
		}
	}
	if ctx.afterExpansion {
		left = false
	}
	assert(!ctx.forbidLeft || !ctx.forceLeft, "ctshape: left expansion both forbidden and forced")
	assert(!ctx.forbidRight || !ctx.forceRight, "ctshape: right expansion both forbidden and forced")
	if ctx.forbidLeft {
		left = false
	}
	if ctx.forbidRight {
		right = false
	}
	if ctx.forceLeft {
		left = true
	}
	if ctx.forceRight {
		right = true
	}
	return
}
