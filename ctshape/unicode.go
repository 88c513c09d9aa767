package ctshape

import (
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/rangetable"
)

const (
	tabCharacter       = '\t'
	newlineCharacter   = '\n'
	carriageReturn     = '\r'
	noBreakSpace       = 0x00a0
	softHyphen         = 0x00ad
	zeroWidthSpace     = 0x200b
	zeroWidthNonJoiner = 0x200c
	zeroWidthJoiner    = 0x200d
	zeroWidthNoBreak   = 0xfeff
	objectReplacement  = 0xfffc
)

// TreatAsSpace reports whether c is laid out with the width of a space.
func TreatAsSpace(c rune) bool {
	return c == ' ' || c == tabCharacter || c == newlineCharacter || c == noBreakSpace
}

func treatAsZeroWidthSpaceInComplexScript(c rune) bool {
	return c < 0x20 || (c >= 0x7f && c < noBreakSpace) || c == softHyphen ||
		c == zeroWidthSpace || (c >= 0x200e && c <= 0x200f) ||
		(c >= 0x202a && c <= 0x202e) || c == zeroWidthNoBreak || c == objectReplacement
}

// treatAsZeroWidthSpace reports whether c takes up no space at all.
func treatAsZeroWidthSpace(c rune) bool {
	return treatAsZeroWidthSpaceInComplexScript(c) || c == zeroWidthNonJoiner || c == zeroWidthJoiner
}

func isControlCharacter(c rune) bool {
	return unicode.Is(unicode.Cc, c)
}

// isVisibleControlCharacter reports whether c is a control character which
// has to be rendered as a visible (.notdef) glyph. Exceptions are the
// characters forming segment breaks, tabs and NUL.
func isVisibleControlCharacter(c rune) bool {
	switch c {
	case newlineCharacter, carriageReturn, noBreakSpace, tabCharacter, 0:
		return false
	}
	return isControlCharacter(c)
}

func isASCIIWhitespace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isCombiningMark(c rune) bool {
	return unicode.Is(unicode.M, c)
}

// --- Default ignorables ----------------------------------------------------

var derivedIgnorables = rangetable.Merge(
	unicode.Other_Default_Ignorable_Code_Point,
	unicode.Variation_Selector,
)

// isDefaultIgnorable approximates the derived property Default_Ignorable_Code_Point.
func isDefaultIgnorable(c rune) bool {
	if unicode.Is(derivedIgnorables, c) {
		return true
	}
	if !unicode.Is(unicode.Cf, c) || unicode.Is(unicode.White_Space, c) {
		return false
	}
	if (c >= 0xfff9 && c <= 0xfffb) || (c >= 0x13430 && c <= 0x1343f) {
		return false
	}
	return !unicode.Is(unicode.Prepended_Concatenation_Mark, c)
}

// isDeletedForRendering reports whether glyphs for c are dropped when a run of
// missing glyphs is synthesized.
func isDeletedForRendering(c rune) bool {
	return isDefaultIgnorable(c) || c == objectReplacement
}

// --- CJK -------------------------------------------------------------------

var cjkIdeographs = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2e80, Hi: 0x2eff, Stride: 1}, // CJK Radicals Supplement
		{Lo: 0x2f00, Hi: 0x2fdf, Stride: 1}, // Kangxi Radicals
		{Lo: 0x31c0, Hi: 0x31ef, Stride: 1}, // CJK Strokes
		{Lo: 0x3400, Hi: 0x4dbf, Stride: 1}, // Extension A
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1},
		{Lo: 0xf900, Hi: 0xfaff, Stride: 1}, // Compatibility Ideographs
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2a6df, Stride: 1}, // Extension B
		{Lo: 0x2a700, Hi: 0x2b81f, Stride: 1}, // Extensions C and D
		{Lo: 0x2f800, Hi: 0x2fa1f, Stride: 1}, // Compatibility Ideographs Supplement
	},
}

var cjkSymbolBlocks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2ff0, Hi: 0x302f, Stride: 1}, // Ideographic Description, CJK Symbols
		{Lo: 0x3031, Hi: 0x312f, Stride: 1}, // ... without U+3030, Kana, Bopomofo
		{Lo: 0x3190, Hi: 0x31bf, Stride: 1},
		{Lo: 0x3200, Hi: 0x33ff, Stride: 1}, // Enclosed CJK, CJK Compatibility
		{Lo: 0xfe30, Hi: 0xfe4f, Stride: 1}, // CJK Compatibility Forms
		{Lo: 0xff00, Hi: 0xffef, Stride: 1}, // Halfwidth and Fullwidth Forms
	},
	R32: []unicode.Range32{
		{Lo: 0x1f200, Hi: 0x1f6ff, Stride: 1}, // Enclosed Ideographic Supplement
		{Lo: 0xf2000, Hi: 0xf3fff, Stride: 1},
	},
}

var cjkIsolatedSymbols = rangetable.New(
	0x2c7, 0x2ca, 0x2cb, 0x2d9, // Mandarin tone marks
	0x2020, 0x2021, 0x2030, 0x203b, 0x203c, 0x2042, 0x2047, 0x2048, 0x2049, 0x2051,
	0x20dd, 0x20de, 0x2100, 0x2103, 0x2105, 0x2109, 0x210a, 0x2113, 0x2116, 0x2121,
	0x212b, 0x213b, 0x2150, 0x2151, 0x2152, 0x217f, 0x2189, 0x2307, 0x2312, 0x23ce,
	0x2423, 0x25a0, 0x25a1, 0x25a2, 0x25aa, 0x25ab, 0x25b1, 0x25b2, 0x25b3, 0x25b6,
	0x25b7, 0x25bc, 0x25bd, 0x25c0, 0x25c1, 0x25c6, 0x25c7, 0x25c9, 0x25cb, 0x25cc,
	0x25ef, 0x2605, 0x2606, 0x260e, 0x2616, 0x2617, 0x2640, 0x2642, 0x26a0, 0x26bd,
	0x26be, 0x2713, 0x271a, 0x273f, 0x2740, 0x2756, 0x2b1a, 0xfe10, 0xfe11, 0xfe12,
	0xfe19, 0xff1d, 0xffe2, 0xffe4,
	0x1f100, 0x1f10a, 0x1f110, 0x1f12d, 0x1f130, 0x1f17f,
)

var cjkIdeographsOrSymbols = rangetable.Merge(cjkIdeographs, cjkSymbolBlocks, cjkIsolatedSymbols)

// IsCJKIdeographOrSymbol reports whether c is an expansion opportunity when
// expanding around ideographs.
func IsCJKIdeographOrSymbol(c rune) bool {
	if c < 0x2c7 {
		return false
	}
	return unicode.Is(cjkIdeographsOrSymbols, c)
}

// --- Text emphasis ---------------------------------------------------------

// canReceiveTextEmphasis reports whether an emphasis mark may be placed
// over c. Separators, format and control characters, unassigned code points
// and word separators of some scripts do not receive emphasis marks.
func canReceiveTextEmphasis(c rune) bool {
	if unicode.In(c, unicode.Z, unicode.Cc, unicode.Cf) || isUnassigned(c) {
		return false
	}
	switch c {
	case 0x1361, // Ethiopic wordspace
		0x10100, 0x10101, // Aegean word separators
		0x1039f,          // Ugaritic word divider
		0x0f0b, 0x0f0c: // Tibetan tsheg
		return false
	}
	return true
}

func isUnassigned(c rune) bool {
	return !unicode.In(c, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C)
}

// --- Capitalization --------------------------------------------------------

// caseMapping returns the case mapping to use for small caps synthesis.
func caseMapping(locale language.Tag) unicode.SpecialCase {
	base, _ := locale.Base()
	switch base.String() {
	case "tr", "az":
		return unicode.TurkishCase
	}
	return nil
}

// capitalized returns the upper case form of c, if c has one. Combining marks
// are never capitalized, and neither are characters whose upper case form
// would need a different number of UTF-16 code units.
func capitalized(c rune, sc unicode.SpecialCase) (rune, bool) {
	if isCombiningMark(c) {
		return c, false
	}
	var upper rune
	if sc != nil {
		upper = sc.ToUpper(c)
	} else {
		upper = unicode.ToUpper(c)
	}
	if upper == c || utf16.RuneLen(upper) != utf16.RuneLen(c) {
		return c, false
	}
	return upper, true
}

// shouldSynthesizeSmallCaps decides if a combining sequence with base
// character c, resolved to font, has to be set in synthesized small caps.
func shouldSynthesizeSmallCaps(noSynthesis bool, font Font, c rune, hasCapital bool, caps VariantCaps) bool {
	if !caps.isSmallCaps() || noSynthesis || font == nil {
		return false
	}
	if caps.isAll() && isASCIIWhitespace(c) {
		return false
	}
	if !caps.isAll() && !hasCapital {
		return false
	}
	return !font.SupportsVariantCaps(caps)
}
