package ctshape

import (
	"testing"
	"unicode"

	tassert "github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestCharacterClasses(t *testing.T) {
	for _, c := range []rune{' ', '\t', '\n', 0xa0} {
		tassert.True(t, TreatAsSpace(c), "%U is a space", c)
	}
	tassert.False(t, TreatAsSpace('\r'))
	//
	for _, c := range []rune{0x01, 0x7f, 0xad, 0x200b, 0x200c, 0x200d, 0x200e, 0x202a, 0xfeff, 0xfffc} {
		tassert.True(t, treatAsZeroWidthSpace(c), "%U is a zero width space", c)
	}
	tassert.False(t, treatAsZeroWidthSpace('a'))
	//
	tassert.True(t, isVisibleControlCharacter(0x01))
	tassert.True(t, isVisibleControlCharacter(0x85))
	for _, c := range []rune{0, '\t', '\n', '\r', 0xa0, 'a'} {
		tassert.False(t, isVisibleControlCharacter(c), "%U is not a visible control", c)
	}
}

func TestDefaultIgnorables(t *testing.T) {
	for _, c := range []rune{0xad, 0x200b, 0x200d, 0x2060, 0xfe0f, 0xfeff, 0xe0001} {
		tassert.True(t, isDefaultIgnorable(c), "%U is default ignorable", c)
	}
	for _, c := range []rune{'a', ' ', 0x0600, 0xfff9} {
		tassert.False(t, isDefaultIgnorable(c), "%U is not default ignorable", c)
	}
	tassert.True(t, isDeletedForRendering(0xfffc))
}

func TestCJKIdeographsAndSymbols(t *testing.T) {
	for _, c := range []rune{'中', 'あ', 'カ', 0x3001, 0xff01, 0x2c7, 0x25a0, 0x20000} {
		tassert.True(t, IsCJKIdeographOrSymbol(c), "%U is CJK", c)
	}
	for _, c := range []rune{'a', 0x3030, 'Ω', 0x2c6} {
		tassert.False(t, IsCJKIdeographOrSymbol(c), "%U is not CJK", c)
	}
}

func TestTextEmphasisReceivers(t *testing.T) {
	for _, c := range []rune{'a', '中', '!'} {
		tassert.True(t, canReceiveTextEmphasis(c), "%U receives emphasis", c)
	}
	for _, c := range []rune{' ', 0x3000, 0x200b, 0x01, 0x1361, 0x0f0b, 0x0378} {
		tassert.False(t, canReceiveTextEmphasis(c), "%U receives no emphasis", c)
	}
}

func TestCapitalized(t *testing.T) {
	up, ok := capitalized('a', nil)
	tassert.True(t, ok)
	tassert.Equal(t, 'A', up)
	_, ok = capitalized('A', nil)
	tassert.False(t, ok)
	_, ok = capitalized('1', nil)
	tassert.False(t, ok)
	_, ok = capitalized(0x0301, nil)
	tassert.False(t, ok, "combining marks are not capitalized")
	up, ok = capitalized('i', caseMapping(language.Turkish))
	tassert.True(t, ok)
	tassert.Equal(t, rune(0x130), up)
	up, ok = capitalized('\U00010428', nil) // Deseret
	tassert.True(t, ok)
	tassert.Equal(t, '\U00010400', up)
	tassert.Nil(t, caseMapping(language.German))
	tassert.Equal(t, unicode.TurkishCase, caseMapping(language.Azerbaijani))
}

func TestShouldSynthesizeSmallCaps(t *testing.T) {
	font := abFont()
	tassert.True(t, shouldSynthesizeSmallCaps(false, font, 'a', true, CapsSmall))
	tassert.False(t, shouldSynthesizeSmallCaps(false, font, 'a', true, CapsNormal))
	tassert.False(t, shouldSynthesizeSmallCaps(true, font, 'a', true, CapsSmall))
	tassert.False(t, shouldSynthesizeSmallCaps(false, nil, 'a', true, CapsSmall))
	tassert.False(t, shouldSynthesizeSmallCaps(false, font, 'A', false, CapsSmall))
	tassert.True(t, shouldSynthesizeSmallCaps(false, font, 'A', false, CapsAllSmall))
	tassert.False(t, shouldSynthesizeSmallCaps(false, font, ' ', false, CapsAllPetite))
	tassert.False(t, shouldSynthesizeSmallCaps(false, font, 'a', true, CapsUnicase))
	font.caps = true
	tassert.False(t, shouldSynthesizeSmallCaps(false, font, 'a', true, CapsSmall))
}
