package ctbreak

import (
	"unicode"
	"unicode/utf16"
)

// DecodeRune decodes the code point starting at text[i] and returns it
// together with the number of code units it occupies. An unpaired surrogate
// is returned as is, occupying one code unit.
func DecodeRune(text []uint16, i int) (rune, int) {
	c := rune(text[i])
	if utf16.IsSurrogate(c) && c < 0xdc00 && i+1 < len(text) {
		if r := utf16.DecodeRune(c, rune(text[i+1])); r != unicode.ReplacementChar {
			return r, 2
		}
	}
	return c, 1
}

// IsSurrogate reports whether r is a surrogate code point, i.e. the result of
// decoding an unpaired surrogate.
func IsSurrogate(r rune) bool {
	return utf16.IsSurrogate(r)
}

// NextCombiningSequence steps over one combining character sequence in text,
// starting at index. It returns the index of the next sequence and the base
// character of the current one.
//
// An unpaired surrogate is stepped over as a sequence of length 1. If b
// has no boundary after index, the sequence extends to the end of text.
// It is a contract violation to call NextCombiningSequence with no code units
// left.
func NextCombiningSequence(text []uint16, index int, b Boundary) (next int, base rune) {
	assert(index < len(text), "ctbreak: no characters left to walk")
	base, n := DecodeRune(text, index)
	if IsSurrogate(base) {
		return index + n, base
	}
	if b != nil {
		if following, ok := b.Following(index); ok {
			return following, base
		}
	}
	return len(text), base
}
