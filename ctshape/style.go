package ctshape

import (
	"math"

	"golang.org/x/text/language"

	"github.com/npillmayer/complextext/ctbreak"
)

// Style holds the font and spacing properties for laying out a run.
type Style struct {
	Fonts  FontResolver    // font selection, including the primary font
	Shaper Shaper          // shaper for sub-runs
	Breaks ctbreak.Factory // grapheme and caret boundaries; nil selects ctbreak.Default
	Locale language.Tag

	VariantCaps VariantCaps
	// NoSmallCapsSynthesis switches off synthesized small caps for fonts
	// lacking native support.
	NoSmallCapsSynthesis bool

	LetterSpacing float32
	WordSpacing   float32
	// ExpandAroundIdeographs makes CJK ideographs and symbols expansion
	// opportunities on both sides.
	ExpandAroundIdeographs bool
}

// Validate checks that a style has all collaborators set.
func (s *Style) Validate() error {
	if s == nil || s.Fonts == nil {
		return ErrNilStyle
	}
	if s.Shaper == nil {
		return ErrNilShaper
	}
	if s.Fonts.PrimaryFont() == nil {
		return errLayout(ErrNoFonts, "font resolver has no primary font")
	}
	return nil
}

// PrimaryFont returns the primary font of the style's font resolver.
func (s *Style) PrimaryFont() Font {
	return s.Fonts.PrimaryFont()
}

func (s *Style) breaks() ctbreak.Factory {
	if s.Breaks == nil {
		return ctbreak.Default()
	}
	return s.Breaks
}

// TabWidth is the advance of a tab character starting at position.
//
// Tab stops are placed at multiples of the tab size. If the next stop is
// closer than half a space, the tab advances to the stop after it.
// A tab size of zero makes a tab advance by the letter spacing.
func (s *Style) TabWidth(font Font, tabSize TabSize, position float32) float32 {
	spaceWidth := font.SpaceWidth()
	tabWidth := tabSize.WidthInPixels(spaceWidth + s.WordSpacing)
	if tabWidth <= 0 {
		return s.LetterSpacing
	}
	delta := tabWidth - float32(math.Mod(float64(position), float64(tabWidth)))
	if delta < spaceWidth/2 {
		return tabWidth + delta
	}
	return delta
}

func (s *Style) hasExtraSpacing() bool {
	return s.LetterSpacing != 0 || s.WordSpacing != 0
}
