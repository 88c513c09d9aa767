/*
Package layoutcmp checks text layout against JSON fixtures.

A fixture describes fonts with table-driven metrics, a styled run of text,
and the results expected from laying it out: the total width, widths of
substrings, hit testing results, emitted glyphs and fallback fonts.
Fixture fonts are shaped one glyph per code point, with glyph IDs equal to
code points, which keeps expected values computable by hand.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package layoutcmp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctshape"
)

// tracer writes to trace with key 'complextext.layoutcmp'
func tracer() tracing.Trace {
	return tracing.Select("complextext.layoutcmp")
}

// FontSpec describes a table font.
type FontSpec struct {
	Name         string             `json:"name"`
	Size         float32            `json:"size,omitempty"`
	Advances     map[string]float32 `json:"advances,omitempty"` // keyed by single characters
	DefaultWidth float32            `json:"default_width,omitempty"`
	NotdefWidth  float32            `json:"notdef_width,omitempty"`
	SpaceWidth   float32            `json:"space_width,omitempty"`
	CoversAll    bool               `json:"covers_all,omitempty"`
	SmallCaps    bool               `json:"small_caps,omitempty"` // native small caps
	Bold         float32            `json:"bold,omitempty"`
}

// Context is the style and run of a fixture.
type Context struct {
	Fonts             []FontSpec `json:"fonts"`
	Dir               string     `json:"dir"`
	Language          string     `json:"language,omitempty"`
	Caps              string     `json:"caps,omitempty"`
	LetterSpacing     float32    `json:"letter_spacing,omitempty"`
	WordSpacing       float32    `json:"word_spacing,omitempty"`
	Expansion         float32    `json:"expansion,omitempty"`
	ExpandIdeographs  bool       `json:"expand_ideographs,omitempty"`
	XPos              float32    `json:"xpos,omitempty"`
	TabSize           float32    `json:"tab_size,omitempty"` // in spaces
	DisallowTabs      bool       `json:"disallow_tabs,omitempty"`
	NoCapsSynthesis   bool       `json:"no_caps_synthesis,omitempty"`
	ForTextEmphasis   bool       `json:"for_text_emphasis,omitempty"`
	ForbidLeftExpand  bool       `json:"forbid_left_expansion,omitempty"`
	ForbidRightExpand bool       `json:"forbid_right_expansion,omitempty"`
}

// Width is an expected width of the substring [From, From+Len).
type Width struct {
	From  int     `json:"from"`
	Len   int     `json:"len"`
	Width float32 `json:"width"`
}

// Hit is an expected result of hit testing.
type Hit struct {
	X       float32 `json:"x"`
	Partial bool    `json:"partial,omitempty"`
	Offset  int     `json:"offset"`
}

// Glyph is an expected glyph of the glyph stream.
type Glyph struct {
	G       uint32  `json:"g"`
	Offset  int     `json:"offset"`
	Advance float32 `json:"advance"`
}

// Expect holds the expected results of a fixture. Empty parts are not
// checked.
type Expect struct {
	TotalWidth    float32  `json:"total_width"`
	Widths        []Width  `json:"widths,omitempty"`
	Hits          []Hit    `json:"hits,omitempty"`
	Glyphs        []Glyph  `json:"glyphs,omitempty"`
	FallbackFonts []string `json:"fallback_fonts,omitempty"`
}

// Fixture is a layout test case.
type Fixture struct {
	Name          string  `json:"-"`
	SchemaVersion int     `json:"schema_version,omitempty"`
	Context       Context `json:"context"`
	Input         string  `json:"input"`
	Expect        Expect  `json:"expect"`
}

func (f Fixture) validate() error {
	if len(f.Context.Fonts) == 0 {
		return fmt.Errorf("fixture: context.fonts is required")
	}
	for i, font := range f.Context.Fonts {
		if font.Name == "" {
			return fmt.Errorf("fixture: context.fonts[%d].name is required", i)
		}
		for key := range font.Advances {
			if len([]rune(key)) != 1 {
				return fmt.Errorf("fixture: advance key %q of font %s is not a single character", key, font.Name)
			}
		}
	}
	if _, err := parseDirection(f.Context.Dir); err != nil {
		return fmt.Errorf("fixture: %w", err)
	}
	if f.Context.Caps != "" {
		if _, ok := ctshape.ParseVariantCaps(f.Context.Caps); !ok {
			return fmt.Errorf("fixture: unknown caps variant %q", f.Context.Caps)
		}
	}
	return nil
}

// LoadFixture reads a fixture from a JSON file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, err
	}
	if err := f.validate(); err != nil {
		return Fixture{}, err
	}
	f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return f, nil
}

// LoadFixtures reads all JSON fixtures of a directory, sorted by name.
func LoadFixtures(dir string) ([]Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".json") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	out := make([]Fixture, 0, len(paths))
	for _, p := range paths {
		f, err := LoadFixture(p)
		if err != nil {
			return nil, fmt.Errorf("load fixture %s: %w", p, err)
		}
		out = append(out, f)
	}
	tracer().Debugf("loaded %d fixtures from %s", len(out), dir)
	return out, nil
}

func parseDirection(s string) (bidi.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr", "left-to-right":
		return bidi.LeftToRight, nil
	case "rtl", "right-to-left":
		return bidi.RightToLeft, nil
	default:
		return bidi.LeftToRight, fmt.Errorf("invalid direction %q (expected ltr|rtl)", s)
	}
}

func parseLanguage(s string) language.Tag {
	if s == "" {
		return language.Und
	}
	return language.Make(s)
}
