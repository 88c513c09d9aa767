package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/thatisuday/commando"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext"
	"github.com/npillmayer/complextext/ctshape"
	"github.com/npillmayer/complextext/ctshape/cthb"
	"github.com/npillmayer/complextext/ctshape/ctsfnt"
	"github.com/npillmayer/complextext/internal/fontload"
)

func main() {
	commando.
		SetExecutableName("ct-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for measuring, hit testing and rendering complex text runs.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	addLayoutFlags(commando.
		Register("measure")).
		SetDescription("Lay out text and print its total width and the width of a range of characters.").
		SetShortDescription("measure text").
		AddArgument("font", "font file path or builtin font name (goregular, gobold, goitalic, gomono)", "").
		AddArgument("text...", "text to lay out (variadic argument parts joined by comma by commando)", "").
		AddFlag("from", "start of the character range to measure", commando.Int, 0).
		AddFlag("len", "length of the character range to measure (-1 for rest of text)", commando.Int, -1).
		SetAction(runMeasureCommand)

	addLayoutFlags(commando.
		Register("hittest")).
		SetDescription("Find the character offset at a horizontal position.").
		SetShortDescription("hit test text").
		AddArgument("font", "font file path or builtin font name", "").
		AddArgument("text...", "text to lay out", "").
		AddFlag("pos,x", "horizontal position, from the left edge of the run", commando.String, "0").
		AddFlag("partial,P", "round to the nearer edge of the character hit", commando.Bool, nil).
		SetAction(runHitTestCommand)

	addLayoutFlags(commando.
		Register("glyphs")).
		SetDescription("Print the glyphs painting a range of characters, left to right.").
		SetShortDescription("glyph stream").
		AddArgument("font", "font file path or builtin font name", "").
		AddArgument("text...", "text to lay out", "").
		AddFlag("from", "start of the character range", commando.Int, 0).
		AddFlag("to", "end of the character range (-1 for end of text)", commando.Int, -1).
		SetAction(runGlyphsCommand)

	addLayoutFlags(commando.
		Register("view")).
		SetDescription("Render laid out text to a PNG image.").
		SetShortDescription("layout to image").
		AddArgument("font", "font file path or builtin font name", "").
		AddArgument("text...", "text to lay out", "").
		AddFlag("output,o", "output PNG file", commando.String, "ct-tools-view.png").
		AddFlag("show-bboxes,B", "draw red bounding-box outlines per rendered glyph", commando.Bool, nil).
		AddFlag("width,W", "image width in pixels", commando.Int, 480).
		AddFlag("height,H", "image height in pixels", commando.Int, 160).
		SetAction(runViewCommand)

	commando.
		Register("font").
		SetDescription("Print naming, metrics and coverage information for a font.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "font file path or builtin font name", "").
		AddArgument("text...", "optional text to check coverage for", "").
		SetAction(runFontCommand)

	commando.
		Register("fixtures").
		SetDescription("Check layout fixtures (JSON files) of a directory.").
		SetShortDescription("check fixtures").
		AddArgument("dir", "directory of fixture files", "").
		SetAction(runFixturesCommand)

	commando.Parse(nil)
}

// addLayoutFlags adds the flags common to all commands laying out text.
func addLayoutFlags(cmd *commando.Command) *commando.Command {
	return cmd.
		AddFlag("backend,b", "shaping backend: hb|sfnt", commando.String, "hb").
		AddFlag("size,s", "font size in pixels", commando.String, "32").
		AddFlag("fallback,F", "fallback fonts (comma separated files or builtin names)", commando.String, "-").
		AddFlag("direction,d", "direction: ltr|rtl", commando.String, "ltr").
		AddFlag("lang,l", "language tag (BCP 47, e.g. en, tr)", commando.String, "en").
		AddFlag("caps", "caps variant: normal|small-caps|all-small-caps|petite-caps|all-petite-caps|unicase|titling-caps", commando.String, "normal").
		AddFlag("no-synthesis", "do not synthesize small caps", commando.Bool, nil).
		AddFlag("letter-spacing", "extra space after each glyph", commando.String, "0").
		AddFlag("word-spacing", "extra space after each space", commando.String, "0").
		AddFlag("expansion", "extra space to distribute for justification", commando.String, "0").
		AddFlag("xpos", "x-position of the run, for tab stops", commando.String, "0").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0627,U+0644)", commando.String, "-")
}

// layoutRequest collects everything needed to lay out text from the command
// line.
type layoutRequest struct {
	fonts   []*fontload.ScalableFont
	backend string
	size    float32
	style   ctshape.Style
	run     *ctshape.Run
}

func parseLayoutRequest(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) (*layoutRequest, error) {
	setupTracing(flags)
	fontName := strings.TrimSpace(args["font"].Value)
	if fontName == "" {
		return nil, errors.New("font is required")
	}
	names := []string{fontName}
	if fb := mustFlagString(flags["fallback"], "fallback"); fb != "-" {
		names = append(names, splitCSVSpace(fb)...)
	}
	req := &layoutRequest{}
	for _, name := range names {
		sf, err := fontload.Load(name)
		if err != nil {
			return nil, err
		}
		req.fonts = append(req.fonts, sf)
	}
	var err error
	if req.size, err = parseFloat(flags["size"], "size"); err != nil {
		return nil, err
	}
	if req.size <= 0 {
		return nil, errors.New("--size must be > 0")
	}
	req.backend = strings.ToLower(mustFlagString(flags["backend"], "backend"))
	if req.style.LetterSpacing, err = parseFloat(flags["letter-spacing"], "letter-spacing"); err != nil {
		return nil, err
	}
	if req.style.WordSpacing, err = parseFloat(flags["word-spacing"], "word-spacing"); err != nil {
		return nil, err
	}
	if req.style.Locale, err = parseLanguage(flags["lang"]); err != nil {
		return nil, err
	}
	caps := mustFlagString(flags["caps"], "caps")
	var ok bool
	if req.style.VariantCaps, ok = ctshape.ParseVariantCaps(caps); !ok {
		return nil, fmt.Errorf("unknown caps variant %q", caps)
	}
	req.style.NoSmallCapsSynthesis = mustFlagBool(flags["no-synthesis"], "no-synthesis")

	dir, err := parseDirection(flags["direction"])
	if err != nil {
		return nil, err
	}
	input, err := parseInput(args["text"], flags["codepoints"])
	if err != nil {
		return nil, err
	}
	req.run = ctshape.NewRun(input, dir)
	if req.run.Expansion, err = parseFloat(flags["expansion"], "expansion"); err != nil {
		return nil, err
	}
	if req.run.XPos, err = parseFloat(flags["xpos"], "xpos"); err != nil {
		return nil, err
	}
	return req, nil
}

// layout creates the fonts for the backend selected and lays out the run.
func (req *layoutRequest) layout() (*complextext.Layout, error) {
	fonts := make([]ctshape.Font, 0, len(req.fonts))
	switch req.backend {
	case "", "hb", "harfbuzz":
		for _, sf := range req.fonts {
			f, err := sf.HBFont(req.size)
			if err != nil {
				return nil, err
			}
			fonts = append(fonts, f)
		}
		req.style.Shaper = cthb.NewShaper()
	case "sfnt":
		for _, sf := range req.fonts {
			f, err := sf.SFNTFont(req.size)
			if err != nil {
				return nil, err
			}
			fonts = append(fonts, f)
		}
		req.style.Shaper = ctsfnt.NewShaper()
	default:
		return nil, fmt.Errorf("unsupported backend %q (expected hb|sfnt)", req.backend)
	}
	resolver, err := ctshape.NewFallbackResolver(fonts...)
	if err != nil {
		return nil, err
	}
	req.style.Fonts = resolver
	return complextext.NewLayout(&req.style, req.run)
}

func mustLayout(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) (*complextext.Layout, *layoutRequest) {
	req, err := parseLayoutRequest(args, flags)
	if err != nil {
		fatalf("%v", err)
	}
	l, err := req.layout()
	if err != nil {
		fatalf("layout failed: %v", err)
	}
	return l, req
}

func setupTracing(flags map[string]commando.FlagValue) {
	level := "Error"
	if v, ok := flags["verbose"]; ok {
		if verbose, err := v.GetBool(); err == nil && verbose {
			level = "Debug"
		}
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":         "go",
		"trace.complextext":       level,
		"trace.complextext.shape": level,
		"trace.complextext.hb":    level,
		"trace.complextext.sfnt":  level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("cannot configure tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func parseInput(textArg commando.ArgValue, cpFlag commando.FlagValue) (string, error) {
	cp, err := cpFlag.GetString()
	if err != nil {
		return "", fmt.Errorf("invalid --codepoints flag: %w", err)
	}
	cp = strings.TrimSpace(cp)
	if cp == "-" {
		cp = ""
	}
	if cp != "" {
		runes, err := parseCodepoints(cp)
		if err != nil {
			return "", err
		}
		return string(runes), nil
	}
	return textArg.Value, nil
}

func parseLanguage(flag commando.FlagValue) (language.Tag, error) {
	s, err := flag.GetString()
	if err != nil {
		return language.Und, fmt.Errorf("invalid --lang flag: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		s = "en"
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language tag %q: %w", s, err)
	}
	return tag, nil
}

func parseDirection(flag commando.FlagValue) (bidi.Direction, error) {
	s, err := flag.GetString()
	if err != nil {
		return bidi.LeftToRight, fmt.Errorf("invalid --direction flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr", "left-to-right":
		return bidi.LeftToRight, nil
	case "rtl", "right-to-left":
		return bidi.RightToLeft, nil
	default:
		return bidi.LeftToRight, fmt.Errorf("unsupported direction %q (expected ltr|rtl)", s)
	}
}

func parseFloat(flag commando.FlagValue, name string) (float32, error) {
	s, err := flag.GetString()
	if err != nil {
		return 0, fmt.Errorf("invalid --%s flag: %w", name, err)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s value %q: %w", name, s, err)
	}
	return float32(x), nil
}

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", token, err)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ct-tools: "+format+"\n", args...)
	os.Exit(1)
}

// tracer traces with key 'complextext'
func tracer() tracing.Trace {
	return tracing.Select("complextext")
}
