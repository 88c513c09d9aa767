package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext/ctshape"
)

var commandFn = map[string]func(*Intp, []*Arg) (error, bool){
	"quit":      quitOp,
	"help":      helpOp,
	"text":      textOp,
	"dir":       dirOp,
	"font":      fontOp,
	"size":      sizeOp,
	"backend":   backendOp,
	"lang":      langOp,
	"caps":      capsOp,
	"letter":    letterSpacingOp,
	"word":      wordSpacingOp,
	"expansion": expansionOp,
	"measure":   measureOp,
	"hit":       hitOp,
	"select":    selectOp,
	"glyphs":    glyphsOp,
	"chars":     charsOp,
	"runs":      runsOp,
	"overflow":  overflowOp,
	"emphasis":  emphasisOp,
	"info":      infoOp,
}

func quitOp(intp *Intp, args []*Arg) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

func helpOp(intp *Intp, args []*Arg) (error, bool) {
	topic := ""
	if len(args) > 0 {
		topic = args[0].Text()
	}
	help(topic)
	return nil, false
}

// --- Setting up text and style ----------------------------------------

func textOp(intp *Intp, args []*Arg) (error, bool) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Text()
	}
	run := ctshape.NewRun(strings.Join(parts, " "), intp.run.Direction)
	run.Expansion = intp.run.Expansion
	intp.run = run
	intp.invalidate()
	return nil, false
}

func dirOp(intp *Intp, args []*Arg) (error, bool) {
	if len(args) == 0 {
		return errors.New("missing argument: ltr|rtl"), false
	}
	switch strings.ToLower(args[0].Text()) {
	case "ltr":
		intp.run.Direction = bidi.LeftToRight
	case "rtl":
		intp.run.Direction = bidi.RightToLeft
	default:
		return fmt.Errorf("unsupported direction %q (expected ltr|rtl)", args[0].Text()), false
	}
	intp.invalidate()
	return nil, false
}

func fontOp(intp *Intp, args []*Arg) (error, bool) {
	if len(args) == 0 {
		for i, f := range intp.fonts {
			pterm.Printf("%d: %s\n", i, f.Fontname)
		}
		return nil, false
	}
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Text()
	}
	return intp.loadFonts(names...), false
}

func sizeOp(intp *Intp, args []*Arg) (error, bool) {
	size, err := numberArg(args, 0, "size")
	if err != nil {
		return err, false
	}
	if size <= 0 {
		return errors.New("size must be > 0"), false
	}
	intp.size = size
	intp.invalidate()
	return nil, false
}

func backendOp(intp *Intp, args []*Arg) (error, bool) {
	if len(args) == 0 {
		return errors.New("missing argument: hb|sfnt"), false
	}
	switch b := strings.ToLower(args[0].Text()); b {
	case "hb", "sfnt":
		intp.backend = b
	default:
		return fmt.Errorf("unsupported backend %q (expected hb|sfnt)", b), false
	}
	intp.invalidate()
	return nil, false
}

func langOp(intp *Intp, args []*Arg) (error, bool) {
	if len(args) == 0 {
		return errors.New("missing argument: language tag"), false
	}
	tag, err := language.Parse(args[0].Text())
	if err != nil {
		return err, false
	}
	intp.style.Locale = tag
	intp.invalidate()
	return nil, false
}

func capsOp(intp *Intp, args []*Arg) (error, bool) {
	if len(args) == 0 {
		return errors.New("missing argument: caps variant"), false
	}
	caps, ok := ctshape.ParseVariantCaps(args[0].Text())
	if !ok {
		return fmt.Errorf("unknown caps variant %q", args[0].Text()), false
	}
	intp.style.VariantCaps = caps
	intp.style.NoSmallCapsSynthesis = hasWord(args[1:], "nosynth")
	intp.invalidate()
	return nil, false
}

func letterSpacingOp(intp *Intp, args []*Arg) (error, bool) {
	x, err := numberArg(args, 0, "letter spacing")
	if err == nil {
		intp.style.LetterSpacing = x
		intp.invalidate()
	}
	return err, false
}

func wordSpacingOp(intp *Intp, args []*Arg) (error, bool) {
	x, err := numberArg(args, 0, "word spacing")
	if err == nil {
		intp.style.WordSpacing = x
		intp.invalidate()
	}
	return err, false
}

func expansionOp(intp *Intp, args []*Arg) (error, bool) {
	x, err := numberArg(args, 0, "expansion")
	if err == nil {
		intp.run.Expansion = x
		intp.invalidate()
	}
	return err, false
}

// --- Queries ----------------------------------------------------------

func measureOp(intp *Intp, args []*Arg) (error, bool) {
	l, err := intp.Layout()
	if err != nil {
		return err, false
	}
	n := l.Run().Len()
	from, err := intp.checkedInt(args, 0, "from", 0, n)
	if err != nil {
		return err, false
	}
	length, err := intp.checkedInt(args, 1, "length", n-from, n-from)
	if err != nil {
		return err, false
	}
	pterm.Printf("total width = %.2f\n", l.TotalWidth())
	pterm.Printf("width of [%d,+%d) = %.2f\n", from, length, l.Width(from, length))
	return nil, false
}

func hitOp(intp *Intp, args []*Arg) (error, bool) {
	l, err := intp.Layout()
	if err != nil {
		return err, false
	}
	x, err := numberArg(args, 0, "x")
	if err != nil {
		return err, false
	}
	partial := hasWord(args[1:], "partial")
	pterm.Printf("x = %.2f => offset %d\n", x, l.OffsetForPosition(x, partial))
	return nil, false
}

func selectOp(intp *Intp, args []*Arg) (error, bool) {
	l, err := intp.Layout()
	if err != nil {
		return err, false
	}
	n := l.Run().Len()
	from, err := intp.checkedInt(args, 0, "from", 0, n)
	if err != nil {
		return err, false
	}
	to, err := intp.checkedInt(args, 1, "to", n, n)
	if err != nil {
		return err, false
	}
	if to < from {
		return fmt.Errorf("empty range [%d,%d)", from, to), false
	}
	r := l.SelectionRect(from, to, ctshape.Rect{H: intp.size})
	pterm.Printf("selection of [%d,%d) = x %.2f, width %.2f\n", from, to, r.X, r.W)
	return nil, false
}

func glyphsOp(intp *Intp, args []*Arg) (error, bool) {
	l, err := intp.Layout()
	if err != nil {
		return err, false
	}
	n := l.Run().Len()
	from, err := intp.checkedInt(args, 0, "from", 0, n)
	if err != nil {
		return err, false
	}
	to, err := intp.checkedInt(args, 1, "to", n, n)
	if err != nil {
		return err, false
	}
	printGlyphs(l.GlyphsForRange(from, to))
	return nil, false
}

func charsOp(intp *Intp, args []*Arg) (error, bool) {
	printCharacters(intp.run)
	return nil, false
}

func runsOp(intp *Intp, args []*Arg) (error, bool) {
	l, err := intp.Layout()
	if err != nil {
		return err, false
	}
	printRuns(l.Controller())
	return nil, false
}

func overflowOp(intp *Intp, args []*Arg) (error, bool) {
	l, err := intp.Layout()
	if err != nil {
		return err, false
	}
	o := l.GlyphOverflow(hasWord(args, "bounds"))
	pterm.Printf("glyph overflow: left=%.0f right=%.0f top=%.0f bottom=%.0f\n", o.Left, o.Right, o.Top, o.Bottom)
	return nil, false
}

func emphasisOp(intp *Intp, args []*Arg) (error, bool) {
	l, err := intp.Layout()
	if err != nil {
		return err, false
	}
	centers, err := l.EmphasisMarkCenters(0, l.Run().Len())
	if err != nil {
		return err, false
	}
	pterm.Printf("emphasis marks at %v\n", centers)
	return nil, false
}

func infoOp(intp *Intp, args []*Arg) (error, bool) {
	if len(intp.fonts) == 0 {
		return errors.New("no font loaded"), false
	}
	data := [][]string{
		{"Font", "Family", "Glyphs", "UPEM", "Ascent", "Descent", "Missing"},
	}
	text := intp.run.String()
	for _, f := range intp.fonts {
		info := f.Info()
		data = append(data, []string{
			f.Fontname,
			info.Family,
			fmt.Sprintf("%d", info.NumGlyphs),
			fmt.Sprintf("%d", info.UnitsPerEm),
			fmt.Sprintf("%d", info.Ascent),
			fmt.Sprintf("%d", info.Descent),
			formatRunes(f.Missing(text)),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func formatRunes(runes []rune) string {
	codes := make([]string, len(runes))
	for i, r := range runes {
		codes[i] = fmt.Sprintf("%U", r)
	}
	return strings.Join(codes, ",")
}

// checkedInt reads an optional integer argument and checks it against the
// range [0, limit].
func (intp *Intp) checkedInt(args []*Arg, inx int, name string, dflt, limit int) (int, error) {
	n, err := intArg(args, inx, name, dflt)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > limit {
		return 0, fmt.Errorf("%s out of range: %d", name, n)
	}
	return n, nil
}
