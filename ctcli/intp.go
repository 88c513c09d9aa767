package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/complextext"
	"github.com/npillmayer/complextext/ctshape"
	"github.com/npillmayer/complextext/ctshape/cthb"
	"github.com/npillmayer/complextext/ctshape/ctsfnt"
	"github.com/npillmayer/complextext/internal/fontload"
)

// Intp is our interpreter object. It holds a run of text and its style, and
// lays out the text whenever a query needs it.
type Intp struct {
	repl    *readline.Instance
	fonts   []*fontload.ScalableFont
	size    float32
	backend string
	style   ctshape.Style
	run     *ctshape.Run
	layout  *complextext.Layout // nil if text or style changed
}

// NewIntp creates an interpreter for an empty left-to-right run.
func NewIntp() *Intp {
	return &Intp{
		size:    32,
		backend: "hb",
		run:     ctshape.NewRun("", bidi.LeftToRight),
	}
}

func (intp *Intp) String() string {
	if intp == nil || len(intp.fonts) == 0 {
		return "()"
	}
	names := make([]string, len(intp.fonts))
	for i, f := range intp.fonts {
		names[i] = f.Fontname
	}
	dir := "ltr"
	if !intp.run.LTR() {
		dir = "rtl"
	}
	return fmt.Sprintf("( fonts=%s size=%.1f %s %s ) %q", strings.Join(names, ","), intp.size,
		intp.backend, dir, intp.run.String())
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %s", cmd)
	f, ok := commandFn[strings.ToLower(cmd.Verb)]
	if !ok {
		return fmt.Errorf("unknown command: %s (try 'help')", cmd.Verb), false
	}
	return f(intp, cmd.Args)
}

// invalidate drops the current layout, if any.
func (intp *Intp) invalidate() {
	intp.layout = nil
}

// loadFonts loads a primary font and optional fallback fonts.
func (intp *Intp) loadFonts(names ...string) error {
	if len(names) == 0 {
		return errors.New("no font given")
	}
	fonts := make([]*fontload.ScalableFont, 0, len(names))
	for _, name := range names {
		f, err := fontload.Load(name)
		if err != nil {
			return err
		}
		tracer().Infof("loaded font %s", f.Fontname)
		fonts = append(fonts, f)
	}
	intp.fonts = fonts
	intp.invalidate()
	return nil
}

// Layout returns the layout of the current text, laying it out if needed.
func (intp *Intp) Layout() (*complextext.Layout, error) {
	if intp.layout != nil {
		return intp.layout, nil
	}
	if len(intp.fonts) == 0 {
		return nil, errors.New("no font loaded")
	}
	fonts := make([]ctshape.Font, 0, len(intp.fonts))
	for _, sf := range intp.fonts {
		var f ctshape.Font
		var err error
		switch intp.backend {
		case "sfnt":
			f, err = sf.SFNTFont(intp.size)
			intp.style.Shaper = ctsfnt.NewShaper()
		default:
			f, err = sf.HBFont(intp.size)
			intp.style.Shaper = cthb.NewShaper()
		}
		if err != nil {
			return nil, err
		}
		fonts = append(fonts, f)
	}
	resolver, err := ctshape.NewFallbackResolver(fonts...)
	if err != nil {
		return nil, err
	}
	intp.style.Fonts = resolver
	style := intp.style // layouts keep their own copy of the style
	l, err := complextext.NewLayout(&style, intp.run)
	if err != nil {
		return nil, err
	}
	intp.layout = l
	return l, nil
}
