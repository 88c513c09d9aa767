package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'complextext.cli'
func tracer() tracing.Trace {
	return tracing.Select("complextext.cli")
}

func main() {
	fontname := flag.String("font", "goregular", "font file or builtin font name")
	size := flag.Float64("size", 32, "font size in pixels")
	backend := flag.String("backend", "hb", "shaping backend, hb or sfnt")
	tlevel := flag.String("trace", "Info", "trace level of the CLI (Debug, Info or Error)")
	flag.Parse()
	level, ok := traceLevels[*tlevel]
	if !ok {
		fmt.Fprintf(os.Stderr, "ctcli: unknown trace level %q\n", *tlevel)
		os.Exit(2)
	}
	if err := configureTracing(level); err != nil {
		fmt.Fprintf(os.Stderr, "ctcli: %v\n", err)
		os.Exit(1)
	}
	initDisplay()
	pterm.Info.Println(fmt.Sprintf("Complex text layout with font %q at %gpx, shaped by %s", *fontname, *size, *backend))

	repl, err := readline.New("ct > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := NewIntp()
	intp.repl = repl
	intp.size = float32(*size)
	intp.backend = *backend
	if err := intp.loadFonts(*fontname); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	pterm.Info.Println("Type help for a list of commands, <ctrl>D to leave")
	intp.REPL()
}

var traceLevels = map[string]tracing.TraceLevel{
	"Debug": tracing.LevelDebug,
	"Info":  tracing.LevelInfo,
	"Error": tracing.LevelError,
}

// configureTracing routes all tracers to the Go logger. The CLI's own tracer
// runs at level, the layout packages only report errors.
func configureTracing(level tracing.TraceLevel) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":         "go",
		"trace.complextext.cli":   "Info",
		"trace.complextext":       "Error",
		"trace.complextext.shape": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("cannot configure tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().SetTraceLevel(level)
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
