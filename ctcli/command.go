package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// A command line is a verb followed by arguments, e.g.
//
//	text "Hello World"
//	hit 12.5 partial
//	font goregular gomono
var (
	cmdLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Word", Pattern: `[^\s"]+`},
	})

	cmdParser = participle.MustBuild[Command](
		participle.Lexer(cmdLexer),
		participle.Unquote("String"),
		participle.Elide("Whitespace"),
	)
)

// Command is a parsed command line.
type Command struct {
	Pos  lexer.Position `parser:""`
	Verb string         `parser:"@Word"`
	Args []*Arg         `parser:"@@*"`
}

func (c *Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.Verb)
	for _, a := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}
	return sb.String()
}

// Arg is an argument of a command: a number, a quoted string or a bare word.
type Arg struct {
	Number *float64 `parser:"  @Number"`
	Quoted *string  `parser:"| @String"`
	Word   *string  `parser:"| @Word"`
}

func (a *Arg) String() string {
	switch {
	case a.Number != nil:
		return fmt.Sprintf("%g", *a.Number)
	case a.Quoted != nil:
		return fmt.Sprintf("%q", *a.Quoted)
	case a.Word != nil:
		return *a.Word
	}
	return "<nil>"
}

// Text returns the argument as text, whatever its kind.
func (a *Arg) Text() string {
	switch {
	case a.Quoted != nil:
		return *a.Quoted
	case a.Word != nil:
		return *a.Word
	case a.Number != nil:
		return fmt.Sprintf("%g", *a.Number)
	}
	return ""
}

func parseCommand(line string) (*Command, error) {
	cmd, err := cmdParser.ParseString("", line)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("parsed command: %s", cmd)
	return cmd, nil
}

// --- Argument helpers -------------------------------------------------

func numberArg(args []*Arg, inx int, name string) (float32, error) {
	if inx >= len(args) {
		return 0, fmt.Errorf("missing argument: %s", name)
	}
	if args[inx].Number == nil {
		return 0, fmt.Errorf("argument %s is not numeric: %s", name, args[inx])
	}
	return float32(*args[inx].Number), nil
}

func intArg(args []*Arg, inx int, name string, dflt int) (int, error) {
	if inx >= len(args) {
		return dflt, nil
	}
	x, err := numberArg(args, inx, name)
	if err != nil {
		return 0, err
	}
	if float32(int(x)) != x {
		return 0, fmt.Errorf("argument %s is not an integer: %g", name, x)
	}
	return int(x), nil
}

func hasWord(args []*Arg, word string) bool {
	for _, a := range args {
		if a.Word != nil && strings.EqualFold(*a.Word, word) {
			return true
		}
	}
	return false
}
