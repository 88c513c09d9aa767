package main

import (
	"fmt"
	"strings"

	"github.com/thatisuday/commando"

	"github.com/npillmayer/complextext/internal/fontload"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags)
	fontName := strings.TrimSpace(args["font"].Value)
	if fontName == "" {
		fatalf("font is required")
	}
	f, err := fontload.Load(fontName)
	if err != nil {
		fatalf("cannot load font %s: %v", fontName, err)
	}
	info := f.Info()
	if f.Filepath != "" {
		fmt.Printf("Path: %s\n", f.Filepath)
	}
	fmt.Printf("Name: %s\n", f.Fontname)
	if info.Family != "" {
		fmt.Printf("Family: %s\n", info.Family)
	}
	if info.Subfamily != "" {
		fmt.Printf("Subfamily: %s\n", info.Subfamily)
	}
	if info.Version != "" {
		fmt.Printf("Version: %s\n", info.Version)
	}
	fmt.Printf("Glyphs: %d\n", info.NumGlyphs)
	fmt.Printf("Units per em: %d\n", info.UnitsPerEm)
	fmt.Printf("Metrics: ascent=%d descent=%d linegap=%d\n", info.Ascent, info.Descent, info.LineGap)
	if text := args["text"].Value; text != "" {
		missing := f.Missing(text)
		if len(missing) == 0 {
			fmt.Println("Coverage: all characters covered")
			return
		}
		codes := make([]string, len(missing))
		for i, r := range missing {
			codes[i] = fmt.Sprintf("%U", r)
		}
		fmt.Printf("Coverage: missing %s\n", strings.Join(codes, ","))
	}
}
