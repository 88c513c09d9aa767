package main

import (
	"fmt"
	"strings"

	"github.com/thatisuday/commando"

	"github.com/npillmayer/complextext/internal/layoutcmp"
)

func runFixturesCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags)
	dir := strings.TrimSpace(args["dir"].Value)
	if dir == "" {
		fatalf("fixture directory is required")
	}
	fixtures, err := layoutcmp.LoadFixtures(dir)
	if err != nil {
		fatalf("%v", err)
	}
	failed := 0
	for _, fx := range fixtures {
		if err := layoutcmp.Check(fx); err != nil {
			failed++
			fmt.Printf("FAIL %s\n", fx.Name)
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Printf("     %s\n", line)
			}
			continue
		}
		fmt.Printf("ok   %s\n", fx.Name)
	}
	fmt.Printf("%d fixtures, %d failed\n", len(fixtures), failed)
	if failed > 0 {
		fatalf("fixture check failed")
	}
}
