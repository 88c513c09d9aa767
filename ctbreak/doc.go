/*
Package ctbreak walks UTF-16 text one user-perceptible character at a time.

A user-perceptible character is a base character plus any trailing
combining marks (a "combining character sequence" or extended grapheme
cluster). Clients use [NextCombiningSequence] to step through a text and
ask a [Boundary] oracle for cluster boundaries. The default oracle is
backed by the UAX #29 segmenter of go-text/typesetting.

All offsets handled by this package are UTF-16 code unit offsets.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ctbreak

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'complextext.break'.
func tracer() tracing.Trace {
	return tracing.Select("complextext.break")
}

// assert panics when condition is false.
func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
