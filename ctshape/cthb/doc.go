/*
Package cthb provides fonts and a shaper for complex text layout, built on
the HarfBuzz port of github.com/go-text/typesetting.

The shaper applies the OpenType layout features of a font (ligatures,
contextual forms, mark positioning, kerning) and is therefore suited for
every script go-text supports. Caps variants are requested as OpenType
features (smcp, c2sc, pcap, c2pc, unic, titl) if the font carries them.
Otherwise the layout synthesizes small capitals from a scaled-down font.

Neither fonts nor shapers of this package are safe for concurrent use.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package cthb

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'complextext.hb'.
func tracer() tracing.Trace {
	return tracing.Select("complextext.hb")
}

func errFont(err error, x string) error {
	return fmt.Errorf("cthb: %s: %w", x, err)
}
