/*
Package fontload loads font files once and hands out sized fonts for both
layout backends.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/npillmayer/complextext/ctshape/cthb"
	"github.com/npillmayer/complextext/ctshape/ctsfnt"
)

// tracer writes to trace with key 'complextext.fontload'
func tracer() tracing.Trace {
	return tracing.Select("complextext.fontload")
}

// ScalableFont is a parsed scalable font with original bytes and SFNT view.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Font
}

var builtins = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"goitalic":  goitalic.TTF,
	"gomono":    gomono.TTF,
}

// BuiltinNames lists the names of fonts compiled into the module.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns one of the Go fonts by name, e.g. "goregular".
func Builtin(name string) (*ScalableFont, error) {
	data, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("no builtin font %q", name)
	}
	return ParseOpenTypeFont(data)
}

// Load loads a builtin font if fontname names one, otherwise a font file.
func Load(fontname string) (*ScalableFont, error) {
	if _, ok := builtins[fontname]; ok {
		return Builtin(fontname)
	}
	return LoadOpenTypeFont(fontname)
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	if f.Fontname == "" {
		f.Fontname = filepath.Base(fontfile)
	}
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err != nil {
		tracer().Debugf("font has no full name: %v", err)
		f.Fontname = ""
	}
	tracer().Debugf("loaded and parsed SFNT %s", f.Fontname)
	return f, nil
}

// SFNTFont sets the font in size for the sfnt backend.
func (f *ScalableFont) SFNTFont(size float32, opts ...ctsfnt.Option) (*ctsfnt.Font, error) {
	return ctsfnt.New(f.SFNT, size, opts...)
}

// HBFont sets the font in size for the HarfBuzz backend. Every call parses
// the font anew, as HarfBuzz faces must not be shared.
func (f *ScalableFont) HBFont(size float32, opts ...cthb.Option) (*cthb.Font, error) {
	opts = append([]cthb.Option{cthb.WithName(f.Fontname)}, opts...)
	return cthb.Parse(f.Binary, size, opts...)
}
