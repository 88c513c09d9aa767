package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	gotext "github.com/go-text/typesetting/font"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/npillmayer/complextext/ctshape"
	"github.com/npillmayer/complextext/ctshape/cthb"
	"github.com/npillmayer/complextext/ctshape/ctsfnt"
)

const viewMargin = 16

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	l, req := mustLayout(args, flags)
	outPath := mustFlagString(flags["output"], "output")
	if outPath == "" {
		fatalf("output path is empty")
	}
	width := mustFlagInt(flags["width"], "width")
	height := mustFlagInt(flags["height"], "height")
	showBBoxes := mustFlagBool(flags["show-bboxes"], "show-bboxes")
	if width <= 0 || height <= 0 {
		fatalf("--width and --height must be > 0")
	}
	glyphs := l.GlyphsForRange(0, l.Run().Len())
	if glyphs.IsEmpty() {
		fatalf("layout produced no glyphs")
	}
	outlines := newOutlineSource(l.Style().Fonts, req)
	var ascent float32
	if vm, ok := l.Style().PrimaryFont().(ctshape.VerticalMetrics); ok {
		ascent = vm.Ascent()
	}
	if err := renderGlyphRunPNG(glyphs, outlines, outPath, width, height, ascent, showBBoxes); err != nil {
		fatalf("render failed: %v", err)
	}
	fmt.Printf("wrote %s (glyphs=%d, width=%.2f)\n", outPath, glyphs.Len(), l.TotalWidth())
}

// outlineSource finds the SFNT outlines for the fonts of a layout.
type outlineSource struct {
	faces map[*gotext.Face]*sfnt.Font
}

func newOutlineSource(resolver ctshape.FontResolver, req *layoutRequest) *outlineSource {
	src := &outlineSource{faces: make(map[*gotext.Face]*sfnt.Font)}
	fr, ok := resolver.(*ctshape.FallbackResolver)
	if !ok {
		return src
	}
	for i, f := range fr.Fonts() {
		if hb, ok := f.(*cthb.Font); ok && i < len(req.fonts) {
			src.faces[hb.Face()] = req.fonts[i].SFNT
		}
	}
	return src
}

func (src *outlineSource) sfntFor(f ctshape.Font) *sfnt.Font {
	switch f := f.(type) {
	case *ctsfnt.Font:
		return f.SFNT()
	case *cthb.Font:
		return src.faces[f.Face()]
	}
	return nil
}

func renderGlyphRunPNG(glyphs *ctshape.GlyphBuffer, outlines *outlineSource, outPath string, width int, height int,
	ascent float32, showBBoxes bool) error {
	//
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Over

	penX := viewMargin + glyphs.InitialAdvance().W
	penY := float32(viewMargin) + ascent
	drawn := 0
	var boxes []ctshape.Rect
	var buf sfnt.Buffer
	for _, g := range glyphs.Glyphs() {
		x, y := penX, penY
		penX += g.Advance.W
		penY += g.Advance.H
		if g.Glyph == ctshape.DeletedGlyph {
			continue
		}
		sf := outlines.sfntFor(g.Font)
		if sf == nil {
			tracer().Debugf("no outlines for font %s", g.Font)
			continue
		}
		ppem := fixed.Int26_6(g.Font.Size()*64 + 0.5)
		segs, err := sf.LoadGlyph(&buf, sfnt.GlyphIndex(g.Glyph), ppem, nil)
		if err != nil {
			continue
		}
		for _, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				rast.MoveTo(x+float32(seg.Args[0].X)/64, y+float32(seg.Args[0].Y)/64)
			case sfnt.SegmentOpLineTo:
				rast.LineTo(x+float32(seg.Args[0].X)/64, y+float32(seg.Args[0].Y)/64)
			case sfnt.SegmentOpQuadTo:
				rast.QuadTo(
					x+float32(seg.Args[0].X)/64, y+float32(seg.Args[0].Y)/64,
					x+float32(seg.Args[1].X)/64, y+float32(seg.Args[1].Y)/64,
				)
			case sfnt.SegmentOpCubeTo:
				rast.CubeTo(
					x+float32(seg.Args[0].X)/64, y+float32(seg.Args[0].Y)/64,
					x+float32(seg.Args[1].X)/64, y+float32(seg.Args[1].Y)/64,
					x+float32(seg.Args[2].X)/64, y+float32(seg.Args[2].Y)/64,
				)
			}
		}
		drawn++
		if showBBoxes {
			boxes = append(boxes, g.Font.BoundsForGlyph(g.Glyph).Moved(x, y))
		}
	}
	if drawn == 0 {
		return errors.New("no drawable glyph paths found")
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	for _, box := range boxes {
		drawRectOutline(img, int(box.X), int(box.Y), int(box.MaxX()+0.5), int(box.MaxY()+0.5),
			color.RGBA{255, 0, 0, 255})
	}
	return writePNG(img, outPath)
}

func writePNG(img image.Image, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if img == nil {
		return
	}
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	b := img.Bounds()
	minX, minY = max(minX, b.Min.X), max(minY, b.Min.Y)
	maxX, maxY = min(maxX, b.Max.X), min(maxY, b.Max.Y)
	if minX >= maxX || minY >= maxY {
		return
	}
	for x := minX; x < maxX; x++ {
		img.SetRGBA(x, minY, c)
		img.SetRGBA(x, maxY-1, c)
	}
	for y := minY; y < maxY; y++ {
		img.SetRGBA(minX, y, c)
		img.SetRGBA(maxX-1, y, c)
	}
}
