package ctshape

import "fmt"

// Size is a 2-dimensional extent, usually an advance.
type Size struct {
	W, H float32
}

// Expand adds dw and dh to s.
func (s *Size) Expand(dw, dh float32) {
	s.W += dw
	s.H += dh
}

// Add returns s + o.
func (s Size) Add(o Size) Size {
	return Size{W: s.W + o.W, H: s.H + o.H}
}

func (s Size) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", s.W, s.H)
}

// Point is a location. Y grows downwards.
type Point struct {
	X, Y float32
}

// Move translates p by s.
func (p *Point) Move(s Size) {
	p.X += s.W
	p.Y += s.H
}

// Rect is an axis-parallel rectangle. Y grows downwards.
type Rect struct {
	X, Y, W, H float32
}

// MaxX is the right edge of r.
func (r Rect) MaxX() float32 { return r.X + r.W }

// MaxY is the bottom edge of r.
func (r Rect) MaxY() float32 { return r.Y + r.H }

// Moved returns r translated by (dx,dy).
func (r Rect) Moved(dx, dy float32) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.2f,%.2f %.2fx%.2f]", r.X, r.Y, r.W, r.H)
}
