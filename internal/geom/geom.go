// Package geom holds the pure geometry used by the window state machine:
// rectangles in surface space, the minimize vector and drag re-anchoring.
package geom

import "math"

// Point is a position in surface-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Vector is a displacement between two points.
type Vector struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect builds a rectangle from a position and a size.
func NewRect(pos Point, size Size) Rect {
	return Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
}

// Bounds returns the rectangle covering a whole surface of the given size.
func Bounds(s Size) Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

// Position returns the top-left corner.
func (r Rect) Position() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Translate moves the rectangle by v.
func (r Rect) Translate(v Vector) Rect {
	r.X += v.DX
	r.Y += v.DY
	return r
}

// WithPosition returns r moved so its origin is p.
func (r Rect) WithPosition(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// Round snaps every component to the nearest integer. Terminal surfaces
// work in whole cells.
func (r Rect) Round() Rect {
	return Rect{
		X:      math.Round(r.X),
		Y:      math.Round(r.Y),
		Width:  math.Round(r.Width),
		Height: math.Round(r.Height),
	}
}

// Scale multiplies a vector by f.
func (v Vector) Scale(f float64) Vector {
	return Vector{DX: v.DX * f, DY: v.DY * f}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{DX: p.X - q.X, DY: p.Y - q.Y}
}

// MinimizeTargetOffset is how far below the surface's bottom edge the
// default minimize target sits.
const MinimizeTargetOffset = 50

// MinimizeVector is the displacement a minimizing window travels: from its
// own center to the center of the target.
func MinimizeVector(center, target Point) Vector {
	return target.Sub(center)
}

// DefaultMinimizeTarget is used when no target element is available: the
// horizontal middle of the surface, just below its bottom edge.
func DefaultMinimizeTarget(surface Size) Point {
	return Point{X: surface.Width / 2, Y: surface.Height + MinimizeTargetOffset}
}

// DragAnchor records where the pointer grabbed a window. RelX is the
// pointer's distance from the right edge as a fraction of the width and
// OffsetY is its absolute distance from the top edge.
type DragAnchor struct {
	RelX    float64 `json:"rel_x"`
	OffsetY float64 `json:"offset_y"`
}

// AnchorAt computes the drag anchor for a pointer pressed on rect.
func AnchorAt(rect Rect, pointer Point) DragAnchor {
	a := DragAnchor{OffsetY: pointer.Y - rect.Y}
	if rect.Width > 0 {
		a.RelX = (rect.Right() - pointer.X) / rect.Width
	}
	return a
}

// DragReanchor positions a window restored from a maximized layout so the
// pointer keeps the same relative grip on it. The restored rectangle keeps
// its size.
func DragReanchor(restored Rect, pointer Point, anchor DragAnchor) Rect {
	return Rect{
		X:      pointer.X - restored.Width*(1-anchor.RelX),
		Y:      pointer.Y - anchor.OffsetY,
		Width:  restored.Width,
		Height: restored.Height,
	}
}

// Clamp enforces the minimum size. The origin is kept.
func Clamp(r Rect, minWidth, minHeight float64) Rect {
	if r.Width < minWidth {
		r.Width = minWidth
	}
	if r.Height < minHeight {
		r.Height = minHeight
	}
	return r
}

// Lerp interpolates between two rectangles; t is clamped to [0, 1].
func Lerp(from, to Rect, t float64) Rect {
	t = math.Max(0, math.Min(1, t))
	return Rect{
		X:      from.X + (to.X-from.X)*t,
		Y:      from.Y + (to.Y-from.Y)*t,
		Width:  from.Width + (to.Width-from.Width)*t,
		Height: from.Height + (to.Height-from.Height)*t,
	}
}
