// Package geometry provides the spatial primitives for the flowgrid engine:
// rectangle and bounding-box arithmetic, overlap computation, viewport
// transforms between screen and graph coordinates, and viewport-fit math.
//
// All functions are pure: they depend only on their inputs and never touch
// engine state. Coordinates are float64 throughout; stacking depth (Z) is an
// integer derived from parent nesting.
package geometry

import "math"

// XYPosition is a 2D point, either in screen space or in graph (logical)
// space depending on context.
type XYPosition struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// XYZPosition is an absolute position with a stacking depth. Z is derived
// from parent nesting and is always strictly greater than the parent's Z.
type XYZPosition struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z int     `json:"z" bson:"z"`
}

// Dimensions is a measured width and height. A zero value means "not yet
// measured" and is treated specially by selection tests.
type Dimensions struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Rect is an axis-aligned rectangle in position-plus-size form.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Box is an axis-aligned rectangle in min/max corner form. It is the
// natural shape for accumulating bounds.
type Box struct {
	X, Y   float64 // min corner
	X2, Y2 float64 // max corner
}

// Transform is the viewport transform mapping graph coordinates to screen
// coordinates: screen = graph*Zoom + (X, Y).
type Transform struct {
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	Zoom float64 `json:"zoom" bson:"zoom"`
}

// SnapGrid is the cell size used when snapping un-projected points.
type SnapGrid struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// RectToBox converts a rectangle to min/max corner form.
func RectToBox(r Rect) Box {
	return Box{X: r.X, Y: r.Y, X2: r.X + r.Width, Y2: r.Y + r.Height}
}

// BoxToRect converts a min/max corner box back to position-plus-size form.
func BoxToRect(b Box) Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.X2 - b.X, Height: b.Y2 - b.Y}
}

// BoundsOfBoxes returns the smallest box enclosing both inputs.
func BoundsOfBoxes(a, b Box) Box {
	return Box{
		X:  math.Min(a.X, b.X),
		Y:  math.Min(a.Y, b.Y),
		X2: math.Max(a.X2, b.X2),
		Y2: math.Max(a.Y2, b.Y2),
	}
}

// emptyBox is the identity element for BoundsOfBoxes.
func emptyBox() Box {
	return Box{
		X:  math.Inf(1),
		Y:  math.Inf(1),
		X2: math.Inf(-1),
		Y2: math.Inf(-1),
	}
}

// OverlapArea returns the intersection area of two rectangles, rounded up
// to the next integer. Disjoint rectangles yield 0. The operation is
// commutative, and when one rectangle fully contains the other the result
// equals the contained rectangle's (rounded) area.
func OverlapArea(a, b Rect) float64 {
	xOverlap := math.Max(0, math.Min(a.X+a.Width, b.X+b.Width)-math.Max(a.X, b.X))
	yOverlap := math.Max(0, math.Min(a.Y+a.Height, b.Y+b.Height)-math.Max(a.Y, b.Y))
	return math.Ceil(xOverlap * yOverlap)
}

// Project maps a screen-space point into graph space by undoing the
// viewport transform. When snap is true the result is rounded to the
// nearest multiple of the grid cell, after un-transforming.
func Project(p XYPosition, t Transform, snap bool, grid SnapGrid) XYPosition {
	pos := XYPosition{
		X: (p.X - t.X) / t.Zoom,
		Y: (p.Y - t.Y) / t.Zoom,
	}
	if snap && grid.X > 0 && grid.Y > 0 {
		pos.X = grid.X * math.Round(pos.X/grid.X)
		pos.Y = grid.Y * math.Round(pos.Y/grid.Y)
	}
	return pos
}

// Unproject maps a graph-space point onto the screen by applying the
// viewport transform. It is the inverse of Project with snapping disabled.
func Unproject(p XYPosition, t Transform) XYPosition {
	return XYPosition{
		X: p.X*t.Zoom + t.X,
		Y: p.Y*t.Zoom + t.Y,
	}
}

// Clamp limits v to the inclusive range [min, max].
func Clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

// TransformForBounds computes the viewport transform that fits bounds
// inside a width-by-height viewport with proportional padding on each side.
// Zoom is the smaller of the two axis-fit ratios, preserving aspect ratio,
// clamped to [minZoom, maxZoom]. The translation re-centers the bounds and
// then applies the pixel offset. Degenerate (zero-area) bounds clamp to
// maxZoom instead of producing an infinite zoom.
func TransformForBounds(bounds Rect, width, height, minZoom, maxZoom, padding float64, offset XYPosition) Transform {
	xZoom := width / (bounds.Width * (1 + padding))
	yZoom := height / (bounds.Height * (1 + padding))
	zoom := Clamp(math.Min(xZoom, yZoom), minZoom, maxZoom)
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		zoom = maxZoom
	}

	boundsCenterX := bounds.X + bounds.Width/2
	boundsCenterY := bounds.Y + bounds.Height/2
	return Transform{
		X:    width/2 - boundsCenterX*zoom + offset.X,
		Y:    height/2 - boundsCenterY*zoom + offset.Y,
		Zoom: zoom,
	}
}

// ResolvePosition computes a node's absolute position from its parent's
// resolved position and its own local position. The stacking depth is
// always strictly greater than the parent's: max(parent.Z, own.Z) + 1.
func ResolvePosition(parent, own XYZPosition) XYZPosition {
	return XYZPosition{
		X: parent.X + own.X,
		Y: parent.Y + own.Y,
		Z: maxInt(parent.Z, own.Z) + 1,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
