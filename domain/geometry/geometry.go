// Package geometry computes rotated-rectangle geometry in image-pixel space.
// All functions are pure; angles are degrees, positive is clockwise on a
// screen whose Y axis grows downward.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultTolerance is the handle hit radius in image pixels.
const DefaultTolerance = 10.0

// Handle indexes the control points of a box. 0-3 are corners, 4-7 edge
// midpoints. HandleCenter is the box center.
type Handle int

const (
	HandleTopLeft Handle = iota
	HandleTopRight
	HandleBottomRight
	HandleBottomLeft
	HandleTop
	HandleRight
	HandleBottom
	HandleLeft
	HandleCenter
)

// IsCorner reports whether h is one of the four corner handles.
func (h Handle) IsCorner() bool { return h >= HandleTopLeft && h <= HandleBottomLeft }

// IsEdge reports whether h is one of the four edge midpoint handles.
func (h Handle) IsEdge() bool { return h >= HandleTop && h <= HandleLeft }

func (h Handle) String() string {
	switch h {
	case HandleTopLeft:
		return "top-left"
	case HandleTopRight:
		return "top-right"
	case HandleBottomRight:
		return "bottom-right"
	case HandleBottomLeft:
		return "bottom-left"
	case HandleTop:
		return "top"
	case HandleRight:
		return "right"
	case HandleBottom:
		return "bottom"
	case HandleLeft:
		return "left"
	case HandleCenter:
		return "center"
	default:
		return "unknown"
	}
}

// Box is an oriented rectangle in pixel space.
type Box struct {
	Center r2.Vec
	Width  float64
	Height float64
	Angle  float64 // degrees
}

// Corners returns the box corners in the fixed winding order
// top-left, top-right, bottom-right, bottom-left of the unrotated rectangle.
func Corners(center r2.Vec, w, h, angleDeg float64) [4]r2.Vec {
	hw, hh := w/2, h/2
	return rotateAll(center, angleDeg, [4]r2.Vec{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	})
}

// EdgeMidpoints returns the top, right, bottom and left edge centers rotated
// the same way as Corners.
func EdgeMidpoints(center r2.Vec, w, h, angleDeg float64) [4]r2.Vec {
	hw, hh := w/2, h/2
	return rotateAll(center, angleDeg, [4]r2.Vec{
		{X: 0, Y: -hh},
		{X: hw, Y: 0},
		{X: 0, Y: hh},
		{X: -hw, Y: 0},
	})
}

func rotateAll(center r2.Vec, angleDeg float64, offsets [4]r2.Vec) [4]r2.Vec {
	rad := angleDeg * math.Pi / 180
	var out [4]r2.Vec
	for i, off := range offsets {
		p := r2.Add(center, off)
		if rad != 0 {
			p = r2.Rotate(p, rad, center)
		}
		out[i] = p
	}
	return out
}

// Corners returns the four corners of b.
func (b Box) Corners() [4]r2.Vec { return Corners(b.Center, b.Width, b.Height, b.Angle) }

// Handles returns the 8 resize handles of b, indexed by Handle.
func (b Box) Handles() [8]r2.Vec {
	var out [8]r2.Vec
	c := b.Corners()
	e := EdgeMidpoints(b.Center, b.Width, b.Height, b.Angle)
	copy(out[:4], c[:])
	copy(out[4:], e[:])
	return out
}

// Contains tests p against the unrotated rectangle of the given center and
// size. Rotation is deliberately ignored. Edges are inclusive.
func Contains(p, center r2.Vec, w, h float64) bool {
	hw, hh := w/2, h/2
	return p.X >= center.X-hw && p.X <= center.X+hw &&
		p.Y >= center.Y-hh && p.Y <= center.Y+hh
}

// Contains reports whether p lies within the unrotated extent of b.
func (b Box) Contains(p r2.Vec) bool { return Contains(p, b.Center, b.Width, b.Height) }

// NearestHandle returns the first control point of b closer than tol to p.
// Enumeration order is corners 0-3, then the center, then edges 4-7; the
// first match wins even if a later point is closer.
func NearestHandle(p r2.Vec, b Box, tol float64) (Handle, bool) {
	hs := b.Handles()
	for i := HandleTopLeft; i <= HandleBottomLeft; i++ {
		if r2.Norm(r2.Sub(p, hs[i])) < tol {
			return i, true
		}
	}
	if r2.Norm(r2.Sub(p, b.Center)) < tol {
		return HandleCenter, true
	}
	for i := HandleTop; i <= HandleLeft; i++ {
		if r2.Norm(r2.Sub(p, hs[i])) < tol {
			return i, true
		}
	}
	return 0, false
}

// Bounds returns the axis-aligned bounds of pts. It panics on an empty slice.
func Bounds(pts []r2.Vec) (min, max r2.Vec) {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return r2.Vec{X: floats.Min(xs), Y: floats.Min(ys)}, r2.Vec{X: floats.Max(xs), Y: floats.Max(ys)}
}

// Span returns the center and non-negative size of the axis-aligned
// rectangle between a and b regardless of drag direction.
func Span(a, b r2.Vec) (center r2.Vec, w, h float64) {
	min, max := Bounds([]r2.Vec{a, b})
	return r2.Scale(0.5, r2.Add(min, max)), max.X - min.X, max.Y - min.Y
}

// AngleTo returns atan2(p-center) in degrees.
func AngleTo(center, p r2.Vec) float64 {
	d := r2.Sub(p, center)
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}
