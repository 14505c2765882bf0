// Package labels owns the oriented-box labels of one image, the class table
// and the label/class text formats.
package labels

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/obb-label-go/domain/geometry"
)

// MinSize is the smallest normalized width or height a label may have.
const MinSize = 0.001

// Label is one oriented box in normalized image coordinates.
type Label struct {
	ClassID int
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
	Angle   float64 // degrees, clockwise, not wrapped
}

// Clamped returns l with centers in [0,1] and sizes in [MinSize,1].
// Angle and class are left untouched.
func (l Label) Clamped() Label {
	l.XCenter = clamp(l.XCenter, 0, 1)
	l.YCenter = clamp(l.YCenter, 0, 1)
	l.Width = clamp(l.Width, MinSize, 1)
	l.Height = clamp(l.Height, MinSize, 1)
	return l
}

// Pixels converts l into a pixel-space box for an image of the given size.
func (l Label) Pixels(imageW, imageH int) geometry.Box {
	w, h := float64(imageW), float64(imageH)
	return geometry.Box{
		Center: r2.Vec{X: l.XCenter * w, Y: l.YCenter * h},
		Width:  l.Width * w,
		Height: l.Height * h,
		Angle:  l.Angle,
	}
}

// FromPixels builds an unclamped label from a pixel-space box.
func FromPixels(classID int, b geometry.Box, imageW, imageH int) Label {
	w, h := float64(imageW), float64(imageH)
	return Label{
		ClassID: classID,
		XCenter: b.Center.X / w,
		YCenter: b.Center.Y / h,
		Width:   b.Width / w,
		Height:  b.Height / h,
		Angle:   b.Angle,
	}
}

// clamp also maps NaN to lo so a bad value can never escape the range.
func clamp(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Patch carries the fields of a partial update. Nil fields are unchanged.
type Patch struct {
	ClassID *int
	XCenter *float64
	YCenter *float64
	Width   *float64
	Height  *float64
	Angle   *float64
}

// Ptr returns a pointer to v, for building a Patch inline.
func Ptr[T any](v T) *T { return &v }

// Apply returns l with the non-nil fields of p copied in. It does not clamp.
func (p Patch) Apply(l Label) Label {
	if p.ClassID != nil {
		l.ClassID = *p.ClassID
	}
	if p.XCenter != nil {
		l.XCenter = *p.XCenter
	}
	if p.YCenter != nil {
		l.YCenter = *p.YCenter
	}
	if p.Width != nil {
		l.Width = *p.Width
	}
	if p.Height != nil {
		l.Height = *p.Height
	}
	if p.Angle != nil {
		l.Angle = *p.Angle
	}
	return l
}

// Document is the label set of one image, interpreted against that image's
// own pixel dimensions.
type Document struct {
	ImageWidth  int
	ImageHeight int
	Labels      []Label
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Labels = append([]Label(nil), d.Labels...)
	return &out
}
