// Package viewport maps device pixels to image pixels under pan and zoom.
package viewport

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Zoom factors used by the toolbar buttons and the mouse wheel.
const (
	ZoomInFactor    = 1.2
	ZoomOutFactor   = 0.8
	WheelInFactor   = 1.1
	WheelOutFactor  = 0.9
	minScale        = 0.01
	maxScale        = 100.0
	defaultViewSize = 1
)

// Viewport projects image coordinates onto a view: device = image*Scale + Offset.
// The zero value is the identity mapping.
type Viewport struct {
	Scale  float64
	Offset r2.Vec

	imageW, imageH int
	viewW, viewH   int
}

// New returns a viewport fitted to show the whole image inside the view.
func New(imageW, imageH, viewW, viewH int) *Viewport {
	v := &Viewport{}
	v.Fit(imageW, imageH, viewW, viewH)
	return v
}

func (v *Viewport) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// Fit scales the image to fit the view keeping the aspect ratio and centers it.
func (v *Viewport) Fit(imageW, imageH, viewW, viewH int) {
	if imageW < 1 {
		imageW = defaultViewSize
	}
	if imageH < 1 {
		imageH = defaultViewSize
	}
	if viewW < 1 {
		viewW = defaultViewSize
	}
	if viewH < 1 {
		viewH = defaultViewSize
	}
	v.imageW, v.imageH, v.viewW, v.viewH = imageW, imageH, viewW, viewH
	ratioW := float64(viewW) / float64(imageW)
	ratioH := float64(viewH) / float64(imageH)
	ratio := ratioW
	if ratioH < ratio {
		ratio = ratioH
	}
	v.Scale = ratio
	v.Offset = r2.Vec{
		X: (float64(viewW) - float64(imageW)*ratio) / 2,
		Y: (float64(viewH) - float64(imageH)*ratio) / 2,
	}
}

// Reset restores the fitted mapping of the last Fit call.
func (v *Viewport) Reset() { v.Fit(v.imageW, v.imageH, v.viewW, v.viewH) }

// Zoom multiplies the scale by f keeping the device point anchor fixed.
func (v *Viewport) Zoom(f float64, anchor r2.Vec) {
	if f <= 0 {
		return
	}
	img := v.Unproject(anchor)
	s := v.scale() * f
	if s < minScale {
		s = minScale
	}
	if s > maxScale {
		s = maxScale
	}
	v.Scale = s
	v.Offset = r2.Sub(anchor, r2.Scale(s, img))
}

// ZoomIn zooms about the view center.
func (v *Viewport) ZoomIn() { v.Zoom(ZoomInFactor, v.center()) }

// ZoomOut zooms about the view center.
func (v *Viewport) ZoomOut() { v.Zoom(ZoomOutFactor, v.center()) }

// Wheel zooms in for a positive delta and out otherwise, about the pointer.
func (v *Viewport) Wheel(delta float64, at r2.Vec) {
	if delta > 0 {
		v.Zoom(WheelInFactor, at)
		return
	}
	v.Zoom(WheelOutFactor, at)
}

// Pan shifts the image by d device pixels.
func (v *Viewport) Pan(d r2.Vec) { v.Offset = r2.Add(v.Offset, d) }

func (v *Viewport) center() r2.Vec {
	return r2.Vec{X: float64(v.viewW) / 2, Y: float64(v.viewH) / 2}
}

// Unproject maps a device point to image pixels.
func (v *Viewport) Unproject(device r2.Vec) r2.Vec {
	return r2.Scale(1/v.scale(), r2.Sub(device, v.Offset))
}

// Project maps an image point to device pixels.
func (v *Viewport) Project(img r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(v.scale(), img), v.Offset)
}
