package barcode

import (
	"image"
	"image/color"
	"sync"
)

// DisplaySurface is the contract a barcode image target must satisfy. It
// mirrors the operations an image view exposes: the writer task only ever
// calls these through a Ref, so a torn-down surface is never touched.
type DisplaySurface interface {
	// Width and Height report the surface's current measured size in pixels.
	// A surface that has not been laid out yet may report zero.
	Width() int
	Height() int

	// SetImage replaces the displayed image. A nil image clears it.
	SetImage(img image.Image)

	// SetContentDescription sets the accessibility description.
	SetContentDescription(desc string)

	// SetPadding sets the padding on each edge, in pixels.
	SetPadding(left, top, right, bottom int)

	// SetVisible shows or hides the surface.
	SetVisible(visible bool)

	// SetColorTint applies a lightening tint over the displayed image to
	// mark placeholder content. A nil color clears the tint.
	SetColorTint(c color.Color)
}

// CaptionSurface is an optional text label shown next to the barcode.
type CaptionSurface interface {
	SetText(text string)
	SetVisible(visible bool)
}

// Ref is a non-owning handle to a UI object. The owner releases it when the
// object is torn down; holders must check liveness at the point of use and
// degrade to a no-op once the target is gone.
type Ref[T any] struct {
	mu       sync.Mutex
	target   T
	released bool
}

func NewRef[T any](target T) *Ref[T] {
	return &Ref[T]{target: target}
}

// Get returns the target and whether it is still live.
func (r *Ref[T]) Get() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		var zero T
		return zero, false
	}
	return r.target, true
}

// Release drops the target. Subsequent Get calls report it as gone.
func (r *Ref[T]) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.target = zero
	r.released = true
}
