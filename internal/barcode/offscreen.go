package barcode

import (
	"image"
	"image/color"
	"sync"
)

// OffscreenSurface is an in-memory DisplaySurface. Headless callers (the
// preview endpoint, the CLI) display into it and read the result back.
type OffscreenSurface struct {
	mu      sync.Mutex
	width   int
	height  int
	img     image.Image
	desc    string
	padding [4]int
	visible bool
	tint    color.Color
}

func NewOffscreenSurface(width, height int) *OffscreenSurface {
	return &OffscreenSurface{width: width, height: height}
}

func (s *OffscreenSurface) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

func (s *OffscreenSurface) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

func (s *OffscreenSurface) SetImage(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
}

func (s *OffscreenSurface) SetContentDescription(desc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desc = desc
}

func (s *OffscreenSurface) SetPadding(left, top, right, bottom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.padding = [4]int{left, top, right, bottom}
}

func (s *OffscreenSurface) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = visible
}

func (s *OffscreenSurface) SetColorTint(c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tint = c
}

// Image returns the displayed image, nil when none was set.
func (s *OffscreenSurface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// ContentDescription returns the accessibility description.
func (s *OffscreenSurface) ContentDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desc
}

// Padding returns the last applied padding.
func (s *OffscreenSurface) Padding() (left, top, right, bottom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.padding[0], s.padding[1], s.padding[2], s.padding[3]
}

// Visible reports whether the surface is shown.
func (s *OffscreenSurface) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Tint returns the applied tint, nil when cleared.
func (s *OffscreenSurface) Tint() color.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tint
}
