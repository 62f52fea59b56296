package barcode

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefGetAndRelease(t *testing.T) {
	surface := NewOffscreenSurface(100, 50)
	ref := NewRef[DisplaySurface](surface)

	got, ok := ref.Get()
	require.True(t, ok)
	assert.Equal(t, 100, got.Width())

	ref.Release()

	_, ok = ref.Get()
	assert.False(t, ok)
}

func TestRefReleaseIsIdempotent(t *testing.T) {
	ref := NewRef[DisplaySurface](NewOffscreenSurface(1, 1))
	ref.Release()
	ref.Release()

	_, ok := ref.Get()
	assert.False(t, ok)
}

func TestOffscreenSurface(t *testing.T) {
	s := NewOffscreenSurface(320, 240)

	assert.Equal(t, 320, s.Width())
	assert.Equal(t, 240, s.Height())
	assert.Nil(t, s.Image())
	assert.False(t, s.Visible())

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	s.SetImage(img)
	s.SetContentDescription("Barcode of type QR Code")
	s.SetPadding(1, 2, 3, 4)
	s.SetVisible(true)
	s.SetColorTint(color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF})

	assert.Equal(t, img, s.Image())
	assert.Equal(t, "Barcode of type QR Code", s.ContentDescription())
	left, top, right, bottom := s.Padding()
	assert.Equal(t, [4]int{1, 2, 3, 4}, [4]int{left, top, right, bottom})
	assert.True(t, s.Visible())
	assert.Equal(t, color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}, s.Tint())

	s.SetColorTint(nil)
	assert.Nil(t, s.Tint())

	s.SetImage(nil)
	assert.Nil(t, s.Image())
}
