package barcode

import (
	"errors"
	"image/color"
	"testing"

	zxinggo "github.com/ericlevine/zxinggo"
	"github.com/ericlevine/zxinggo/bitutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{A: 0xFF}
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// stubEncoder returns a fixed matrix or error without touching a real
// barcode writer.
type stubEncoder struct {
	matrix *bitutil.BitMatrix
	err    error
	calls  int
}

func (s *stubEncoder) Encode(contents string, format zxinggo.Format, width, height int, opts *zxinggo.EncodeOptions) (*bitutil.BitMatrix, error) {
	s.calls++
	return s.matrix, s.err
}

// panicEncoder models an encoder blowing up on input its error taxonomy
// does not cover.
type panicEncoder struct{}

func (panicEncoder) Encode(contents string, format zxinggo.Format, width, height int, opts *zxinggo.EncodeOptions) (*bitutil.BitMatrix, error) {
	panic("unexpected content")
}

// matrixFromRows builds a matrix from rows of '1' (set) and '0' characters.
func matrixFromRows(t *testing.T, rows ...string) *bitutil.BitMatrix {
	t.Helper()
	m := bitutil.NewBitMatrixWithSize(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			if c == '1' {
				m.Set(x, y)
			}
		}
	}
	return m
}

func TestRenderEmptyPayload(t *testing.T) {
	enc := &stubEncoder{matrix: matrixFromRows(t, "1")}
	r := NewImageRendererWithEncoder(enc, QRCode, 100, 100)

	assert.Nil(t, r.Render(""))
	assert.Zero(t, enc.calls, "encoder must not run for an empty payload")
}

func TestRenderEncodeError(t *testing.T) {
	enc := &stubEncoder{err: errors.New("bad content")}
	r := NewImageRendererWithEncoder(enc, EAN13, 100, 100)

	assert.Nil(t, r.Render("not-a-number"))
	assert.Equal(t, 1, enc.calls)
}

func TestRenderEncoderPanic(t *testing.T) {
	r := NewImageRendererWithEncoder(panicEncoder{}, Aztec, 100, 100)
	assert.Nil(t, r.Render("anything"))
}

func TestRenderTwoColor(t *testing.T) {
	enc := &stubEncoder{matrix: matrixFromRows(t,
		"10",
		"01",
	)}
	r := NewImageRendererWithEncoder(enc, QRCode, 2, 2)

	img := r.Render("x")
	require.NotNil(t, img)
	require.Equal(t, 2, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())

	assert.Equal(t, black, img.RGBAAt(0, 0))
	assert.Equal(t, white, img.RGBAAt(1, 0))
	assert.Equal(t, white, img.RGBAAt(0, 1))
	assert.Equal(t, black, img.RGBAAt(1, 1))
}

func TestRenderIntegerUpscale(t *testing.T) {
	enc := &stubEncoder{matrix: matrixFromRows(t,
		"10",
		"01",
	)}
	r := NewImageRendererWithEncoder(enc, QRCode, 8, 8)

	img := r.Render("x")
	require.NotNil(t, img)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	// Every module becomes a uniform 4x4 block with hard edges.
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := white
			if (x/4+y/4)%2 == 0 {
				want = black
			}
			assert.Equal(t, want, img.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestRenderNoUpscaleBelowFactorTwo(t *testing.T) {
	enc := &stubEncoder{matrix: matrixFromRows(t,
		"1010",
		"0101",
		"1010",
		"0101",
	)}
	// Target smaller than the matrix: the matrix is returned at its
	// natural size, never shrunk or stretched.
	r := NewImageRendererWithEncoder(enc, QRCode, 2, 2)

	img := r.Render("x")
	require.NotNil(t, img)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestRenderScaleUsesMatrixHeightForBothAxes(t *testing.T) {
	// A wide 1D-style matrix, 30x10, into a 20x20 target. Both scale
	// ratios divide by the matrix height, so the width ratio is 2, not 0,
	// and the result is 60x20.
	rows := make([]string, 10)
	for i := range rows {
		rows[i] = "101010101010101010101010101010"
	}
	enc := &stubEncoder{matrix: matrixFromRows(t, rows...)}
	r := NewImageRendererWithEncoder(enc, Code128, 20, 20)

	img := r.Render("x")
	require.NotNil(t, img)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestRenderPixelBudgetMatrix(t *testing.T) {
	enc := &stubEncoder{matrix: matrixFromRows(t,
		"1111",
		"1111",
		"1111",
		"1111",
	)}
	r := NewImageRendererWithEncoder(enc, QRCode, 4, 4)
	r.SetPixelBudget(8)

	assert.Nil(t, r.Render("x"), "matrix larger than the budget must not render")
}

func TestRenderPixelBudgetScaled(t *testing.T) {
	enc := &stubEncoder{matrix: matrixFromRows(t,
		"10",
		"01",
	)}
	// The raw 2x2 matrix fits the budget of 32 pixels, the 8x8 upscale
	// does not.
	r := NewImageRendererWithEncoder(enc, QRCode, 8, 8)
	r.SetPixelBudget(32)

	assert.Nil(t, r.Render("x"))
}

func TestRenderRealQRCode(t *testing.T) {
	r := NewImageRenderer(QRCode, 200, 200)

	img := r.Render("HELLO")
	require.NotNil(t, img)

	// Output must be strictly two-color.
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c != black && c != white {
				t.Fatalf("pixel (%d,%d) is %v, want pure black or white", x, y, c)
			}
		}
	}
}
