package barcode

import (
	"fmt"
	"image"

	zxinggo "github.com/ericlevine/zxinggo"
	"github.com/ericlevine/zxinggo/bitutil"
	xdraw "golang.org/x/image/draw"

	"go-cardwallet-webapp/internal/logger"

	// Register a writer for every supported symbology.
	_ "github.com/ericlevine/zxinggo/aztec"
	_ "github.com/ericlevine/zxinggo/datamatrix"
	_ "github.com/ericlevine/zxinggo/oned"
	_ "github.com/ericlevine/zxinggo/pdf417"
	_ "github.com/ericlevine/zxinggo/qrcode"
)

// DefaultPixelBudget bounds the number of pixels a single render may
// allocate. Exceeding it is treated as the memory-exhaustion failure mode.
const DefaultPixelBudget = 16 << 20

// Encoder produces the raw black/white module matrix for a payload. The
// zxinggo multi-format writer is the production implementation.
type Encoder interface {
	Encode(contents string, format zxinggo.Format, width, height int, opts *zxinggo.EncodeOptions) (*bitutil.BitMatrix, error)
}

// ImageRenderer renders a payload into a two-color barcode image for one
// symbology at one target size.
type ImageRenderer struct {
	format      Symbology
	imageHeight int
	imageWidth  int
	encoder     Encoder
	pixelBudget int
	log         *logger.StructuredLogger
}

func NewImageRenderer(format Symbology, imageHeight, imageWidth int) *ImageRenderer {
	return NewImageRendererWithEncoder(zxinggo.NewMultiFormatWriter(), format, imageHeight, imageWidth)
}

func NewImageRendererWithEncoder(encoder Encoder, format Symbology, imageHeight, imageWidth int) *ImageRenderer {
	return &ImageRenderer{
		format:      format,
		imageHeight: imageHeight,
		imageWidth:  imageWidth,
		encoder:     encoder,
		pixelBudget: DefaultPixelBudget,
		log:         logger.Default(),
	}
}

// SetPixelBudget overrides the per-render pixel budget.
func (r *ImageRenderer) SetPixelBudget(pixels int) {
	if pixels > 0 {
		r.pixelBudget = pixels
	}
}

// SetLogger overrides the renderer's logger.
func (r *ImageRenderer) SetLogger(log *logger.StructuredLogger) {
	if log != nil {
		r.log = log
	}
}

// Render generates the barcode image for the given payload. It returns nil
// for an empty payload, on any encoding failure, and when the render would
// exceed the pixel budget. Failures are logged, never propagated.
func (r *ImageRenderer) Render(payload string) *image.RGBA {
	if payload == "" {
		return nil
	}

	matrix, err := r.encode(payload)
	if err != nil {
		r.log.Error("failed to generate barcode", err, map[string]interface{}{
			"symbology": r.format.String(),
			"payload":   payload,
		})
		return nil
	}

	matrixWidth := matrix.Width()
	matrixHeight := matrix.Height()

	if !r.withinBudget(matrixWidth, matrixHeight, len(payload)) {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, matrixWidth, matrixHeight))
	for y := 0; y < matrixHeight; y++ {
		offset := y * img.Stride
		for x := 0; x < matrixWidth; x++ {
			pix := img.Pix[offset+x*4 : offset+x*4+4]
			if matrix.Get(x, y) {
				pix[0], pix[1], pix[2], pix[3] = 0x00, 0x00, 0x00, 0xFF
			} else {
				pix[0], pix[1], pix[2], pix[3] = 0xFF, 0xFF, 0xFF, 0xFF
			}
		}
	}

	// Some encoders ignore the requested size and return the smallest image
	// that can represent the symbol. Letting the display layer scale that up
	// means bilinear filtering and a blurry barcode, so scale here by an
	// integer factor with no filtering.
	heightScale := r.imageHeight / matrixHeight
	// TODO: widthScale ought to divide by matrixWidth. Every supported
	// writer emits square modules, so the two agree in practice.
	widthScale := r.imageWidth / matrixHeight

	scalingFactor := heightScale
	if widthScale < scalingFactor {
		scalingFactor = widthScale
	}

	if scalingFactor > 1 {
		scaledWidth := matrixWidth * scalingFactor
		scaledHeight := matrixHeight * scalingFactor
		if !r.withinBudget(scaledWidth, scaledHeight, len(payload)) {
			return nil
		}
		scaled := image.NewRGBA(image.Rect(0, 0, scaledWidth, scaledHeight))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = scaled
	}

	return img
}

// encode invokes the external encoder. The encoder can fail in ways its own
// error taxonomy does not cover when the payload is invalid for the
// symbology, so anything thrown by this call is normalized to an encoding
// failure.
func (r *ImageRenderer) encode(payload string) (matrix *bitutil.BitMatrix, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("encoder panic: %v", rec)
		}
	}()
	return r.encoder.Encode(payload, r.format.EncoderFormat(), r.imageWidth, r.imageHeight, nil)
}

func (r *ImageRenderer) withinBudget(width, height, payloadLength int) bool {
	if int64(width)*int64(height) <= int64(r.pixelBudget) {
		return true
	}
	r.log.Warn("insufficient memory to render barcode", map[string]interface{}{
		"width":          width,
		"height":         height,
		"symbology":      r.format.String(),
		"payload_length": payloadLength,
	})
	return false
}
