package services

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	zxinggo "github.com/ericlevine/zxinggo"
	"github.com/ericlevine/zxinggo/binarizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cardwallet-webapp/internal/barcode"
	"go-cardwallet-webapp/internal/config"
	"go-cardwallet-webapp/internal/models"
)

func testRenderConfig() *config.RenderConfig {
	return &config.RenderConfig{
		MaxPixels:     16 << 20,
		PreviewWidth:  600,
		PreviewHeight: 600,
		ShowFallback:  true,
		Workers:       2,
	}
}

func TestGeneratePNGRoundTrip(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	data, err := s.GeneratePNG(barcode.QRCode, "HELLO", 300, 300)
	require.NoError(t, err)

	result, err := s.VerifyPNG(data)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", result.Text)
	assert.Equal(t, "QR_CODE", result.Format)
}

func TestGeneratePNGEAN13RoundTrip(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	data, err := s.GeneratePNG(barcode.EAN13, "5901234123457", 600, 300)
	require.NoError(t, err)

	result, err := s.VerifyPNG(data)
	require.NoError(t, err)
	assert.Equal(t, "5901234123457", result.Text)
	assert.Equal(t, "EAN_13", result.Format)
}

func TestGeneratePNGRejectsBadPayload(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	_, err := s.GeneratePNG(barcode.EAN13, "not-a-number", 300, 300)
	assert.Error(t, err)
}

func TestGeneratePNGRejectsEmptyPayload(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	_, err := s.GeneratePNG(barcode.QRCode, "", 300, 300)
	assert.Error(t, err)
}

func TestGenerateCardPNG(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	card := &models.Card{Store: "Acme", Value: "HELLO", BarcodeType: "QR_CODE"}
	data, err := s.GenerateCardPNG(card, 300, 300)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
}

func TestGenerateCardPNGUnknownType(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	card := &models.Card{Store: "Acme", Value: "HELLO", BarcodeType: "MAXICODE"}
	_, err := s.GenerateCardPNG(card, 300, 300)
	assert.Error(t, err)
}

func TestGenerateShareQRRoundTrip(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	url := "cardwallet://share?store=Acme&value=HELLO&type=QR_CODE"
	data, err := s.GenerateShareQR(url, 300)
	require.NoError(t, err)

	result, err := s.VerifyPNG(data)
	require.NoError(t, err)
	assert.Equal(t, url, result.Text)
}

func TestVerifyPNGDecodesWithEachBinarizer(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	data, err := s.GeneratePNG(barcode.QRCode, "HELLO", 300, 300)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	source := zxinggo.NewImageLuminanceSource(img)

	result, err := decodeRecovered(zxinggo.NewBinaryBitmap(binarizer.NewGlobalHistogram(source)), &zxinggo.DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", result.Text)

	result, err = decodeRecovered(zxinggo.NewBinaryBitmap(binarizer.NewHybrid(source)), &zxinggo.DecodeOptions{TryHarder: true})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", result.Text)
}

func TestDecodeRecoveredNormalizesPanics(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	data, err := s.GeneratePNG(barcode.QRCode, "HELLO", 300, 300)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// The rotating TryHarder search is unsupported on the global-histogram
	// binarizer and panics deep inside the 1D readers. The recover boundary
	// must turn that into an error.
	source := zxinggo.NewImageLuminanceSource(img)
	bitmap := zxinggo.NewBinaryBitmap(binarizer.NewGlobalHistogram(source))

	assert.NotPanics(t, func() {
		_, _ = decodeRecovered(bitmap, &zxinggo.DecodeOptions{TryHarder: true})
	})
}

func TestVerifyPNGNotAnImage(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	_, err := s.VerifyPNG([]byte("definitely not a PNG"))
	assert.Error(t, err)
}

func TestVerifyPNGNoBarcode(t *testing.T) {
	s := NewBarcodeService(testRenderConfig())

	// A white image decodes as PNG but contains no barcode.
	blank := image.NewRGBA(image.Rect(0, 0, 200, 200))
	draw.Draw(blank, blank.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blank))

	_, err := s.VerifyPNG(buf.Bytes())
	assert.Error(t, err)
}
