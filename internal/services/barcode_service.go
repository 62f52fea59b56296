package services

import (
	"bytes"
	"fmt"
	"image/png"

	zxinggo "github.com/ericlevine/zxinggo"
	"github.com/ericlevine/zxinggo/binarizer"
	"github.com/skip2/go-qrcode"

	"go-cardwallet-webapp/internal/barcode"
	"go-cardwallet-webapp/internal/config"
	"go-cardwallet-webapp/internal/models"
)

type BarcodeService struct {
	renderCfg *config.RenderConfig
}

func NewBarcodeService(renderCfg *config.RenderConfig) *BarcodeService {
	return &BarcodeService{renderCfg: renderCfg}
}

// GeneratePNG renders the payload as the given symbology into a PNG of the
// requested size. A payload the encoder rejects yields an error, never a
// partial image.
func (s *BarcodeService) GeneratePNG(format barcode.Symbology, payload string, width, height int) ([]byte, error) {
	renderer := barcode.NewImageRenderer(format, height, width)
	renderer.SetPixelBudget(s.renderCfg.MaxPixels)

	img := renderer.Render(payload)
	if img == nil {
		return nil, fmt.Errorf("unable to encode payload as %s", format)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode barcode as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateCardPNG renders a stored card using its own symbology.
func (s *BarcodeService) GenerateCardPNG(card *models.Card, width, height int) ([]byte, error) {
	format, err := barcode.ParseSymbology(card.BarcodeType)
	if err != nil {
		return nil, err
	}
	return s.GeneratePNG(format, card.Value, width, height)
}

// GenerateShareQR encodes a card-sharing URL as a QR code PNG.
func (s *BarcodeService) GenerateShareQR(data string, size int) ([]byte, error) {
	pngBytes, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}
	return pngBytes, nil
}

// VerifyResult is a decoded barcode read back from a rendered image.
type VerifyResult struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

// VerifyPNG decodes a rendered barcode PNG, confirming the payload survives
// a render round trip. The fast global-histogram binarizer is tried first,
// then the local adaptive one. The harder rotating search runs only on the
// hybrid pass: the global-histogram binarizer cannot rebinarize a rotated
// bitmap, and asking it to blows up inside the 1D readers.
func (s *BarcodeService) VerifyPNG(data []byte) (*VerifyResult, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	source := zxinggo.NewImageLuminanceSource(img)

	passes := []struct {
		bitmap *zxinggo.BinaryBitmap
		opts   *zxinggo.DecodeOptions
	}{
		{zxinggo.NewBinaryBitmap(binarizer.NewGlobalHistogram(source)), &zxinggo.DecodeOptions{}},
		{zxinggo.NewBinaryBitmap(binarizer.NewHybrid(source)), &zxinggo.DecodeOptions{TryHarder: true}},
	}

	var lastErr error
	for _, pass := range passes {
		result, err := decodeRecovered(pass.bitmap, pass.opts)
		if err == nil {
			return &VerifyResult{
				Text:   result.Text,
				Format: result.Format.String(),
			}, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("no barcode found: %w", lastErr)
}

// decodeRecovered invokes the external decoder. Like the encode side, the
// decoder can panic on input its error taxonomy does not cover, so anything
// thrown by this call is normalized to a decode failure.
func decodeRecovered(bitmap *zxinggo.BinaryBitmap, opts *zxinggo.DecodeOptions) (result *zxinggo.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("decoder panic: %v", rec)
		}
	}()
	return zxinggo.Decode(bitmap, opts)
}
