package barcode

import (
	"fmt"

	zxinggo "github.com/ericlevine/zxinggo"
)

// Symbology represents a barcode format supported by the renderer.
type Symbology int

const (
	Aztec Symbology = iota
	Codabar
	Code39
	Code93
	Code128
	DataMatrix
	EAN8
	EAN13
	ITF
	PDF417
	QRCode
	UPCA
	UPCE
)

// When drawn in a smaller window 1D barcodes for some reason end up
// squished, whereas 2D barcodes look fine.
const (
	maxWidth1D = 1500
	maxWidth2D = 500
)

// String returns the wire name of the symbology (e.g. "QR_CODE").
func (s Symbology) String() string {
	switch s {
	case Aztec:
		return "AZTEC"
	case Codabar:
		return "CODABAR"
	case Code39:
		return "CODE_39"
	case Code93:
		return "CODE_93"
	case Code128:
		return "CODE_128"
	case DataMatrix:
		return "DATA_MATRIX"
	case EAN8:
		return "EAN_8"
	case EAN13:
		return "EAN_13"
	case ITF:
		return "ITF"
	case PDF417:
		return "PDF_417"
	case QRCode:
		return "QR_CODE"
	case UPCA:
		return "UPC_A"
	case UPCE:
		return "UPC_E"
	default:
		return "UNKNOWN"
	}
}

// PrettyName returns the human-readable name used for captions and
// content descriptions.
func (s Symbology) PrettyName() string {
	switch s {
	case Aztec:
		return "Aztec"
	case Codabar:
		return "Codabar"
	case Code39:
		return "Code 39"
	case Code93:
		return "Code 93"
	case Code128:
		return "Code 128"
	case DataMatrix:
		return "Data Matrix"
	case EAN8:
		return "EAN-8"
	case EAN13:
		return "EAN-13"
	case ITF:
		return "ITF"
	case PDF417:
		return "PDF417"
	case QRCode:
		return "QR Code"
	case UPCA:
		return "UPC-A"
	case UPCE:
		return "UPC-E"
	default:
		return "Unknown"
	}
}

// IsSquare reports whether the symbology requires a square image.
func (s Symbology) IsSquare() bool {
	switch s {
	case Aztec, DataMatrix, QRCode:
		return true
	default:
		return false
	}
}

// HasInternalPadding reports whether the encoder output already carries a
// quiet zone, so the display layer should not add extra padding around it.
func (s Symbology) HasInternalPadding() bool {
	switch s {
	case QRCode, PDF417:
		return true
	default:
		return false
	}
}

// MaxWidth returns the pixel cap for the symbology. Finer-grained 2D
// formats are capped tighter than 1D formats; Data Matrix is capped like a
// 1D format because its output can be an arbitrarily wide rectangle.
func (s Symbology) MaxWidth() int {
	switch s {
	case Aztec, PDF417, QRCode:
		return maxWidth2D
	default:
		return maxWidth1D
	}
}

// FallbackPayload returns a fixed example string known to encode for the
// symbology. It panics for unknown values: asking for a fallback of a
// symbology without one is a programming error, not a runtime condition.
func (s Symbology) FallbackPayload() string {
	switch s {
	case Aztec:
		return "AZTEC"
	case DataMatrix:
		return "DATA_MATRIX"
	case PDF417:
		return "PDF_417"
	case QRCode:
		return "QR_CODE"
	case Codabar:
		return "C0C"
	case Code39:
		return "CODE_39"
	case Code93:
		return "CODE_93"
	case Code128:
		return "CODE_128"
	case EAN8:
		return "32123456"
	case EAN13:
		return "5901234123457"
	case ITF:
		return "1003"
	case UPCA:
		return "123456789012"
	case UPCE:
		return "0123456"
	default:
		panic(fmt.Sprintf("barcode: no fallback known for symbology %d", int(s)))
	}
}

// EncoderFormat maps the symbology to the encoder library's format value.
func (s Symbology) EncoderFormat() zxinggo.Format {
	switch s {
	case Aztec:
		return zxinggo.FormatAztec
	case Codabar:
		return zxinggo.FormatCodabar
	case Code39:
		return zxinggo.FormatCode39
	case Code93:
		return zxinggo.FormatCode93
	case Code128:
		return zxinggo.FormatCode128
	case DataMatrix:
		return zxinggo.FormatDataMatrix
	case EAN8:
		return zxinggo.FormatEAN8
	case EAN13:
		return zxinggo.FormatEAN13
	case ITF:
		return zxinggo.FormatITF
	case PDF417:
		return zxinggo.FormatPDF417
	case QRCode:
		return zxinggo.FormatQRCode
	case UPCA:
		return zxinggo.FormatUPCA
	case UPCE:
		return zxinggo.FormatUPCE
	default:
		panic(fmt.Sprintf("barcode: no encoder format for symbology %d", int(s)))
	}
}

// Symbologies lists every supported symbology.
func Symbologies() []Symbology {
	return []Symbology{
		Aztec, Codabar, Code39, Code93, Code128, DataMatrix,
		EAN8, EAN13, ITF, PDF417, QRCode, UPCA, UPCE,
	}
}

// ParseSymbology maps a wire name (e.g. "EAN_13") to a Symbology.
func ParseSymbology(name string) (Symbology, error) {
	for _, s := range Symbologies() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown barcode symbology %q", name)
}
