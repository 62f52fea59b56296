package barcode

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"go-cardwallet-webapp/internal/async"
	"go-cardwallet-webapp/internal/logger"
)

// paddingDIP is the round-corner padding in density-independent units.
const paddingDIP = 10

// placeholderTint is applied over the image when a fallback barcode is
// displayed instead of the requested payload.
var placeholderTint = color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}

// DisplayMetrics describes the host display used for sizing decisions.
type DisplayMetrics struct {
	// Density converts density-independent units to pixels.
	Density float64

	// ScreenWidthPixels is the full screen width, used to bound downscaled
	// renders.
	ScreenWidthPixels int
}

func DefaultDisplayMetrics() DisplayMetrics {
	return DisplayMetrics{Density: 1.0, ScreenWidthPixels: 1080}
}

// ResultFunc receives the task's final success flag.
type ResultFunc func(success bool)

// WriterOptions configures an ImageWriterTask.
type WriterOptions struct {
	// Caption is an optional label updated with the symbology's pretty name.
	Caption *Ref[CaptionSurface]

	// ShowFallback enables rendering the symbology's example payload when
	// the requested payload fails to encode.
	ShowFallback bool

	// RoundCornerPadding reserves padding so the barcode clears rounded
	// display corners, unless the symbology already pads itself.
	RoundCornerPadding bool

	// Fullscreen forces the downscale branch for non-square symbologies.
	Fullscreen bool

	// OnResult, if set, is invoked exactly once from the follow-up step.
	OnResult ResultFunc

	// Metrics defaults to DefaultDisplayMetrics when zero.
	Metrics DisplayMetrics

	// Encoder overrides the default multi-format encoder.
	Encoder Encoder

	// PixelBudget overrides the renderer's pixel budget when positive.
	PixelBudget int

	// Logger overrides the default logger.
	Logger *logger.StructuredLogger
}

// ImageWriterTask generates a barcode image off the UI loop and loads it
// into a display surface. Only non-owning references to the surfaces are
// kept, so the task never extends their lifetime. Target dimensions are
// computed once at construction from the surface's measured size; the
// payload is mutated at most once, when falling back.
type ImageWriterTask struct {
	display *Ref[DisplaySurface]
	caption *Ref[CaptionSurface]

	payload string
	format  Symbology

	imageHeight  int
	imageWidth   int
	imagePadding int
	widthPadding bool

	renderer     *ImageRenderer
	showFallback bool
	successful   bool
	onResult     ResultFunc
	log          *logger.StructuredLogger
}

// NewImageWriterTask sizes and prepares a task for the given surface. The
// surface's current measured size is read here, synchronously; a released
// or unmeasured surface yields a zero-sized target.
func NewImageWriterTask(display *Ref[DisplaySurface], payload string, format Symbology, opts WriterOptions) *ImageWriterTask {
	metrics := opts.Metrics
	if metrics.Density <= 0 {
		metrics = DefaultDisplayMetrics()
	}

	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	var surfaceWidth, surfaceHeight int
	if surface, ok := display.Get(); ok {
		surfaceWidth = surface.Width()
		surfaceHeight = surface.Height()
	}

	// Some barcodes already have internal whitespace and shouldn't get
	// extra padding.
	imagePadding := 0
	if opts.RoundCornerPadding && !format.HasInternalPadding() {
		imagePadding = int(math.Round(paddingDIP * metrics.Density))
	}

	adjustedWidth := surfaceWidth
	adjustedHeight := surfaceHeight
	widthPadding := false
	if format.IsSquare() && adjustedWidth > adjustedHeight {
		adjustedWidth -= imagePadding
		widthPadding = true
	} else {
		adjustedHeight -= imagePadding
	}

	maxWidth := format.MaxWidth()

	var imageWidth, imageHeight int
	switch {
	case format.IsSquare():
		imageWidth = min(adjustedHeight, min(maxWidth, adjustedWidth))
		imageHeight = imageWidth
	case surfaceWidth < maxWidth && !opts.Fullscreen:
		imageWidth = adjustedWidth
		imageHeight = adjustedHeight
	default:
		// Scale down the image to reduce the memory needed to produce it.
		imageWidth = min(maxWidth, metrics.ScreenWidthPixels)
		if adjustedWidth > 0 {
			ratio := float64(imageWidth) / float64(adjustedWidth)
			imageHeight = int(float64(adjustedHeight) * ratio)
		}
	}

	renderer := NewImageRenderer(format, imageHeight, imageWidth)
	if opts.Encoder != nil {
		renderer = NewImageRendererWithEncoder(opts.Encoder, format, imageHeight, imageWidth)
	}
	renderer.SetPixelBudget(opts.PixelBudget)
	renderer.SetLogger(log)

	return &ImageWriterTask{
		display:      display,
		caption:      opts.Caption,
		payload:      payload,
		format:       format,
		imageHeight:  imageHeight,
		imageWidth:   imageWidth,
		imagePadding: imagePadding,
		widthPadding: widthPadding,
		renderer:     renderer,
		showFallback: opts.ShowFallback,
		successful:   true,
		onResult:     opts.OnResult,
		log:          log,
	}
}

// TargetSize returns the computed target dimensions.
func (t *ImageWriterTask) TargetSize() (width, height int) {
	return t.imageWidth, t.imageHeight
}

// Run is the background step. It observes cancellation at entry and again
// before a fallback attempt; an in-progress encode is never interrupted.
// The cancelled and fallback-disabled paths return a blank image at the
// target dimensions so the follow-up step always has something to display.
func (t *ImageWriterTask) Run(ctx context.Context) *image.RGBA {
	if ctx.Err() == nil {
		img := t.renderer.Render(t.payload)

		if img == nil {
			t.successful = false

			if t.showFallback && ctx.Err() == nil {
				t.log.Info("barcode generation failed, generating fallback", map[string]interface{}{
					"symbology": t.format.String(),
				})
				t.payload = t.format.FallbackPayload()
				return t.renderer.Render(t.payload)
			}
		} else {
			return img
		}
	}

	return image.NewRGBA(image.Rect(0, 0, t.imageWidth, t.imageHeight))
}

// Complete is the follow-up step and must run on the loop that owns the
// surface. It is a no-op when the display surface has been released.
func (t *ImageWriterTask) Complete(result *image.RGBA) {
	t.log.Info("finished generating barcode image", map[string]interface{}{
		"symbology": t.format.String(),
		"payload":   t.payload,
	})

	surface, ok := t.display.Get()
	if !ok {
		// The surface no longer exists, nothing to do.
		return
	}

	prettyName := t.format.PrettyName()

	var img image.Image
	if result != nil {
		img = result
	}
	surface.SetImage(img)
	surface.SetContentDescription(fmt.Sprintf("Barcode of type %s", prettyName))

	if result != nil {
		if t.widthPadding {
			surface.SetPadding(t.imagePadding/2, 0, t.imagePadding/2, 0)
		} else {
			surface.SetPadding(0, t.imagePadding/2, 0, t.imagePadding/2)
		}
		surface.SetVisible(true)

		if t.successful {
			surface.SetColorTint(nil)
		} else {
			surface.SetColorTint(placeholderTint)
		}

		t.updateCaption(true, prettyName)
	} else {
		t.log.Info("barcode generation failed, removing image from display", map[string]interface{}{
			"symbology": t.format.String(),
		})
		surface.SetVisible(false)
		t.updateCaption(false, "")
	}

	if t.onResult != nil {
		t.onResult(t.successful)
	}
}

func (t *ImageWriterTask) updateCaption(visible bool, text string) {
	if t.caption == nil {
		return
	}
	caption, ok := t.caption.Get()
	if !ok {
		return
	}
	caption.SetVisible(visible)
	if visible {
		caption.SetText(text)
	}
}

// ExecuteOn schedules the task's two steps on the executor. The returned
// cancel func signals cooperative cancellation of the background step.
func (t *ImageWriterTask) ExecuteOn(e *async.Executor) (context.CancelFunc, error) {
	return async.Submit(e, t.Run, t.Complete)
}
