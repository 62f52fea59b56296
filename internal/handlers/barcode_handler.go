package handlers

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-cardwallet-webapp/internal/async"
	"go-cardwallet-webapp/internal/barcode"
	"go-cardwallet-webapp/internal/config"
	"go-cardwallet-webapp/internal/monitoring"
	"go-cardwallet-webapp/internal/repository"
	"go-cardwallet-webapp/internal/services"
)

// maxDimension bounds caller-supplied render dimensions.
const maxDimension = 4000

// maxVerifyBody bounds the PNG accepted by the verify endpoint.
const maxVerifyBody = 8 << 20

type BarcodeHandler struct {
	cardRepo       *repository.CardRepository
	barcodeService *services.BarcodeService
	pdfService     *services.PDFService
	tracker        *monitoring.ErrorTracker
	executor       *async.Executor
	displayCfg     *config.DisplayConfig
	renderCfg      *config.RenderConfig
}

func NewBarcodeHandler(cardRepo *repository.CardRepository, barcodeService *services.BarcodeService, pdfService *services.PDFService, tracker *monitoring.ErrorTracker, executor *async.Executor, displayCfg *config.DisplayConfig, renderCfg *config.RenderConfig) *BarcodeHandler {
	return &BarcodeHandler{
		cardRepo:       cardRepo,
		barcodeService: barcodeService,
		pdfService:     pdfService,
		tracker:        tracker,
		executor:       executor,
		displayCfg:     displayCfg,
		renderCfg:      renderCfg,
	}
}

// GetCardBarcode renders a stored card's barcode as PNG.
func (h *BarcodeHandler) GetCardBarcode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("cardID"), 10, 32)
	if err != nil {
		JSONError(c, http.StatusBadRequest, "Invalid card ID")
		return
	}

	card, err := h.cardRepo.GetByID(uint(id))
	if err != nil {
		JSONError(c, http.StatusNotFound, "Card not found")
		return
	}

	width := h.dimensionQuery(c, "width", h.renderCfg.PreviewWidth)
	height := h.dimensionQuery(c, "height", h.renderCfg.PreviewHeight)

	data, err := h.barcodeService.GenerateCardPNG(card, width, height)
	if err != nil {
		h.tracker.TrackError("barcode", "render_card", "failed to render stored card", err, monitoring.MEDIUM)
		JSONError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.cardRepo.TouchLastUsed(card.CardID); err != nil {
		h.tracker.TrackError("barcode", "touch_last_used", "failed to update last used", err, monitoring.LOW)
	}

	c.Data(http.StatusOK, "image/png", data)
}

// GetCardShareQR renders a QR code carrying a share link for the card.
func (h *BarcodeHandler) GetCardShareQR(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("cardID"), 10, 32)
	if err != nil {
		JSONError(c, http.StatusBadRequest, "Invalid card ID")
		return
	}

	card, err := h.cardRepo.GetByID(uint(id))
	if err != nil {
		JSONError(c, http.StatusNotFound, "Card not found")
		return
	}

	size := h.dimensionQuery(c, "size", h.renderCfg.PreviewWidth)

	shareURL := fmt.Sprintf("cardwallet://share?store=%s&value=%s&type=%s",
		url.QueryEscape(card.Store),
		url.QueryEscape(card.Value),
		url.QueryEscape(card.BarcodeType))

	data, err := h.barcodeService.GenerateShareQR(shareURL, size)
	if err != nil {
		h.tracker.TrackError("barcode", "share_qr", "failed to render share QR", err, monitoring.MEDIUM)
		JSONError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

// ExportPDF generates the printable card sheet for all active cards.
func (h *BarcodeHandler) ExportPDF(c *gin.Context) {
	cards, err := h.cardRepo.List(false)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to list cards")
		return
	}

	data, err := h.pdfService.GenerateCardSheet(cards)
	if err != nil {
		h.tracker.TrackError("pdf", "card_sheet", "failed to generate card sheet", err, monitoring.MEDIUM)
		JSONError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=cards.pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}

// Preview renders an arbitrary payload through the full display pipeline:
// surface sizing, background render on the shared worker pool, fallback and
// tinting all behave exactly as they do for an on-device surface. The
// X-Barcode-Fallback header reports whether the returned image is the
// symbology's example payload rather than the requested one.
func (h *BarcodeHandler) Preview(c *gin.Context) {
	format, err := barcode.ParseSymbology(c.Query("format"))
	if err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	value := c.Query("value")
	if value == "" {
		JSONError(c, http.StatusBadRequest, "Missing value")
		return
	}

	width := h.dimensionQuery(c, "width", h.renderCfg.PreviewWidth)
	height := h.dimensionQuery(c, "height", h.renderCfg.PreviewHeight)

	showFallback := h.renderCfg.ShowFallback
	if v := c.Query("fallback"); v != "" {
		showFallback = v == "true"
	}

	surface := barcode.NewOffscreenSurface(width, height)
	display := barcode.NewRef[barcode.DisplaySurface](surface)
	defer display.Release()

	done := make(chan bool, 1)
	task := barcode.NewImageWriterTask(display, value, format, barcode.WriterOptions{
		ShowFallback:       showFallback,
		RoundCornerPadding: c.Query("padding") == "true",
		Fullscreen:         c.Query("fullscreen") == "true",
		OnResult:           func(ok bool) { done <- ok },
		Metrics: barcode.DisplayMetrics{
			Density:           h.displayCfg.Density,
			ScreenWidthPixels: h.displayCfg.ScreenWidthPixels,
		},
		PixelBudget: h.renderCfg.MaxPixels,
	})

	cancelRender, err := task.ExecuteOn(h.executor)
	if err != nil {
		JSONError(c, http.StatusServiceUnavailable, "Render queue is full")
		return
	}

	var success bool
	select {
	case success = <-done:
	case <-c.Request.Context().Done():
		cancelRender()
		JSONError(c, http.StatusRequestTimeout, "Request cancelled")
		return
	}

	img := surface.Image()
	if img == nil || !surface.Visible() {
		JSONError(c, http.StatusUnprocessableEntity, "Nothing to display")
		return
	}

	if !success {
		h.tracker.TrackError("barcode", "preview", "payload failed to encode", nil, monitoring.LOW)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to encode image")
		return
	}

	c.Header("X-Barcode-Fallback", strconv.FormatBool(!success))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Verify decodes an uploaded barcode PNG and reports its text and format.
func (h *BarcodeHandler) Verify(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxVerifyBody)

	data, err := c.GetRawData()
	if err != nil {
		JSONError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	result, err := h.barcodeService.VerifyPNG(data)
	if err != nil {
		JSONError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	SafeJSON(c, http.StatusOK, result)
}

// dimensionQuery parses a pixel dimension query parameter, clamped to sane
// bounds.
func (h *BarcodeHandler) dimensionQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	if v > maxDimension {
		return maxDimension
	}
	return v
}
