package routes

import (
	"github.com/gin-gonic/gin"

	"go-cardwallet-webapp/internal/config"
	"go-cardwallet-webapp/internal/handlers"
	"go-cardwallet-webapp/internal/logger"
	"go-cardwallet-webapp/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Cards      *handlers.CardHandler
	Barcodes   *handlers.BarcodeHandler
	Monitoring *handlers.MonitoringHandler
}

// Setup wires all routes onto the engine.
func Setup(r *gin.Engine, cfg *config.Config, h Handlers, log *logger.StructuredLogger) {
	r.Use(log.LoggingMiddleware())
	r.Use(gin.Recovery())
	r.NoRoute(handlers.NotFoundHandler)

	r.GET("/health", h.Monitoring.Health)

	v1 := r.Group("/api/v1")

	cards := v1.Group("/cards")
	{
		cards.GET("", h.Cards.ListCards)
		cards.POST("", h.Cards.CreateCard)
		cards.GET("/export.pdf", h.Barcodes.ExportPDF)
		cards.GET("/:cardID", h.Cards.GetCard)
		cards.PUT("/:cardID", h.Cards.UpdateCard)
		cards.DELETE("/:cardID", h.Cards.DeleteCard)
		cards.GET("/:cardID/barcode.png", h.Barcodes.GetCardBarcode)
		cards.GET("/:cardID/share.png", h.Barcodes.GetCardShareQR)
	}

	bc := v1.Group("/barcode")
	{
		bc.GET("/preview", h.Barcodes.Preview)
		bc.POST("/verify", h.Barcodes.Verify)
	}

	admin := v1.Group("/monitoring", middleware.AdminAuth(&cfg.Security))
	{
		admin.GET("/errors", h.Monitoring.Errors)
	}
}
