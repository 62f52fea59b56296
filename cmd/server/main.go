package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"go-cardwallet-webapp/internal/async"
	"go-cardwallet-webapp/internal/barcode"
	"go-cardwallet-webapp/internal/config"
	"go-cardwallet-webapp/internal/handlers"
	"go-cardwallet-webapp/internal/logger"
	"go-cardwallet-webapp/internal/monitoring"
	"go-cardwallet-webapp/internal/repository"
	"go-cardwallet-webapp/internal/routes"
	"go-cardwallet-webapp/internal/services"
)

var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cardwallet",
	Short: "Card wallet barcode service",
	Long: `HTTP service and CLI for storing loyalty cards and rendering their
barcodes. Supports 1D and 2D symbologies, stateless previews with the
same sizing and fallback behaviour as an on-device card view, barcode
verification, and PDF export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logger.InitializeLogger(logger.LoggerConfig{
			Level:      logger.ParseLevel(cfg.Logging.Level),
			Service:    "cardwallet",
			OutputPath: cfg.Logging.File,
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log := logger.GlobalLogger
		defer log.Close()

		db, err := repository.NewDatabase(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		tracker := monitoring.NewErrorTracker(500, 7*24*time.Hour)
		cardRepo := repository.NewCardRepository(db)
		barcodeService := services.NewBarcodeService(&cfg.Render)
		pdfService := services.NewPDFService()

		executor := async.NewExecutor(cfg.Render.Workers)
		defer executor.Stop()

		gin.SetMode(gin.ReleaseMode)
		engine := gin.New()
		routes.Setup(engine, cfg, routes.Handlers{
			Cards:      handlers.NewCardHandler(cardRepo),
			Barcodes:   handlers.NewBarcodeHandler(cardRepo, barcodeService, pdfService, tracker, executor, &cfg.Display, &cfg.Render),
			Monitoring: handlers.NewMonitoringHandler(db, tracker),
		}, log)

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		server := &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting server", map[string]interface{}{"addr": addr})
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case sig := <-sigCh:
			log.Info("shutting down", map[string]interface{}{"signal": sig.String()})
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a barcode PNG to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		formatName, _ := cmd.Flags().GetString("format")
		value, _ := cmd.Flags().GetString("value")
		out, _ := cmd.Flags().GetString("out")
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")

		format, err := barcode.ParseSymbology(formatName)
		if err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("missing --value")
		}

		data, err := services.NewBarcodeService(&cfg.Render).GeneratePNG(format, value, width, height)
		if err != nil {
			return err
		}

		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cardwallet %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.json", "config file path")

	renderCmd.Flags().String("format", "QR_CODE", "barcode format")
	renderCmd.Flags().String("value", "", "payload to encode")
	renderCmd.Flags().String("out", "barcode.png", "output file")
	renderCmd.Flags().Int("width", 600, "image width in pixels")
	renderCmd.Flags().Int("height", 600, "image height in pixels")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
