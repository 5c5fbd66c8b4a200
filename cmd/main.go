package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	_ "overlay-service/docs"
	"overlay-service/internal/assets"
	"overlay-service/internal/canvas"
	"overlay-service/internal/config"
	"overlay-service/internal/handlers"
	"overlay-service/internal/logging"
	"overlay-service/internal/mask"
	"overlay-service/internal/metrics"
	"overlay-service/internal/models"
	"overlay-service/internal/overlay"
	"overlay-service/internal/repository"
	"overlay-service/internal/services"
	"overlay-service/internal/storage"
)

// @title Overlay Service API
// @version 1.0
// @description Allsky camera overlay editor service
// @BasePath /api/overlay
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		bootLog := logging.New("info")
		bootLog.Fatal().Err(err).Msg("config error")
	}
	log := logging.New(cfg.LogLevel)

	db, err := storage.Connect(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	err = db.AutoMigrate(
		&models.FontAsset{},
		&models.ImageAsset{},
		&models.OverlayRecord{},
		&models.SettingsRecord{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	minioClient, err := storage.NewMinioClient(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("minio client initialization failed")
	}
	blobs := storage.NewMinioBlobStore(minioClient, cfg.MinioBucket)

	m := metrics.NewMetrics()

	overlayRepo := repository.NewOverlayRepository(db)
	overlayService := services.NewOverlayService(overlayRepo, cfg.OverlayName, m, log)
	maskService := services.NewMaskService(blobs, cfg.OverlayName, cfg.ImageWidth, cfg.ImageHeight, m, log)

	fontRegistry := assets.NewFontRegistry(repository.NewFontRepository(db), blobs, log)
	imageRegistry := assets.NewImageRegistry(repository.NewImageRepository(db), blobs, cfg.MaxImageUploadBytes, log)

	ctx := context.Background()
	session, err := buildSession(ctx, cfg, overlayService, maskService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("editor session initialization failed")
	}

	app := fiber.New()
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/overlay")
	registerRoutes(api, session, overlayService, fontRegistry, imageRegistry, m, log)
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	log.Info().Str("port", cfg.AppPort).Msg("server listening")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// buildSession loads the persisted overlay document and editor settings and
// assembles the in-memory editing state around them.
func buildSession(ctx context.Context, cfg *config.Config, overlayService *services.OverlayService, maskService *services.MaskService, log zerolog.Logger) (*handlers.Session, error) {
	doc, err := overlayService.LoadOverlay(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := overlayService.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}

	registry := overlay.NewRegistry(doc, cfg.ImageWidth, cfg.ImageHeight)
	if err := overlay.SeedSystemFields(registry); err != nil {
		return nil, err
	}

	data := overlay.NewDataSource(cfg.DataDir, doc.Defaults.DataFileExpiry)
	viewport := canvas.NewViewport(cfg.ImageWidth, cfg.ImageHeight, cfg.ViewWidth, cfg.ViewHeight)
	controller := canvas.NewController(registry, canvas.NullRenderer{}, data, settings, viewport)

	maskController, err := mask.NewController(ctx, maskService, cfg.ImageWidth, cfg.ImageHeight, cfg.ViewWidth, cfg.ViewHeight)
	if err != nil {
		return nil, err
	}

	log.Info().Int("fields", registry.Len()).Str("overlay", cfg.OverlayName).Msg("editor session ready")
	return &handlers.Session{
		Registry: registry,
		Canvas:   controller,
		Mask:     maskController,
		Settings: settings,
	}, nil
}

func registerRoutes(api fiber.Router, session *handlers.Session, overlayService *services.OverlayService, fontRegistry *assets.FontRegistry, imageRegistry *assets.ImageRegistry, m *metrics.Metrics, log zerolog.Logger) {
	oh := handlers.NewOverlayHandler(session, overlayService, log)
	api.Get("/overlay", oh.GetOverlay)
	api.Post("/overlay/save", oh.SaveOverlay)
	api.Get("/fields", oh.ListFields)
	api.Post("/fields", oh.CreateField)
	api.Put("/fields/:id", oh.UpdateField)
	api.Delete("/fields/:id", oh.DeleteField)
	api.Put("/fields/:id/zindex", oh.ReorderField)
	api.Put("/defaults", oh.UpdateDefaults)

	ch := handlers.NewCanvasHandler(session)
	api.Post("/canvas/select/:id", ch.Select)
	api.Post("/canvas/select", ch.SelectAt)
	api.Delete("/canvas/select", ch.ClearSelection)
	api.Post("/canvas/move", ch.MoveSelected)
	api.Post("/canvas/rotate", ch.RotateSelected)
	api.Delete("/canvas/selected", ch.DeleteSelected)
	api.Post("/canvas/testmode", ch.SetTestMode)
	api.Post("/canvas/zoom/:op", ch.Zoom)
	api.Get("/canvas/values", ch.RenderValues)

	mh := handlers.NewMaskHandler(session, log)
	api.Get("/mask", mh.GetMask)
	api.Post("/mask/paint", mh.Paint)
	api.Post("/mask/reset", mh.Reset)
	api.Post("/mask/save", mh.Save)
	api.Post("/mask/zoom/:op", mh.Zoom)

	sh := handlers.NewSettingsHandler(session, overlayService, log)
	api.Get("/settings", sh.GetSettings)
	api.Put("/settings", sh.UpdateSettings)

	fh := handlers.NewFontHandler(session, fontRegistry, m, log)
	api.Get("/fonts", fh.ListFonts)
	api.Post("/fonts", fh.AddFont)
	api.Post("/fonts/upload", fh.UploadFonts)
	api.Delete("/fonts/:name", fh.DeleteFont)

	ih := handlers.NewImageHandler(session, imageRegistry, m, log)
	api.Get("/images", ih.ListImages)
	api.Post("/images/upload", ih.UploadImage)
	api.Get("/images/:name/data", ih.DownloadImage)
	api.Delete("/images/:name", ih.DeleteImage)

	dh := handlers.NewDebugHandler(session)
	api.Get("/debug", dh.GetDebug)
}
