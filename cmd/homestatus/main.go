package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/wilson-cheng1110/Comp4436-GP/internal/api/http"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/config"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/device"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/hko"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/predict"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/sensor"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/status"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The model bundle is built once here and never mutated; the
	// service refuses to start without it.
	bundle, err := predict.LoadBundle(predict.BundlePaths{
		LEDModel:       cfg.LEDModelFile,
		CurtainModel:   cfg.CurtainModelFile,
		LEDEncoder:     cfg.LEDEncoderFile,
		CurtainEncoder: cfg.CurtainEncoderFile,
	})
	if err != nil {
		log.Fatalf("CRITICAL: failed to load models or encoders: %v", err)
	}
	log.Println("models and encoders loaded successfully")

	influx, err := store.Open(store.Config{
		Addr:     cfg.InfluxAddr,
		Database: cfg.InfluxDatabase,
		Timeout:  cfg.InfluxReadTimeout,
	})
	if err != nil {
		log.Fatalf("failed to open influx store: %v", err)
	}
	defer influx.Close()

	reader := sensor.NewReader(influx, cfg.InfluxMeasurement)
	predictor := predict.New(bundle)
	weather := hko.NewCurrentFetcher(&http.Client{Timeout: cfg.HKOTimeout}, cfg.HKOCurrentURL)
	aggregator := status.New(reader, predictor, weather)
	controller := device.NewController(cfg.DeviceIP, cfg.DeviceTimeout)

	app := fiber.New(fiber.Config{
		AppName:               "homestatus",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "homestatus",
		})
	})

	httpapi.RegisterRoutes(app, aggregator, controller)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
