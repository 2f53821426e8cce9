// sunwatch ingests one sunrise/sunset record per UTC day into the
// sensor measurement, retrying the current date until the whole
// fetch→format→write cycle succeeds.
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/wilson-cheng1110/Comp4436-GP/internal/config"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/hko"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/ingest"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	influx, err := store.Open(store.Config{
		Addr:     cfg.InfluxAddr,
		Database: cfg.InfluxDatabase,
		Timeout:  cfg.InfluxWriteTimeout,
	})
	if err != nil {
		log.Fatalf("failed to open influx store: %v", err)
	}
	defer influx.Close()

	sun := hko.NewSunClient(&http.Client{Timeout: cfg.SunAPITimeout}, cfg.SunAPIURL)

	scheduler := ingest.New(sun, influx, cfg.InfluxMeasurement, cfg.PollInterval)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("failed to start ingestion scheduler: %v", err)
	}
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Println("interrupt received, exiting")
}
