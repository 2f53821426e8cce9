package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// InfluxDB connection and schema.
	InfluxAddr        string
	InfluxDatabase    string
	InfluxMeasurement string
	InfluxReadTimeout time.Duration
	// The ingestion writer tolerates a slower store than the read path.
	InfluxWriteTimeout time.Duration

	// Embedded device reachable over plain HTTP on the local network.
	DeviceIP      string
	DeviceTimeout time.Duration

	// Trained model and label-encoder artifacts. The status service
	// refuses to start if any of them cannot be loaded.
	LEDModelFile       string
	CurtainModelFile   string
	LEDEncoderFile     string
	CurtainEncoderFile string

	// HKO endpoints: current conditions and the sunrise/sunset archive.
	HKOCurrentURL string
	HKOTimeout    time.Duration
	SunAPIURL     string
	SunAPITimeout time.Duration

	// PollInterval controls how often the ingestion scheduler checks
	// for a UTC day rollover.
	PollInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.InfluxAddr = getenvDefault("INFLUX_ADDR", "http://localhost:8086")
	cfg.InfluxDatabase = getenvDefault("INFLUX_DATABASE", "sensor_data")
	cfg.InfluxMeasurement = getenvDefault("INFLUX_MEASUREMENT", "sensor_data")

	var err error
	if cfg.InfluxReadTimeout, err = getenvDuration("INFLUX_READ_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.InfluxWriteTimeout, err = getenvDuration("INFLUX_WRITE_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.DeviceIP = getenvDefault("DEVICE_IP", "172.20.10.3")
	if cfg.DeviceTimeout, err = getenvDuration("DEVICE_TIMEOUT", "5s"); err != nil {
		return nil, err
	}

	cfg.LEDModelFile = getenvDefault("LED_MODEL_FILE", "models/led_pipeline.json")
	cfg.CurtainModelFile = getenvDefault("CURTAIN_MODEL_FILE", "models/curtain_pipeline.json")
	cfg.LEDEncoderFile = getenvDefault("LED_ENCODER_FILE", "models/led_label_encoder.json")
	cfg.CurtainEncoderFile = getenvDefault("CURTAIN_ENCODER_FILE", "models/curtain_label_encoder.json")

	cfg.HKOCurrentURL = getenvDefault("HKO_CURRENT_URL",
		"https://data.weather.gov.hk/weatherAPI/opendata/weather.php?dataType=rhrread&lang=en")
	if cfg.HKOTimeout, err = getenvDuration("HKO_TIMEOUT", "5s"); err != nil {
		return nil, err
	}

	cfg.SunAPIURL = getenvDefault("SUN_API_URL",
		"https://data.weather.gov.hk/weatherAPI/opendata/opendata.php")
	if cfg.SunAPITimeout, err = getenvDuration("SUN_API_TIMEOUT", "15s"); err != nil {
		return nil, err
	}

	if cfg.PollInterval, err = getenvDuration("POLL_INTERVAL", "60s"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
