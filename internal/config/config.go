package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all tool settings, populated from environment variables.
type Config struct {
	InputPath    string
	OutputDir    string
	LocationName string

	// Reference window for the climatology, inclusive on both ends.
	RefStartYear int
	RefEndYear   int

	ChartDPI int

	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// HTTPAddr keeps the process serving health, metrics and charts after the
	// run. Empty disables the server.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Report publication, enabled when brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	refStart, err := parseYear("REF_START_YEAR", 1995)
	if err != nil {
		return nil, err
	}
	refEnd, err := parseYear("REF_END_YEAR", 2024)
	if err != nil {
		return nil, err
	}

	dpi, err := parseChartDPI()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		InputPath:       sharedcfg.EnvOrDefault("INPUT_PATH", "data/precipitation_monthly.json"),
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "output"),
		LocationName:    sharedcfg.EnvOrDefault("LOCATION_NAME", "Chimoio"),
		RefStartYear:    refStart,
		RefEndYear:      refEnd,
		ChartDPI:        dpi,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "precipitation-anomalies"),
		KafkaEnabled:    len(brokers) > 0,
	}

	if cfg.InputPath == "" {
		return nil, errors.New("INPUT_PATH is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.RefStartYear > cfg.RefEndYear {
		return nil, fmt.Errorf("REF_START_YEAR %d is after REF_END_YEAR %d", cfg.RefStartYear, cfg.RefEndYear)
	}

	return cfg, nil
}

func parseYear(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 9999 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseChartDPI() (int, error) {
	s := os.Getenv("CHART_DPI")
	if s == "" {
		return 300, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1200 {
		return 0, fmt.Errorf("invalid CHART_DPI: %q", s)
	}
	return n, nil
}
