package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5280"`
	}

	// Engine holds the tunable constants of the demand and pacing engine.
	// These are read-only after load; the analytics package receives a copy.
	Engine struct {
		// Weight given to supply scarcity in the blended demand score
		SupplyWeight float64 `env:"ENGINE_SUPPLY_WEIGHT" envDefault:"0.5"`

		// Weight given to the price index (MPSS) in the blended demand score
		PriceWeight float64 `env:"ENGINE_PRICE_WEIGHT" envDefault:"0.5"`

		// Past-month revenue below this fraction of target is classified red
		PastMonthRedRatio float64 `env:"ENGINE_PAST_RED_RATIO" envDefault:"0.9"`

		// Required-ADR / benchmark-ADR ratio at or below this is green
		GreenADRRatio float64 `env:"ENGINE_GREEN_ADR_RATIO" envDefault:"1.0"`

		// Required-ADR / benchmark-ADR ratio above this is red
		YellowADRRatio float64 `env:"ENGINE_YELLOW_ADR_RATIO" envDefault:"1.15"`

		// Minimum absolute percent move for the outlook to leave "stable"
		OutlookDeltaThreshold float64 `env:"ENGINE_OUTLOOK_THRESHOLD" envDefault:"1.0"`

		// Forward occupancy (percent) below this marks a fill risk
		LowOccupancyThreshold float64 `env:"ENGINE_LOW_OCC_THRESHOLD" envDefault:"60"`
	}

	// BatchProcessing configuration for the observation ingest pipeline
	BatchProcessing struct {
		// Maximum number of observations to accumulate before processing
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"200"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	// Scraping configuration
	Scraping struct {
		// Path to the headless-browser rate scraper entry point
		ScriptPath string `env:"SCRAPER_SCRIPT" envDefault:"scripts/run_scraper.js"`

		// How many days of checkin dates each scrape covers
		HorizonDays int `env:"SCRAPER_HORIZON_DAYS" envDefault:"90"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
