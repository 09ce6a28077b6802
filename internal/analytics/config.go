package analytics

import (
	"fmt"
	"math"

	"revpulse/server/config"
)

// EngineConfig carries the tunable constants of the engine. It is built
// once at startup and treated as read-only; the engine never mutates it.
type EngineConfig struct {
	SupplyWeight          float64
	PriceWeight           float64
	PastMonthRedRatio     float64
	GreenADRRatio         float64
	YellowADRRatio        float64
	OutlookDeltaThreshold float64
	LowOccupancyThreshold float64
}

// DefaultEngineConfig returns the stock weights and thresholds
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SupplyWeight:          0.5,
		PriceWeight:           0.5,
		PastMonthRedRatio:     0.9,
		GreenADRRatio:         1.0,
		YellowADRRatio:        1.15,
		OutlookDeltaThreshold: 1.0,
		LowOccupancyThreshold: 60,
	}
}

// NewEngineConfig builds an engine configuration from the loaded server
// config, validating that the blend weights sum to 1.0.
func NewEngineConfig(cfg *config.Config) (EngineConfig, error) {
	ec := EngineConfig{
		SupplyWeight:          cfg.Engine.SupplyWeight,
		PriceWeight:           cfg.Engine.PriceWeight,
		PastMonthRedRatio:     cfg.Engine.PastMonthRedRatio,
		GreenADRRatio:         cfg.Engine.GreenADRRatio,
		YellowADRRatio:        cfg.Engine.YellowADRRatio,
		OutlookDeltaThreshold: cfg.Engine.OutlookDeltaThreshold,
		LowOccupancyThreshold: cfg.Engine.LowOccupancyThreshold,
	}
	if err := ec.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return ec, nil
}

// Validate checks the weight and threshold constraints
func (c EngineConfig) Validate() error {
	if c.SupplyWeight < 0 || c.PriceWeight < 0 {
		return fmt.Errorf("negative blend weight: supply=%f price=%f", c.SupplyWeight, c.PriceWeight)
	}
	sum := c.SupplyWeight + c.PriceWeight
	if math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("blend weights sum to %f, expected ~1.0", sum)
	}
	if c.GreenADRRatio > c.YellowADRRatio {
		return fmt.Errorf("green ADR ratio %f exceeds yellow ratio %f", c.GreenADRRatio, c.YellowADRRatio)
	}
	return nil
}
