package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"revpulse/server/internal/models"
)

// outlookObs builds an observation scraped on the given August 2026 day,
// for a checkin a few days out.
func outlookObs(scrapeDay int, supply int64, wap float64) models.AvailabilityObservation {
	scraped := time.Date(2026, 8, scrapeDay, 6, 0, 0, 0, time.UTC)
	return models.AvailabilityObservation{
		CitySlug:         "lisbon",
		CheckinDate:      scraped.AddDate(0, 0, 5),
		TotalResults:     &supply,
		WeightedAvgPrice: &wap,
		HotelCount:       &supply,
		ScrapedAt:        scraped,
	}
}

func TestComputeMarketOutlook_Strengthening(t *testing.T) {
	// Supply falls 100 -> 90 between halves: demand delta is +11.1%
	obs := []models.AvailabilityObservation{
		outlookObs(1, 100, 150),
		outlookObs(2, 100, 150),
		outlookObs(3, 90, 150),
		outlookObs(4, 90, 150),
	}

	result := ComputeMarketOutlook(obs, DefaultEngineConfig())

	assert.Equal(t, models.OutlookStrengthening, result.Status)
	assert.True(t, strings.HasPrefix(result.Metric, "+"))
	assert.Equal(t, models.DataStateOK, result.DataState)
	assert.Equal(t, 100.0, result.Debug.PastSupply)
	assert.Equal(t, 90.0, result.Debug.RecentSupply)
	assert.Equal(t, 4, result.Debug.WindowDays)
}

func TestComputeMarketOutlook_Softening(t *testing.T) {
	obs := []models.AvailabilityObservation{
		outlookObs(1, 90, 150),
		outlookObs(2, 90, 150),
		outlookObs(3, 100, 150),
		outlookObs(4, 100, 150),
	}

	result := ComputeMarketOutlook(obs, DefaultEngineConfig())

	assert.Equal(t, models.OutlookSoftening, result.Status)
	assert.True(t, strings.HasPrefix(result.Metric, "-"))
}

func TestComputeMarketOutlook_PriceFallback(t *testing.T) {
	// Supply is flat; the price move carries the classification
	obs := []models.AvailabilityObservation{
		outlookObs(1, 100, 100),
		outlookObs(2, 100, 100),
		outlookObs(3, 100, 105),
		outlookObs(4, 100, 105),
	}

	result := ComputeMarketOutlook(obs, DefaultEngineConfig())

	assert.Equal(t, models.OutlookStrengthening, result.Status)
	assert.Equal(t, "+5.0%", result.Metric)
}

func TestComputeMarketOutlook_Stable(t *testing.T) {
	obs := []models.AvailabilityObservation{
		outlookObs(1, 1000, 150),
		outlookObs(2, 1000, 150),
		outlookObs(3, 1005, 150),
		outlookObs(4, 1005, 150),
	}

	result := ComputeMarketOutlook(obs, DefaultEngineConfig())

	assert.Equal(t, models.OutlookStable, result.Status)
	// The small demand delta is still reported as the metric
	assert.Equal(t, "-0.5%", result.Metric)
}

func TestComputeMarketOutlook_NoData(t *testing.T) {
	result := ComputeMarketOutlook(nil, DefaultEngineConfig())

	assert.Equal(t, models.OutlookStable, result.Status)
	assert.Equal(t, "Data Populating", result.Metric)
	assert.Equal(t, models.DataStateEmpty, result.DataState)
}

func TestComputeMarketOutlook_SingleDay(t *testing.T) {
	// A one-day span cannot form two halves
	result := ComputeMarketOutlook([]models.AvailabilityObservation{
		outlookObs(1, 100, 150),
	}, DefaultEngineConfig())

	assert.Equal(t, models.OutlookStable, result.Status)
	assert.Equal(t, "Data Populating", result.Metric)
	assert.Equal(t, models.DataStateEmpty, result.DataState)
}

func TestComputeMarketOutlook_ZeroPastSupply(t *testing.T) {
	obs := []models.AvailabilityObservation{
		outlookObs(1, 0, 150),
		outlookObs(2, 0, 150),
		outlookObs(3, 50, 150),
		outlookObs(4, 50, 150),
	}

	result := ComputeMarketOutlook(obs, DefaultEngineConfig())

	// Supply 0 -> positive reads as +100% supply, i.e. -100% demand
	assert.Equal(t, models.OutlookSoftening, result.Status)
	assert.Equal(t, "-100.0%", result.Metric)
}

func TestErrorOutlook(t *testing.T) {
	result := ErrorOutlook()

	assert.Equal(t, models.OutlookStable, result.Status)
	assert.Equal(t, "Error", result.Metric)
	assert.Equal(t, models.DataStateError, result.DataState)
}

func TestComputeMarketOutlook_Idempotent(t *testing.T) {
	obs := []models.AvailabilityObservation{
		outlookObs(1, 100, 150),
		outlookObs(2, 100, 150),
		outlookObs(3, 90, 150),
		outlookObs(4, 90, 150),
	}

	first := ComputeMarketOutlook(obs, DefaultEngineConfig())
	second := ComputeMarketOutlook(obs, DefaultEngineConfig())

	assert.Equal(t, first, second)
}
