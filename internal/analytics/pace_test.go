package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"revpulse/server/internal/models"
)

func scoredObs(day int, hour int, totalResults int64, wap float64, mpss float64, demand int) models.ScoredObservation {
	tr := totalResults
	w := wap
	m := mpss
	d := demand
	return models.ScoredObservation{
		AvailabilityObservation: models.AvailabilityObservation{
			CitySlug:         "lisbon",
			CheckinDate:      time.Date(2026, 9, day, hour, 0, 0, 0, time.UTC),
			TotalResults:     &tr,
			WeightedAvgPrice: &w,
			HotelCount:       &tr,
		},
		MPSS:              &m,
		MarketDemandScore: &d,
	}
}

func TestCalculatePace_RoundTrip(t *testing.T) {
	series := []models.ScoredObservation{
		scoredObs(1, 0, 20, 150, 40, 55),
		scoredObs(2, 0, 30, 170, 60, 45),
	}

	records := CalculatePace(series, series)

	assert.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, 0.0, *rec.MPSSDelta)
		assert.Equal(t, 0.0, *rec.MarketDemandScoreDelta)
		assert.Equal(t, 0.0, *rec.TotalResultsDelta)
		assert.Equal(t, 0.0, *rec.HotelCountDelta)
		assert.Equal(t, 0.0, *rec.TotalResultsPctDelta)
		assert.Equal(t, 0.0, *rec.WapDelta)
	}
}

func TestCalculatePace_MissingPastDate(t *testing.T) {
	latest := []models.ScoredObservation{scoredObs(1, 0, 20, 150, 40, 55)}
	past := []models.ScoredObservation{scoredObs(2, 0, 30, 170, 60, 45)}

	records := CalculatePace(latest, past)

	assert.Len(t, records, 1)
	rec := records[0]
	// All delta fields are nil as a group
	assert.Nil(t, rec.MPSSDelta)
	assert.Nil(t, rec.MarketDemandScoreDelta)
	assert.Nil(t, rec.TotalResultsDelta)
	assert.Nil(t, rec.HotelCountDelta)
	assert.Nil(t, rec.TotalResultsPctDelta)
	assert.Nil(t, rec.WapDelta)
}

func TestCalculatePace_JoinsOnCalendarDay(t *testing.T) {
	// Same checkin date scraped at different hours still joins
	latest := []models.ScoredObservation{scoredObs(1, 14, 18, 160, 40, 55)}
	past := []models.ScoredObservation{scoredObs(1, 3, 20, 150, 30, 50)}

	records := CalculatePace(latest, past)

	assert.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, 10.0, *rec.MPSSDelta)
	assert.Equal(t, 5.0, *rec.MarketDemandScoreDelta)
	assert.Equal(t, -2.0, *rec.TotalResultsDelta)
	assert.Equal(t, 10.0, *rec.WapDelta)
	assert.InDelta(t, -10.0, *rec.TotalResultsPctDelta, 1e-9)
}

func TestCalculatePace_ZeroPastCount(t *testing.T) {
	latest := []models.ScoredObservation{scoredObs(1, 0, 20, 150, 40, 55)}
	past := []models.ScoredObservation{scoredObs(1, 0, 0, 150, 40, 55)}

	records := CalculatePace(latest, past)

	// Divide-by-zero guard: percent delta is nil, absolute delta is not
	assert.Nil(t, records[0].TotalResultsPctDelta)
	assert.Equal(t, 20.0, *records[0].TotalResultsDelta)
}

func TestCalculatePace_NilFactors(t *testing.T) {
	latest := []models.ScoredObservation{scoredObs(1, 0, 20, 150, 40, 55)}
	latest[0].MPSS = nil
	past := []models.ScoredObservation{scoredObs(1, 0, 30, 170, 60, 45)}

	records := CalculatePace(latest, past)

	assert.Nil(t, records[0].MPSSDelta)
	assert.NotNil(t, records[0].WapDelta)
}

func TestCalculatePace_PreservesLatestOrder(t *testing.T) {
	latest := []models.ScoredObservation{
		scoredObs(3, 0, 20, 150, 40, 55),
		scoredObs(1, 0, 30, 170, 60, 45),
		scoredObs(2, 0, 25, 160, 50, 50),
	}

	records := CalculatePace(latest, nil)

	assert.Len(t, records, 3)
	assert.Equal(t, latest[0].CheckinDate, records[0].CheckinDate)
	assert.Equal(t, latest[1].CheckinDate, records[1].CheckinDate)
	assert.Equal(t, latest[2].CheckinDate, records[2].CheckinDate)
}
