package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"revpulse/server/internal/models"
)

func portfolioRow(currentTarget float64, forwardOcc float64) PropertyPacingRow {
	unsold := 100
	return PropertyPacingRow{
		HotelID:   1,
		HotelName: "Test Hotel",
		Current: PacingInput{
			TargetRevenue:  currentTarget,
			ActualRevenue:  1000,
			MonthCapacity:  3000,
			RoomsSold:      1500,
			PhysicalUnsold: &unsold,
			Year:           2026,
			Month:          time.August,
		},
		Next: PacingInput{
			TargetRevenue: 4000,
			ActualRevenue: 500,
			MonthCapacity: 3000,
			RoomsSold:     200,
			Year:          2026,
			Month:         time.September,
		},
		ForwardOccupancy: forwardOcc,
		Bench:            &Benchmarks{Occupancy: 0.5, ADR: 100},
	}
}

func TestClassifyQuadrant_TruthTable(t *testing.T) {
	cfg := DefaultEngineConfig()

	// Target 20000 forces a red current month (required ADR 380 vs 100);
	// 6000 keeps it green (required ADR 100).
	cases := []struct {
		name       string
		target     float64
		forwardOcc float64
		quadrant   string
	}{
		{"low occupancy and red", 20000, 50, models.QuadrantCriticalRisk},
		{"red only", 20000, 70, models.QuadrantRateRisk},
		{"low occupancy only", 6000, 40, models.QuadrantFillRisk},
		{"neither", 6000, 80, models.QuadrantOnPace},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ClassifyQuadrant(portfolioRow(tc.target, tc.forwardOcc), pacingNow, cfg)
			assert.Equal(t, tc.quadrant, result.Quadrant)
		})
	}
}

func TestClassifyQuadrant_NextMonthDoesNotDriveQuadrant(t *testing.T) {
	row := portfolioRow(6000, 80)
	// Make the next month impossible while the current month stays green
	row.Next.TargetRevenue = 1e7

	result := ClassifyQuadrant(row, pacingNow, DefaultEngineConfig())

	assert.Equal(t, models.QuadrantOnPace, result.Quadrant)
	assert.Equal(t, models.TierGreen, result.CurrentMonthStatus)
	assert.Equal(t, models.TierRed, result.NextMonthStatus)
}

func TestClassifyQuadrant_Shortfalls(t *testing.T) {
	result := ClassifyQuadrant(portfolioRow(6000, 80), pacingNow, DefaultEngineConfig())

	assert.Equal(t, 5000.0, result.CurrentShortfall)
	assert.Equal(t, 3500.0, result.NextShortfall)
	assert.NotNil(t, result.RequiredADR)
	assert.Equal(t, 100.0, *result.RequiredADR)
	assert.Equal(t, 100.0, result.DifficultyPercent)
}

func TestClassifyQuadrant_DifficultyGuards(t *testing.T) {
	// No rooms left: unachievable maps to the 999 display guard
	row := portfolioRow(6000, 80)
	zero := 0
	row.Current.PhysicalUnsold = &zero

	result := ClassifyQuadrant(row, pacingNow, DefaultEngineConfig())
	assert.Equal(t, 999.0, result.DifficultyPercent)
	assert.Nil(t, result.RequiredADR)

	// Benchmarks still loading: neutral 100
	row = portfolioRow(6000, 80)
	row.Bench = nil
	result = ClassifyQuadrant(row, pacingNow, DefaultEngineConfig())
	assert.Equal(t, 100.0, result.DifficultyPercent)
	assert.Equal(t, models.TierLoading, result.CurrentMonthStatus)
}

func TestClassifyQuadrant_YellowIsNotRed(t *testing.T) {
	// Yellow current month with low occupancy lands in Fill Risk
	result := ClassifyQuadrant(portfolioRow(6500, 40), pacingNow, DefaultEngineConfig())

	assert.Equal(t, models.TierYellow, result.CurrentMonthStatus)
	assert.Equal(t, models.QuadrantFillRisk, result.Quadrant)
}
