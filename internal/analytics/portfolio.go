package analytics

import (
	"time"

	"revpulse/server/internal/models"
)

// PropertyPacingRow is the per-property input to the portfolio classifier:
// current and next month budget position plus forward occupancy (percent)
// and market benchmarks. Bench is nil while the benchmark lookup is still
// in flight.
type PropertyPacingRow struct {
	HotelID          int64
	HotelName        string
	Current          PacingInput
	Next             PacingInput
	ForwardOccupancy float64
	Bench            *Benchmarks
}

// Display guards for the difficulty percent when no real required ADR
// exists. Kept numeric at this boundary only; the engine itself carries the
// tagged RequiredADRResult.
const (
	difficultyUnachievable = 999
	difficultyOnPace       = 100
)

// ClassifyQuadrant places one property in the 2x2 portfolio risk matrix.
// The quadrant depends only on forward occupancy and the current month's
// tier; the next month's status is computed identically but reported for
// display only.
func ClassifyQuadrant(row PropertyPacingRow, now time.Time, cfg EngineConfig) models.QuadrantResult {
	current := ClassifyPacing(row.Current, row.Bench, now, cfg)
	next := ClassifyPacing(row.Next, row.Bench, now, cfg)

	result := models.QuadrantResult{
		HotelID:            row.HotelID,
		HotelName:          row.HotelName,
		CurrentMonthStatus: current.StatusTier,
		NextMonthStatus:    next.StatusTier,
		ForwardOccupancy:   row.ForwardOccupancy,
		CurrentShortfall:   shortfall(row.Current),
		NextShortfall:      shortfall(row.Next),
	}

	if row.Bench != nil {
		required := RequiredADRForMonth(row.Current, *row.Bench, now)
		result.DifficultyPercent = difficultyPercent(required, *row.Bench)
		if !required.Unachievable && required.Value > 0 {
			v := required.Value
			result.RequiredADR = &v
		}
	} else {
		result.DifficultyPercent = difficultyOnPace
	}

	lowOccupancy := row.ForwardOccupancy < cfg.LowOccupancyThreshold
	statusRed := current.StatusTier == models.TierRed

	switch {
	case lowOccupancy && statusRed:
		result.Quadrant = models.QuadrantCriticalRisk
	case statusRed:
		result.Quadrant = models.QuadrantRateRisk
	case lowOccupancy:
		result.Quadrant = models.QuadrantFillRisk
	default:
		result.Quadrant = models.QuadrantOnPace
	}

	return result
}

func shortfall(in PacingInput) float64 {
	s := in.TargetRevenue - in.ActualRevenue
	if s < 0 {
		return 0
	}
	return s
}

// difficultyPercent expresses how hard the remaining target is relative to
// the benchmark rate: 100 means selling at exactly benchmark ADR closes the
// gap.
func difficultyPercent(required RequiredADRResult, bench Benchmarks) float64 {
	if required.Unachievable {
		return difficultyUnachievable
	}
	if required.Value <= 0 || bench.ADR <= 0 {
		return difficultyOnPace
	}
	return (required.Value / bench.ADR) * 100
}
