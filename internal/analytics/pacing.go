package analytics

import (
	"fmt"
	"time"

	"revpulse/server/internal/models"
)

// PacingInput is one property-month of revenue position against budget
type PacingInput struct {
	TargetRevenue  float64
	ActualRevenue  float64
	MonthCapacity  int
	RoomsSold      int
	PhysicalUnsold *int // only meaningful for the current month
	Year           int
	Month          time.Month
}

// Benchmarks are the market reference values a property is paced against.
// Occupancy is a fraction in [0,1] applied to remaining sellable rooms.
type Benchmarks struct {
	Occupancy float64
	ADR       float64
}

// RequiredADRResult is the rate needed on remaining rooms to still hit
// target. Unachievable is the tagged replacement for the old 99999
// sentinel: there is remaining target but no sellable rooms (or no usable
// benchmark rate), so no real ADR exists and Value must not be used in
// arithmetic.
type RequiredADRResult struct {
	Value        float64
	Unachievable bool
}

type monthPosition int

const (
	monthPast monthPosition = iota
	monthCurrent
	monthFuture
)

func positionOfMonth(now time.Time, year int, month time.Month) monthPosition {
	target := year*12 + int(month)
	current := now.Year()*12 + int(now.Month())
	switch {
	case target < current:
		return monthPast
	case target > current:
		return monthFuture
	default:
		return monthCurrent
	}
}

// ClassifyPacing runs the pacing state machine for one property-month.
// Branch order matters: later branches assume earlier ones did not already
// resolve the tier. now supplies the past/current/future month split; a nil
// bench means the benchmark lookup has not completed yet.
func ClassifyPacing(in PacingInput, bench *Benchmarks, now time.Time, cfg EngineConfig) models.PacingResult {
	if in.TargetRevenue <= 0 {
		return models.PacingResult{StatusTier: models.TierGreen, StatusText: "No Target"}
	}

	remaining := in.TargetRevenue - in.ActualRevenue
	if remaining <= 0 && in.ActualRevenue > 0 {
		return models.PacingResult{StatusTier: models.TierGreen, StatusText: "Target Met"}
	}

	if positionOfMonth(now, in.Year, in.Month) == monthPast {
		return classifyPastMonth(in, cfg)
	}

	if bench == nil {
		return models.PacingResult{StatusTier: models.TierLoading, StatusText: "Benchmarks loading"}
	}

	required := RequiredADRForMonth(in, *bench, now)
	if required.Unachievable {
		return models.PacingResult{
			StatusTier: models.TierRed,
			StatusText: "Target unachievable at benchmark occupancy",
		}
	}

	// bench.ADR > 0 here: a zero benchmark with target remaining is
	// already resolved as Unachievable above.
	ratio := required.Value / bench.ADR
	switch {
	case ratio <= cfg.GreenADRRatio:
		return models.PacingResult{
			StatusTier: models.TierGreen,
			StatusText: fmt.Sprintf("On Pace (needs ADR %.0f vs %.0f benchmark)", required.Value, bench.ADR),
		}
	case ratio <= cfg.YellowADRRatio:
		return models.PacingResult{
			StatusTier: models.TierYellow,
			StatusText: fmt.Sprintf("Behind (needs ADR %.0f vs %.0f benchmark)", required.Value, bench.ADR),
		}
	default:
		return models.PacingResult{
			StatusTier: models.TierRed,
			StatusText: fmt.Sprintf("At Risk (needs ADR %.0f vs %.0f benchmark)", required.Value, bench.ADR),
		}
	}
}

func classifyPastMonth(in PacingInput, cfg EngineConfig) models.PacingResult {
	achieved := (in.ActualRevenue / in.TargetRevenue) * 100
	switch {
	case in.ActualRevenue < in.TargetRevenue*cfg.PastMonthRedRatio:
		return models.PacingResult{
			StatusTier: models.TierRed,
			StatusText: fmt.Sprintf("Closed at %.0f%% of target", achieved),
		}
	case in.ActualRevenue < in.TargetRevenue:
		return models.PacingResult{
			StatusTier: models.TierYellow,
			StatusText: fmt.Sprintf("Closed at %.0f%% of target", achieved),
		}
	default:
		return models.PacingResult{StatusTier: models.TierGreen, StatusText: "Target Hit"}
	}
}

// RequiredADRForMonth computes the rate needed on the rooms still expected
// to sell. Current months use the physical unsold count; future months fall
// back to capacity minus rooms already on the books, floored at zero.
// Benchmark occupancy discounts rooms that will realistically stay empty.
func RequiredADRForMonth(in PacingInput, bench Benchmarks, now time.Time) RequiredADRResult {
	remaining := in.TargetRevenue - in.ActualRevenue
	if remaining <= 0 {
		return RequiredADRResult{Value: 0}
	}

	var roomsLeft float64
	if positionOfMonth(now, in.Year, in.Month) == monthCurrent {
		if in.PhysicalUnsold != nil {
			roomsLeft = float64(*in.PhysicalUnsold) * bench.Occupancy
		}
	} else {
		unsold := in.MonthCapacity - in.RoomsSold
		if unsold < 0 {
			unsold = 0
		}
		roomsLeft = float64(unsold) * bench.Occupancy
	}

	if roomsLeft <= 0 || bench.ADR <= 0 {
		return RequiredADRResult{Unachievable: true}
	}

	return RequiredADRResult{Value: remaining / roomsLeft}
}
