package analytics

import (
	"fmt"
	"time"

	"revpulse/server/internal/models"
)

const forwardWindowDays = 30

// ComputeMarketOutlook classifies a city's demand trend by comparing two
// adjacent rolling-forecast windows ("split-half" methodology). The full
// scrape-day span is capped at 30 days and split into a past and a recent
// half of floor(window/2) days each. Each day contributes its own 30-day-
// forward average of supply and weighted-average price; the halves average
// those daily values and are compared as percent deltas. Falling supply
// reads as rising demand.
func ComputeMarketOutlook(obs []models.AvailabilityObservation, cfg EngineConfig) models.OutlookResult {
	if len(obs) == 0 {
		return emptyOutlook()
	}

	var firstDay, lastDay time.Time
	for i, o := range obs {
		d := dayKey(o.ScrapedAt)
		if i == 0 || d.Before(firstDay) {
			firstDay = d
		}
		if i == 0 || d.After(lastDay) {
			lastDay = d
		}
	}

	spanDays := int(lastDay.Sub(firstDay).Hours()/24) + 1
	totalWindowDays := spanDays
	if totalWindowDays > forwardWindowDays {
		totalWindowDays = forwardWindowDays
	}
	halfDays := totalWindowDays / 2
	if halfDays == 0 {
		return emptyOutlook()
	}

	recentStart := lastDay.AddDate(0, 0, -(halfDays - 1))
	pastStart := recentStart.AddDate(0, 0, -halfDays)

	pastSupply, pastWap := halfWindowAverages(obs, pastStart, halfDays)
	recentSupply, recentWap := halfWindowAverages(obs, recentStart, halfDays)

	supplyDelta := percentChange(pastSupply, recentSupply)
	wapDelta := percentChange(pastWap, recentWap)
	// Falling supply means rising demand
	demandDelta := -supplyDelta

	debug := models.OutlookDebug{
		PastSupply:   pastSupply,
		RecentSupply: recentSupply,
		PastWap:      pastWap,
		RecentWap:    recentWap,
		WindowDays:   totalWindowDays,
	}

	result := models.OutlookResult{
		Status:    models.OutlookStable,
		Metric:    formatPercent(demandDelta),
		DataState: models.DataStateOK,
		Debug:     debug,
	}

	switch {
	case demandDelta > cfg.OutlookDeltaThreshold:
		result.Status = models.OutlookStrengthening
		result.Metric = formatPercent(demandDelta)
	case demandDelta < -cfg.OutlookDeltaThreshold:
		result.Status = models.OutlookSoftening
		result.Metric = formatPercent(demandDelta)
	case wapDelta > cfg.OutlookDeltaThreshold:
		result.Status = models.OutlookStrengthening
		result.Metric = formatPercent(wapDelta)
	case wapDelta < -cfg.OutlookDeltaThreshold:
		result.Status = models.OutlookSoftening
		result.Metric = formatPercent(wapDelta)
	}

	return result
}

// ErrorOutlook is the safe default returned when the upstream data source
// fails. It is shaped like an empty outlook but carries a distinguishable
// data state so callers can tell "query failed" from "no data yet".
func ErrorOutlook() models.OutlookResult {
	return models.OutlookResult{
		Status:    models.OutlookStable,
		Metric:    "Error",
		DataState: models.DataStateError,
	}
}

func emptyOutlook() models.OutlookResult {
	return models.OutlookResult{
		Status:    models.OutlookStable,
		Metric:    "Data Populating",
		DataState: models.DataStateEmpty,
	}
}

// halfWindowAverages averages the per-day forward averages across a half
// window. A day's forward average covers observations scraped that day with
// checkin dates inside the next 30 days; days with no scrape contribute
// nothing.
func halfWindowAverages(obs []models.AvailabilityObservation, start time.Time, days int) (supply, wap float64) {
	var supplySum, wapSum float64
	var supplyDays, wapDays int

	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		daySupply, dayWap, hasSupply, hasWap := dayForwardAverages(obs, day)
		if hasSupply {
			supplySum += daySupply
			supplyDays++
		}
		if hasWap {
			wapSum += dayWap
			wapDays++
		}
	}

	if supplyDays > 0 {
		supply = supplySum / float64(supplyDays)
	}
	if wapDays > 0 {
		wap = wapSum / float64(wapDays)
	}
	return supply, wap
}

func dayForwardAverages(obs []models.AvailabilityObservation, day time.Time) (supply, wap float64, hasSupply, hasWap bool) {
	horizon := day.AddDate(0, 0, forwardWindowDays)
	var supplySum, wapSum float64
	var supplyCount, wapCount int

	for _, o := range obs {
		if !dayKey(o.ScrapedAt).Equal(day) {
			continue
		}
		checkin := dayKey(o.CheckinDate)
		if checkin.Before(day) || !checkin.Before(horizon) {
			continue
		}
		if o.TotalResults != nil {
			supplySum += float64(*o.TotalResults)
			supplyCount++
		}
		if o.WeightedAvgPrice != nil {
			wapSum += *o.WeightedAvgPrice
			wapCount++
		}
	}

	if supplyCount > 0 {
		supply = supplySum / float64(supplyCount)
		hasSupply = true
	}
	if wapCount > 0 {
		wap = wapSum / float64(wapCount)
		hasWap = true
	}
	return supply, wap, hasSupply, hasWap
}

// percentChange guards a zero base: a move from zero to anything positive
// reads as +100%, zero to zero as flat.
func percentChange(past, recent float64) float64 {
	if past == 0 {
		if recent > 0 {
			return 100
		}
		return 0
	}
	return ((recent - past) / past) * 100
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}
