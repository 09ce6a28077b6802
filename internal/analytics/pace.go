package analytics

import (
	"time"

	"revpulse/server/internal/models"
)

// CalculatePace joins a latest and a past scored series by calendar day and
// emits one PaceRecord per latest observation, in latest order. Records
// whose checkin date has no past counterpart carry all-nil deltas.
func CalculatePace(latest, past []models.ScoredObservation) []models.PaceRecord {
	pastByDay := make(map[time.Time]models.ScoredObservation, len(past))
	for _, p := range past {
		pastByDay[dayKey(p.CheckinDate)] = p
	}

	records := make([]models.PaceRecord, 0, len(latest))
	for _, l := range latest {
		rec := models.PaceRecord{CheckinDate: l.CheckinDate}

		if p, ok := pastByDay[dayKey(l.CheckinDate)]; ok {
			rec.MPSSDelta = floatDelta(l.MPSS, p.MPSS)
			rec.MarketDemandScoreDelta = floatDelta(intScore(l.MarketDemandScore), intScore(p.MarketDemandScore))
			rec.TotalResultsDelta = floatDelta(intValue(l.TotalResults), intValue(p.TotalResults))
			rec.HotelCountDelta = floatDelta(intValue(l.HotelCount), intValue(p.HotelCount))
			rec.TotalResultsPctDelta = percentDelta(l.TotalResults, p.TotalResults)
			rec.WapDelta = floatDelta(l.WeightedAvgPrice, p.WeightedAvgPrice)
		}

		records = append(records, rec)
	}
	return records
}

// dayKey strips the time of day so that observations scraped at different
// hours still join on the same checkin date. Keys are UTC; checkin dates
// are calendar dates and carry no meaningful zone.
func dayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func floatDelta(latest, past *float64) *float64 {
	if latest == nil || past == nil {
		return nil
	}
	d := *latest - *past
	return &d
}

// percentDelta guards the zero and missing denominators explicitly rather
// than letting a division produce Inf.
func percentDelta(latest, past *int64) *float64 {
	if latest == nil || past == nil || *past == 0 {
		return nil
	}
	d := (float64(*latest-*past) / float64(*past)) * 100
	return &d
}

func intValue(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func intScore(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
