package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// AvailabilityObservation is one scraped snapshot of competitor availability
// for a single checkin date. Numeric fields are pointers: a nil value means
// the source field was absent or failed to parse.
type AvailabilityObservation struct {
	CitySlug         string    `json:"city_slug"`
	CheckinDate      time.Time `json:"checkin_date"`
	TotalResults     *int64    `json:"total_results"`
	WeightedAvgPrice *float64  `json:"weighted_avg_price"`
	HotelCount       *int64    `json:"hotel_count"`
	ScrapedAt        time.Time `json:"scraped_at"`
}

// ScoredObservation is an AvailabilityObservation with derived demand scores.
// MPSS is the normalized price index in [0,100]; MarketDemandScore is the
// rounded blended score in [0,100]. Either may be nil.
type ScoredObservation struct {
	AvailabilityObservation
	MPSS              *float64 `json:"mpss"`
	MarketDemandScore *int     `json:"market_demand_score"`
}

// PaceRecord holds the period-over-period deltas for one checkin date of the
// latest series. All delta fields are nil as a group when no past observation
// shares the checkin date.
type PaceRecord struct {
	CheckinDate            time.Time `json:"checkin_date"`
	MPSSDelta              *float64  `json:"mpss_delta"`
	MarketDemandScoreDelta *float64  `json:"market_demand_score_delta"`
	TotalResultsDelta      *float64  `json:"total_results_delta"`
	HotelCountDelta        *float64  `json:"hotel_count_delta"`
	TotalResultsPctDelta   *float64  `json:"total_results_percent_delta"`
	WapDelta               *float64  `json:"wap_delta"`
}

// ObservationRow is the raw shape produced by the scraper and the ingest
// queries. Numeric values arrive stringly typed from both sources, so all
// parsing happens here in one place; a field that fails to parse becomes nil
// on the typed observation rather than failing the row.
type ObservationRow struct {
	CitySlug         string      `json:"city_slug"`
	CheckinDate      string      `json:"checkin_date"`
	TotalResults     json.Number `json:"total_results"`
	WeightedAvgPrice json.Number `json:"weighted_avg_price"`
	HotelCount       json.Number `json:"hotel_count"`
	ScrapedAt        string      `json:"scraped_at"`
}

// Parse converts the raw row into a typed observation. The checkin date is
// required; rows without one are rejected. hotel_count falls back to
// total_results when absent.
func (r ObservationRow) Parse() (AvailabilityObservation, error) {
	checkin, err := parseDate(r.CheckinDate)
	if err != nil {
		return AvailabilityObservation{}, err
	}

	obs := AvailabilityObservation{
		CitySlug:     r.CitySlug,
		CheckinDate:  checkin,
		TotalResults: parseInt(r.TotalResults),
	}

	obs.WeightedAvgPrice = parseFloat(r.WeightedAvgPrice)

	if hc := parseInt(r.HotelCount); hc != nil {
		obs.HotelCount = hc
	} else {
		obs.HotelCount = obs.TotalResults
	}

	if scraped, err := parseTimestamp(r.ScrapedAt); err == nil {
		obs.ScrapedAt = scraped
	}

	return obs, nil
}

func parseFloat(n json.Number) *float64 {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(n json.Number) *int64 {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some feeds send counts as decimals ("12.0")
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		i := int64(f)
		return &i
	}
	return &v
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
