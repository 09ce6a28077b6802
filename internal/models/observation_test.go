package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservationRowParse(t *testing.T) {
	row := ObservationRow{
		CitySlug:         "lisbon",
		CheckinDate:      "2026-09-14",
		TotalResults:     json.Number("231"),
		WeightedAvgPrice: json.Number("148.75"),
		HotelCount:       json.Number("198"),
		ScrapedAt:        "2026-08-30T06:00:00Z",
	}

	obs, err := row.Parse()
	require.NoError(t, err)

	assert.Equal(t, "lisbon", obs.CitySlug)
	assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), obs.CheckinDate)
	require.NotNil(t, obs.TotalResults)
	assert.Equal(t, int64(231), *obs.TotalResults)
	require.NotNil(t, obs.WeightedAvgPrice)
	assert.InDelta(t, 148.75, *obs.WeightedAvgPrice, 0.0001)
	require.NotNil(t, obs.HotelCount)
	assert.Equal(t, int64(198), *obs.HotelCount)
	assert.Equal(t, time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC), obs.ScrapedAt)
}

func TestObservationRowParseRequiresCheckinDate(t *testing.T) {
	_, err := ObservationRow{CitySlug: "porto", CheckinDate: ""}.Parse()
	assert.Error(t, err)

	_, err = ObservationRow{CitySlug: "porto", CheckinDate: "14/09/2026"}.Parse()
	assert.Error(t, err)
}

func TestObservationRowParseMalformedFieldsBecomeNil(t *testing.T) {
	row := ObservationRow{
		CitySlug:         "algarve",
		CheckinDate:      "2026-10-01",
		TotalResults:     json.Number("n/a"),
		WeightedAvgPrice: json.Number(""),
		HotelCount:       json.Number(""),
		ScrapedAt:        "not a timestamp",
	}

	obs, err := row.Parse()
	require.NoError(t, err)

	assert.Nil(t, obs.TotalResults)
	assert.Nil(t, obs.WeightedAvgPrice)
	assert.Nil(t, obs.HotelCount)
	assert.True(t, obs.ScrapedAt.IsZero())
}

func TestObservationRowParseHotelCountFallback(t *testing.T) {
	row := ObservationRow{
		CitySlug:     "lisbon",
		CheckinDate:  "2026-10-01",
		TotalResults: json.Number("57"),
	}

	obs, err := row.Parse()
	require.NoError(t, err)

	require.NotNil(t, obs.HotelCount)
	assert.Equal(t, int64(57), *obs.HotelCount)
}

func TestObservationRowParseDecimalCount(t *testing.T) {
	row := ObservationRow{
		CitySlug:     "porto",
		CheckinDate:  "2026-10-02",
		TotalResults: json.Number("42.0"),
	}

	obs, err := row.Parse()
	require.NoError(t, err)

	require.NotNil(t, obs.TotalResults)
	assert.Equal(t, int64(42), *obs.TotalResults)
}

func TestObservationRowParseSQLTimestamp(t *testing.T) {
	row := ObservationRow{
		CitySlug:    "lisbon",
		CheckinDate: "2026-10-03",
		ScrapedAt:   "2026-08-30 06:15:00",
	}

	obs, err := row.Parse()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 6, 15, 0, 0, time.UTC), obs.ScrapedAt)
}
