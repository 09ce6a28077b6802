package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"revpulse/server/internal/models"
)

// ObservationRecord is the gorm mapping used by the ingest write path. The
// read path stays on database/sql; only batch upserts go through gorm.
type ObservationRecord struct {
	ID               int64    `gorm:"primaryKey"`
	CitySlug         string   `gorm:"column:city_slug"`
	CheckinDate      string   `gorm:"column:checkin_date"`
	TotalResults     *int64   `gorm:"column:total_results"`
	WeightedAvgPrice *float64 `gorm:"column:weighted_avg_price"`
	HotelCount       *int64   `gorm:"column:hotel_count"`
	ScrapedAt        string   `gorm:"column:scraped_at"`
}

func (ObservationRecord) TableName() string {
	return "availability_observations"
}

// UpsertObservations writes a batch of observations inside the given
// transaction. Re-scraped (city, checkin, scraped_at) rows replace their
// previous values.
func UpsertObservations(tx *gorm.DB, batch []*models.AvailabilityObservation) error {
	if len(batch) == 0 {
		return nil
	}

	records := make([]ObservationRecord, 0, len(batch))
	for _, obs := range batch {
		records = append(records, ObservationRecord{
			CitySlug:         obs.CitySlug,
			CheckinDate:      obs.CheckinDate.Format("2006-01-02"),
			TotalResults:     obs.TotalResults,
			WeightedAvgPrice: obs.WeightedAvgPrice,
			HotelCount:       obs.HotelCount,
			ScrapedAt:        obs.ScrapedAt.UTC().Format(time.RFC3339),
		})
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "city_slug"},
			{Name: "checkin_date"},
			{Name: "scraped_at"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_results", "weighted_avg_price", "hotel_count",
		}),
	}).Create(&records).Error
}
