package processor

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"revpulse/server/config"
	"revpulse/server/internal/models"
	"revpulse/server/internal/queue"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`CREATE TABLE availability_observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		city_slug TEXT NOT NULL,
		checkin_date TEXT NOT NULL,
		total_results INTEGER,
		weighted_avg_price REAL,
		hotel_count INTEGER,
		scraped_at TIMESTAMP NOT NULL,
		UNIQUE (city_slug, checkin_date, scraped_at)
	)`).Error
	require.NoError(t, err)

	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.BatchProcessing.ProcessorCount = 2
	cfg.BatchProcessing.MaxRetries = 3
	cfg.BatchProcessing.RetryDelay = 1
	return cfg
}

func observationBatch() []*models.AvailabilityObservation {
	tr := int64(25)
	wap := 150.0
	scraped := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	return []*models.AvailabilityObservation{
		{
			CitySlug:         "lisbon",
			CheckinDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			TotalResults:     &tr,
			WeightedAvgPrice: &wap,
			HotelCount:       &tr,
			ScrapedAt:        scraped,
		},
		{
			CitySlug:    "lisbon",
			CheckinDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			ScrapedAt:   scraped,
		},
	}
}

func TestNewBatchProcessor(t *testing.T) {
	// Setup
	db := setupTestDB(t)
	q := queue.NewObservationQueue(10, logrus.New())
	cfg := testConfig()
	logger := logrus.New()

	// Test
	processor := NewBatchProcessor(db, q, cfg, logger)

	// Assert
	assert.NotNil(t, processor)
	assert.Equal(t, db, processor.db)
	assert.Equal(t, q, processor.queue)
	assert.Equal(t, cfg, processor.config)
	assert.Equal(t, logger, processor.logger)
}

func TestBatchProcessor_ProcessBatch(t *testing.T) {
	db := setupTestDB(t)
	q := queue.NewObservationQueue(10, logrus.New())
	processor := NewBatchProcessor(db, q, testConfig(), logrus.New())

	err := processor.processBatch(observationBatch())
	assert.NoError(t, err)

	var count int64
	db.Table("availability_observations").Count(&count)
	assert.Equal(t, int64(2), count)

	// Re-processing the same batch upserts rather than duplicating
	err = processor.processBatch(observationBatch())
	assert.NoError(t, err)
	db.Table("availability_observations").Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestBatchProcessor_StartStop(t *testing.T) {
	db := setupTestDB(t)
	q := queue.NewObservationQueue(10, logrus.New())
	processor := NewBatchProcessor(db, q, testConfig(), logrus.New())

	processor.Start()
	q.Start()

	err := q.Push(observationBatch())
	assert.NoError(t, err)

	// Give the pipeline time to drain
	time.Sleep(200 * time.Millisecond)

	var count int64
	db.Table("availability_observations").Count(&count)
	assert.Equal(t, int64(2), count)

	processor.Stop()
	q.Close()
	assert.True(t, q.IsClosed())
}
