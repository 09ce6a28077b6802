package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"revpulse/server/config"
	"revpulse/server/internal/models"
	"revpulse/server/internal/reports"
	"revpulse/server/internal/scraping"
	"revpulse/server/internal/telegram"
)

// Scheduler manages periodic execution of availability scrapes and the
// nightly pacing sweep
type Scheduler struct {
	scraperManager *scraping.ScraperManager
	reports        *reports.Service
	notifier       *telegram.Service
	logger         *logrus.Logger
	stopChan       chan struct{}
	wg             sync.WaitGroup
	cities         []string
	horizonDays    int
	jobMutex       sync.Mutex // Ensures sequential job execution
	isStartupRun   bool       // Tracks whether we're in startup run
}

// NewScheduler creates a new scheduler
func NewScheduler(scraperManager *scraping.ScraperManager, reportService *reports.Service, notifier *telegram.Service, logger *logrus.Logger, cities []string, horizonDays int) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		scraperManager: scraperManager,
		reports:        reportService,
		notifier:       notifier,
		logger:         logger,
		stopChan:       make(chan struct{}),
		cities:         cities,
		horizonDays:    horizonDays,
		isStartupRun:   true, // Initialize as true for startup
	}
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

// runScheduler handles all scheduled tasks
func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	// Run startup jobs in a separate goroutine
	go func() {
		s.jobMutex.Lock()
		defer s.jobMutex.Unlock()
		s.logger.Info("Running startup scrape jobs")
		s.runCityScrapes()
		s.isStartupRun = false // Mark startup as complete
		s.logger.Info("Startup scrape jobs completed")
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case t := <-ticker.C:
			s.executeScheduledJobs(t)
		}
	}
}

// executeScheduledJobs runs all jobs that are scheduled for the given time
func (s *Scheduler) executeScheduledJobs(t time.Time) {
	// Skip if we're still running startup jobs
	if s.isStartupRun {
		s.logger.Debug("Skipping scheduled jobs while startup is in progress")
		return
	}

	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	s.logger.WithFields(logrus.Fields{
		"hour":   t.Hour(),
		"minute": t.Minute(),
	}).Debug("Checking scheduled jobs")

	// Check if it's time for the pacing sweep (midnight)
	if t.Hour() == 0 && t.Minute() == 0 {
		s.logger.Info("Starting nightly pacing sweep")
		s.runPacingSweep(t)
		s.logger.Info("Completed nightly pacing sweep")
	}

	// Check if it's time for the availability scrapes (every hour)
	if t.Minute() == 0 {
		s.logger.Info("Starting scheduled scrape jobs")
		s.runCityScrapes()
		s.logger.Info("Completed scheduled scrape jobs")
	}
}

// runCityScrapes runs the availability scraper for all configured cities
// sequentially
func (s *Scheduler) runCityScrapes() {
	for _, city := range s.cities {
		normalizedCity := config.NormalizeCity(city)
		s.logger.WithFields(logrus.Fields{
			"city":            city,
			"normalized_city": normalizedCity,
			"horizon_days":    s.horizonDays,
		}).Info("Starting scrape job")

		if err := s.scraperManager.RunCityScraper(normalizedCity, &s.horizonDays); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"city":            city,
				"normalized_city": normalizedCity,
			}).Error("Scrape job failed")
		} else {
			s.logger.WithFields(logrus.Fields{
				"city":            city,
				"normalized_city": normalizedCity,
			}).Info("Scrape job completed successfully")
		}
	}
}

// runPacingSweep classifies the whole portfolio and alerts on properties
// sitting in a risk quadrant
func (s *Scheduler) runPacingSweep(now time.Time) {
	results, err := s.reports.Portfolio(now)
	if err != nil {
		s.logger.WithError(err).Error("Pacing sweep failed")
		return
	}

	for _, result := range results {
		if result.Quadrant == models.QuadrantOnPace {
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"hotel_id":   result.HotelID,
			"hotel_name": result.HotelName,
			"quadrant":   result.Quadrant,
		}).Info("Property flagged in pacing sweep")

		if s.notifier == nil {
			continue
		}
		if err := s.notifier.NotifyPacingRisk(result); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"hotel_id": result.HotelID,
			}).Error("Failed to send pacing alert")
		}
	}
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
