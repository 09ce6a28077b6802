package reports

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"revpulse/server/internal/analytics"
	"revpulse/server/internal/database"
	"revpulse/server/internal/models"
)

// Service assembles engine inputs from the store and runs the demand and
// pacing computations. It holds no state beyond its dependencies; every
// report is computed fresh per call.
type Service struct {
	db     *database.Database
	cfg    analytics.EngineConfig
	logger *logrus.Logger
}

func NewService(db *database.Database, cfg analytics.EngineConfig, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// MarketReport returns the latest observation run for a market with demand
// scores attached.
func (s *Service) MarketReport(citySlug string) ([]models.ScoredObservation, error) {
	obs, err := s.db.GetLatestObservationRun(citySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest observations: %w", err)
	}
	return analytics.ScoreObservations(obs, s.cfg), nil
}

// PaceReport compares the latest observation run against the run as of
// lookback ago and returns per-checkin-date deltas.
func (s *Service) PaceReport(citySlug string, lookback time.Duration, now time.Time) ([]models.PaceRecord, error) {
	latest, err := s.db.GetLatestObservationRun(citySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest observations: %w", err)
	}

	past, err := s.db.GetObservationRunAsOf(citySlug, now.Add(-lookback))
	if err != nil {
		return nil, fmt.Errorf("failed to load past observations: %w", err)
	}

	latestScored := analytics.ScoreObservations(latest, s.cfg)
	pastScored := analytics.ScoreObservations(past, s.cfg)
	return analytics.CalculatePace(latestScored, pastScored), nil
}

// Outlook computes the market trend classification. A store failure is
// returned alongside the safe default so callers can log it while still
// rendering a result.
func (s *Service) Outlook(citySlug string) (models.OutlookResult, error) {
	obs, err := s.db.GetCityObservations(citySlug)
	if err != nil {
		return analytics.ErrorOutlook(), fmt.Errorf("failed to load city observations: %w", err)
	}
	return analytics.ComputeMarketOutlook(obs, s.cfg), nil
}

// PacingStatus classifies one property-month against its budget target
func (s *Service) PacingStatus(hotelID int64, year, month int, now time.Time) (models.PacingResult, error) {
	input, bench, err := s.buildPacingInput(hotelID, year, month)
	if err != nil {
		return models.PacingResult{}, err
	}
	return analytics.ClassifyPacing(input, bench, now, s.cfg), nil
}

// Portfolio classifies every property into the risk quadrant matrix. The
// per-property rows are built concurrently; results come back in hotel-id
// order regardless of completion order.
func (s *Service) Portfolio(now time.Time) ([]models.QuadrantResult, error) {
	hotels, err := s.db.GetHotels()
	if err != nil {
		return nil, fmt.Errorf("failed to load hotels: %w", err)
	}

	results := make([]models.QuadrantResult, len(hotels))
	errs := make([]error, len(hotels))

	var wg sync.WaitGroup
	for i, hotel := range hotels {
		wg.Add(1)
		go func(i int, hotel models.Hotel) {
			defer wg.Done()
			row, err := s.buildPortfolioRow(hotel, now)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = analytics.ClassifyQuadrant(row, now, s.cfg)
		}(i, hotel)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].HotelID < results[j].HotelID
	})
	return results, nil
}

func (s *Service) buildPortfolioRow(hotel models.Hotel, now time.Time) (analytics.PropertyPacingRow, error) {
	currentYear, currentMonth := now.Year(), int(now.Month())
	nextDate := now.AddDate(0, 1, 0)
	nextYear, nextMonth := nextDate.Year(), int(nextDate.Month())

	current, bench, err := s.buildPacingInput(hotel.ID, currentYear, currentMonth)
	if err != nil {
		return analytics.PropertyPacingRow{}, err
	}
	next, _, err := s.buildPacingInput(hotel.ID, nextYear, nextMonth)
	if err != nil {
		return analytics.PropertyPacingRow{}, err
	}

	row := analytics.PropertyPacingRow{
		HotelID:   hotel.ID,
		HotelName: hotel.Name,
		Current:   current,
		Next:      next,
		Bench:     bench,
	}

	if snapshot, err := s.db.GetPerformanceSnapshot(hotel.ID, currentYear, currentMonth); err == nil && snapshot != nil {
		row.ForwardOccupancy = snapshot.ForwardOccupancy
	}

	return row, nil
}

// buildPacingInput joins a property-month's PMS snapshot and budget target
// into engine input. A missing snapshot or budget yields zero values, which
// the engine resolves safely ("No Target", loading tier).
func (s *Service) buildPacingInput(hotelID int64, year, month int) (analytics.PacingInput, *analytics.Benchmarks, error) {
	input := analytics.PacingInput{
		Year:  year,
		Month: time.Month(month),
	}

	snapshot, err := s.db.GetPerformanceSnapshot(hotelID, year, month)
	if err != nil {
		return input, nil, fmt.Errorf("failed to load performance snapshot: %w", err)
	}

	budget, err := s.db.GetBudgetTarget(hotelID, year, month)
	if err != nil {
		return input, nil, fmt.Errorf("failed to load budget target: %w", err)
	}
	if budget != nil {
		input.TargetRevenue = budget.TargetRevenueGross
	}

	var bench *analytics.Benchmarks
	if snapshot != nil {
		input.ActualRevenue = snapshot.RevenueGross
		input.MonthCapacity = snapshot.Capacity
		input.RoomsSold = snapshot.RoomsSold
		input.PhysicalUnsold = snapshot.PhysicalUnsold

		if snapshot.BenchmarkOccupied != nil && snapshot.BenchmarkADR != nil {
			bench = &analytics.Benchmarks{
				Occupancy: *snapshot.BenchmarkOccupied,
				ADR:       *snapshot.BenchmarkADR,
			}
		}
	}

	return input, bench, nil
}
