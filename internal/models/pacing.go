package models

import "time"

// Hotel is a portfolio property tracked by the dashboard
type Hotel struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Street     string    `json:"street"`
	PostalCode string    `json:"postal_code"`
	City       string    `json:"city"`
	CitySlug   string    `json:"city_slug"`
	Capacity   int       `json:"capacity"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	CreatedAt  time.Time `json:"created_at"`
}

// PerformanceSnapshot is one property-month of PMS metrics
type PerformanceSnapshot struct {
	HotelID           int64   `json:"hotel_id"`
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	RevenueGross      float64 `json:"revenue_gross"`
	RoomsSold         int     `json:"rooms_sold"`
	Capacity          int     `json:"capacity"`
	Occupancy         float64 `json:"occupancy"`
	ADR               float64 `json:"adr"`
	PhysicalUnsold    *int    `json:"physical_unsold"`
	ForwardOccupancy  float64 `json:"forward_occupancy"`
	BenchmarkOccupied *float64 `json:"benchmark_occupancy"`
	BenchmarkADR      *float64 `json:"benchmark_adr"`
}

// BudgetTarget is the revenue budget for one property-month
type BudgetTarget struct {
	HotelID            int64   `json:"hotel_id"`
	Year               int     `json:"year"`
	Month              int     `json:"month"`
	TargetRevenueGross float64 `json:"target_revenue_gross"`
}

// StatusTier is the pacing traffic-light classification
type StatusTier string

const (
	TierGreen   StatusTier = "green"
	TierYellow  StatusTier = "yellow"
	TierRed     StatusTier = "red"
	TierLoading StatusTier = "loading"
)

// PacingResult is the classification of one property-month against budget.
// Computed fresh per request; it carries no identity beyond the month it
// was computed for.
type PacingResult struct {
	StatusTier StatusTier `json:"status_tier"`
	StatusText string     `json:"status_text"`
}

// Quadrant labels for portfolio risk classification
const (
	QuadrantCriticalRisk = "Critical Risk"
	QuadrantRateRisk     = "Rate Strategy Risk"
	QuadrantFillRisk     = "Fill Risk"
	QuadrantOnPace       = "On Pace"
)

// QuadrantResult places one property in the portfolio risk matrix
type QuadrantResult struct {
	HotelID            int64      `json:"hotel_id"`
	HotelName          string     `json:"hotel_name"`
	Quadrant           string     `json:"quadrant"`
	CurrentMonthStatus StatusTier `json:"current_month_status"`
	NextMonthStatus    StatusTier `json:"next_month_status"`
	ForwardOccupancy   float64    `json:"forward_occupancy"`
	CurrentShortfall   float64    `json:"current_shortfall"`
	NextShortfall      float64    `json:"next_shortfall"`
	RequiredADR        *float64   `json:"required_adr"`
	DifficultyPercent  float64    `json:"difficulty_percent"`
}
