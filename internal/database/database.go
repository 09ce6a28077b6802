package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"revpulse/server/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// GetLatestObservationRun returns, per checkin date, the most recently
// scraped observation for a market, ordered by checkin date.
func (d *Database) GetLatestObservationRun(citySlug string) ([]models.AvailabilityObservation, error) {
	query := `
        SELECT city_slug, checkin_date, total_results, weighted_avg_price,
               COALESCE(hotel_count, total_results) as hotel_count, scraped_at
        FROM availability_observations o
        WHERE city_slug = ?
        AND scraped_at = (
            SELECT MAX(scraped_at)
            FROM availability_observations
            WHERE city_slug = o.city_slug
            AND checkin_date = o.checkin_date
        )
        ORDER BY checkin_date
    `
	rows, err := d.db.Query(query, citySlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetObservationRunAsOf returns the freshest observation per checkin date
// scraped at or before the cutoff, used as the "past" series for pacing.
func (d *Database) GetObservationRunAsOf(citySlug string, cutoff time.Time) ([]models.AvailabilityObservation, error) {
	query := `
        SELECT city_slug, checkin_date, total_results, weighted_avg_price,
               COALESCE(hotel_count, total_results) as hotel_count, scraped_at
        FROM availability_observations o
        WHERE city_slug = ?
        AND scraped_at = (
            SELECT MAX(scraped_at)
            FROM availability_observations
            WHERE city_slug = o.city_slug
            AND checkin_date = o.checkin_date
            AND scraped_at <= ?
        )
        ORDER BY checkin_date
    `
	rows, err := d.db.Query(query, citySlug, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetCityObservations returns every observation for a market, for the
// outlook windowing which needs the full scrape history.
func (d *Database) GetCityObservations(citySlug string) ([]models.AvailabilityObservation, error) {
	query := `
        SELECT city_slug, checkin_date, total_results, weighted_avg_price,
               COALESCE(hotel_count, total_results) as hotel_count, scraped_at
        FROM availability_observations
        WHERE city_slug = ?
        ORDER BY scraped_at, checkin_date
    `
	rows, err := d.db.Query(query, citySlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanObservations(rows)
}

func scanObservations(rows *sql.Rows) ([]models.AvailabilityObservation, error) {
	var observations []models.AvailabilityObservation
	for rows.Next() {
		var o models.AvailabilityObservation
		var checkinDate, scrapedAt sql.NullString
		var totalResults, hotelCount sql.NullInt64
		var wap sql.NullFloat64

		err := rows.Scan(&o.CitySlug, &checkinDate, &totalResults, &wap, &hotelCount, &scrapedAt)
		if err != nil {
			return nil, err
		}

		// Malformed per-row values degrade to nil rather than failing the
		// whole series
		if totalResults.Valid {
			tr := totalResults.Int64
			o.TotalResults = &tr
		}
		if hotelCount.Valid {
			hc := hotelCount.Int64
			o.HotelCount = &hc
		}
		if wap.Valid {
			w := wap.Float64
			o.WeightedAvgPrice = &w
		}

		if checkinDate.Valid && checkinDate.String != "" {
			if t, err := time.Parse("2006-01-02", checkinDate.String); err == nil {
				o.CheckinDate = t
			} else {
				continue
			}
		} else {
			continue
		}
		if scrapedAt.Valid && scrapedAt.String != "" {
			if t, err := time.Parse(time.RFC3339, scrapedAt.String); err == nil {
				o.ScrapedAt = t
			}
		}

		observations = append(observations, o)
	}
	return observations, rows.Err()
}

// GetHotels returns the portfolio properties
func (d *Database) GetHotels() ([]models.Hotel, error) {
	query := `
        SELECT id, name, street, postal_code, city, city_slug, capacity,
               latitude, longitude,
               COALESCE(created_at, CURRENT_TIMESTAMP) as created_at
        FROM hotels
        ORDER BY id
    `
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []models.Hotel
	for rows.Next() {
		var h models.Hotel
		var street, postalCode, city, citySlug sql.NullString
		var latitude, longitude sql.NullFloat64
		var createdAt sql.NullString

		err := rows.Scan(&h.ID, &h.Name, &street, &postalCode, &city, &citySlug,
			&h.Capacity, &latitude, &longitude, &createdAt)
		if err != nil {
			return nil, err
		}

		if street.Valid {
			h.Street = street.String
		}
		if postalCode.Valid {
			h.PostalCode = postalCode.String
		}
		if city.Valid {
			h.City = city.String
		}
		if citySlug.Valid {
			h.CitySlug = citySlug.String
		}
		if latitude.Valid {
			lat := latitude.Float64
			h.Latitude = &lat
		}
		if longitude.Valid {
			lon := longitude.Float64
			h.Longitude = &lon
		}
		if createdAt.Valid && createdAt.String != "" {
			if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
				h.CreatedAt = t
			}
		}

		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

// GetHotel returns one portfolio property by id
func (d *Database) GetHotel(id int64) (*models.Hotel, error) {
	hotels, err := d.GetHotels()
	if err != nil {
		return nil, err
	}
	for i := range hotels {
		if hotels[i].ID == id {
			return &hotels[i], nil
		}
	}
	return nil, nil
}

// GetPerformanceSnapshot returns the PMS metrics for one property-month
func (d *Database) GetPerformanceSnapshot(hotelID int64, year, month int) (*models.PerformanceSnapshot, error) {
	query := `
        SELECT hotel_id, year, month,
               COALESCE(revenue_gross, 0), COALESCE(rooms_sold, 0),
               COALESCE(capacity, 0), COALESCE(occupancy, 0), COALESCE(adr, 0),
               physical_unsold, COALESCE(forward_occupancy, 0),
               benchmark_occupancy, benchmark_adr
        FROM performance_snapshots
        WHERE hotel_id = ? AND year = ? AND month = ?
    `
	var s models.PerformanceSnapshot
	var physicalUnsold sql.NullInt64
	var benchOcc, benchADR sql.NullFloat64

	err := d.db.QueryRow(query, hotelID, year, month).Scan(
		&s.HotelID, &s.Year, &s.Month,
		&s.RevenueGross, &s.RoomsSold,
		&s.Capacity, &s.Occupancy, &s.ADR,
		&physicalUnsold, &s.ForwardOccupancy,
		&benchOcc, &benchADR,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if physicalUnsold.Valid {
		pu := int(physicalUnsold.Int64)
		s.PhysicalUnsold = &pu
	}
	if benchOcc.Valid {
		bo := benchOcc.Float64
		s.BenchmarkOccupied = &bo
	}
	if benchADR.Valid {
		ba := benchADR.Float64
		s.BenchmarkADR = &ba
	}

	return &s, nil
}

// GetBudgetTarget returns the budget for one property-month
func (d *Database) GetBudgetTarget(hotelID int64, year, month int) (*models.BudgetTarget, error) {
	var t models.BudgetTarget
	err := d.db.QueryRow(`
        SELECT hotel_id, year, month, target_revenue_gross
        FROM budget_targets
        WHERE hotel_id = ? AND year = ? AND month = ?
    `, hotelID, year, month).Scan(&t.HotelID, &t.Year, &t.Month, &t.TargetRevenueGross)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateMissingCoordinates geocodes portfolio hotels that have an address
// but no coordinates yet. Failed lookups are marked attempted so a bad
// address is not retried on every boot.
func (d *Database) UpdateMissingCoordinates(geocoder Geocoder) error {
	rows, err := d.db.Query(`
        SELECT id, street, postal_code, city
        FROM hotels
        WHERE (latitude IS NULL OR longitude IS NULL)
        AND geocoding_attempted = 0
        AND street IS NOT NULL
        AND city IS NOT NULL
    `)
	if err != nil {
		return fmt.Errorf("failed to query hotels: %v", err)
	}
	defer rows.Close()

	type pending struct {
		id                       int64
		street, postalCode, city string
	}
	var work []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.street, &p.postalCode, &p.city); err != nil {
			return fmt.Errorf("failed to scan hotel: %v", err)
		}
		work = append(work, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range work {
		lat, lon, err := geocoder.GeocodeAddress(p.street, p.postalCode, p.city)
		if err != nil {
			if _, uerr := d.db.Exec("UPDATE hotels SET geocoding_attempted = 1 WHERE id = ?", p.id); uerr != nil {
				return fmt.Errorf("failed to mark geocoding attempt: %v", uerr)
			}
			continue
		}
		_, err = d.db.Exec(`
            UPDATE hotels
            SET latitude = ?, longitude = ?, geocoding_attempted = 1
            WHERE id = ?
        `, lat, lon, p.id)
		if err != nil {
			return fmt.Errorf("failed to update coordinates: %v", err)
		}
	}

	return nil
}

// Geocoder resolves an address to coordinates
type Geocoder interface {
	GeocodeAddress(street, postalCode, city string) (float64, float64, error)
}

// UpdateHotelMarket assigns a property to a market
func (d *Database) UpdateHotelMarket(hotelID int64, citySlug string) error {
	_, err := d.db.Exec("UPDATE hotels SET city_slug = ? WHERE id = ?", citySlug, hotelID)
	return err
}

// GetTelegramConfig returns the stored alerting configuration, or nil when
// none has been saved yet
func (d *Database) GetTelegramConfig() (*models.TelegramConfig, error) {
	var c models.TelegramConfig
	var createdAt, updatedAt sql.NullString
	err := d.db.QueryRow(`
        SELECT id, is_enabled, bot_token, chat_id, created_at, updated_at
        FROM telegram_config
        ORDER BY id DESC LIMIT 1
    `).Scan(&c.ID, &c.IsEnabled, &c.BotToken, &c.ChatID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if createdAt.Valid {
		if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
			c.CreatedAt = t
		}
	}
	if updatedAt.Valid {
		if t, err := time.Parse(time.RFC3339, updatedAt.String); err == nil {
			c.UpdatedAt = t
		}
	}

	return &c, nil
}

// UpdateTelegramConfig replaces the stored alerting configuration
func (d *Database) UpdateTelegramConfig(req *models.TelegramConfigRequest) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM telegram_config"); err != nil {
		return fmt.Errorf("failed to clear telegram config: %v", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
        INSERT INTO telegram_config (is_enabled, bot_token, chat_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
    `, req.IsEnabled, req.BotToken, req.ChatID, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert telegram config: %v", err)
	}

	return tx.Commit()
}
