package database

import "fmt"

func (d *Database) RunMigrations() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS hotels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			street TEXT,
			postal_code TEXT,
			city TEXT,
			city_slug TEXT,
			capacity INTEGER DEFAULT 0,
			latitude REAL,
			longitude REAL,
			geocoding_attempted BOOLEAN DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS availability_observations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			city_slug TEXT NOT NULL,
			checkin_date TEXT NOT NULL,
			total_results INTEGER,
			weighted_avg_price REAL,
			hotel_count INTEGER,
			scraped_at TIMESTAMP NOT NULL,
			UNIQUE (city_slug, checkin_date, scraped_at)
		);`,
		`CREATE TABLE IF NOT EXISTS performance_snapshots (
			hotel_id INTEGER NOT NULL,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			revenue_gross REAL DEFAULT 0,
			rooms_sold INTEGER DEFAULT 0,
			capacity INTEGER DEFAULT 0,
			occupancy REAL DEFAULT 0,
			adr REAL DEFAULT 0,
			physical_unsold INTEGER,
			forward_occupancy REAL DEFAULT 0,
			benchmark_occupancy REAL,
			benchmark_adr REAL,
			PRIMARY KEY (hotel_id, year, month)
		);`,
		`CREATE TABLE IF NOT EXISTS budget_targets (
			hotel_id INTEGER NOT NULL,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			target_revenue_gross REAL DEFAULT 0,
			PRIMARY KEY (hotel_id, year, month)
		);`,
		`CREATE TABLE IF NOT EXISTS telegram_config (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			is_enabled BOOLEAN DEFAULT 0,
			bot_token TEXT,
			chat_id TEXT,
			created_at TIMESTAMP,
			updated_at TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_observations_city_checkin
			ON availability_observations(city_slug, checkin_date);`,
		`CREATE INDEX IF NOT EXISTS idx_observations_scraped
			ON availability_observations(city_slug, scraped_at);`,
		`CREATE INDEX IF NOT EXISTS idx_hotels_coordinates
			ON hotels(latitude, longitude);`,
	}

	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %v", err)
		}
	}

	return nil
}
