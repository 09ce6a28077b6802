package geometry

import (
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"revpulse/server/config"
)

// MarketManager builds competitive-set geometry from the geocoded
// portfolio: one convex hull per market, drawn around the coordinates of
// the properties assigned to it.
type MarketManager struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewMarketManager(db *sql.DB, logger *logrus.Logger) *MarketManager {
	return &MarketManager{
		db:     db,
		logger: logger,
	}
}

// AssignMarket returns the slug of the configured market whose center is
// closest to the given coordinates. Returns "" when no markets are
// configured.
func AssignMarket(lat, lon float64) string {
	point := orb.Point{lon, lat}

	best := ""
	bestDist := math.MaxFloat64
	for _, city := range config.SupportedCities {
		if len(city.Center) != 2 {
			continue
		}
		center := orb.Point{city.Center[1], city.Center[0]}
		if d := distance(point, center); d < bestDist {
			best = city.Slug
			bestDist = d
		}
	}
	return best
}

// marketPoints loads the geocoded coordinates of every property, grouped
// by market slug
func (mm *MarketManager) marketPoints() (map[string][]orb.Point, error) {
	rows, err := mm.db.Query(`
		SELECT city_slug, latitude, longitude
		FROM hotels
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotel coordinates: %v", err)
	}
	defer rows.Close()

	points := make(map[string][]orb.Point)
	for rows.Next() {
		var slug string
		var lat, lon float64
		if err := rows.Scan(&slug, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		points[slug] = append(points[slug], orb.Point{lon, lat})
	}

	return points, rows.Err()
}

// BuildMarketHulls returns a GeoJSON feature collection with one convex
// hull per market that has at least three geocoded properties. Markets
// with fewer points are skipped.
func (mm *MarketManager) BuildMarketHulls() (*geojson.FeatureCollection, error) {
	points, err := mm.marketPoints()
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, city := range config.SupportedCities {
		marketPoints := points[city.Slug]
		if len(marketPoints) < 3 {
			mm.logger.Warnf("Not enough geocoded properties for market %s (minimum 3 required)", city.Slug)
			continue
		}

		hull := convexHull(marketPoints)
		if hull == nil {
			continue
		}

		feature := geojson.NewFeature(orb.Polygon{hull})
		feature.Properties = geojson.Properties{
			"market":      city.Slug,
			"name":        city.Name,
			"point_count": len(marketPoints),
			"hull_type":   "convex",
		}
		fc.Append(feature)
	}

	mm.logger.Infof("Built %d market hulls", len(fc.Features))
	return fc, nil
}

func distance(p1, p2 orb.Point) float64 {
	dx := p2[0] - p1[0]
	dy := p2[1] - p1[1]
	return dx*dx + dy*dy
}

// convexHull runs a Graham scan over the points and returns a closed ring,
// or nil when the points are degenerate
func convexHull(input []orb.Point) orb.Ring {
	if len(input) < 3 {
		return nil
	}

	points := make([]orb.Point, len(input))
	copy(points, input)

	// Anchor at the lowest point, breaking ties by longitude
	anchorIdx := 0
	for i := 1; i < len(points); i++ {
		if points[i][1] < points[anchorIdx][1] ||
			(points[i][1] == points[anchorIdx][1] && points[i][0] < points[anchorIdx][0]) {
			anchorIdx = i
		}
	}
	points[0], points[anchorIdx] = points[anchorIdx], points[0]
	anchor := points[0]

	// Sort remaining points by polar angle around the anchor
	sort.Slice(points[1:], func(i, j int) bool {
		pi, pj := points[1+i], points[1+j]
		cross := crossProduct(anchor, pi, pj)
		if cross == 0 {
			return distance(anchor, pi) < distance(anchor, pj)
		}
		return cross > 0
	})

	hull := []orb.Point{points[0], points[1]}
	for i := 2; i < len(points); i++ {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], points[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, points[i])
	}

	if len(hull) < 3 {
		return nil
	}

	hull = append(hull, hull[0])
	return orb.Ring(hull)
}

func crossProduct(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}
