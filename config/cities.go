package config

import "strings"

// City represents a competitive market configuration
type City struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Center    []float64 `json:"center"`
	ZoomLevel int       `json:"zoom_level"`
}

// SupportedCities is a list of markets tracked by the application
var SupportedCities = []City{
	{
		Slug:      "lisbon",
		Name:      "Lisbon",
		Center:    []float64{38.7223, -9.1393},
		ZoomLevel: 13,
	},
	{
		Slug:      "porto",
		Name:      "Porto",
		Center:    []float64{41.1579, -8.6291},
		ZoomLevel: 13,
	},
	{
		Slug:      "algarve",
		Name:      "Algarve",
		Center:    []float64{37.0179, -7.9307},
		ZoomLevel: 11,
	},
	// Add more markets here as needed
}

// GetCitySlugs returns a list of supported market slugs
func GetCitySlugs() []string {
	slugs := make([]string, len(SupportedCities))
	for i, city := range SupportedCities {
		slugs[i] = city.Slug
	}
	return slugs
}

// GetCityBySlug returns a market configuration by slug
func GetCityBySlug(slug string) *City {
	for _, city := range SupportedCities {
		if city.Slug == slug {
			return &city
		}
	}
	return nil
}

// NormalizeCity converts a display name to its market slug form
func NormalizeCity(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
