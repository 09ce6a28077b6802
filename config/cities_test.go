package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple city name",
			input:    "Lisbon",
			expected: "lisbon",
		},
		{
			name:     "City name with spaces",
			input:    "Vila Nova de Gaia",
			expected: "vila-nova-de-gaia",
		},
		{
			name:     "Already normalized",
			input:    "porto",
			expected: "porto",
		},
		{
			name:     "Surrounding whitespace",
			input:    "  Algarve ",
			expected: "algarve",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeCity(tt.input)
			assert.Equal(t, tt.expected, result,
				"NormalizeCity(%q) = %q, want %q", tt.input, result, tt.expected)
		})
	}
}

func TestGetCityBySlug(t *testing.T) {
	city := GetCityBySlug("lisbon")
	assert.NotNil(t, city)
	assert.Equal(t, "Lisbon", city.Name)
	assert.Len(t, city.Center, 2)

	assert.Nil(t, GetCityBySlug("madrid"))
}

func TestGetCitySlugs(t *testing.T) {
	slugs := GetCitySlugs()
	assert.Equal(t, len(SupportedCities), len(slugs))
	assert.Contains(t, slugs, "lisbon")
	assert.Contains(t, slugs, "porto")
	assert.Contains(t, slugs, "algarve")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "5280", cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Engine.SupplyWeight, 0.0001)
	assert.InDelta(t, 0.5, cfg.Engine.PriceWeight, 0.0001)
	assert.Equal(t, 200, cfg.BatchProcessing.MaxBatchSize)
	assert.Equal(t, 90, cfg.Scraping.HorizonDays)
}
