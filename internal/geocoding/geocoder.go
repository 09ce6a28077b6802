package geocoding

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const nominatimEndpoint = "https://nominatim.openstreetmap.org/search"

// Geocoder resolves property addresses to coordinates with Nominatim,
// caching results on disk so restarts never re-query an address
type Geocoder struct {
	logger    *logrus.Logger
	cacheDir  string
	cache     map[string][]float64
	cacheLock sync.RWMutex
	client    *http.Client
}

func NewGeocoder(logger *logrus.Logger, cacheDir string) *Geocoder {
	os.MkdirAll(cacheDir, 0755)

	g := &Geocoder{
		logger:   logger,
		cacheDir: cacheDir,
		cache:    make(map[string][]float64),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	g.loadCache()

	return g
}

func (g *Geocoder) cacheFile() string {
	return filepath.Join(g.cacheDir, "geocode_cache.json")
}

func (g *Geocoder) loadCache() {
	data, err := os.ReadFile(g.cacheFile())
	if err != nil {
		g.logger.Warnf("Could not load geocode cache: %v", err)
		return
	}

	if err := json.Unmarshal(data, &g.cache); err != nil {
		g.logger.Errorf("Failed to parse geocode cache: %v", err)
		return
	}

	g.logger.Infof("Loaded %d cached addresses", len(g.cache))
}

func (g *Geocoder) saveCache() {
	g.cacheLock.RLock()
	data, err := json.Marshal(g.cache)
	g.cacheLock.RUnlock()
	if err != nil {
		g.logger.Errorf("Failed to marshal geocode cache: %v", err)
		return
	}

	if err := os.WriteFile(g.cacheFile(), data, 0644); err != nil {
		g.logger.Errorf("Failed to save geocode cache: %v", err)
	}
}

// GeocodeAddress resolves a property address to latitude and longitude.
// Cache hits return immediately; misses go to Nominatim with a one second
// pause to respect its usage policy.
func (g *Geocoder) GeocodeAddress(street, postalCode, city string) (float64, float64, error) {
	cacheKey := fmt.Sprintf("%s|%s|%s", street, postalCode, city)
	fullAddress := fmt.Sprintf("%s, %s, %s, Portugal", street, postalCode, city)

	g.cacheLock.RLock()
	coords, ok := g.cache[cacheKey]
	g.cacheLock.RUnlock()
	if ok {
		if len(coords) != 2 {
			return 0, 0, fmt.Errorf("invalid cached coordinates for %s", fullAddress)
		}
		return coords[0], coords[1], nil
	}

	g.logger.WithField("address", fullAddress).Info("Geocoding address with Nominatim")
	time.Sleep(time.Second)

	lat, lon, err := g.queryNominatim(fullAddress)
	if err != nil {
		g.logger.WithError(err).WithField("address", fullAddress).Error("Geocoding failed")
		return 0, 0, err
	}

	g.logger.WithFields(logrus.Fields{
		"address":   fullAddress,
		"latitude":  lat,
		"longitude": lon,
	}).Info("Successfully geocoded address")

	g.cacheLock.Lock()
	g.cache[cacheKey] = []float64{lat, lon}
	g.cacheLock.Unlock()
	go g.saveCache()

	return lat, lon, nil
}

func (g *Geocoder) queryNominatim(address string) (float64, float64, error) {
	req, err := http.NewRequest("GET", nominatimEndpoint, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %v", err)
	}

	req.URL.RawQuery = url.Values{
		"q":            []string{address},
		"format":       []string{"json"},
		"limit":        []string{"1"},
		"countrycodes": []string{"pt"},
	}.Encode()
	req.Header.Set("User-Agent", "RevPulse Revenue Dashboard/1.0")
	req.Header.Set("Accept-Language", "pt-PT,pt;q=0.9,en;q=0.8")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read response: %v", err)
	}

	var result []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, 0, fmt.Errorf("failed to parse response: %v", err)
	}
	if len(result) == 0 {
		return 0, 0, fmt.Errorf("no results found for address: %s", address)
	}

	lat, err := strconv.ParseFloat(result[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %v", result[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(result[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %v", result[0].Lon, err)
	}

	return lat, lon, nil
}
