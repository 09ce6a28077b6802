package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"revpulse/server/config"
	"revpulse/server/internal/analytics"
	"revpulse/server/internal/database"
	"revpulse/server/internal/geocoding"
	"revpulse/server/internal/geometry"
	"revpulse/server/internal/models"
	"revpulse/server/internal/reports"
	"revpulse/server/internal/scraping"
	"revpulse/server/internal/telegram"
)

type Handler struct {
	db              *database.Database
	logger          *logrus.Logger
	reports         *reports.Service
	geocoder        *geocoding.Geocoder
	marketManager   *geometry.MarketManager
	scraperManager  *scraping.ScraperManager
	telegramService *telegram.Service
}

type ScrapeRequest struct {
	City        string `json:"city" binding:"required"`
	HorizonDays *int   `json:"horizon_days"`
}

func NewHandler(db *database.Database, scraperManager *scraping.ScraperManager, engineCfg analytics.EngineConfig, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	cacheDir := filepath.Join(os.TempDir(), "revpulse", "geocode_cache")

	telegramService := telegram.NewService(logger)
	if cfg, err := db.GetTelegramConfig(); err == nil && cfg != nil {
		telegramService.UpdateConfig(cfg)
	}

	return &Handler{
		db:              db,
		logger:          logger,
		reports:         reports.NewService(db, engineCfg, logger),
		geocoder:        geocoding.NewGeocoder(logger, cacheDir),
		marketManager:   geometry.NewMarketManager(db.GetDB(), logger),
		scraperManager:  scraperManager,
		telegramService: telegramService,
	}
}

// cityParam validates the city query parameter against the configured
// markets, replying 400 itself when invalid
func (h *Handler) cityParam(c *gin.Context) (string, bool) {
	slug := config.NormalizeCity(c.Query("city"))
	if config.GetCityBySlug(slug) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown city"})
		return "", false
	}
	return slug, true
}

// GetMarketReport returns the latest observation run for a market with
// price index and demand scores attached
func (h *Handler) GetMarketReport(c *gin.Context) {
	city, ok := h.cityParam(c)
	if !ok {
		return
	}

	report, err := h.reports.MarketReport(city)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build market report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build market report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetPaceReport returns per-checkin-date deltas between the latest run and
// the run from a configurable number of hours ago (default 24)
func (h *Handler) GetPaceReport(c *gin.Context) {
	city, ok := h.cityParam(c)
	if !ok {
		return
	}

	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	report, err := h.reports.PaceReport(city, time.Duration(hours)*time.Hour, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build pace report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build pace report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetOutlook returns the market trend classification. A store failure is
// logged but still answered 200 with the error state so the dashboard tile
// renders.
func (h *Handler) GetOutlook(c *gin.Context) {
	city, ok := h.cityParam(c)
	if !ok {
		return
	}

	outlook, err := h.reports.Outlook(city)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute outlook")
	}

	c.JSON(http.StatusOK, outlook)
}

// GetPacingStatus classifies one property-month against its budget target.
// Year and month default to the current month.
func (h *Handler) GetPacingStatus(c *gin.Context) {
	hotelID, err := strconv.ParseInt(c.Param("hotel_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel id"})
		return
	}

	hotel, err := h.db.GetHotel(hotelID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load hotel")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load hotel"})
		return
	}
	if hotel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
		return
	}

	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return
	}

	result, err := h.reports.PacingStatus(hotelID, year, month, now)
	if err != nil {
		h.logger.WithError(err).Error("Failed to classify pacing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to classify pacing"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPortfolio classifies every property into the risk quadrant matrix
func (h *Handler) GetPortfolio(c *gin.Context) {
	results, err := h.reports.Portfolio(time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build portfolio report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build portfolio report"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// RunScraper triggers an availability scrape for one market
func (h *Handler) RunScraper(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse scrape request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	slug := config.NormalizeCity(req.City)
	if config.GetCityBySlug(slug) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown city"})
		return
	}

	if err := h.scraperManager.RunCityScraper(slug, req.HorizonDays); err != nil {
		h.logger.WithError(err).Error("Failed to run scraper")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run scraper"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Scrape completed successfully",
	})
}

// UpdateCoordinates geocodes every hotel missing coordinates, then assigns
// freshly placed hotels to their nearest market
func (h *Handler) UpdateCoordinates(c *gin.Context) {
	if err := h.db.UpdateMissingCoordinates(h.geocoder); err != nil {
		h.logger.WithError(err).Error("Failed to update coordinates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coordinates"})
		return
	}

	if err := h.assignMarkets(); err != nil {
		h.logger.WithError(err).Error("Failed to assign markets")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign markets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Coordinates updated",
	})
}

func (h *Handler) assignMarkets() error {
	hotels, err := h.db.GetHotels()
	if err != nil {
		return err
	}

	for _, hotel := range hotels {
		if hotel.CitySlug != "" || hotel.Latitude == nil || hotel.Longitude == nil {
			continue
		}
		slug := geometry.AssignMarket(*hotel.Latitude, *hotel.Longitude)
		if slug == "" {
			continue
		}
		if err := h.db.UpdateHotelMarket(hotel.ID, slug); err != nil {
			return err
		}
		h.logger.WithFields(logrus.Fields{
			"hotel_id": hotel.ID,
			"market":   slug,
		}).Info("Assigned hotel to market")
	}
	return nil
}

// GetMarketsGeoJSON returns the competitive-set hulls as GeoJSON
func (h *Handler) GetMarketsGeoJSON(c *gin.Context) {
	fc, err := h.marketManager.BuildMarketHulls()
	if err != nil {
		h.logger.WithError(err).Error("Failed to build market hulls")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build market hulls"})
		return
	}

	c.JSON(http.StatusOK, fc)
}

// GetTelegramConfig returns the current Telegram configuration
func (h *Handler) GetTelegramConfig(c *gin.Context) {
	cfg, err := h.db.GetTelegramConfig()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get Telegram config"})
		return
	}

	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{
			"is_enabled": false,
			"chat_id":    "",
			"bot_token":  "",
		})
		return
	}

	// Don't send the full bot token back to the client for security
	if len(cfg.BotToken) > 4 {
		cfg.BotToken = "••••" + cfg.BotToken[len(cfg.BotToken)-4:]
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateTelegramConfig updates the Telegram configuration
func (h *Handler) UpdateTelegramConfig(c *gin.Context) {
	var request models.TelegramConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(request.BotToken) < 20 || !strings.Contains(request.BotToken, ":") {
		h.logger.Error("Invalid bot token format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot token format. Please check your bot token from @BotFather"})
		return
	}

	if request.ChatID == "" {
		h.logger.Error("Chat ID is required")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chat ID is required"})
		return
	}

	// Test the Telegram configuration before saving
	testService := telegram.NewService(h.logger)
	testService.UpdateConfig(&models.TelegramConfig{
		BotToken:  request.BotToken,
		ChatID:    request.ChatID,
		IsEnabled: true,
	})

	testMessage := "🔔 Test notification from RevPulse\n\nIf you see this message, your Telegram configuration is working correctly!"
	if err := testService.SendMessage(testMessage); err != nil {
		h.logger.WithError(err).Error("Failed to send test message")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.UpdateTelegramConfig(&request); err != nil {
		h.logger.WithError(err).Error("Failed to update Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save configuration to database"})
		return
	}

	if cfg, err := h.db.GetTelegramConfig(); err == nil && cfg != nil {
		h.telegramService.UpdateConfig(cfg)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Telegram configuration updated successfully"})
}
