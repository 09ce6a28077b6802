package scraping

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"revpulse/server/internal/models"
	"revpulse/server/internal/queue"
)

// ScraperManager handles the execution of the external headless-browser
// rate scraper. The scraper process emits newline-delimited JSON messages
// on stdout; observation batches are parsed here and pushed to the ingest
// queue.
type ScraperManager struct {
	logger     *logrus.Logger
	scriptPath string
	queue      *queue.ObservationQueue
}

// ScraperParams contains parameters for a scrape run
type ScraperParams struct {
	CitySlug    string `json:"city_slug"`
	HorizonDays *int   `json:"horizon_days"` // optional checkin horizon
}

// ScraperMessage represents a message from the scraper process
type ScraperMessage struct {
	Type string          `json:"type"` // "items", "complete", or "error"
	Data json.RawMessage `json:"data"`
}

// NewScraperManager creates a new scraper manager
func NewScraperManager(q *queue.ObservationQueue, scriptPath string, logger *logrus.Logger) *ScraperManager {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	absPath, err := filepath.Abs(scriptPath)
	if err != nil {
		logger.WithError(err).Error("Failed to get absolute path to scraper script")
		absPath = scriptPath
	}

	return &ScraperManager{
		logger:     logger,
		scriptPath: absPath,
		queue:      q,
	}
}

// RunScraper executes a scrape run with the given parameters
func (m *ScraperManager) RunScraper(params ScraperParams) error {
	m.logger.WithFields(logrus.Fields{
		"city_slug":    params.CitySlug,
		"horizon_days": params.HorizonDays,
	}).Info("Starting scraper")

	inputData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal scraper parameters: %w", err)
	}

	cmd := exec.Command("node", m.scriptPath)
	cmd.Stdin = bytes.NewBuffer(inputData)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start scraper: %w", err)
	}

	done := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			var msg ScraperMessage
			if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
				m.logger.WithError(err).Error("Failed to parse scraper message")
				continue
			}
			m.handleMessage(params.CitySlug, msg)
		}
		if err := scanner.Err(); err != nil {
			m.logger.WithError(err).Error("Scanner error")
		}
	}()

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			m.logger.Error(scanner.Text())
		}
	}()

	go func() {
		done <- cmd.Wait()
	}()

	if err := <-done; err != nil {
		return fmt.Errorf("scraper execution failed: %w", err)
	}

	return nil
}

func (m *ScraperManager) handleMessage(citySlug string, msg ScraperMessage) {
	switch msg.Type {
	case "items":
		var rows []models.ObservationRow
		if err := json.Unmarshal(msg.Data, &rows); err != nil {
			m.logger.WithError(err).Error("Failed to parse observation rows")
			return
		}

		// One bad row degrades to a skip, not a failed run
		batch := make([]*models.AvailabilityObservation, 0, len(rows))
		for _, row := range rows {
			if row.CitySlug == "" {
				row.CitySlug = citySlug
			}
			obs, err := row.Parse()
			if err != nil {
				m.logger.WithError(err).WithField("checkin_date", row.CheckinDate).Warn("Skipping malformed observation")
				continue
			}
			o := obs
			batch = append(batch, &o)
		}

		if len(batch) == 0 {
			return
		}
		if err := m.queue.Push(batch); err != nil {
			m.logger.WithError(err).Error("Failed to enqueue observation batch")
		}

	case "complete":
		var complete struct {
			Status     string `json:"status"`
			Message    string `json:"message"`
			TotalItems int    `json:"total_items"`
		}
		if err := json.Unmarshal(msg.Data, &complete); err != nil {
			m.logger.WithError(err).Error("Failed to parse completion message")
			return
		}
		m.logger.WithFields(logrus.Fields{
			"status":      complete.Status,
			"message":     complete.Message,
			"total_items": complete.TotalItems,
		}).Info("Scraper completed")

	case "error":
		var errMsg struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(msg.Data, &errMsg); err != nil {
			m.logger.WithError(err).Error("Failed to parse error message")
			return
		}
		m.logger.WithField("message", errMsg.Message).Error("Scraper error")
	}
}

// RunCityScraper runs an availability scrape for one market
func (m *ScraperManager) RunCityScraper(citySlug string, horizonDays *int) error {
	return m.RunScraper(ScraperParams{
		CitySlug:    citySlug,
		HorizonDays: horizonDays,
	})
}
