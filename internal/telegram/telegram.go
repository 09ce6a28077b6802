package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"revpulse/server/internal/models"
)

type Service struct {
	logger *logrus.Logger
	client *http.Client
	config *models.TelegramConfig
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Service) UpdateConfig(config *models.TelegramConfig) {
	s.config = config
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyPacingRisk sends an alert for a property classified into a risk
// quadrant during the nightly sweep
func (s *Service) NotifyPacingRisk(result models.QuadrantResult) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	var icon string
	switch result.Quadrant {
	case models.QuadrantCriticalRisk:
		icon = "🔴"
	case models.QuadrantRateRisk:
		icon = "🟠"
	case models.QuadrantFillRisk:
		icon = "🟡"
	default:
		icon = "🟢"
	}

	requiredADR := "N/A"
	if result.RequiredADR != nil {
		requiredADR = fmt.Sprintf("€%.0f", *result.RequiredADR)
	}

	message := fmt.Sprintf(
		"%s <b>%s</b>\n\n"+
			"📊 Quadrant: %s\n"+
			"📅 This month: %s (€%.0f short)\n"+
			"📅 Next month: %s (€%.0f short)\n"+
			"🛏️ Forward occupancy: %.0f%%\n"+
			"💵 Required ADR: %s",
		icon,
		result.HotelName,
		result.Quadrant,
		result.CurrentMonthStatus,
		result.CurrentShortfall,
		result.NextMonthStatus,
		result.NextShortfall,
		result.ForwardOccupancy,
		requiredADR,
	)

	return s.SendMessage(message)
}
