package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey string
	OpenAIAPIKey string

	DatabasePath string
	PlanPath     string

	// Google Sheets pantry (optional; the sqlite pantry is the default)
	SheetsCredentialsPath string
	InventorySheetID      string

	// Delivery order API (optional; approval flow is disabled without it)
	DeliveryAPIURL  string
	DeliveryAPIKey  string
	DeliveryStoreID string

	// Telegram Config (optional for CLI, required for the bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	openAIAPIKey := os.Getenv("OPENAI_API_KEY")
	if geminiAPIKey == "" && openAIAPIKey == "" {
		return nil, fmt.Errorf("one of GEMINI_API_KEY or OPENAI_API_KEY environment variables must be set")
	}

	databasePath := os.Getenv("GROCERY_DB_PATH")
	if databasePath == "" {
		databasePath = filepath.Join("data", "grocery-planner.db")
	}

	planPath := os.Getenv("GROCERY_PLAN_PATH")
	if planPath == "" {
		planPath = filepath.Join("data", "plans")
	}

	// Sheets pantry is optional, but both variables must come together.
	sheetsCreds := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")
	sheetID := os.Getenv("GROCERIES_INVENTORY_SHEET_ID")
	if sheetsCreds != "" && sheetID == "" {
		return nil, fmt.Errorf("GROCERIES_INVENTORY_SHEET_ID environment variable not set")
	}

	var allowedIDs []int64
	if raw := os.Getenv("TELEGRAM_ALLOW_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_IDS entry %q: %w", part, err)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	return &Config{
		GeminiAPIKey:           geminiAPIKey,
		OpenAIAPIKey:           openAIAPIKey,
		DatabasePath:           databasePath,
		PlanPath:               planPath,
		SheetsCredentialsPath:  sheetsCreds,
		InventorySheetID:       sheetID,
		DeliveryAPIURL:         os.Getenv("DELIVERY_API_URL"),
		DeliveryAPIKey:         os.Getenv("DELIVERY_API_KEY"),
		DeliveryStoreID:        os.Getenv("DELIVERY_STORE_ID"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
	}, nil
}

// SheetsEnabled reports whether the Google Sheets pantry store is configured.
func (c *Config) SheetsEnabled() bool {
	return c.SheetsCredentialsPath != "" && c.InventorySheetID != ""
}

// OrderingEnabled reports whether the delivery order API is configured.
func (c *Config) OrderingEnabled() bool {
	return c.DeliveryAPIURL != "" && c.DeliveryAPIKey != "" && c.DeliveryStoreID != ""
}
