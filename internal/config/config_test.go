package config

import (
	"os"
	"strings"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("GROCERY_DB_PATH", "/tmp/test.db")
		os.Unsetenv("GOOGLE_SHEETS_CREDENTIALS_PATH")
		os.Unsetenv("TELEGRAM_ALLOW_USER_IDS")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected DatabasePath to be '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.SheetsEnabled() {
			t.Error("Expected SheetsEnabled to be false without credentials")
		}
	})

	t.Run("MissingLLMKeys", func(t *testing.T) {
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("OPENAI_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing LLM keys, got nil")
		}
		if !strings.Contains(err.Error(), "GEMINI_API_KEY") || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
			t.Errorf("Expected the error to name both keys, got %q", err.Error())
		}
	})

	t.Run("OpenAIKeyAlone", func(t *testing.T) {
		os.Unsetenv("GEMINI_API_KEY")
		t.Setenv("OPENAI_API_KEY", "openai_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.OpenAIAPIKey != "openai_key" {
			t.Errorf("Expected OpenAIAPIKey to be 'openai_key', got '%s'", cfg.OpenAIAPIKey)
		}
	})

	t.Run("SheetsCredentialsWithoutSheetID", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
		os.Unsetenv("GROCERIES_INVENTORY_SHEET_ID")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROCERIES_INVENTORY_SHEET_ID, got nil")
		}
	})

	t.Run("AllowedUserIDs", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOW_USER_IDS", "123, 456")
		os.Unsetenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 {
			t.Fatalf("Expected 2 allowed user IDs, got %d", len(cfg.TelegramAllowedUserIDs))
		}
		if cfg.TelegramAllowedUserIDs[0] != 123 || cfg.TelegramAllowedUserIDs[1] != 456 {
			t.Errorf("Expected [123 456], got %v", cfg.TelegramAllowedUserIDs)
		}
	})

	t.Run("InvalidAllowedUserIDs", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOW_USER_IDS", "abc")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid TELEGRAM_ALLOW_USER_IDS, got nil")
		}
	})
}
