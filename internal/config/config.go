package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Role IDs allowed to confirm a payment when PAYER_ROLE_IDS is not set.
var defaultPayerRoleIDs = []string{
	"789402678379544576",
	"1458255225684234513",
}

type Config struct {
	// Discord Bot
	DiscordToken string
	ClientID     string
	GuildID      string

	// Record store (sheet webhook)
	SheetURL string

	// Web Server / keep-alive
	WebBind string
	SelfURL string

	// Roles allowed to press the pay button
	PayerRoleIDs []string
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken: os.Getenv("TOKEN"),
		ClientID:     os.Getenv("CLIENT_ID"),
		GuildID:      os.Getenv("GUILD_ID"),
		SheetURL:     os.Getenv("SHEET_URL"),
		WebBind:      getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		SelfURL:      os.Getenv("RENDER_INTERNAL_URL"),
		PayerRoleIDs: parseRoleIDs(os.Getenv("PAYER_ROLE_IDS")),
	}
	if cfg.SelfURL == "" {
		cfg.SelfURL = os.Getenv("PUBLIC_URL")
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("TOKEN is required")
	}
	if cfg.SheetURL == "" {
		return nil, fmt.Errorf("SHEET_URL is required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("CLIENT_ID is required")
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseRoleIDs(raw string) []string {
	if raw == "" {
		return append([]string(nil), defaultPayerRoleIDs...)
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return append([]string(nil), defaultPayerRoleIDs...)
	}
	return ids
}
