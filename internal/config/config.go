// Package config provides configuration for the assistant gateway.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// AdminUser is one portal operator allowed through the login endpoint.
type AdminUser struct {
	Email    string `json:"email" toml:"email"`
	Password string `json:"password" toml:"password"`
}

// Config holds the assistant gateway configuration.
type Config struct {
	// Server settings
	HTTPPort int `toml:"http_port"`

	// Database
	DatabaseURL string `toml:"database_url"`

	// Remote assistant service
	AssistantID  string `toml:"assistant_id"`
	APIKey       string `toml:"api_key"`
	Organization string `toml:"organization"`
	AssistantURL string `toml:"assistant_url"`

	// Portal content API (get_page_context tool)
	PortalURL string `toml:"portal_url"`

	// Outbound email (send_email tool)
	SendGridAPIKey string `toml:"sendgrid_api_key"`
	SendGridSender string `toml:"sendgrid_sender"`

	// Cross-origin trust for the context channel
	AllowedOrigins []string `toml:"allowed_origins"`

	// Run polling
	PollInterval time.Duration `toml:"-"`
	MaxPolls     int           `toml:"max_polls"`

	// Tool execution
	ToolTimeout  time.Duration `toml:"-"`
	BlockedTools []string      `toml:"blocked_tools"`

	// Login endpoint
	AdminUsers []AdminUser `toml:"admin_users"`

	// Logging
	LogLevel string `toml:"log_level"`
}

// defaultAllowedOrigins is used when no origin list is configured.
var defaultAllowedOrigins = []string{
	"https://gea.abhirup.app",
	"https://gea.gov.gd",
	"http://localhost:3000",
	"http://localhost:3001",
}

// Load loads configuration from environment variables, with an optional TOML
// overlay file named by CONFIG_FILE applied first.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:    getEnv("DATABASE_URL", "file:assistant.db?cache=shared&mode=rwc"),
		AssistantID:    os.Getenv("OPENAI_ASSISTANT_ID"),
		APIKey:         os.Getenv("OPENAI_API_KEY"),
		Organization:   os.Getenv("OPENAI_ORGANIZATION"),
		AssistantURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		PortalURL:      getEnv("GEA_PORTAL_URL", "https://gea.abhirup.app"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		SendGridSender: os.Getenv("SENDGRID_SENDER"),
		PollInterval:   time.Duration(getEnvInt("POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		MaxPolls:       getEnvInt("MAX_POLLS", 60),
		ToolTimeout:    time.Duration(getEnvInt("TOOL_TIMEOUT_MS", 30000)) * time.Millisecond,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins)
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = defaultAllowedOrigins
	}

	if blocked := os.Getenv("TOOL_BLOCKLIST"); blocked != "" {
		cfg.BlockedTools = splitAndTrim(blocked)
	}

	if raw := os.Getenv("ADMIN_USERS_JSON"); raw != "" {
		var users []AdminUser
		if err := json.Unmarshal([]byte(raw), &users); err != nil {
			return nil, fmt.Errorf("failed to parse ADMIN_USERS_JSON: %w", err)
		}
		cfg.AdminUsers = users
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
