package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 60, cfg.MaxPolls)
	assert.Equal(t, 30*time.Second, cfg.ToolTimeout)
	assert.Equal(t, "https://api.openai.com", cfg.AssistantURL)
	assert.Equal(t, defaultAllowedOrigins, cfg.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("OPENAI_ASSISTANT_ID", "asst_abc")
	t.Setenv("OPENAI_API_KEY", "sk-abc")
	t.Setenv("POLL_INTERVAL_MS", "250")
	t.Setenv("MAX_POLLS", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://one.example.com, https://two.example.com")
	t.Setenv("TOOL_BLOCKLIST", "send_email")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "asst_abc", cfg.AssistantID)
	assert.Equal(t, "sk-abc", cfg.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 5, cfg.MaxPolls)
	assert.Equal(t, []string{"https://one.example.com", "https://two.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"send_email"}, cfg.BlockedTools)
}

func TestLoadAdminUsers(t *testing.T) {
	t.Setenv("ADMIN_USERS_JSON", `[{"email":"admin@gea.gov.gd","password":"secret"}]`)

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.AdminUsers, 1)
	assert.Equal(t, "admin@gea.gov.gd", cfg.AdminUsers[0].Email)

	t.Setenv("ADMIN_USERS_JSON", "not json")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadTOMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_port = 7070
assistant_id = "asst_toml"
allowed_origins = ["https://toml.example.com"]
blocked_tools = ["send_email"]

[[admin_users]]
email = "ops@gea.gov.gd"
password = "toml-secret"
`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTPPort)
	assert.Equal(t, "asst_toml", cfg.AssistantID)
	assert.Equal(t, []string{"https://toml.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"send_email"}, cfg.BlockedTools)
	require.Len(t, cfg.AdminUsers, 1)
	assert.Equal(t, "ops@gea.gov.gd", cfg.AdminUsers[0].Email)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b ,, "))
	assert.Empty(t, splitAndTrim(" , "))
}
