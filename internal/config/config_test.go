package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-forge/internal/i18n"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PERSONA_LLM_API_KEY", "GEMINI_API_KEY", "PERSONA_LOGGING_LEVEL", "PERSONA_INSPIRATION_COOLDOWN", "PERSONA_UI_THEME"} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 12*time.Hour, cfg.Inspiration.Cooldown)
	assert.True(t, cfg.Inspiration.AutoRefresh)
	assert.Empty(t, cfg.Metrics.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPathWritesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".persona-forge", "config.yaml")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err, "default config file created")

	assert.Equal(t, Default().LLM, cfg.LLM)
	assert.Equal(t, Default().Inspiration, cfg.Inspiration)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromPathReadsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	custom := Default()
	custom.LLM.Model = "gemini-2.5-pro"
	custom.UI.Theme = "slate"
	custom.Metrics.Addr = "127.0.0.1:9464"
	require.NoError(t, custom.SaveToPath(path))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, "slate", cfg.UI.Theme)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERSONA_LLM_API_KEY", "from-persona")
	t.Setenv("PERSONA_LOGGING_LEVEL", "debug")
	t.Setenv("PERSONA_INSPIRATION_COOLDOWN", "1h")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-persona", cfg.LLM.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, time.Hour, cfg.Inspiration.Cooldown)
}

func TestGeminiKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "from-gemini")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-gemini", cfg.LLM.APIKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERSONA_UI_THEME", "neon")
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	assert.ErrorContains(t, err, "ui.theme")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty model":     func(c *Config) { c.LLM.Model = "" },
		"negative":        func(c *Config) { c.LLM.Timeout = -time.Second },
		"bad language":    func(c *Config) { c.UI.Language = "xx" },
		"bad level":       func(c *Config) { c.Logging.Level = "trace" },
		"bad format":      func(c *Config) { c.Logging.Format = "xml" },
		"negative cooler": func(c *Config) { c.Inspiration.Cooldown = -time.Hour },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLanguage(t *testing.T) {
	cfg := Default()
	assert.Equal(t, i18n.German, cfg.Language("de_DE.UTF-8"))
	cfg.UI.Language = "ko"
	assert.Equal(t, i18n.Korean, cfg.Language("de_DE.UTF-8"))
}

func TestUpdateFileDoesNotPersistEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().SaveToPath(path))
	t.Setenv("GEMINI_API_KEY", "from-env")

	require.NoError(t, UpdateFile(path, func(c *Config) { c.UI.Language = "ja" }))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "from-env")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "ja", cfg.UI.Language)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestUpdateFileRejectsInvalidEdit(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().SaveToPath(path))

	err := UpdateFile(path, func(c *Config) { c.UI.Theme = "neon" })
	require.Error(t, err)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.UI.Theme)
}
