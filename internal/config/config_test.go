package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"picsort/internal/config"
	"picsort/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

const (
	validYAML = `
settings:
  mode: COPY
  extensions: [jpg, jpeg]
  collision: rename
  dry_run: true
display:
  banner_seconds: 5
  thumbnail_width: 800
theme:
  name: dark
`
	invalidSyntaxYAML = `
settings:
  mode: "move
  extensions: [jpg
`
	invalidCollisionYAML = `
settings:
  collision: "delete"
`
	invalidModeYAML = `
settings:
  mode: link
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, config.ModeCopy, cfg.Settings.Mode)
		assert.Equal(t, []string{"jpg", "jpeg"}, cfg.Settings.Extensions)
		assert.Equal(t, config.CollisionRename, cfg.Settings.Collision)
		assert.True(t, cfg.Settings.DryRun)
		assert.Equal(t, 5, cfg.Display.BannerSeconds)
		assert.Equal(t, 800, cfg.Display.ThumbnailWidth)
		// Unset values keep their defaults
		assert.Equal(t, 1000, cfg.Display.ThumbnailHeight)
		assert.Equal(t, "dark", cfg.Theme.Name)
		assert.Equal(t, config.GetTheme("dark")["success"], cfg.Theme.Success)
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("invalid collision", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidCollisionYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid collision setting: delete")
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidModeYAML))
		require.Error(t, err)
		var ce *errors.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "link", ce.Param())
	})
}

func TestDefaults(t *testing.T) {
	cfg := config.New()
	assert.Equal(t, config.ModeMove, cfg.Settings.Mode)
	assert.Equal(t, []string{"png", "jpg", "jpeg", "gif", "bmp"}, cfg.Settings.Extensions)
	assert.Equal(t, config.CollisionOverwrite, cfg.Settings.Collision)
	assert.Equal(t, 3, cfg.Display.BannerSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"empty extensions", func(c *config.Config) { c.Settings.Extensions = nil }, "extension list is empty"},
		{"glob in extension", func(c *config.Config) { c.Settings.Extensions = []string{"j*g"} }, "extension 0 is invalid"},
		{"dotted extension accepted", func(c *config.Config) { c.Settings.Extensions = []string{".jpg"} }, ""},
		{"zero banner", func(c *config.Config) { c.Display.BannerSeconds = 0 }, "banner must stay"},
		{"negative thumbnail", func(c *config.Config) { c.Display.ThumbnailWidth = -1 }, "thumbnail bounds"},
		{"missing source", func(c *config.Config) { c.Directories.Source = "/nonexistent/picsort" }, "not accessible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.New()
	cfg.Settings.Mode = config.ModeCopy
	cfg.Display.BannerSeconds = 7
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.ModeCopy, loaded.Settings.Mode)
	assert.Equal(t, 7, loaded.Display.BannerSeconds)
}

func TestThemes(t *testing.T) {
	for _, name := range config.ListThemes() {
		theme := config.GetTheme(name)
		assert.NotEmpty(t, theme["success"], name)
	}
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("no-such-theme"))
}
