package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"picsort/internal/errors"

	"gopkg.in/yaml.v3"
)

// Sorting modes.
const (
	// ModeMove moves each image into base/<label>, base chosen once per label.
	ModeMove = "move"
	// ModeCopy copies each image into source/<label> for every label entered.
	ModeCopy = "copy"
)

// Collision strategies for an existing destination file.
const (
	CollisionOverwrite = "overwrite"
	CollisionRename    = "rename"
	CollisionSkip      = "skip"
)

// Settings controls how images are filed.
type Settings struct {
	Mode       string   `yaml:"mode"`       // move or copy
	Extensions []string `yaml:"extensions"` // Image extension allow-list, without dots
	DryRun     bool     `yaml:"dry_run"`    // If true, log operations without touching files
	Collision  string   `yaml:"collision"`  // overwrite, rename, or skip
	LogFile    string   `yaml:"log_file"`   // Optional log file, teed with stdout
	Debug      bool     `yaml:"debug"`      // Enable debug logging
}

// Display controls the viewer.
type Display struct {
	BannerSeconds   int  `yaml:"banner_seconds"`   // Success banner lifetime
	ThumbnailWidth  int  `yaml:"thumbnail_width"`  // Max displayed image width
	ThumbnailHeight int  `yaml:"thumbnail_height"` // Max displayed image height
	ShowMetadata    bool `yaml:"show_metadata"`    // Show EXIF panel in move mode too
	NoWatch         bool `yaml:"no_watch"`         // Don't report external changes to the source folder
}

// Config represents the application configuration structure.
type Config struct {
	Settings    Settings `yaml:"settings"`
	Display     Display  `yaml:"display"`
	Directories struct {
		Source      string `yaml:"source"`      // Default source folder (empty = ask)
		Destination string `yaml:"destination"` // Default base folder for move mode (empty = ask per label)
	} `yaml:"directories"`
	Theme struct {
		Name    string `yaml:"name"`    // Theme name (default, dark, light, etc.)
		Primary string `yaml:"primary"` // Primary color for branding
		Success string `yaml:"success"` // Success banner color
		Error   string `yaml:"error"`   // Error message color
		Info    string `yaml:"info"`    // Informational message color
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/picsort/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "picsort", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if tempCfg.Settings.Mode != "" {
		cfg.Settings.Mode = strings.ToLower(tempCfg.Settings.Mode)
	}
	if len(tempCfg.Settings.Extensions) > 0 {
		cfg.Settings.Extensions = tempCfg.Settings.Extensions
	}
	if tempCfg.Settings.Collision != "" {
		cfg.Settings.Collision = tempCfg.Settings.Collision
	}
	cfg.Settings.DryRun = tempCfg.Settings.DryRun
	cfg.Settings.Debug = tempCfg.Settings.Debug
	cfg.Settings.LogFile = tempCfg.Settings.LogFile

	if tempCfg.Display.BannerSeconds > 0 {
		cfg.Display.BannerSeconds = tempCfg.Display.BannerSeconds
	}
	if tempCfg.Display.ThumbnailWidth > 0 {
		cfg.Display.ThumbnailWidth = tempCfg.Display.ThumbnailWidth
	}
	if tempCfg.Display.ThumbnailHeight > 0 {
		cfg.Display.ThumbnailHeight = tempCfg.Display.ThumbnailHeight
	}
	cfg.Display.ShowMetadata = tempCfg.Display.ShowMetadata
	cfg.Display.NoWatch = tempCfg.Display.NoWatch

	cfg.Directories = tempCfg.Directories

	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Settings.Mode = ModeMove
	cfg.Settings.Extensions = []string{"png", "jpg", "jpeg", "gif", "bmp"}
	cfg.Settings.DryRun = false
	cfg.Settings.Collision = CollisionOverwrite

	cfg.Display.BannerSeconds = 3
	cfg.Display.ThumbnailWidth = 1600
	cfg.Display.ThumbnailHeight = 1000

	cfg.ApplyTheme("default")
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	switch c.Settings.Mode {
	case ModeMove, ModeCopy:
	default:
		return errors.NewConfigError("invalid mode", c.Settings.Mode, errors.InvalidConfig, nil)
	}

	switch c.Settings.Collision {
	case CollisionOverwrite, CollisionRename, CollisionSkip:
	default:
		return errors.NewConfigError("invalid collision setting", c.Settings.Collision, errors.InvalidConfig, nil)
	}

	if len(c.Settings.Extensions) == 0 {
		return errors.NewConfigError("extension list is empty", "extensions", errors.InvalidConfig, nil)
	}
	for i, ext := range c.Settings.Extensions {
		trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if trimmed == "" || strings.ContainsAny(trimmed, `/\*?{},[]`) {
			return errors.NewConfigError(fmt.Sprintf("extension %d is invalid", i), ext, errors.InvalidConfig, nil)
		}
	}

	if c.Display.BannerSeconds < 1 {
		return errors.NewConfigError("banner must stay for at least 1 second", "banner_seconds", errors.InvalidConfig, nil)
	}
	if c.Display.ThumbnailWidth < 1 || c.Display.ThumbnailHeight < 1 {
		return errors.NewConfigError("thumbnail bounds must be positive", "thumbnail", errors.InvalidConfig, nil)
	}

	if c.Directories.Source != "" {
		info, err := os.Stat(c.Directories.Source)
		if err != nil {
			return errors.NewConfigError("default source directory is not accessible", c.Directories.Source, errors.InvalidConfig, err)
		}
		if !info.IsDir() {
			return errors.NewConfigError("default source is not a directory", c.Directories.Source, errors.InvalidConfig, nil)
		}
	}

	return nil
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Settings.Collision = CollisionRename
	cfg.Display.NoWatch = true
	return cfg
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary": "#7B61FF",
			"success": "#2E8B57", // Green banner
			"error":   "#D7263D",
			"info":    "#5294E2",
		},
		"dark": {
			"primary": "#4A4A4A",
			"success": "#5294E2", // Highlight blue banner
			"error":   "#B00020",
			"info":    "#9AA5B1",
		},
		"light": {
			"primary": "#6A5ACD",
			"success": "#3CB371",
			"error":   "#E57373",
			"info":    "#64B5F6",
		},
		"monochrome": {
			"primary": "#BCBCBC",
			"success": "#FFFFFF",
			"error":   "#626262",
			"info":    "#A8A8A8",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
