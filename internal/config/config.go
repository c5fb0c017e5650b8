package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/popfeed/internal/validation"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Scroll   ScrollConfig   `mapstructure:"scroll"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FeedConfig struct {
	// Source selects the page provider: "simulated" or "bolt".
	Source   string        `mapstructure:"source"`
	PageSize int           `mapstructure:"page_size"`
	MaxPages int           `mapstructure:"max_pages"`
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
}

type ScrollConfig struct {
	// Threshold is the distance in lines from the bottom of the feed at
	// which a scroll triggers the next page.
	Threshold int `mapstructure:"threshold"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
	// PopupMaxWidth caps the popup box width in cells.
	PopupMaxWidth int `mapstructure:"popup_max_width"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit     string `mapstructure:"quit"`
	Open     string `mapstructure:"open"`
	Close    string `mapstructure:"close"`
	LoadMore string `mapstructure:"load_more"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

const (
	SourceSimulated = "simulated"
	SourceBolt      = "bolt"
)

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Path:    filepath.Join(homeDir, ".popfeed.db"),
			Timeout: 1 * time.Second,
		},
		Feed: FeedConfig{
			Source:   SourceSimulated,
			PageSize: 12,
			MaxPages: 6,
			MinDelay: 600 * time.Millisecond,
			MaxDelay: 1200 * time.Millisecond,
		},
		Scroll: ScrollConfig{
			Threshold: 3,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			PopupMaxWidth: 76,
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:     "q",
				Open:     "o",
				Close:    "esc",
				LoadMore: "l",
			},
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "popfeed")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("POPFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every leaf key so a config file that sets only
// part of a section keeps the remaining defaults.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)

	v.SetDefault("feed.source", cfg.Feed.Source)
	v.SetDefault("feed.page_size", cfg.Feed.PageSize)
	v.SetDefault("feed.max_pages", cfg.Feed.MaxPages)
	v.SetDefault("feed.min_delay", cfg.Feed.MinDelay)
	v.SetDefault("feed.max_delay", cfg.Feed.MaxDelay)

	v.SetDefault("scroll.threshold", cfg.Scroll.Threshold)

	colors := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", colors.Primary)
	v.SetDefault("ui.colors.secondary", colors.Secondary)
	v.SetDefault("ui.colors.accent", colors.Accent)
	v.SetDefault("ui.colors.background", colors.Background)
	v.SetDefault("ui.colors.surface", colors.Surface)
	v.SetDefault("ui.colors.text", colors.Text)
	v.SetDefault("ui.colors.muted", colors.Muted)
	v.SetDefault("ui.colors.error", colors.Error)
	v.SetDefault("ui.colors.success", colors.Success)
	v.SetDefault("ui.popup_max_width", cfg.UI.PopupMaxWidth)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", cfg.Keys.Bindings.Quit)
	v.SetDefault("keys.bindings.open", cfg.Keys.Bindings.Open)
	v.SetDefault("keys.bindings.close", cfg.Keys.Bindings.Close)
	v.SetDefault("keys.bindings.load_more", cfg.Keys.Bindings.LoadMore)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)
}

// Validate rejects settings the feed cannot run with.
func (c *Config) Validate() error {
	switch c.Feed.Source {
	case SourceSimulated, SourceBolt:
	default:
		return fmt.Errorf("unknown feed source %q", c.Feed.Source)
	}
	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("feed.page_size must be positive, got %d", c.Feed.PageSize)
	}
	if c.Feed.MaxPages < 0 {
		return fmt.Errorf("feed.max_pages must not be negative, got %d", c.Feed.MaxPages)
	}
	if c.Feed.MinDelay < 0 || c.Feed.MaxDelay < c.Feed.MinDelay {
		return fmt.Errorf("invalid delay range %s..%s", c.Feed.MinDelay, c.Feed.MaxDelay)
	}
	if c.Scroll.Threshold < 0 {
		return fmt.Errorf("scroll.threshold must not be negative, got %d", c.Scroll.Threshold)
	}
	if err := validation.CheckPath(c.Database.Path); err != nil {
		return fmt.Errorf("database.path: %w", err)
	}
	if c.Log.Path != "" {
		if err := validation.CheckPath(c.Log.Path); err != nil {
			return fmt.Errorf("log.path: %w", err)
		}
	}
	return nil
}

// ExpandPath expands ~ to home directory and converts to absolute path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Log.Path = ExpandPath(cfg.Log.Path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	dbCfg := map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	}

	feedCfg := map[string]interface{}{
		"source":    config.Feed.Source,
		"page_size": config.Feed.PageSize,
		"max_pages": config.Feed.MaxPages,
		"min_delay": config.Feed.MinDelay.String(),
		"max_delay": config.Feed.MaxDelay.String(),
	}

	v.Set("database", dbCfg)
	v.Set("feed", feedCfg)
	v.Set("scroll", map[string]interface{}{"threshold": config.Scroll.Threshold})
	colors := config.UI.Colors
	v.Set("ui", map[string]interface{}{
		"popup_max_width": config.UI.PopupMaxWidth,
		"colors": map[string]interface{}{
			"primary":    colors.Primary,
			"secondary":  colors.Secondary,
			"accent":     colors.Accent,
			"background": colors.Background,
			"surface":    colors.Surface,
			"text":       colors.Text,
			"muted":      colors.Muted,
			"error":      colors.Error,
			"success":    colors.Success,
		},
	})
	v.Set("keys", map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":      config.Keys.Bindings.Quit,
			"open":      config.Keys.Bindings.Open,
			"close":     config.Keys.Bindings.Close,
			"load_more": config.Keys.Bindings.LoadMore,
		},
	})
	v.Set("log", map[string]interface{}{"level": config.Log.Level, "path": config.Log.Path})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
