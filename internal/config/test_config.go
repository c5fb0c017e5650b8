package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Feed: FeedConfig{
			Source:   SourceSimulated,
			PageSize: 12,
			MaxPages: 6,
		},
		Scroll: defaultConfig().Scroll,
		UI:     defaultConfig().UI,
		Keys:   defaultConfig().Keys,
		Log:    LogConfig{Level: "off"},
	}
}
