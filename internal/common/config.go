package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for MarketBrief
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Clients     ClientsConfig  `toml:"clients"`
	News        NewsConfig     `toml:"news"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Broker BrokerConfig `toml:"broker"`
	Gemini GeminiConfig `toml:"gemini"`
	Feed   FeedConfig   `toml:"feed"`
}

// BrokerConfig holds broker gateway configuration
type BrokerConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *BrokerConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// FeedConfig holds news feed configuration
type FeedConfig struct {
	BaseURL     string `toml:"base_url"`
	Timeout     string `toml:"timeout"`
	QuerySuffix string `toml:"query_suffix"`
}

// GetTimeout parses and returns the timeout duration
func (c *FeedConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// NewsConfig tunes feed parsing and retention
type NewsConfig struct {
	MaxItems      int `toml:"max_items"`
	RetentionDays int `toml:"retention_days"`
}

// RetentionWindow returns the news retention window as a duration.
func (c *NewsConfig) RetentionWindow() time.Duration {
	days := c.RetentionDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// AnalysisConfig tunes article extraction for the AI analysis pipeline
type AnalysisConfig struct {
	FetchTimeout string `toml:"fetch_timeout"`
	UserAgent    string `toml:"user_agent"`
}

// GetFetchTimeout parses and returns the article fetch timeout
func (c *AnalysisConfig) GetFetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			Broker: BrokerConfig{
				BaseURL:   "https://apiconnect.angelbroking.com",
				RateLimit: 10,
				Timeout:   "10s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
			Feed: FeedConfig{
				BaseURL:     "https://news.google.com/rss/search",
				Timeout:     "10s",
				QuerySuffix: " stock news india",
			},
		},
		News: NewsConfig{
			MaxItems:      5,
			RetentionDays: 7,
		},
		Analysis: AnalysisConfig{
			FetchTimeout: "10s",
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BRIEF_ENV"); env != "" {
		config.Environment = env
	}
	if host := os.Getenv("BRIEF_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("BRIEF_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("BRIEF_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if base := os.Getenv("BRIEF_BROKER_BASE_URL"); base != "" {
		config.Clients.Broker.BaseURL = base
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
	if model := os.Getenv("BRIEF_GEMINI_MODEL"); model != "" {
		config.Clients.Gemini.Model = model
	}
}
