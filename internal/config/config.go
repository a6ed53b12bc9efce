// Package config provides YAML-based configuration loading for Cutboard.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cutboard/cutboard/internal/pricing"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Cutboard configuration, loaded from cutboard.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// ServerConfig holds settings for the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	Path   string `yaml:"path"`   // sqlite only
	Host   string `yaml:"host"`   // mysql only
	Port   int    `yaml:"port"`
	Name   string `yaml:"name"`
	User   string `yaml:"user"`
	Pass   string `yaml:"pass"`
}

// TierConfig is one discount tier of the batch pricing policy.
type TierConfig struct {
	MinQuantity     int `yaml:"min_quantity"`
	DiscountPercent int `yaml:"discount_percent"`
}

// PricingConfig is the platform pricing policy. Omitted fields fall back
// to the platform defaults.
type PricingConfig struct {
	Tiers                  []TierConfig `yaml:"tiers"`
	PlatformFeePercent     int          `yaml:"platform_fee_percent"`
	SimultaneousMultiplier float64      `yaml:"simultaneous_multiplier"`
	MinBatchQuantity       int          `yaml:"min_batch_quantity"`
	MaxBatchQuantity       int          `yaml:"max_batch_quantity"`
}

// NotifyConfig holds settings for status-change notifications.
type NotifyConfig struct {
	SlackToken       string `yaml:"slack_token"`
	SlackChannel     string `yaml:"slack_channel"`
	DiscordToken     string `yaml:"discord_token"`
	DiscordChannel   string `yaml:"discord_channel"`
	PollIntervalSecs int    `yaml:"poll_interval_secs"`
	DigestCron       string `yaml:"digest_cron"` // 5-field cron for the delay digest
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "cutboard.db"
	}
	if c.Database.Driver == "mysql" {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.Name == "" {
			c.Database.Name = "cutboard"
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
	}

	def := pricing.DefaultConfig()
	if len(c.Pricing.Tiers) == 0 {
		for _, t := range def.Tiers {
			c.Pricing.Tiers = append(c.Pricing.Tiers, TierConfig{
				MinQuantity:     t.MinQuantity,
				DiscountPercent: t.DiscountPercent,
			})
		}
	}
	if c.Pricing.PlatformFeePercent == 0 {
		c.Pricing.PlatformFeePercent = def.PlatformFeePercent
	}
	if c.Pricing.SimultaneousMultiplier == 0 {
		c.Pricing.SimultaneousMultiplier = def.SimultaneousMultiplier
	}
	if c.Pricing.MinBatchQuantity == 0 {
		c.Pricing.MinBatchQuantity = def.MinBatchQuantity
	}
	if c.Pricing.MaxBatchQuantity == 0 {
		c.Pricing.MaxBatchQuantity = def.MaxBatchQuantity
	}

	if c.Notify.PollIntervalSecs == 0 {
		c.Notify.PollIntervalSecs = 15
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Database.Driver != "sqlite" && c.Database.Driver != "mysql" {
		errs = append(errs, fmt.Sprintf("database.driver %q must be sqlite or mysql", c.Database.Driver))
	}
	if c.Pricing.SimultaneousMultiplier < 1 {
		errs = append(errs, "pricing.simultaneous_multiplier must be >= 1")
	}
	if c.Pricing.PlatformFeePercent < 0 || c.Pricing.PlatformFeePercent > 100 {
		errs = append(errs, "pricing.platform_fee_percent must be within 0..100")
	}
	if c.Pricing.MinBatchQuantity < 2 {
		errs = append(errs, "pricing.min_batch_quantity must be >= 2")
	}
	if c.Pricing.MaxBatchQuantity < c.Pricing.MinBatchQuantity {
		errs = append(errs, "pricing.max_batch_quantity must be >= min_batch_quantity")
	}
	prev := 0
	for i, t := range c.Pricing.Tiers {
		if t.MinQuantity <= prev {
			errs = append(errs, fmt.Sprintf("pricing.tiers[%d].min_quantity must be ascending", i))
		}
		if t.DiscountPercent < 0 || t.DiscountPercent > 100 {
			errs = append(errs, fmt.Sprintf("pricing.tiers[%d].discount_percent must be within 0..100", i))
		}
		prev = t.MinQuantity
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Engine converts the YAML policy into the pricing engine's Config.
func (c *Config) Engine() pricing.Config {
	tiers := make([]pricing.Tier, len(c.Pricing.Tiers))
	for i, t := range c.Pricing.Tiers {
		tiers[i] = pricing.Tier{MinQuantity: t.MinQuantity, DiscountPercent: t.DiscountPercent}
	}
	return pricing.Config{
		Tiers:                  tiers,
		PlatformFeePercent:     c.Pricing.PlatformFeePercent,
		SimultaneousMultiplier: c.Pricing.SimultaneousMultiplier,
		MinBatchQuantity:       c.Pricing.MinBatchQuantity,
		MaxBatchQuantity:       c.Pricing.MaxBatchQuantity,
	}
}

// PollInterval returns the watcher poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Notify.PollIntervalSecs) * time.Second
}
