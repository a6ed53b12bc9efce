package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "cutboard.db" {
		t.Errorf("Database = %+v, want sqlite cutboard.db", cfg.Database)
	}
	if cfg.Pricing.PlatformFeePercent != 15 {
		t.Errorf("PlatformFeePercent = %d, want 15", cfg.Pricing.PlatformFeePercent)
	}
	if cfg.Pricing.SimultaneousMultiplier != 1.2 {
		t.Errorf("SimultaneousMultiplier = %v, want 1.2", cfg.Pricing.SimultaneousMultiplier)
	}
	if cfg.Pricing.MinBatchQuantity != 4 || cfg.Pricing.MaxBatchQuantity != 20 {
		t.Errorf("quantity range = %d..%d, want 4..20", cfg.Pricing.MinBatchQuantity, cfg.Pricing.MaxBatchQuantity)
	}
	if len(cfg.Pricing.Tiers) != 3 {
		t.Errorf("tier count = %d, want 3", len(cfg.Pricing.Tiers))
	}
	if got := cfg.PollInterval(); got != 15*time.Second {
		t.Errorf("PollInterval = %v, want 15s", got)
	}
}

func TestParse_Full(t *testing.T) {
	yaml := `
server:
  port: 9090
database:
  driver: mysql
  host: db.internal
  name: cutboard_prod
  user: cutboard
  pass: hunter2
pricing:
  platform_fee_percent: 20
  simultaneous_multiplier: 1.5
  min_batch_quantity: 3
  max_batch_quantity: 30
  tiers:
    - min_quantity: 3
      discount_percent: 4
    - min_quantity: 10
      discount_percent: 12
notify:
  slack_token: xoxb-test
  slack_channel: "#ops"
  poll_interval_secs: 5
  digest_cron: "0 9 * * *"
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Database.Port = %d, want default 3306", cfg.Database.Port)
	}

	engine := cfg.Engine()
	if engine.PlatformFeePercent != 20 || engine.SimultaneousMultiplier != 1.5 {
		t.Errorf("engine = %+v", engine)
	}
	if got := engine.DiscountFor(10); got != 12 {
		t.Errorf("DiscountFor(10) = %d, want 12", got)
	}
	if got := cfg.PollInterval(); got != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", got)
	}
	if cfg.Notify.DigestCron != "0 9 * * *" {
		t.Errorf("DigestCron = %q", cfg.Notify.DigestCron)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "pricing: [", "parse"},
		{"bad driver", "database:\n  driver: postgres", "database.driver"},
		{"multiplier below one", "pricing:\n  simultaneous_multiplier: 0.5", "simultaneous_multiplier"},
		{"fee above 100", "pricing:\n  platform_fee_percent: 120", "platform_fee_percent"},
		{"min too small", "pricing:\n  min_batch_quantity: 1", "min_batch_quantity"},
		{"max below min", "pricing:\n  min_batch_quantity: 10\n  max_batch_quantity: 5", "max_batch_quantity"},
		{
			"tiers not ascending",
			"pricing:\n  tiers:\n    - min_quantity: 10\n      discount_percent: 5\n    - min_quantity: 4\n      discount_percent: 10",
			"ascending",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutboard.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded, want error")
	}
}
