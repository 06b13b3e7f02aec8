package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"condo-billing/internal/reminders/application"
)

func TestLoadConfig_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.yaml")
	data := `daily_at: "09:30"
associations:
  - assoc-1
  - assoc-2
cadence:
  daily_through: 5
  long_cycle_days: 30
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REMINDERS_CONFIG", path)

	cfg, err := application.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DailyAt != "09:30" {
		t.Errorf("daily_at: got %q", cfg.DailyAt)
	}
	if len(cfg.Associations) != 2 || cfg.Associations[0] != "assoc-1" {
		t.Errorf("associations: got %v", cfg.Associations)
	}

	schedule := cfg.Schedule()
	if schedule.DailyThrough != 5 || schedule.LongCycleDays != 30 {
		t.Errorf("cadence overrides not applied: %+v", schedule)
	}
	if schedule.EveryOtherThrough != 14 {
		t.Errorf("unset cadence field must keep default, got %d", schedule.EveryOtherThrough)
	}
}

func TestLoadConfig_DefaultDailyAt(t *testing.T) {
	t.Setenv("REMINDERS_CONFIG", "")
	t.Setenv("REMINDERS_DAILY_AT", "")
	t.Setenv("REMINDERS_ASSOCIATIONS", "")

	cfg, err := application.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DailyAt != "08:00" {
		t.Errorf("daily_at default: got %q", cfg.DailyAt)
	}
	if len(cfg.Associations) != 0 {
		t.Errorf("associations: got %v", cfg.Associations)
	}
}

func TestLoadConfig_EnvFallbacks(t *testing.T) {
	t.Setenv("REMINDERS_CONFIG", "")
	t.Setenv("REMINDERS_DAILY_AT", "06:15")
	t.Setenv("REMINDERS_ASSOCIATIONS", "a1, a2 ,")

	cfg, err := application.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DailyAt != "06:15" {
		t.Errorf("daily_at: got %q", cfg.DailyAt)
	}
	if len(cfg.Associations) != 2 || cfg.Associations[1] != "a2" {
		t.Errorf("associations: got %v", cfg.Associations)
	}
}
