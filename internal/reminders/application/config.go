package application

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	reminders "condo-billing/internal/reminders/domain"
)

// CadenceConfig overrides the default escalation cadence.
type CadenceConfig struct {
	BeforeDueOffsets  []int `yaml:"before_due_offsets"`
	DailyThrough      int   `yaml:"daily_through"`
	EveryOtherThrough int   `yaml:"every_other_through"`
	WeeklyThrough     int   `yaml:"weekly_through"`
	LongCycleDays     int   `yaml:"long_cycle_days"`
}

// Config defines reminder sweep configuration.
type Config struct {
	DailyAt      string        `yaml:"daily_at"`
	Associations []string      `yaml:"associations"`
	Cadence      CadenceConfig `yaml:"cadence"`
}

// LoadConfig loads config from yaml or env.
func LoadConfig() (Config, error) {
	cfg := Config{}

	if path := os.Getenv("REMINDERS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.DailyAt == "" {
		cfg.DailyAt = getenvDefault("REMINDERS_DAILY_AT", "08:00")
	}
	if len(cfg.Associations) == 0 {
		cfg.Associations = splitCSV(os.Getenv("REMINDERS_ASSOCIATIONS"))
	}
	return cfg, nil
}

// Schedule merges the cadence overrides over the defaults.
func (c Config) Schedule() reminders.Schedule {
	schedule := reminders.DefaultSchedule()
	if len(c.Cadence.BeforeDueOffsets) > 0 {
		schedule.BeforeDueOffsets = c.Cadence.BeforeDueOffsets
	}
	if c.Cadence.DailyThrough != 0 {
		schedule.DailyThrough = c.Cadence.DailyThrough
	}
	if c.Cadence.EveryOtherThrough != 0 {
		schedule.EveryOtherThrough = c.Cadence.EveryOtherThrough
	}
	if c.Cadence.WeeklyThrough != 0 {
		schedule.WeeklyThrough = c.Cadence.WeeklyThrough
	}
	if c.Cadence.LongCycleDays != 0 {
		schedule.LongCycleDays = c.Cadence.LongCycleDays
	}
	return schedule
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
