// Package config loads application configuration from a YAML file and
// environment variables via viper. Rule parameters are exposed as plain
// strings/ints here and mapped onto compliance.RuleSet so the engine
// itself never touches viper.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/warp/compliance-engine/compliance"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Rules     RulesConfig     `mapstructure:"rules"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggerConfig holds zap logger configuration.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// SchedulerConfig holds the expiry-scan scheduler configuration.
type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Spec    string `mapstructure:"spec"` // cron expression
}

// RulesConfig overrides the legal parameters. Decimal values are carried
// as strings so the exact representation survives the config file.
type RulesConfig struct {
	StandardWorkHours      string `mapstructure:"standard_work_hours"`
	OffsetHoursPerDay      string `mapstructure:"offset_hours_per_day"`
	LegalOvertimeCap       string `mapstructure:"legal_overtime_cap"`
	MealAllowance          string `mapstructure:"meal_allowance"`
	NormalDayMealThreshold string `mapstructure:"normal_day_meal_threshold"`
	OffDaySecondMealHours  string `mapstructure:"off_day_second_meal_hours"`
	RegularOvertimeRate    string `mapstructure:"regular_overtime_rate"`
	PremiumOvertimeRate    string `mapstructure:"premium_overtime_rate"`
	NightStartHour         int    `mapstructure:"night_start_hour"`
	NightEndHour           int    `mapstructure:"night_end_hour"`
	DefaultLunchMinutes    int    `mapstructure:"default_lunch_minutes"`
}

// Load reads configuration from the given file path. A missing file is
// not an error: defaults plus environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("COMPLIANCE")
	v.AutomaticEnv()

	setDefaults(v)

	// A missing file falls back to defaults; a present-but-broken file
	// fails loudly.
	if _, statErr := os.Stat(configPath); statErr == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := cfg.Rules.RuleSet(); err != nil {
		return nil, fmt.Errorf("invalid rules configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("database.path", "compliance.db")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "0 8 * * *") // daily 08:00

	defaults := compliance.DefaultRules()
	v.SetDefault("rules.standard_work_hours", defaults.StandardWorkHours.String())
	v.SetDefault("rules.offset_hours_per_day", defaults.OffsetHoursPerDay.String())
	v.SetDefault("rules.legal_overtime_cap", defaults.LegalOvertimeCap.String())
	v.SetDefault("rules.meal_allowance", defaults.MealAllowance.String())
	v.SetDefault("rules.normal_day_meal_threshold", defaults.NormalDayMealThreshold.String())
	v.SetDefault("rules.off_day_second_meal_hours", defaults.OffDaySecondMealHours.String())
	v.SetDefault("rules.regular_overtime_rate", defaults.RegularOvertimeRate.String())
	v.SetDefault("rules.premium_overtime_rate", defaults.PremiumOvertimeRate.String())
	v.SetDefault("rules.night_start_hour", defaults.NightStartHour)
	v.SetDefault("rules.night_end_hour", defaults.NightEndHour)
	v.SetDefault("rules.default_lunch_minutes", defaults.DefaultLunchMinutes)
}

// RuleSet converts the string overrides into an engine rule set.
func (rc RulesConfig) RuleSet() (compliance.RuleSet, error) {
	rules := compliance.DefaultRules()

	fields := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{rc.StandardWorkHours, &rules.StandardWorkHours},
		{rc.OffsetHoursPerDay, &rules.OffsetHoursPerDay},
		{rc.LegalOvertimeCap, &rules.LegalOvertimeCap},
		{rc.MealAllowance, &rules.MealAllowance},
		{rc.NormalDayMealThreshold, &rules.NormalDayMealThreshold},
		{rc.OffDaySecondMealHours, &rules.OffDaySecondMealHours},
		{rc.RegularOvertimeRate, &rules.RegularOvertimeRate},
		{rc.PremiumOvertimeRate, &rules.PremiumOvertimeRate},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return rules, fmt.Errorf("invalid decimal %q: %w", f.raw, err)
		}
		*f.dst = d
	}

	if rc.NightStartHour != 0 {
		rules.NightStartHour = rc.NightStartHour
	}
	if rc.NightEndHour != 0 {
		rules.NightEndHour = rc.NightEndHour
	}
	if rc.DefaultLunchMinutes != 0 {
		rules.DefaultLunchMinutes = rc.DefaultLunchMinutes
	}

	return rules, nil
}
