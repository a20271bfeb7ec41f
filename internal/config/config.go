package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/rotorops/fleetboard/internal/models"
)

type Config struct {
	Env         string `mapstructure:"ENV"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	CORSAllowed string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	AdminKey    string `mapstructure:"ADMIN_KEY"`

	DailyCSV     string `mapstructure:"DAILY_CSV" validate:"required"`
	WeeklyCSV    string `mapstructure:"WEEKLY_CSV"`
	HistoryPath  string `mapstructure:"HISTORY_PATH" validate:"required"`
	ReportPath   string `mapstructure:"REPORT_PATH" validate:"required"`
	RulesPath    string `mapstructure:"RULES_PATH"`
	DueSheetPath string `mapstructure:"DUE_SHEET_PATH"`

	FleetName string `mapstructure:"FLEET_NAME" validate:"required"`

	CriticalDays         float64 `mapstructure:"CRITICAL_DAYS" validate:"gt=0"`
	ComingDueDays        float64 `mapstructure:"COMING_DUE_DAYS" validate:"gt=0,gtefield=CriticalDays"`
	CriticalHours        float64 `mapstructure:"CRITICAL_HOURS" validate:"gt=0"`
	ComingDueHours       float64 `mapstructure:"COMING_DUE_HOURS" validate:"gt=0,gtefield=CriticalHours"`
	ComponentWindowHours float64 `mapstructure:"COMPONENT_WINDOW_HOURS" validate:"gt=0"`

	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	RefreshInterval time.Duration `mapstructure:"REFRESH_INTERVAL"`

	PublishDriver string `mapstructure:"PUBLISH_DRIVER" validate:"oneof=none s3"`
	S3Bucket      string `mapstructure:"S3_BUCKET"`
	S3Region      string `mapstructure:"S3_REGION"`
	S3Endpoint    string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey   string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretKey   string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3PathStyle   bool   `mapstructure:"S3_PATH_STYLE"`
	S3Prefix      string `mapstructure:"S3_PREFIX"`
}

// Load reads envFile (default .env) plus the process environment. Every
// knob has a default, so a bare environment still produces a runnable
// config.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("DAILY_CSV", "data/daily_due_list.csv")
	v.SetDefault("WEEKLY_CSV", "data/due_list_weekly.csv")
	v.SetDefault("HISTORY_PATH", "data/flight_hours_history.json")
	v.SetDefault("REPORT_PATH", "dist/data/dashboard.json")
	v.SetDefault("RULES_PATH", "")
	v.SetDefault("DUE_SHEET_PATH", "")
	v.SetDefault("FLEET_NAME", "Bell 407")
	v.SetDefault("CRITICAL_DAYS", 7)
	v.SetDefault("COMING_DUE_DAYS", 30)
	v.SetDefault("CRITICAL_HOURS", 25)
	v.SetDefault("COMING_DUE_HOURS", 100)
	v.SetDefault("COMPONENT_WINDOW_HOURS", 200)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REFRESH_INTERVAL", "0")
	v.SetDefault("PUBLISH_DRIVER", "none")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_PATH_STYLE", false)
	v.SetDefault("S3_PREFIX", "fleetboard")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadRules reads a tracked-inspection catalog (YAML or JSON, top-level
// "inspections" list). Rules without a mode default to exact.
func LoadRules(path string) ([]models.Rule, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var out struct {
		Inspections []models.Rule `mapstructure:"inspections"`
	}
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if len(out.Inspections) == 0 {
		return nil, fmt.Errorf("rules file %s has no inspections", path)
	}

	validate := validator.New()
	for i := range out.Inspections {
		if out.Inspections[i].Mode == "" {
			out.Inspections[i].Mode = models.RuleModeExact
		}
		if err := validate.Struct(out.Inspections[i]); err != nil {
			return nil, fmt.Errorf("rules file %s entry %d: %w", path, i+1, err)
		}
	}
	return out.Inspections, nil
}
