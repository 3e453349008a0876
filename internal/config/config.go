// Package config loads the service configuration from YAML.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Memartyes/y-lab-uni-sub000/internal/calendar"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address             string `yaml:"address"`
		Password            string `yaml:"password"`
		DB                  int    `yaml:"db"`
		SlotCacheTTLSeconds int    `yaml:"slot_cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Calendar struct {
		BookingDurationHours int      `yaml:"booking_duration_hours"`
		StartHour            int      `yaml:"start_hour"`
		EndHour              int      `yaml:"end_hour"`
		WorkDays             []string `yaml:"work_days"`
	} `yaml:"calendar"`

	Rooms struct {
		WorkspaceCapacity   int  `yaml:"workspace_capacity"`
		PrepopulateNewRooms bool `yaml:"prepopulate_new_rooms"`
		Bootstrap           bool `yaml:"bootstrap"`
	} `yaml:"rooms"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Database.Path = "data/coworking.db"
	cfg.Monitoring.HealthCheckPort = 8090
	cfg.Monitoring.PrometheusPort = 9090
	cfg.Calendar.BookingDurationHours = calendar.DefaultBookingDurationHours
	cfg.Calendar.StartHour = calendar.DefaultStartHour
	cfg.Calendar.EndHour = calendar.DefaultEndHour
	cfg.Calendar.WorkDays = calendar.DefaultWorkDays()
	cfg.Rooms.WorkspaceCapacity = 8
	cfg.Rooms.PrepopulateNewRooms = true
	cfg.Rooms.Bootstrap = true
	return &cfg
}

// Load reads the YAML file at path (default configs/config.yaml),
// expands ${ENV_VAR} placeholders, and fills unset values with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/coworking.db"
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	// Calendar fields are seeded by Default() before unmarshal and get
	// no zero-value fallback here: an explicit zero in the file is an
	// invalid calendar and must fail in WorkingCalendar, not be
	// silently replaced.
	if c.Rooms.WorkspaceCapacity == 0 {
		c.Rooms.WorkspaceCapacity = 8
	}
}

// WorkingCalendar builds the validated calendar from the config values.
func (c *Config) WorkingCalendar() (calendar.Calendar, error) {
	return calendar.New(
		c.Calendar.BookingDurationHours,
		c.Calendar.StartHour,
		c.Calendar.EndHour,
		c.Calendar.WorkDays,
	)
}

// SlotCacheTTL returns the Redis slot-cache TTL; zero disables caching.
func (c *Config) SlotCacheTTL() time.Duration {
	if c.Redis.SlotCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.SlotCacheTTLSeconds) * time.Second
}
