package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string          `mapstructure:"host"`
	Port           int             `mapstructure:"port"`
	Mode           string          `mapstructure:"mode"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	ScanRateLimit  RateLimitConfig `mapstructure:"scan_rate_limit"`
}

// RateLimitConfig caps scan submissions per client. It only applies when redis
// is enabled; zero disables a window.
type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute"`
	PerHour   int `mapstructure:"per_hour"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// StoreConfig selects where unsynced proofs are kept.
// Driver is "sqlite" (durable, default) or "memory".
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

func (s *StoreConfig) IsMemory() bool {
	return s.Driver == "memory"
}

type AuthorityConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (a *AuthorityConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	LeaseTTLSeconds int    `mapstructure:"lease_ttl_seconds"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (r *RedisConfig) LeaseTTL() time.Duration {
	if r.LeaseTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.LeaseTTLSeconds) * time.Second
}

type SyncConfig struct {
	AutoIntervalSeconds     int  `mapstructure:"auto_interval_seconds"`
	RequirePerRecordResults bool `mapstructure:"require_per_record_results"`
	TimeoutSeconds          int  `mapstructure:"timeout_seconds"`
}

// AutoInterval returns zero when periodic sync is disabled.
func (s *SyncConfig) AutoInterval() time.Duration {
	if s.AutoIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(s.AutoIntervalSeconds) * time.Second
}

func (s *SyncConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type ScoringConfig struct {
	TokenWeight         int `mapstructure:"token_weight"`
	CorroborationWeight int `mapstructure:"corroboration_weight"`
	GeofenceWeight      int `mapstructure:"geofence_weight"`
	AcceptThreshold     int `mapstructure:"accept_threshold"`
}

type ProtocolConfig struct {
	DefaultWindowSeconds float64       `mapstructure:"default_window_seconds"`
	WindowTolerance      int64         `mapstructure:"window_tolerance"`
	DefaultRadiusMeters  float64       `mapstructure:"default_radius_meters"`
	Scoring              ScoringConfig `mapstructure:"scoring"`
}

type DeviceConfig struct {
	UserAgent        string `mapstructure:"user_agent"`
	ScreenResolution string `mapstructure:"screen_resolution"`
}
