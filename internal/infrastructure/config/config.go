package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/orris-inc/rollcall/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Store     sharedConfig.StoreConfig     `mapstructure:"store"`
	Authority sharedConfig.AuthorityConfig `mapstructure:"authority"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Sync      sharedConfig.SyncConfig      `mapstructure:"sync"`
	Protocol  sharedConfig.ProtocolConfig  `mapstructure:"protocol"`
	Device    sharedConfig.DeviceConfig    `mapstructure:"device"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A missing config file is not an error; defaults and ROLLCALL_* variables apply.
func Load(env string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("ROLLCALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8787)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.scan_rate_limit.per_minute", 30)
	v.SetDefault("server.scan_rate_limit.per_hour", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stderr")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "rollcall.db")

	v.SetDefault("authority.base_url", "http://localhost:8080")
	v.SetDefault("authority.token", "")
	v.SetDefault("authority.timeout_seconds", 20)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lease_ttl_seconds", 60)

	v.SetDefault("sync.auto_interval_seconds", 0)
	v.SetDefault("sync.require_per_record_results", false)
	v.SetDefault("sync.timeout_seconds", 60)

	v.SetDefault("protocol.default_window_seconds", 20)
	v.SetDefault("protocol.window_tolerance", 1)
	v.SetDefault("protocol.default_radius_meters", 50)
	v.SetDefault("protocol.scoring.token_weight", 30)
	v.SetDefault("protocol.scoring.corroboration_weight", 40)
	v.SetDefault("protocol.scoring.geofence_weight", 30)
	v.SetDefault("protocol.scoring.accept_threshold", 60)

	v.SetDefault("device.user_agent", "rollcall-cli")
	v.SetDefault("device.screen_resolution", "0x0")
}
