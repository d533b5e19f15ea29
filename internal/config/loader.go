package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")             // Current directory
		v.AddConfigPath("./configs")     // Project configs directory
		v.AddConfigPath("/etc/chronidx") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("CHRONIDX")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)

	// Index defaults
	v.SetDefault("index.prefix", "chronidx-")
	v.SetDefault("index.granularity", "daily")
	v.SetDefault("index.timezone", "+09:00")
	v.SetDefault("index.group_select", true)
	v.SetDefault("index.max_selectors", 100)
	v.SetDefault("index.strict_identity", false)

	// Schema defaults
	v.SetDefault("schema.time_field", "time")
	v.SetDefault("schema.delimiter", "-")

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.key_prefix", "chronidx")
	v.SetDefault("store.compression", "snappy")

	// Events defaults
	v.SetDefault("events.type", "memory")
	v.SetDefault("events.redis_stream", "chronidx")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 8080,
		},
		Index: IndexConfig{
			Prefix:       "chronidx-",
			Granularity:  "daily",
			Timezone:     "+09:00",
			GroupSelect:  true,
			MaxSelectors: 100,
		},
		Schema: SchemaConfig{
			TimeField: "time",
			Delimiter: "-",
		},
		Store: StoreConfig{
			Type:        "memory",
			KeyPrefix:   "chronidx",
			Compression: "snappy",
		},
		Events: EventsConfig{
			Type:        "memory",
			RedisStream: "chronidx",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
