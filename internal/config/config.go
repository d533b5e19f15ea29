package config

import (
	"fmt"

	"github.com/chronidx/chronidx/internal/compression"
	"github.com/chronidx/chronidx/internal/timeindex"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Index   IndexConfig   `mapstructure:"index"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Store   StoreConfig   `mapstructure:"store"`
	Events  EventsConfig  `mapstructure:"events"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// IndexConfig controls time-bucketed index naming and selector resolution
type IndexConfig struct {
	Prefix       string `mapstructure:"prefix"`        // Index name prefix, prepended to every selector token
	Granularity  string `mapstructure:"granularity"`   // daily, monthly, yearly
	Timezone     string `mapstructure:"timezone"`      // Bucket boundary alignment: "+09:00" style offset or IANA name
	GroupSelect  bool   `mapstructure:"group_select"`  // Collapse fully-covered periods into wildcard groups
	MaxSelectors int    `mapstructure:"max_selectors"` // Token count above which queries fall back to prefix+"*"

	// StrictIdentity rejects writes whose identity fields all resolve to
	// absent instead of producing a key of bare delimiters
	StrictIdentity bool `mapstructure:"strict_identity"`
}

// IdentityFieldConfig declares one identity field for dynamic collections
type IdentityFieldConfig struct {
	Name     string `mapstructure:"name"`
	Sequence int    `mapstructure:"sequence"`
}

// SchemaConfig declares the field roles applied to dynamic collections
// served over HTTP. Code-registered entity types carry their own descriptors
// and ignore this section.
type SchemaConfig struct {
	IdentityFields []IdentityFieldConfig `mapstructure:"identity_fields"`
	RoutingField   string                `mapstructure:"routing_field"`
	TimeField      string                `mapstructure:"time_field"`
	Delimiter      string                `mapstructure:"delimiter"`
}

// StoreConfig represents document store backend configuration
type StoreConfig struct {
	Type        string `mapstructure:"type"`        // Store type: memory (default), redis
	URL         string `mapstructure:"url"`         // Backend URL (e.g., redis://localhost:6379)
	Password    string `mapstructure:"password"`    // Optional authentication
	DB          int    `mapstructure:"db"`          // Redis database number (default: 0)
	KeyPrefix   string `mapstructure:"key_prefix"`  // Redis key namespace (default: "chronidx")
	Compression string `mapstructure:"compression"` // Payload codec: snappy (default), none
}

// EventsConfig represents write-event publisher configuration
type EventsConfig struct {
	Type     string `mapstructure:"type"`     // Publisher type: memory (default), nats, redis, kafka
	URL      string `mapstructure:"url"`      // Broker URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "chronidx")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Index.Validate(); err != nil {
		return fmt.Errorf("index config: %w", err)
	}

	if err := c.Schema.Validate(); err != nil {
		return fmt.Errorf("schema config: %w", err)
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	return nil
}

// Validate validates index configuration
func (c *IndexConfig) Validate() error {
	if c.Prefix == "" {
		return fmt.Errorf("index.prefix is required")
	}

	if _, err := timeindex.ParseGranularity(c.Granularity); err != nil {
		return fmt.Errorf("index.granularity: %w", err)
	}

	if _, err := timeindex.ParseLocation(c.Timezone); err != nil {
		return fmt.Errorf("index.timezone: %w", err)
	}

	if c.MaxSelectors < 1 {
		return fmt.Errorf("index.max_selectors must be positive")
	}

	return nil
}

// Validate validates schema configuration
func (c *SchemaConfig) Validate() error {
	if c.TimeField == "" {
		return fmt.Errorf("schema.time_field is required")
	}

	seen := make(map[string]struct{}, len(c.IdentityFields))
	for _, f := range c.IdentityFields {
		if f.Name == "" {
			return fmt.Errorf("schema.identity_fields entries require a name")
		}
		key := fmt.Sprintf("%d/%s", f.Sequence, f.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("schema.identity_fields: duplicate (sequence=%d, name=%q)", f.Sequence, f.Name)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// Validate validates store configuration
func (c *StoreConfig) Validate() error {
	switch c.Type {
	case "", "memory":
	case "redis":
		if c.URL == "" {
			return fmt.Errorf("store.url is required for the redis store")
		}
	default:
		return fmt.Errorf("store.type must be 'memory' or 'redis'")
	}

	if _, err := compression.ParseAlgorithm(c.Compression); err != nil {
		return fmt.Errorf("store.compression: %w", err)
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
