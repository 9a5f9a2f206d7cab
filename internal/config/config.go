// Package config loads wayfarer settings from a YAML file, WAYFARER_*
// environment variables and bound command-line flags, in viper's usual
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"wayfarer/pkg/layout"
	"wayfarer/pkg/text"
	stdnet "wayfarer/std/net"
)

const envPrefix = "WAYFARER"

// LoggerConfig controls the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	// LogFile, when set, receives JSON logs through a rotating writer.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// NetworkConfig controls the HTTP client.
type NetworkConfig struct {
	PoolSize           int  `mapstructure:"pool_size" yaml:"pool_size"`
	MaxRedirects       int  `mapstructure:"max_redirects" yaml:"max_redirects"`
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// RenderConfig controls PNG output.
type RenderConfig struct {
	Height int     `mapstructure:"height" yaml:"height"`
	Scroll float64 `mapstructure:"scroll" yaml:"scroll"`
}

type Config struct {
	Logger  LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Network NetworkConfig   `mapstructure:"network" yaml:"network"`
	Layout  layout.Config   `mapstructure:"layout" yaml:"layout"`
	Fonts   text.FontConfig `mapstructure:"fonts" yaml:"fonts"`
	Render  RenderConfig    `mapstructure:"render" yaml:"render"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "wayfarer")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)

	v.SetDefault("network.pool_size", stdnet.DefaultPoolSize)
	v.SetDefault("network.max_redirects", stdnet.DefaultMaxRedirects)

	d := layout.DefaultConfig()
	v.SetDefault("layout.width", d.Width)
	v.SetDefault("layout.margin", d.Margin)
	v.SetDefault("layout.top", d.Top)
	v.SetDefault("layout.paragraph_gap", d.ParagraphGap)
	v.SetDefault("layout.base_size", d.BaseSize)
	v.SetDefault("layout.leading", d.Leading)

	v.SetDefault("fonts.regular", "")
	v.SetDefault("fonts.bold", "")
	v.SetDefault("fonts.italic", "")
	v.SetDefault("fonts.bold_italic", "")

	v.SetDefault("render.height", 600)
	v.SetDefault("render.scroll", 0)
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path into v and decodes the result. An
// empty path looks for ./wayfarer.yaml and tolerates its absence.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("wayfarer")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would make layout or rendering impossible.
func (c *Config) Validate() error {
	if c.Layout.Width <= 2*c.Layout.Margin {
		return fmt.Errorf("layout.width %v leaves no room inside margin %v", c.Layout.Width, c.Layout.Margin)
	}
	if c.Layout.BaseSize <= 0 {
		return fmt.Errorf("layout.base_size must be positive, got %d", c.Layout.BaseSize)
	}
	if c.Render.Height <= 0 {
		return fmt.Errorf("render.height must be positive, got %d", c.Render.Height)
	}
	if c.Network.PoolSize <= 0 {
		return fmt.Errorf("network.pool_size must be positive, got %d", c.Network.PoolSize)
	}
	return nil
}
