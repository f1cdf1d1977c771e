package uvc

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

type Config struct {
	Negotiation struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"negotiation"`
	Stream struct {
		QueueDepth         int `mapstructure:"queue_depth"`
		Transfers          int `mapstructure:"transfers"`
		PacketsPerTransfer int `mapstructure:"packets_per_transfer"`
	} `mapstructure:"stream"`
	Descriptors struct {
		AllowDanglingSources bool `mapstructure:"allow_dangling_sources"`
	} `mapstructure:"descriptors"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Relay struct {
		Listen           string `mapstructure:"listen"`
		SubscriberBuffer int    `mapstructure:"subscriber_buffer"`
	} `mapstructure:"relay"`
}

// NewViper returns a viper instance with the defaults, the UVC_ environment bindings and the
// config search path set. Callers may bind flags to it before reading.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("negotiation.timeout", 500*time.Millisecond)
	v.SetDefault("stream.queue_depth", 8)
	v.SetDefault("stream.transfers", 8)
	v.SetDefault("stream.packets_per_transfer", 32)
	v.SetDefault("descriptors.allow_dangling_sources", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("relay.listen", ":8080")
	v.SetDefault("relay.subscriber_buffer", 4)

	// UVC_STREAM_QUEUE_DEPTH overrides stream.queue_depth
	v.SetEnvPrefix("UVC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range []string{
		".",
		filepath.Join(xdg.ConfigHome, "uvc"),
		"/etc/uvc",
	} {
		v.AddConfigPath(path)
	}
	return v
}

// ReadConfig reads the config file into v, from path if it is set or else from the search
// path, and decodes the result. A missing config file is not an error.
func ReadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// LoadConfig is ReadConfig on a fresh NewViper.
func LoadConfig(path string) (*Config, error) {
	return ReadConfig(NewViper(), path)
}
