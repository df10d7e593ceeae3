package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Logger LoggerConfig `yaml:"logger"`
	OTP    OTPConfig    `yaml:"otp"`
	Ports  PortsConfig  `yaml:"ports"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Port   int    `yaml:"port"`
	Mode   string `yaml:"mode"`    // debug, release
	APIKey string `yaml:"api_key"` // API key for management endpoints (optional, if empty, auth is disabled)
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// OTPConfig passcode coordination configuration
type OTPConfig struct {
	WaitTimeoutSeconds int `yaml:"wait_timeout_seconds"` // default wait for a code (seconds)
	PollIntervalMS     int `yaml:"poll_interval_ms"`     // turn re-check interval (milliseconds)
	LegacyTTLSeconds   int `yaml:"legacy_ttl_seconds"`   // legacy single-slot validity window (seconds)
}

// PortsConfig remote debug port allocation range
type PortsConfig struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

// Default returns the built-in configuration. The wait timeout matches the
// portal's own OTP expiry window; the port range leaves 9222 free for a
// default Chrome instance.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Mode: "release",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Output: "console",
		},
		OTP: OTPConfig{
			WaitTimeoutSeconds: 120,
			PollIntervalMS:     100,
			LegacyTTLSeconds:   300,
		},
		Ports: PortsConfig{
			Low:  9223,
			High: 9999,
		},
	}
}

// Init initializes configuration. A missing config file is not an error: the
// service runs with defaults so it can be started with zero configuration.
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && os.Getenv("CONFIG_PATH") == "" {
			GlobalConfig = Default()
			return nil
		}
		return err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	GlobalConfig = cfg
	return nil
}
