// Package config loads tool server settings from defaults, an optional
// config file and prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config is the full runtime configuration of one tool server process.
type Config struct {
	Port            string `mapstructure:"port"`
	Transport       string `mapstructure:"transport"`
	Token           string `mapstructure:"token"`
	TLSCertFile     string `mapstructure:"tls_cert_file"`
	TLSKeyFile      string `mapstructure:"tls_key_file"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
	RedactFinancial bool   `mapstructure:"redact_financial"`
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool { return c.TLSCertFile != "" && c.TLSKeyFile != "" }

// Defaults are the per-binary values applied before file and env.
type Defaults struct {
	// EnvPrefix namespaces environment variables, e.g. SHAREPOINT_PORT.
	EnvPrefix string
	Port      string
}

// Load reads path (optional; empty skips the file) and environment
// variables on top of d.
func Load(path string, d Defaults) (Config, error) {
	v := viper.New()
	v.SetDefault("port", d.Port)
	v.SetDefault("transport", TransportHTTP)
	v.SetDefault("token", "")
	v.SetDefault("tls_cert_file", "")
	v.SetDefault("tls_key_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "classic")
	v.SetDefault("redact_financial", false)

	if d.EnvPrefix != "" {
		v.SetEnvPrefix(d.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail at serve time.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportHTTP:
		if c.Port == "" {
			return errors.New("config: port is required for http transport")
		}
	case TransportStdio:
	default:
		return fmt.Errorf("config: unknown transport %q", c.Transport)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("config: tls_cert_file and tls_key_file must be set together")
	}
	return nil
}

// LoadDotEnv loads environment variables from path. A missing file is not an
// error so .env files stay optional.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
