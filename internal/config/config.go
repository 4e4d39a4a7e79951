// Package config loads server settings from an optional starchart.yaml and
// STARCHART_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type BackupConfig struct {
	S3Endpoint    string        `mapstructure:"s3_endpoint"`
	S3Bucket      string        `mapstructure:"s3_bucket"`
	S3Region      string        `mapstructure:"s3_region"`
	S3AccessKey   string        `mapstructure:"s3_access_key"`
	S3SecretKey   string        `mapstructure:"s3_secret_key"`
	S3Prefix      string        `mapstructure:"s3_prefix"`
	Interval      time.Duration `mapstructure:"interval"`
	Passphrase    string        `mapstructure:"passphrase"`
	RetentionDays int           `mapstructure:"retention_days"`
}

type Config struct {
	Port       string       `mapstructure:"port"`
	DBPath     string       `mapstructure:"db_path"`
	LogLevel   string       `mapstructure:"log_level"`
	LogFormat  string       `mapstructure:"log_format"`
	DefaultPIN string       `mapstructure:"default_pin"`
	Timezone   string       `mapstructure:"timezone"`
	TrustProxy bool         `mapstructure:"trust_proxy"`
	Backup     BackupConfig `mapstructure:"backup"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3001")
	v.SetDefault("db_path", "starchart.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("default_pin", "1234")
	v.SetDefault("timezone", "Local")
	v.SetDefault("trust_proxy", false)

	// Every key needs a default for AutomaticEnv to reach it during Unmarshal.
	v.SetDefault("backup.s3_endpoint", "")
	v.SetDefault("backup.s3_bucket", "")
	v.SetDefault("backup.s3_region", "us-east-1")
	v.SetDefault("backup.s3_access_key", "")
	v.SetDefault("backup.s3_secret_key", "")
	v.SetDefault("backup.s3_prefix", "backups/")
	v.SetDefault("backup.interval", 0)
	v.SetDefault("backup.passphrase", "")
	v.SetDefault("backup.retention_days", 30)
}

// Load reads configuration. An empty path looks for starchart.yaml in the
// working directory and tolerates its absence; an explicit path must exist.
// Environment variables such as STARCHART_PORT or STARCHART_BACKUP_S3_BUCKET
// override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STARCHART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("starchart")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if len(c.DefaultPIN) != 4 || strings.Trim(c.DefaultPIN, "0123456789") != "" {
		return fmt.Errorf("default_pin must be 4 digits")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Backup.Interval < 0 {
		return fmt.Errorf("backup.interval must not be negative")
	}
	return nil
}

// Location resolves Timezone. Calendar dates for streaks and homework weeks
// are taken in this location.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
