// Package config loads startup configuration.
//
// Sources, lowest precedence first: built-in defaults, an optional YAML
// file, environment variables. Command-line flags are applied on top by
// the CLI before Validate is called.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sellbot/internal/vault"
)

// Config is the process configuration.
type Config struct {
	AdminID         int64   `yaml:"admin_id"`
	AdminPhone      string  `yaml:"admin_phone"`
	EncryptionKey   string  `yaml:"encryption_key"`
	BotToken        string  `yaml:"bot_token"`
	DataFile        string  `yaml:"data_file"`
	JournalDB       string  `yaml:"journal_db"`
	MetricsAddr     string  `yaml:"metrics_addr"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DataFile:        "data.json",
		RateLimitPerSec: 2,
		RateLimitBurst:  5,
	}
}

// LookupFunc reads an environment variable. os.LookupEnv in production.
type LookupFunc func(key string) (string, bool)

// Load builds a configuration from defaults, the YAML file at path (if
// path is non-empty) and the environment. It does not validate.
func Load(path string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	str := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v, ok := lookup(key); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	str(&cfg.AdminPhone, "ADMIN_PHONE")
	str(&cfg.EncryptionKey, "ENCRYPTION_KEY", "FERNET_KEY")
	str(&cfg.BotToken, "BOT_TOKEN")
	str(&cfg.DataFile, "DATA_FILE")
	str(&cfg.JournalDB, "JOURNAL_DB")
	str(&cfg.MetricsAddr, "METRICS_ADDR")

	if v, ok := lookup("ADMIN_ID"); ok && v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("ADMIN_ID must be an integer, got %q", v)
		}
		cfg.AdminID = id
	}
	if v, ok := lookup("RATE_LIMIT_PER_SEC"); ok && v != "" {
		rps, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_SEC must be a number, got %q", v)
		}
		cfg.RateLimitPerSec = rps
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok && v != "" {
		burst, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST must be an integer, got %q", v)
		}
		cfg.RateLimitBurst = burst
	}
	return nil
}

// Validate reports every problem with cfg. requireToken is set by commands
// that talk to Telegram.
func (c Config) Validate(requireToken bool) error {
	var errs []error
	if c.AdminID == 0 {
		errs = append(errs, errors.New("ADMIN_ID is required"))
	}
	if strings.TrimSpace(c.AdminPhone) == "" {
		errs = append(errs, errors.New("ADMIN_PHONE is required"))
	}
	if c.EncryptionKey == "" {
		errs = append(errs, errors.New("ENCRYPTION_KEY is required"))
	} else if _, err := vault.ParseKey(c.EncryptionKey); err != nil {
		errs = append(errs, fmt.Errorf("ENCRYPTION_KEY: %w", err))
	}
	if requireToken && strings.TrimSpace(c.BotToken) == "" {
		errs = append(errs, errors.New("BOT_TOKEN is required"))
	}
	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("DATA_FILE must not be empty"))
	}
	if c.RateLimitPerSec <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_SEC must be positive"))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1"))
	}
	return errors.Join(errs...)
}
