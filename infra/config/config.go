package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Config holds application-level configuration.
type Config struct {
	BaseURL     string // e.g. "https://jsonplaceholder.typicode.com"
	TokenPath   string // Optional bearer token file; empty means anonymous
	LogFile     string // Empty discards logs, the TUI owns stdout
	LogLevel    string
	MetricsAddr string // Empty disables the /metrics listener
}

// Load reads configuration from the environment and an optional YAML file.
//
//	POSTPAD_BASE_URL     — posts API root (default: https://jsonplaceholder.typicode.com)
//	POSTPAD_TOKEN_PATH   — file holding a bearer token (default: none)
//	POSTPAD_LOG_FILE     — where to write logs (default: discarded)
//	POSTPAD_LOG_LEVEL    — debug, info, warn or error (default: info)
//	POSTPAD_METRICS_ADDR — e.g. "127.0.0.1:9464" to serve /metrics
//	POSTPAD_CONFIG       — YAML file with the same keys (default: ~/.config/postpad/config.yaml)
//
// Environment variables win over the file.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POSTPAD")
	v.AutomaticEnv()

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("token_path", "")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")

	if err := readConfigFile(v); err != nil {
		return Config{}, err
	}

	baseURL, err := normalizeBaseURL(v.GetString("base_url"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		BaseURL:     baseURL,
		TokenPath:   strings.TrimSpace(v.GetString("token_path")),
		LogFile:     strings.TrimSpace(v.GetString("log_file")),
		LogLevel:    strings.TrimSpace(v.GetString("log_level")),
		MetricsAddr: strings.TrimSpace(v.GetString("metrics_addr")),
	}, nil
}

func readConfigFile(v *viper.Viper) error {
	path := strings.TrimSpace(os.Getenv("POSTPAD_CONFIG"))
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".config", "postpad", "config.yaml")
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

func normalizeBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid POSTPAD_BASE_URL: must be an absolute URL")
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", fmt.Errorf("invalid POSTPAD_BASE_URL: scheme must be http or https")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}
