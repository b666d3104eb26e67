package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"tickdesk/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Use24Hour          *bool  `yaml:"use_24_hour,omitempty"`
	StopwatchRefreshMS int    `yaml:"stopwatch_refresh_ms,omitempty"`
	LogLevel           string `yaml:"log_level,omitempty"`
	LogJSON            *bool  `yaml:"log_json,omitempty"`
	Metrics            struct {
		Enabled *bool  `yaml:"enabled,omitempty"`
		Host    string `yaml:"host,omitempty"`
		Port    int    `yaml:"port,omitempty"`
	} `yaml:"metrics"`
}

// DefaultPath resolves the settings file inside the user config directory.
func DefaultPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		Use24Hour:          &settings.Use24Hour,
		StopwatchRefreshMS: int(settings.StopwatchRefresh / time.Millisecond),
		LogLevel:           settings.LogLevel,
		LogJSON:            &settings.LogJSON,
	}
	fileData.Metrics.Enabled = &settings.MetricsEnabled
	fileData.Metrics.Host = settings.MetricsHost
	fileData.Metrics.Port = settings.MetricsPort

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// applyYamlSettings copies present, in-range values over the defaults.
func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Use24Hour != nil {
		settings.Use24Hour = *fileData.Use24Hour
	}

	refresh := time.Duration(fileData.StopwatchRefreshMS) * time.Millisecond
	if refresh >= preferences.MinStopwatchRefresh && refresh <= preferences.MaxStopwatchRefresh {
		settings.StopwatchRefresh = refresh
	}

	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	if fileData.LogJSON != nil {
		settings.LogJSON = *fileData.LogJSON
	}

	if fileData.Metrics.Enabled != nil {
		settings.MetricsEnabled = *fileData.Metrics.Enabled
	}
	if fileData.Metrics.Host != "" {
		settings.MetricsHost = fileData.Metrics.Host
	}
	if fileData.Metrics.Port > 0 && fileData.Metrics.Port <= 65535 {
		settings.MetricsPort = fileData.Metrics.Port
	}
}
