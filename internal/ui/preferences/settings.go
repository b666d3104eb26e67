package preferences

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"tickdesk/internal/core/model"
	"tickdesk/internal/logging"
	"tickdesk/internal/metrics"
)

const (
	MinStopwatchRefresh = 10 * time.Millisecond
	MaxStopwatchRefresh = time.Second
)

var (
	ErrInvalidRefresh  = errors.New("stopwatch refresh out of range")
	ErrInvalidLogLevel = errors.New("unknown log level")
	ErrInvalidMetrics  = errors.New("invalid metrics address")
)

// Settings defines editable user preferences.
type Settings struct {
	Use24Hour        bool
	StopwatchRefresh time.Duration

	LogLevel string
	LogJSON  bool

	MetricsEnabled bool
	MetricsHost    string
	MetricsPort    int
}

// DefaultSettings returns default settings for tickdesk.
func DefaultSettings() Settings {
	return Settings{
		Use24Hour:        false,
		StopwatchRefresh: 100 * time.Millisecond,
		LogLevel:         "info",
		LogJSON:          false,
		MetricsEnabled:   false,
		MetricsHost:      "127.0.0.1",
		MetricsPort:      9311,
	}
}

// Validate reports every invalid field at once.
func (settings Settings) Validate() error {
	var result *multierror.Error

	if settings.StopwatchRefresh < MinStopwatchRefresh || settings.StopwatchRefresh > MaxStopwatchRefresh {
		result = multierror.Append(result, fmt.Errorf("%w: %s", ErrInvalidRefresh, settings.StopwatchRefresh))
	}
	if _, err := logging.ParseLevel(settings.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrInvalidLogLevel, settings.LogLevel))
	}
	if settings.MetricsEnabled {
		if err := metrics.NewConfig(settings.MetricsOptions()...).Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: %w", ErrInvalidMetrics, err))
		}
	}

	return result.ErrorOrNil()
}

// WithChanges returns settings with every field that differs between
// previous and updated taken from updated. Fields left alone keep their
// value in settings.
func (settings Settings) WithChanges(previous, updated Settings) Settings {
	if previous.Use24Hour != updated.Use24Hour {
		settings.Use24Hour = updated.Use24Hour
	}
	if previous.StopwatchRefresh != updated.StopwatchRefresh {
		settings.StopwatchRefresh = updated.StopwatchRefresh
	}
	if previous.LogLevel != updated.LogLevel {
		settings.LogLevel = updated.LogLevel
	}
	if previous.LogJSON != updated.LogJSON {
		settings.LogJSON = updated.LogJSON
	}
	if previous.MetricsEnabled != updated.MetricsEnabled {
		settings.MetricsEnabled = updated.MetricsEnabled
	}
	if previous.MetricsHost != updated.MetricsHost {
		settings.MetricsHost = updated.MetricsHost
	}
	if previous.MetricsPort != updated.MetricsPort {
		settings.MetricsPort = updated.MetricsPort
	}
	return settings
}

// EngineConfig converts settings to the engine configuration.
func (settings Settings) EngineConfig() model.EngineConfig {
	config := model.DefaultEngineConfig()
	config.Use24Hour = settings.Use24Hour
	if settings.StopwatchRefresh > 0 {
		config.Stopwatch.RefreshInterval = settings.StopwatchRefresh
	}
	return config
}

// MetricsOptions converts settings to exporter options.
func (settings Settings) MetricsOptions() []metrics.Option {
	return []metrics.Option{
		metrics.WithHost(settings.MetricsHost),
		metrics.WithPort(settings.MetricsPort),
	}
}

// LoggingOptions converts settings to logger options.
func (settings Settings) LoggingOptions() []logging.Option {
	return []logging.Option{
		logging.WithLevel(settings.LogLevel),
		logging.WithIsJSON(settings.LogJSON),
	}
}
