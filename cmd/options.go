package main

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"

	"tickdesk/internal/core/alarm"
	"tickdesk/internal/storage"
	"tickdesk/internal/ui/preferences"
)

// alarmSpec is an alarm requested on the command line, in canonical form.
type alarmSpec struct {
	Hour, Minute, Second int
}

type options struct {
	ConfigPath string
	Headless   bool
	Alarms     []alarmSpec
	// Stored is the settings file content; Settings adds the flag overrides.
	Stored   preferences.Settings
	Settings preferences.Settings
}

// parseOptions reads flags on top of the saved settings. Flags that were not
// set leave the saved values alone.
func parseOptions(args []string, output io.Writer) (options, error) {
	flags := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	flags.SetOutput(output)

	defaultPath, err := storage.DefaultPath(appName)
	if err != nil {
		defaultPath = "settings.yaml"
	}

	configPath := flags.String("config", defaultPath, "settings file")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn, error")
	logJSON := flags.Bool("log-json", false, "write logs as JSON")
	headless := flags.Bool("headless", false, "run the clock and alarms without a window")
	alarms := flags.StringArray("alarm", nil, `alarm time, "HH:MM[:SS]" or "H:MM[:SS] AM|PM" (repeatable)`)
	use24Hour := flags.Bool("24h", false, "display time in 24-hour format")
	serveMetrics := flags.Bool("metrics", false, "serve Prometheus metrics on the configured address")

	if err := flags.Parse(args); err != nil {
		return options{}, err
	}

	stored, err := storage.LoadSettings(*configPath)
	if err != nil {
		return options{}, fmt.Errorf("load settings: %w", err)
	}

	settings := stored

	if flags.Changed("log-level") {
		settings.LogLevel = *logLevel
	}
	if flags.Changed("log-json") {
		settings.LogJSON = *logJSON
	}
	if flags.Changed("24h") {
		settings.Use24Hour = *use24Hour
	}
	if flags.Changed("metrics") {
		settings.MetricsEnabled = *serveMetrics
	}

	var result *multierror.Error
	if err := settings.Validate(); err != nil {
		result = multierror.Append(result, err)
	}

	specs := make([]alarmSpec, 0, len(*alarms))
	for _, value := range *alarms {
		hour, minute, second, err := alarm.ParseSpec(value)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("--alarm: %w", err))
			continue
		}
		specs = append(specs, alarmSpec{Hour: hour, Minute: minute, Second: second})
	}

	if err := result.ErrorOrNil(); err != nil {
		return options{}, err
	}

	return options{
		ConfigPath: *configPath,
		Headless:   *headless,
		Alarms:     specs,
		Stored:     stored,
		Settings:   settings,
	}, nil
}

// addAlarms registers the command line alarms.
func addAlarms(scheduler *alarm.Scheduler, specs []alarmSpec) error {
	for _, spec := range specs {
		if _, err := scheduler.Add(spec.Hour, spec.Minute, spec.Second); err != nil {
			return fmt.Errorf("add alarm: %w", err)
		}
	}
	return nil
}
