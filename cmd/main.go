package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"tickdesk/internal/core/alarm"
	"tickdesk/internal/logging"
	"tickdesk/internal/metrics"
)

const appName = "tickdesk"

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(2)
	}

	logger := logging.NewLogger(opts.Settings.LoggingOptions()...)
	ctx := logging.ContextWithLogger(context.Background(), logger)

	scheduler := alarm.NewScheduler()
	if err := addAlarms(scheduler, opts.Alarms); err != nil {
		logger.Error("failed to register alarms", logging.ErrAttr(err))
		os.Exit(1)
	}

	var collector *metrics.Collector
	if opts.Settings.MetricsEnabled {
		collector = metrics.NewCollector(scheduler, true)
	}

	if opts.Headless {
		err = runHeadless(ctx, opts, scheduler, collector)
	} else {
		err = runDesktop(ctx, opts, scheduler, collector)
	}
	if err != nil {
		logger.Error("exiting", logging.ErrAttr(err))
		os.Exit(1)
	}
}

// newMetricsServer returns nil when metrics are disabled.
func newMetricsServer(opts options, collector *metrics.Collector) (*metrics.Server, error) {
	if collector == nil {
		return nil, nil
	}
	server, err := metrics.NewServer(metrics.NewConfig(opts.Settings.MetricsOptions()...), collector.Registry)
	if err != nil {
		return nil, fmt.Errorf("create metrics server: %w", err)
	}
	return server, nil
}
