package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"tickdesk/internal/core/alarm"
	"tickdesk/internal/core/timefmt"
	"tickdesk/internal/core/timekeeper"
	"tickdesk/internal/logging"
	"tickdesk/internal/metrics"
)

// runHeadless runs the clock and alarms until interrupted.
func runHeadless(ctx context.Context, opts options, scheduler *alarm.Scheduler, collector *metrics.Collector) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.L(ctx)
	config := opts.Settings.EngineConfig()

	keeper := timekeeper.New(config.Clock, nil)
	keeper.SetAlarmChecker(scheduler)
	events := keeper.Subscribe(0)

	server, err := newMetricsServer(opts, collector)
	if err != nil {
		return err
	}

	keeper.Start()
	logger.Info("clock started", slog.Bool("headless", true), slog.Int("alarms", scheduler.Len()))

	group, ctx := errgroup.WithContext(ctx)
	if server != nil {
		group.Go(func() error {
			logger.Info("serving metrics", slog.String("address", server.Address()))
			return server.Run(ctx)
		})
	}
	group.Go(func() error {
		for event := range events.C() {
			if collector != nil {
				collector.ObserveClock(event)
			}
			logEvent(logger, event, config.Use24Hour)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		keeper.Stop()
		return nil
	})

	err = group.Wait()
	logger.Info("clock stopped", slog.Uint64("ticks", keeper.Ticks()))
	return err
}

func logEvent(logger *slog.Logger, event timekeeper.Event, use24Hour bool) {
	logger.Debug("tick", slog.String("time", timefmt.FormatInstant(event.At, use24Hour)))
	for _, fired := range event.Alarms {
		logger.Info("alarm",
			slog.String("id", fired.ID.String()),
			slog.String("time", timefmt.FormatClock(fired.Hour, fired.Minute, fired.Second, use24Hour)),
			logging.TimeAttr("at", event.At),
		)
	}
}
