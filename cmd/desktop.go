package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"tickdesk/internal/core/alarm"
	"tickdesk/internal/core/stopwatch"
	"tickdesk/internal/core/timekeeper"
	"tickdesk/internal/logging"
	"tickdesk/internal/metrics"
	"tickdesk/internal/platform"
	"tickdesk/internal/ui/chronograph"
	"tickdesk/internal/ui/preferences"
	"tickdesk/internal/ui/tray"
	"tickdesk/internal/ui/watchface"
)

const ringDuration = time.Minute

// runDesktop shows the clock, alarm and stopwatch window until the user quits.
func runDesktop(ctx context.Context, opts options, scheduler *alarm.Scheduler, collector *metrics.Collector) error {
	logger := logging.L(ctx)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Warn("another instance is already running")
			return nil
		}
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := newSettingsStore(opts)
	settings := store.Current()
	config := settings.EngineConfig()

	keeper := timekeeper.New(config.Clock, nil)
	keeper.SetAlarmChecker(scheduler)
	engine := stopwatch.New(config.Stopwatch, nil)

	fyneApp := app.NewWithID("io.tickdesk.app")
	window := fyneApp.NewWindow("tickdesk")

	var trayManager *tray.Manager
	refreshNextAlarm := func() {
		now := keeper.Now()
		next, at, ok := scheduler.NextDue(now)
		trayManager.SetNextAlarm(next, at, ok, now, settings.Use24Hour)
	}

	face := watchface.New(scheduler, settings.Use24Hour, func() {
		if trayManager != nil {
			refreshNextAlarm()
		}
	})
	panel := chronograph.New(engine, logger)

	applySettings := func(updated preferences.Settings) error {
		if err := store.Apply(updated); err != nil {
			return err
		}
		settings = store.Current()
		face.SetUse24Hour(settings.Use24Hour)
		trayManager.SetUse24Hour(settings.Use24Hour)
		refreshNextAlarm()
		logger.Info("settings saved", slog.String("path", opts.ConfigPath))
		return nil
	}
	prefsPanel := preferences.New(settings, applySettings)

	quit := func() {
		keeper.Stop()
		engine.Close()
		cancel()
		fyneApp.Quit()
	}

	callbacks := tray.Callbacks{
		OnShow: func() {
			window.Show()
			window.RequestFocus()
		},
		OnToggleStopwatch: func() {
			toggleStopwatch(engine, logger)
		},
		OnToggle24Hour: func() {
			updated := settings
			updated.Use24Hour = !updated.Use24Hour
			if err := applySettings(updated); err != nil {
				logger.Error("failed to save settings", logging.ErrAttr(err))
				return
			}
			prefsPanel.UpdateSettings(settings)
		},
		OnQuit: quit,
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, callbacks)
		window.SetCloseIntercept(window.Hide)
	} else {
		logger.Info("system tray unsupported on this platform")
		trayManager = tray.New(nil, callbacks)
		window.SetCloseIntercept(quit)
	}
	trayManager.SetUse24Hour(settings.Use24Hour)
	refreshNextAlarm()

	guard.OnActivate(func() {
		fyne.Do(callbacks.OnShow)
	})

	tabs := container.NewAppTabs(
		container.NewTabItem("Clock", face.Content()),
		container.NewTabItem("Stopwatch", panel.Content()),
		container.NewTabItem("Settings", prefsPanel.Content()),
	)
	window.SetContent(tabs)
	window.Resize(fyne.NewSize(420, 480))

	var ringingUntil time.Time
	keeper.SubscribeFunc(func(event timekeeper.Event) {
		if collector != nil {
			collector.ObserveClock(event)
		}
		fyne.Do(func() {
			face.SetTime(event.At)
			if !ringingUntil.IsZero() && !event.At.Before(ringingUntil) {
				ringingUntil = time.Time{}
				face.DismissRinging()
			}
			refreshNextAlarm()
			if event.Fired() {
				logger.Info("alarm fired", slog.Int("count", len(event.Alarms)), logging.TimeAttr("at", event.At))
				ringingUntil = event.At.Add(ringDuration)
				face.ShowRinging(event.Alarms)
				window.Show()
				window.RequestFocus()
			}
		})
	})

	engine.SubscribeFunc(8, func(event stopwatch.Event) {
		if collector != nil {
			collector.ObserveStopwatch(event)
		}
		fyne.Do(func() {
			panel.Handle(event)
			if event.Type == stopwatch.EventStateChange {
				trayManager.SetStopwatchState(event.State)
			}
		})
	})

	server, err := newMetricsServer(opts, collector)
	if err != nil {
		return err
	}
	if server != nil {
		go func() {
			logger.Info("serving metrics", slog.String("address", server.Address()))
			if err := server.Run(ctx); err != nil {
				logger.Error("metrics server stopped", logging.ErrAttr(err))
			}
		}()
	}
	face.SetTime(keeper.Now())
	keeper.Start()
	logger.Info("clock started", slog.Int("alarms", scheduler.Len()))

	window.Show()
	fyneApp.Run()

	keeper.Stop()
	engine.Close()
	return nil
}

func toggleStopwatch(engine *stopwatch.Engine, logger *slog.Logger) {
	var err error
	switch engine.State() {
	case stopwatch.StateRunning:
		err = engine.Pause()
	case stopwatch.StatePaused:
		err = engine.Resume()
	default:
		err = engine.Start()
	}
	if err != nil {
		logger.Warn("stopwatch command rejected", logging.ErrAttr(err))
	}
}
