package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/hashicorp/go-multierror"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Panel handles the settings tab.
type Panel struct {
	content  fyne.CanvasObject
	settings Settings
	onSave   func(Settings) error

	use24Hour   *widget.Check
	refresh     *widget.Entry
	logLevel    *widget.Select
	logJSON     *widget.Check
	metrics     *widget.Check
	metricsHost *widget.Entry
	metricsPort *widget.Entry
	status      *widget.Label
	saveButton  *widget.Button
}

// New creates the settings panel. onSave receives validated settings.
func New(settings Settings, onSave func(Settings) error) *Panel {
	prefs := &Panel{
		settings:    settings,
		onSave:      onSave,
		use24Hour:   widget.NewCheck("24 Hour Format", nil),
		refresh:     widget.NewEntry(),
		logLevel:    widget.NewSelect(logLevels, nil),
		logJSON:     widget.NewCheck("JSON log output", nil),
		metrics:     widget.NewCheck("Serve Prometheus metrics", nil),
		metricsHost: widget.NewEntry(),
		metricsPort: widget.NewEntry(),
		status:      widget.NewLabel(""),
	}
	prefs.saveButton = widget.NewButton("Save", prefs.handleSave)
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Display", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.use24Hour,
		container.NewHBox(widget.NewLabel("Stopwatch refresh"), prefs.refresh, widget.NewLabel("ms")),
		widget.NewLabelWithStyle("Logging", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Level"), prefs.logLevel),
		prefs.logJSON,
		widget.NewLabelWithStyle("Metrics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.metrics,
		container.NewHBox(widget.NewLabel("Host"), prefs.metricsHost, widget.NewLabel("Port"), prefs.metricsPort),
		widget.NewLabel("Refresh, logging and metrics changes apply on next start."),
	)

	buttons := container.NewHBox(prefs.status, layout.NewSpacer(), prefs.saveButton)
	prefs.content = container.NewBorder(nil, buttons, nil, nil, form)
	return prefs
}

// Content returns the panel root object.
func (prefs *Panel) Content() fyne.CanvasObject {
	return prefs.content
}

// Settings returns the last saved settings.
func (prefs *Panel) Settings() Settings {
	return prefs.settings
}

// UpdateSettings replaces panel values.
func (prefs *Panel) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.use24Hour.SetChecked(settings.Use24Hour)
	prefs.refresh.SetText(strconv.Itoa(int(settings.StopwatchRefresh / time.Millisecond)))
	prefs.logLevel.SetSelected(settings.LogLevel)
	prefs.logJSON.SetChecked(settings.LogJSON)
	prefs.metrics.SetChecked(settings.MetricsEnabled)
	prefs.metricsHost.SetText(settings.MetricsHost)
	prefs.metricsPort.SetText(strconv.Itoa(settings.MetricsPort))
}

func (prefs *Panel) handleSave() {
	settings := prefs.settings
	settings.Use24Hour = prefs.use24Hour.Checked
	settings.LogLevel = prefs.logLevel.Selected
	settings.LogJSON = prefs.logJSON.Checked
	settings.MetricsEnabled = prefs.metrics.Checked
	settings.MetricsHost = prefs.metricsHost.Text

	var result *multierror.Error
	if millis, ok := parsePositiveInt(prefs.refresh.Text); ok {
		settings.StopwatchRefresh = time.Duration(millis) * time.Millisecond
	} else {
		result = multierror.Append(result, fmt.Errorf("%w: %q is not a positive number", ErrInvalidRefresh, prefs.refresh.Text))
	}
	if port, ok := parsePositiveInt(prefs.metricsPort.Text); ok {
		settings.MetricsPort = port
	} else {
		result = multierror.Append(result, fmt.Errorf("%w: port %q is not a positive number", ErrInvalidMetrics, prefs.metricsPort.Text))
	}
	if err := result.ErrorOrNil(); err != nil {
		prefs.status.SetText(err.Error())
		return
	}

	if err := settings.Validate(); err != nil {
		prefs.status.SetText(err.Error())
		return
	}
	if prefs.onSave != nil {
		if err := prefs.onSave(settings); err != nil {
			prefs.status.SetText(err.Error())
			return
		}
	}

	prefs.settings = settings
	prefs.status.SetText("Saved")
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
