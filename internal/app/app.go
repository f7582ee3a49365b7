// Package app is the application context shared by the tray, the popup
// window and the forecast refresher. Its exported methods are the command
// surface bound to the popup front end.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/meteobar/meteobar/internal/config"
	"github.com/meteobar/meteobar/internal/daemon"
	"github.com/meteobar/meteobar/internal/platform"
	"github.com/meteobar/meteobar/internal/tray"
	"github.com/meteobar/meteobar/internal/weather"
	"github.com/meteobar/meteobar/internal/window"
)

const (
	// Name is shown as the tray tooltip and in dialogs
	Name = "MeteoBar"

	// BlurEvent is emitted by the front end when the popup loses focus
	BlurEvent = "window:blur"
)

var errNotStarted = errors.New("app not started")

// TrayLoop runs the tray host event loop
type TrayLoop interface {
	Start()
	Stop()
}

// WindowAttacher receives the host runtime context once it exists
type WindowAttacher interface {
	Attach(ctx context.Context)
}

// Runtime is the part of the host framework the app talks to directly
type Runtime interface {
	OnEvent(ctx context.Context, name string, fn func(data ...interface{})) func()
	Quit(ctx context.Context)
	Alert(title, message string) error
}

// Options holds the components the app is assembled from
type Options struct {
	Tray       *tray.Controller
	TrayLoop   TrayLoop
	Windows    *window.Controller
	Attacher   WindowAttacher
	Forecasts  *weather.Service
	Refresher  *daemon.Daemon
	Runtime    Runtime
	Activation platform.ActivationPolicy
	// RunOnMain runs UI setup on the main thread. Nil runs it in place.
	RunOnMain  func(fn func())
	Logger     *zap.Logger
}

// App is the explicitly owned application context
type App struct {
	tray       *tray.Controller
	trayLoop   TrayLoop
	windows    *window.Controller
	attacher   WindowAttacher
	forecasts  *weather.Service
	refresher  *daemon.Daemon
	runtime    Runtime
	activation platform.ActivationPolicy
	runOnMain  func(fn func())
	logger     *zap.Logger

	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	offBlur    func()
	startupErr error
	refreshing sync.WaitGroup
}

// New assembles the application context
func New(opts Options) *App {
	runOnMain := opts.RunOnMain
	if runOnMain == nil {
		runOnMain = func(fn func()) { fn() }
	}
	return &App{
		tray:       opts.Tray,
		trayLoop:   opts.TrayLoop,
		windows:    opts.Windows,
		attacher:   opts.Attacher,
		forecasts:  opts.Forecasts,
		refresher:  opts.Refresher,
		runtime:    opts.Runtime,
		activation: opts.Activation,
		runOnMain:  runOnMain,
		logger:     opts.Logger,
	}
}

// Startup is the host OnStartup hook. It creates the tray icon showing the
// placeholder title, wires the window blur event and starts the refresher.
// Failing to create the tray icon is fatal: the user is told and the app quits.
//
// The host calls Startup on a background goroutine after it has finished
// launching, so the activation policy and the status item are set up on the
// main thread from here. Applying the policy any earlier is undone by the
// host's own launch sequence.
func (a *App) Startup(ctx context.Context) {
	a.attacher.Attach(ctx)

	a.runOnMain(func() {
		if a.activation != nil {
			if err := a.activation.Apply(); err != nil {
				a.logger.Warn("Failed to apply activation policy", zap.Error(err))
			}
		}
		a.trayLoop.Start()
	})

	if _, err := a.tray.Create(weather.PlaceholderTitle, Name, a.windows.HandleTrayEvent); err != nil {
		a.fail(ctx, err)
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	offBlur := a.runtime.OnEvent(ctx, BlurEvent, func(...interface{}) {
		a.windows.OnFocusLost()
	})

	a.mu.Lock()
	a.ctx = runCtx
	a.cancel = cancel
	a.offBlur = offBlur
	a.mu.Unlock()

	a.refreshing.Add(1)
	go func() {
		defer a.refreshing.Done()
		a.refresher.Run(runCtx)
	}()

	a.logger.Info("MeteoBar started", zap.String("location", a.forecasts.Location().Name))
}

func (a *App) fail(ctx context.Context, err error) {
	a.logger.Error("Startup failed", zap.Error(err))

	a.mu.Lock()
	a.startupErr = fmt.Errorf("startup failed: %w", err)
	a.mu.Unlock()

	if alertErr := a.runtime.Alert(Name, fmt.Sprintf("MeteoBar could not start:\n%v", err)); alertErr != nil {
		a.logger.Debug("Failed to show error dialog", zap.Error(alertErr))
	}
	a.runtime.Quit(ctx)
}

// Shutdown is the host OnShutdown hook
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	cancel, offBlur := a.cancel, a.offBlur
	a.cancel, a.offBlur = nil, nil
	a.mu.Unlock()

	if offBlur != nil {
		offBlur()
	}
	if cancel != nil {
		cancel()
	}
	a.refreshing.Wait()
	a.trayLoop.Stop()

	a.logger.Info("MeteoBar stopped")
}

// Err returns the startup error, if startup failed
func (a *App) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startupErr
}

// Quit asks the host to end the event loop
func (a *App) Quit() {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()

	if ctx == nil {
		a.logger.Debug("Quit before startup ignored")
		return
	}
	a.runtime.Quit(ctx)
}

// HideWindow hides the popup window. It never fails.
func (a *App) HideWindow() {
	a.windows.Hide()
}

// UpdateTrayTitle sets the tray title verbatim. Before the tray icon exists
// this does nothing.
func (a *App) UpdateTrayTitle(title string) {
	a.tray.UpdateTitle(title)
}

// Forecast returns the processed forecast days for the popup
func (a *App) Forecast() ([]weather.DayGroup, error) {
	ctx, err := a.context()
	if err != nil {
		return nil, err
	}

	forecast, err := a.forecasts.Forecast(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load forecast: %w", err)
	}
	return forecast.Days, nil
}

// Location returns the display name of the forecast location
func (a *App) Location() string {
	return a.forecasts.Location().Name
}

// Refresh fetches a new forecast in the background, bypassing the cache.
// Poll RefreshStatus to see when it lands.
func (a *App) Refresh() {
	a.refresher.RefreshNow()
}

// RefreshStatus reports the state of the background refresher
func (a *App) RefreshStatus() daemon.Status {
	return a.refresher.Status()
}

// ApplyConfig switches to the location in cfg and refreshes right away.
// It is the config watcher callback.
func (a *App) ApplyConfig(cfg *config.Config) {
	loc := weather.Location{
		Name:      cfg.Location.Name,
		Latitude:  cfg.Location.Latitude,
		Longitude: cfg.Location.Longitude,
	}

	a.logger.Info("Configuration changed",
		zap.String("location", loc.Name),
		zap.Float64("latitude", loc.Latitude),
		zap.Float64("longitude", loc.Longitude))

	a.forecasts.SetLocation(loc)
	a.refresher.RefreshNow()
}

func (a *App) context() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx == nil {
		return nil, errNotStarted
	}
	return a.ctx, nil
}
