package main

import (
	"embed"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/meteobar/meteobar/internal/app"
	"github.com/meteobar/meteobar/internal/config"
	"github.com/meteobar/meteobar/internal/daemon"
	"github.com/meteobar/meteobar/internal/platform"
	"github.com/meteobar/meteobar/internal/tray"
	"github.com/meteobar/meteobar/internal/weather"
	"github.com/meteobar/meteobar/internal/window"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	configPath string
	logger     *zap.Logger
)

// The host event loop needs the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "meteobar",
		Short: "Weather in the menu bar",
		Long:  "MeteoBar shows the current temperature in the menu bar and the forecast in a popup",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default ./config.yaml or ~/.meteobar/config.yaml)")

	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runApp() error {
	defer logger.Sync()

	loader := config.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	service := newForecastService(cfg)

	var meteobar *app.App
	trayHost := tray.NewSystrayHost(tray.MenuActions{
		Refresh: func() { meteobar.Refresh() },
		Quit:    func() { meteobar.Quit() },
	}, logger)
	trayCtrl := tray.NewController(trayHost, nil, logger)

	popup := window.NewWailsWindow(logger)

	refresher := daemon.NewDaemon(
		service,
		trayCtrl.UpdateTitle,
		cfg.Weather.GetRefreshInterval(),
		cfg.Weather.JitterPercent,
		logger,
	)

	meteobar = app.New(app.Options{
		Tray:       trayCtrl,
		TrayLoop:   trayHost,
		Windows:    window.NewController(popup, logger),
		Attacher:   popup,
		Forecasts:  service,
		Refresher:  refresher,
		Runtime:    app.WailsRuntime{},
		Activation: platform.New(logger),
		RunOnMain:  platform.RunOnMain,
		Logger:     logger,
	})

	loader.Watch(meteobar.ApplyConfig, func(err error) {
		logger.Warn("Ignoring invalid config change", zap.Error(err))
	})

	logger.Info("Starting MeteoBar",
		zap.String("location", cfg.Location.Name),
		zap.Duration("refresh_interval", cfg.Weather.GetRefreshInterval()))

	err = wails.Run(&options.App{
		Title:             app.Name,
		Width:             cfg.Window.Width,
		Height:            cfg.Window.Height,
		Frameless:         true,
		StartHidden:       true,
		AlwaysOnTop:       true,
		DisableResize:     true,
		HideWindowOnClose: true,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0},
		OnStartup:        meteobar.Startup,
		OnShutdown:       meteobar.Shutdown,
		Bind: []interface{}{
			meteobar,
		},
		Mac: &mac.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to run app: %w", err)
	}

	return meteobar.Err()
}

func newForecastService(cfg *config.Config) *weather.Service {
	client := weather.NewClient(cfg.Weather.APIURL, cfg.Weather.ForecastDays, logger)
	loc := weather.Location{
		Name:      cfg.Location.Name,
		Latitude:  cfg.Location.Latitude,
		Longitude: cfg.Location.Longitude,
	}
	return weather.NewService(client, loc, cfg.Weather.GetCacheTTL(), logger)
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10,   // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
