package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meteobar/meteobar/internal/weather"
	"github.com/meteobar/meteobar/pkg/random"
	"go.uber.org/zap"
)

// ForecastSource supplies forecasts and derives the tray title from them
type ForecastSource interface {
	Forecast(ctx context.Context) (*weather.Forecast, error)
	Refresh(ctx context.Context) (*weather.Forecast, error)
	CurrentTitle(forecast *weather.Forecast) (string, bool)
}

// Status is a snapshot of the refresher
type Status struct {
	Running   bool      `json:"running"`
	LastRun   time.Time `json:"lastRun"`
	LastTitle string    `json:"lastTitle"`
	LastError string    `json:"lastError,omitempty"`
	NextRun   time.Time `json:"nextRun"`
	Interval  string    `json:"interval"`
}

// Daemon periodically refreshes the forecast and pushes the current
// temperature to the tray title
type Daemon struct {
	source        ForecastSource
	updateTitle   func(title string)
	interval      time.Duration
	jitterPercent float64
	logger        *zap.Logger

	trigger chan struct{}

	mu          sync.Mutex // Protect against concurrent runs
	syncRunning bool
	lastRun     time.Time
	lastTitle   string
	lastErr     error
	nextRun     time.Time
}

// NewDaemon creates a refresher. updateTitle receives every new title.
func NewDaemon(source ForecastSource, updateTitle func(string), interval time.Duration, jitterPercent float64, logger *zap.Logger) *Daemon {
	return &Daemon{
		source:        source,
		updateTitle:   updateTitle,
		interval:      interval,
		jitterPercent: jitterPercent,
		logger:        logger,
		trigger:       make(chan struct{}, 1),
	}
}

// Run refreshes immediately and then on every interval until ctx is done
func (d *Daemon) Run(ctx context.Context) {
	d.logger.Info("Forecast refresher started",
		zap.Duration("interval", d.interval),
		zap.Float64("jitter_percent", d.jitterPercent))

	d.runRefresh(ctx, false)

	timer := time.NewTimer(d.scheduleNext())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Forecast refresher stopped")
			return

		case <-timer.C:
			d.runRefresh(ctx, false)
			timer.Reset(d.scheduleNext())

		case <-d.trigger:
			d.runRefresh(ctx, true)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(d.scheduleNext())
		}
	}
}

// RefreshNow asks the running refresher to fetch immediately, bypassing the
// forecast cache. Requests made while one is pending are coalesced.
func (d *Daemon) RefreshNow() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

// Status returns the refresher state
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Status{
		Running:   d.syncRunning,
		LastRun:   d.lastRun,
		LastTitle: d.lastTitle,
		NextRun:   d.nextRun,
		Interval:  d.interval.String(),
	}
	if d.lastErr != nil {
		s.LastError = d.lastErr.Error()
	}
	return s
}

func (d *Daemon) scheduleNext() time.Duration {
	wait := random.Jitter(d.interval, d.jitterPercent)

	d.mu.Lock()
	d.nextRun = time.Now().Add(wait)
	d.mu.Unlock()

	d.logger.Debug("Next forecast refresh scheduled", zap.Duration("wait_duration", wait))
	return wait
}

func (d *Daemon) runRefresh(ctx context.Context, force bool) {
	if err := d.refresh(ctx, force); err != nil {
		d.logger.Warn("Forecast refresh failed, keeping current title", zap.Error(err))
	}
}

// refresh fetches the forecast and updates the title. Protected with a mutex
// so overlapping refreshes are skipped.
func (d *Daemon) refresh(ctx context.Context, force bool) error {
	d.mu.Lock()
	if d.syncRunning {
		d.mu.Unlock()
		d.logger.Debug("Refresh already running, skipping")
		return nil
	}
	d.syncRunning = true
	d.mu.Unlock()

	var (
		forecast *weather.Forecast
		err      error
	)
	if force {
		forecast, err = d.source.Refresh(ctx)
	} else {
		forecast, err = d.source.Forecast(ctx)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.syncRunning = false
	d.lastRun = time.Now()
	d.lastErr = err

	if err != nil {
		return fmt.Errorf("failed to fetch forecast: %w", err)
	}

	title, ok := d.source.CurrentTitle(forecast)
	if !ok {
		d.lastErr = fmt.Errorf("forecast has no data for the current hour")
		return d.lastErr
	}

	d.lastTitle = title
	d.updateTitle(title)

	d.logger.Info("Tray title refreshed",
		zap.String("title", title),
		zap.String("location", forecast.Location.Name))

	return nil
}
