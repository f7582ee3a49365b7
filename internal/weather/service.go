package weather

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Fetcher fetches raw forecasts
type Fetcher interface {
	FetchForecast(ctx context.Context, loc Location) (*Response, error)
}

// Service caches processed forecasts for one location. Concurrent callers
// asking for the same location share a single fetch.
type Service struct {
	fetcher Fetcher
	logger  *zap.Logger
	now     func() time.Time
	group   singleflight.Group

	mu        sync.RWMutex
	location  Location
	cacheTTL  time.Duration
	cached    *Forecast
	fetchedAt time.Time
}

// NewService creates a forecast service
func NewService(fetcher Fetcher, loc Location, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
		location: loc,
		cacheTTL: cacheTTL,
	}
}

// Location returns the configured location
func (s *Service) Location() Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

// SetLocation switches the location and drops the cached forecast
func (s *Service) SetLocation(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc != s.location {
		s.cached = nil
	}
	s.location = loc
}

// Forecast returns the cached forecast while it is fresh, otherwise fetches
func (s *Service) Forecast(ctx context.Context) (*Forecast, error) {
	s.mu.RLock()
	if s.cached != nil && s.now().Sub(s.fetchedAt) < s.cacheTTL {
		cached := s.cached
		s.mu.RUnlock()
		s.logger.Debug("Using cached forecast", zap.Time("fetched_at", cached.FetchedAt))
		return cached, nil
	}
	s.mu.RUnlock()

	return s.Refresh(ctx)
}

// Refresh fetches a new forecast regardless of the cache
func (s *Service) Refresh(ctx context.Context) (*Forecast, error) {
	loc := s.Location()

	v, err, shared := s.group.Do(loc.key(), func() (interface{}, error) {
		resp, err := s.fetcher.FetchForecast(ctx, loc)
		if err != nil {
			return nil, err
		}

		now := s.now()
		forecast := Build(resp, loc, now)

		s.mu.Lock()
		if s.location == loc {
			s.cached = forecast
			s.fetchedAt = now
		}
		s.mu.Unlock()

		return forecast, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.logger.Debug("Shared in-flight forecast fetch", zap.String("location", loc.Name))
	}

	return v.(*Forecast), nil
}

// CurrentTitle returns the tray title, condition icon and temperature, for
// the current hour of forecast
func (s *Service) CurrentTitle(forecast *Forecast) (string, bool) {
	h, ok := Current(forecast.Hours, s.now())
	if !ok {
		return "", false
	}
	return TrayTitle(h), true
}
