// Package weather fetches Open-Meteo forecasts and turns them into the
// per-day view the popup and the tray title use.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetries    = 3
	defaultRetryDelay = time.Second

	hourlyVariables = "temperature_2m,precipitation,snowfall,wind_speed_10m,wind_gusts_10m,wind_direction_10m,cloud_cover"
)

// Client represents Open-Meteo forecast API client
type Client struct {
	baseURL      string
	forecastDays int
	httpClient   *http.Client
	logger       *zap.Logger
	retries      int
	retryDelay   time.Duration
}

// NewClient creates a new forecast API client
func NewClient(baseURL string, forecastDays int, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      baseURL,
		forecastDays: forecastDays,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logger,
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
	}
}

// FetchForecast fetches the hourly forecast for loc
func (c *Client) FetchForecast(ctx context.Context, loc Location) (*Response, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	params.Set("hourly", hourlyVariables)
	params.Set("forecast_days", strconv.Itoa(c.forecastDays))
	params.Set("wind_speed_unit", "kmh")
	params.Set("timezone", "auto")

	var resp Response
	if err := c.doRequest(ctx, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid forecast response: %w", err)
	}

	c.logger.Info("Forecast fetched",
		zap.String("location", loc.Name),
		zap.String("timezone", resp.Timezone),
		zap.Int("hours", len(resp.Hourly.Time)))

	return &resp, nil
}

// doRequest performs a GET request with retries
func (c *Client) doRequest(ctx context.Context, rawURL string, result interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		err := c.doRequestOnce(ctx, rawURL, result)
		if err == nil {
			return nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("Request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.retries),
			zap.Error(err))

		if attempt < c.retries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.retries, lastErr)
}

// doRequestOnce performs a single HTTP request
func (c *Client) doRequestOnce(ctx context.Context, rawURL string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
