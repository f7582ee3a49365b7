package weather

import (
	"encoding/json"
	"fmt"
	"time"
)

// Location is the place a forecast is requested for
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// Response is the Open-Meteo forecast payload
type Response struct {
	Latitude             float64           `json:"latitude"`
	Longitude            float64           `json:"longitude"`
	GenerationTimeMs     float64           `json:"generationtime_ms"`
	UTCOffsetSeconds     int               `json:"utc_offset_seconds"`
	Timezone             string            `json:"timezone"`
	TimezoneAbbreviation string            `json:"timezone_abbreviation"`
	Hourly               HourlyData        `json:"hourly"`
	HourlyUnits          map[string]string `json:"hourly_units"`
}

// HourlyData holds parallel hourly series indexed by Time
type HourlyData struct {
	Time          []LocalTime `json:"time"`
	Temperature   []float64   `json:"temperature_2m"`
	Precipitation []float64   `json:"precipitation"`
	Snowfall      []float64   `json:"snowfall"`
	WindSpeed     []float64   `json:"wind_speed_10m"`
	WindGusts     []float64   `json:"wind_gusts_10m"`
	WindDirection []float64   `json:"wind_direction_10m"`
	CloudCover    []float64   `json:"cloud_cover"`
}

// Validate checks that every hourly series matches the time axis
func (r *Response) Validate() error {
	n := len(r.Hourly.Time)
	series := map[string]int{
		"temperature_2m":     len(r.Hourly.Temperature),
		"precipitation":      len(r.Hourly.Precipitation),
		"snowfall":           len(r.Hourly.Snowfall),
		"wind_speed_10m":     len(r.Hourly.WindSpeed),
		"wind_gusts_10m":     len(r.Hourly.WindGusts),
		"wind_direction_10m": len(r.Hourly.WindDirection),
		"cloud_cover":        len(r.Hourly.CloudCover),
	}
	for name, got := range series {
		if got != n {
			return fmt.Errorf("hourly.%s has %d values, want %d", name, got, n)
		}
	}
	return nil
}

// Zone returns the location the response's local times belong to
func (r *Response) Zone() *time.Location {
	if r.Timezone != "" {
		if loc, err := time.LoadLocation(r.Timezone); err == nil {
			return loc
		}
	}
	name := r.TimezoneAbbreviation
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, r.UTCOffsetSeconds)
}

// LocalTime is a wall-clock time without zone as Open-Meteo returns it with
// timezone=auto, e.g. 2025-03-01T14:00
type LocalTime struct {
	time.Time
}

var localTimeFormats = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler for LocalTime
func (t *LocalTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	for _, format := range localTimeFormats {
		if parsed, err := time.Parse(format, s); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("LocalTime: cannot parse %q", s)
}

// MarshalJSON implements json.Marshaler for LocalTime
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format("2006-01-02T15:04"))
}

// In returns the same wall-clock time in loc
func (t LocalTime) In(loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

// Condition is a coarse description of the sky
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partlyCloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionOvercast     Condition = "overcast"
	ConditionLightRain    Condition = "lightRain"
	ConditionRain         Condition = "rain"
	ConditionHeavyRain    Condition = "heavyRain"
)

// HourlyForecast is one forecast hour
type HourlyForecast struct {
	ID            string    `json:"id"`
	Time          time.Time `json:"time"`
	Hour          int       `json:"hour"`
	Temperature   float64   `json:"temperature"`
	Precipitation float64   `json:"precipitation"`
	Snowfall      float64   `json:"snowfall"`
	WindSpeed     float64   `json:"windSpeed"`
	WindGusts     float64   `json:"windGusts"`
	WindDirection float64   `json:"windDirection"`
	CloudCover    float64   `json:"cloudCover"`
	Condition     Condition `json:"condition"`
}

// DaySummary condenses a day shown without hourly detail
type DaySummary struct {
	MaxTemp            float64   `json:"maxTemp"`
	MinTemp            float64   `json:"minTemp"`
	AvgCloudCover      int       `json:"avgCloudCover"`
	TotalPrecipitation float64   `json:"totalPrecipitation"`
	TotalSnowfall      float64   `json:"totalSnowfall"`
	DominantCondition  Condition `json:"dominantCondition"`
}

// DayGroup is one day of the forecast. Today and tomorrow carry hours,
// later days carry a summary.
type DayGroup struct {
	ID             string           `json:"id"`
	Date           time.Time        `json:"date"`
	Hours          []HourlyForecast `json:"hours"`
	IsDetailedView bool             `json:"isDetailedView"`
	Summary        *DaySummary      `json:"summary,omitempty"`
}

// Forecast is a processed response
type Forecast struct {
	Location  Location         `json:"location"`
	Hours     []HourlyForecast `json:"-"`
	Days      []DayGroup       `json:"days"`
	FetchedAt time.Time        `json:"fetchedAt"`
}
