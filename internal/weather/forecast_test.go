package weather

import (
	"testing"
	"time"
)

var cet = time.FixedZone("CET", 3600)

// newResponse builds hours of data starting at start (wall clock), with
// temperature equal to the hour index.
func newResponse(start time.Time, hours int) *Response {
	r := &Response{
		UTCOffsetSeconds:     3600,
		TimezoneAbbreviation: "CET",
	}
	for i := 0; i < hours; i++ {
		t := start.Add(time.Duration(i) * time.Hour)
		r.Hourly.Time = append(r.Hourly.Time, LocalTime{Time: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)})
		r.Hourly.Temperature = append(r.Hourly.Temperature, float64(i))
		r.Hourly.Precipitation = append(r.Hourly.Precipitation, 0)
		r.Hourly.Snowfall = append(r.Hourly.Snowfall, 0)
		r.Hourly.WindSpeed = append(r.Hourly.WindSpeed, 10)
		r.Hourly.WindGusts = append(r.Hourly.WindGusts, 20)
		r.Hourly.WindDirection = append(r.Hourly.WindDirection, 180)
		r.Hourly.CloudCover = append(r.Hourly.CloudCover, 10)
	}
	return r
}

func TestConditionFor(t *testing.T) {
	tests := []struct {
		name          string
		cloudCover    float64
		precipitation float64
		want          Condition
	}{
		{"clear sky", 5, 0, ConditionClear},
		{"partly cloudy", 20, 0, ConditionPartlyCloudy},
		{"cloudy", 50, 0, ConditionCloudy},
		{"overcast", 80, 0, ConditionOvercast},
		{"light rain beats clouds", 5, 0.5, ConditionLightRain},
		{"rain", 100, 2.5, ConditionRain},
		{"heavy rain", 100, 7.5, ConditionHeavyRain},
		{"drizzle below threshold", 90, 0.4, ConditionOvercast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConditionFor(tt.cloudCover, tt.precipitation); got != tt.want {
				t.Errorf("ConditionFor(%v, %v) = %v, want %v", tt.cloudCover, tt.precipitation, got, tt.want)
			}
		})
	}
}

func TestHoursUsesResponseZone(t *testing.T) {
	resp := newResponse(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 2)

	hours := Hours(resp)
	if len(hours) != 2 {
		t.Fatalf("Hours() len = %d, want 2", len(hours))
	}

	want := time.Date(2025, 3, 1, 1, 0, 0, 0, cet)
	if !hours[1].Time.Equal(want) {
		t.Errorf("hours[1].Time = %v, want %v", hours[1].Time, want)
	}
	if hours[1].Hour != 1 {
		t.Errorf("hours[1].Hour = %d, want 1", hours[1].Hour)
	}
	if hours[1].ID != "2025-03-01T01:00" {
		t.Errorf("hours[1].ID = %q", hours[1].ID)
	}
}

func TestHoursStopsAtShortestSeries(t *testing.T) {
	resp := newResponse(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 5)
	resp.Hourly.CloudCover = resp.Hourly.CloudCover[:3]

	if got := len(Hours(resp)); got != 3 {
		t.Errorf("Hours() len = %d, want 3", got)
	}
}

func TestGroupDays(t *testing.T) {
	resp := newResponse(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 72)
	now := time.Date(2025, 3, 1, 10, 30, 0, 0, cet)

	days := GroupDays(Hours(resp), now)
	if len(days) != 3 {
		t.Fatalf("GroupDays() len = %d, want 3", len(days))
	}

	today := days[0]
	if !today.IsDetailedView || len(today.Hours) != 8 {
		t.Errorf("today: detailed=%v hours=%d, want true 8", today.IsDetailedView, len(today.Hours))
	}
	for _, h := range today.Hours {
		if h.Hour%3 != 0 {
			t.Errorf("today contains hour %d", h.Hour)
		}
	}

	tomorrow := days[1]
	if !tomorrow.IsDetailedView || len(tomorrow.Hours) != 4 {
		t.Errorf("tomorrow: detailed=%v hours=%d, want true 4", tomorrow.IsDetailedView, len(tomorrow.Hours))
	}

	later := days[2]
	if later.IsDetailedView || len(later.Hours) != 0 || later.Summary == nil {
		t.Fatalf("day 3 should be summary only: %+v", later)
	}
	if later.Summary.MaxTemp != 71 || later.Summary.MinTemp != 48 {
		t.Errorf("summary temps = %v/%v, want 71/48", later.Summary.MaxTemp, later.Summary.MinTemp)
	}
	if later.Summary.AvgCloudCover != 10 {
		t.Errorf("AvgCloudCover = %d, want 10", later.Summary.AvgCloudCover)
	}
	if later.Summary.DominantCondition != ConditionClear {
		t.Errorf("DominantCondition = %v, want clear", later.Summary.DominantCondition)
	}
	if later.ID != "2025-03-03" {
		t.Errorf("ID = %q, want 2025-03-03", later.ID)
	}
}

func TestGroupDaysKeepsAllHoursWhenFilterEmpties(t *testing.T) {
	// Tomorrow only has 01:00 and 02:00, neither a multiple of six.
	resp := newResponse(time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC), 2)
	now := time.Date(2025, 3, 1, 22, 0, 0, 0, cet)

	days := GroupDays(Hours(resp), now)
	if len(days) != 1 {
		t.Fatalf("GroupDays() len = %d, want 1", len(days))
	}
	if len(days[0].Hours) != 2 {
		t.Errorf("tomorrow hours = %d, want 2", len(days[0].Hours))
	}
}

func TestGroupDaysEmpty(t *testing.T) {
	if days := GroupDays(nil, time.Now()); len(days) != 0 {
		t.Errorf("GroupDays(nil) = %v, want empty", days)
	}
}

func TestCurrent(t *testing.T) {
	hours := Hours(newResponse(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 48))

	tests := []struct {
		name     string
		now      time.Time
		wantHour int
		wantOK   bool
	}{
		{"morning", time.Date(2025, 3, 1, 10, 30, 0, 0, cet), 10, true},
		{"midnight", time.Date(2025, 3, 1, 0, 0, 0, 0, cet), 0, true},
		{"other zone same instant", time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), 10, true},
		{"after forecast", time.Date(2025, 3, 5, 10, 0, 0, 0, cet), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := Current(hours, tt.now)
			if ok != tt.wantOK {
				t.Fatalf("Current() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && h.Hour != tt.wantHour {
				t.Errorf("Current() hour = %d, want %d", h.Hour, tt.wantHour)
			}
		})
	}
}

func TestDominantConditionTieGoesToFirstSeen(t *testing.T) {
	hours := []HourlyForecast{
		{CloudCover: 60},
		{CloudCover: 5},
		{CloudCover: 5},
		{CloudCover: 60},
	}

	if got := dominantCondition(hours); got != ConditionCloudy {
		t.Errorf("dominantCondition() = %v, want cloudy", got)
	}
}

func TestBuild(t *testing.T) {
	resp := newResponse(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 24)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, cet)
	loc := Location{Name: "Test", Latitude: 1, Longitude: 2}

	f := Build(resp, loc, now)
	if f.Location != loc || !f.FetchedAt.Equal(now) {
		t.Errorf("Build() = %+v", f)
	}
	if len(f.Hours) != 24 || len(f.Days) != 1 {
		t.Errorf("Build() hours=%d days=%d, want 24 1", len(f.Hours), len(f.Days))
	}
}
