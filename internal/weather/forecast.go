package weather

import (
	"math"
	"sort"
	"time"

	"github.com/meteobar/meteobar/pkg/dateutil"
)

// Rain intensity thresholds in mm per hour
const (
	rainLight    = 0.5
	rainModerate = 2.5
	rainHeavy    = 7.5
)

// ConditionFor derives the sky condition from cloud cover (%) and
// precipitation (mm). Precipitation wins over clouds.
func ConditionFor(cloudCover, precipitation float64) Condition {
	switch {
	case precipitation >= rainHeavy:
		return ConditionHeavyRain
	case precipitation >= rainModerate:
		return ConditionRain
	case precipitation >= rainLight:
		return ConditionLightRain
	case cloudCover < 20:
		return ConditionClear
	case cloudCover < 50:
		return ConditionPartlyCloudy
	case cloudCover < 80:
		return ConditionCloudy
	default:
		return ConditionOvercast
	}
}

// Hours converts the response into hourly forecasts in the response's zone
func Hours(resp *Response) []HourlyForecast {
	loc := resp.Zone()
	h := resp.Hourly

	hours := make([]HourlyForecast, 0, len(h.Time))
	for i, lt := range h.Time {
		if i >= len(h.Temperature) || i >= len(h.Precipitation) || i >= len(h.Snowfall) ||
			i >= len(h.WindSpeed) || i >= len(h.WindGusts) || i >= len(h.WindDirection) ||
			i >= len(h.CloudCover) {
			break
		}
		t := lt.In(loc)
		hours = append(hours, HourlyForecast{
			ID:            t.Format("2006-01-02T15:04"),
			Time:          t,
			Hour:          t.Hour(),
			Temperature:   h.Temperature[i],
			Precipitation: h.Precipitation[i],
			Snowfall:      h.Snowfall[i],
			WindSpeed:     h.WindSpeed[i],
			WindGusts:     h.WindGusts[i],
			WindDirection: h.WindDirection[i],
			CloudCover:    h.CloudCover[i],
			Condition:     ConditionFor(h.CloudCover[i], h.Precipitation[i]),
		})
	}
	return hours
}

// GroupDays groups hours by local day. Today keeps every third hour,
// tomorrow every sixth; a day whose filter leaves nothing keeps all its
// hours. Later days get a summary instead of hours.
func GroupDays(hours []HourlyForecast, now time.Time) []DayGroup {
	var order []time.Time
	byDay := make(map[string][]HourlyForecast)
	for _, h := range hours {
		day := dateutil.StartOfDay(h.Time)
		key := day.Format("2006-01-02")
		if _, ok := byDay[key]; !ok {
			order = append(order, day)
		}
		byDay[key] = append(byDay[key], h)
	}

	var today, tomorrow time.Time
	if len(hours) > 0 {
		local := now.In(hours[0].Time.Location())
		today = dateutil.StartOfDay(local)
		tomorrow = dateutil.NextDay(local)
	}

	groups := make([]DayGroup, 0, len(order))
	for _, day := range order {
		id := day.Format("2006-01-02")
		dayHours := byDay[id]

		isToday := dateutil.IsSameDay(day, today)
		isTomorrow := dateutil.IsSameDay(day, tomorrow)

		if !isToday && !isTomorrow {
			summary := summarize(dayHours)
			groups = append(groups, DayGroup{
				ID:      id,
				Date:    day,
				Hours:   []HourlyForecast{},
				Summary: &summary,
			})
			continue
		}

		step := 6
		if isToday {
			step = 3
		}
		var filtered []HourlyForecast
		for _, h := range dayHours {
			if h.Hour%step == 0 {
				filtered = append(filtered, h)
			}
		}
		if len(filtered) == 0 {
			filtered = dayHours
		}
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Hour < filtered[j].Hour })

		groups = append(groups, DayGroup{
			ID:             id,
			Date:           day,
			Hours:          filtered,
			IsDetailedView: true,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Date.Before(groups[j].Date) })
	return groups
}

// Build processes a response into a forecast
func Build(resp *Response, loc Location, now time.Time) *Forecast {
	hours := Hours(resp)
	return &Forecast{
		Location:  loc,
		Hours:     hours,
		Days:      GroupDays(hours, now),
		FetchedAt: now,
	}
}

// Current returns the first forecast of today at or after the current hour
func Current(hours []HourlyForecast, now time.Time) (HourlyForecast, bool) {
	for _, h := range hours {
		local := now.In(h.Time.Location())
		if dateutil.IsSameDay(h.Time, local) && h.Hour >= local.Hour() {
			return h, true
		}
	}
	return HourlyForecast{}, false
}

func summarize(hours []HourlyForecast) DaySummary {
	if len(hours) == 0 {
		return DaySummary{DominantCondition: ConditionCloudy}
	}

	s := DaySummary{
		MaxTemp: math.Inf(-1),
		MinTemp: math.Inf(1),
	}
	var clouds float64
	for _, h := range hours {
		s.MaxTemp = math.Max(s.MaxTemp, h.Temperature)
		s.MinTemp = math.Min(s.MinTemp, h.Temperature)
		clouds += h.CloudCover
		s.TotalPrecipitation += h.Precipitation
		s.TotalSnowfall += h.Snowfall
	}
	s.AvgCloudCover = int(math.Round(clouds / float64(len(hours))))
	s.DominantCondition = dominantCondition(hours)
	return s
}

// dominantCondition returns the most frequent condition; ties go to the
// condition seen first.
func dominantCondition(hours []HourlyForecast) Condition {
	counts := make(map[Condition]int)
	var order []Condition
	for _, h := range hours {
		c := ConditionFor(h.CloudCover, h.Precipitation)
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}

	dominant := ConditionCloudy
	maxCount := 0
	for _, c := range order {
		if counts[c] > maxCount {
			maxCount = counts[c]
			dominant = c
		}
	}
	return dominant
}
