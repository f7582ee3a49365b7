package weather

import (
	"fmt"
	"math"
	"time"

	"github.com/meteobar/meteobar/pkg/dateutil"
)

// PlaceholderTitle is shown until the first forecast arrives
const PlaceholderTitle = "--°"

var windArrows = [...]string{"↓", "↙", "←", "↖", "↑", "↗", "→", "↘"}

var conditionIcons = map[Condition]string{
	ConditionClear:        "☀️",
	ConditionPartlyCloudy: "🌤️",
	ConditionCloudy:       "☁️",
	ConditionOvercast:     "☁️",
	ConditionLightRain:    "🌦️",
	ConditionRain:         "🌧️",
	ConditionHeavyRain:    "⛈️",
}

// Icon returns the emoji for a condition. Unknown conditions show a cloud.
func Icon(c Condition) string {
	if icon, ok := conditionIcons[c]; ok {
		return icon
	}
	return conditionIcons[ConditionCloudy]
}

// FormatTitle renders a temperature as degrees, e.g. "12°". Halves round
// up, so -2.5 is "-2°" and -0.4 is "0°".
func FormatTitle(temp float64) string {
	if math.IsNaN(temp) || math.IsInf(temp, 0) {
		return PlaceholderTitle
	}
	rounded := math.Floor(temp + 0.5)
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	return fmt.Sprintf("%d°", int(rounded))
}

// TrayTitle renders an hour as tray title text, e.g. "☁️ 12°"
func TrayTitle(h HourlyForecast) string {
	return Icon(h.Condition) + " " + FormatTitle(h.Temperature)
}

// WindArrow points where the wind blows to for a direction it blows from
func WindArrow(degrees float64) string {
	d := math.Mod(degrees+22.5, 360)
	if d < 0 {
		d += 360
	}
	return windArrows[int(d/45)%len(windArrows)]
}

// DayName returns "Today", "Tomorrow" or a short weekday and day of month
func DayName(date, now time.Time) string {
	now = now.In(date.Location())
	switch {
	case dateutil.IsSameDay(date, now):
		return "Today"
	case dateutil.IsSameDay(date, dateutil.NextDay(now)):
		return "Tomorrow"
	default:
		return date.Format("Mon 2")
	}
}

// FormatHour renders a forecast hour as 24h clock time
func FormatHour(t time.Time) string {
	return t.Format("15:04")
}
