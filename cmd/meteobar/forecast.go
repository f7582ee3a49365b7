package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/meteobar/meteobar/internal/config"
	"github.com/meteobar/meteobar/internal/weather"
	"github.com/meteobar/meteobar/pkg/dateutil"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "30", Dark: "45"})
	styleDay   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"})
	styleTemp  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "166", Dark: "214"})
	styleRain  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "39"})
	styleBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.AdaptiveColor{Light: "250", Dark: "238"}).Padding(0, 1)
)

func forecastCmd() *cobra.Command {
	var (
		name      string
		latitude  float64
		longitude float64
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the forecast to the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if cmd.Flags().Changed("name") {
				cfg.Location.Name = name
			}
			if cmd.Flags().Changed("lat") {
				cfg.Location.Latitude = latitude
			}
			if cmd.Flags().Changed("lon") {
				cfg.Location.Longitude = longitude
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid location: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			forecast, err := newForecastService(cfg).Forecast(ctx)
			if err != nil {
				return err
			}

			fmt.Println(renderForecast(forecast, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Location name")
	cmd.Flags().Float64Var(&latitude, "lat", 0, "Location latitude")
	cmd.Flags().Float64Var(&longitude, "lon", 0, "Location longitude")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	return cmd
}

func renderForecast(forecast *weather.Forecast, now time.Time) string {
	var b strings.Builder

	title := fmt.Sprintf("%s  %s", forecast.Location.Name, dateutil.StartOfDay(now).Format("Mon 2 Jan"))
	if current, ok := weather.Current(forecast.Hours, now); ok {
		title += "  " + styleTemp.Render(weather.FormatTitle(current.Temperature))
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n")

	for _, day := range forecast.Days {
		b.WriteString("\n")
		b.WriteString(styleDay.Render(weather.DayName(day.Date, now)))
		b.WriteString("\n")

		if day.IsDetailedView {
			rows := make([]string, 0, len(day.Hours))
			for _, h := range day.Hours {
				rows = append(rows, renderHour(h))
			}
			b.WriteString(styleBox.Render(strings.Join(rows, "\n")))
			b.WriteString("\n")
			continue
		}

		if day.Summary != nil {
			b.WriteString(renderSummary(*day.Summary))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderHour(h weather.HourlyForecast) string {
	line := fmt.Sprintf("%s  %s %s  %s %3.0f km/h",
		styleLabel.Render(weather.FormatHour(h.Time)),
		weather.Icon(h.Condition),
		styleTemp.Render(fmt.Sprintf("%4s", weather.FormatTitle(h.Temperature))),
		weather.WindArrow(h.WindDirection),
		h.WindSpeed,
	)
	if h.Precipitation > 0 {
		line += "  " + styleRain.Render(fmt.Sprintf("%.1f mm", h.Precipitation))
	}
	if h.Snowfall > 0 {
		line += "  " + styleRain.Render(fmt.Sprintf("%.1f cm snow", h.Snowfall))
	}
	return line
}

func renderSummary(s weather.DaySummary) string {
	line := fmt.Sprintf("  %s %s / %s  %s %d%%",
		weather.Icon(s.DominantCondition),
		styleTemp.Render(weather.FormatTitle(s.MaxTemp)),
		styleTemp.Render(weather.FormatTitle(s.MinTemp)),
		styleLabel.Render("clouds"),
		s.AvgCloudCover,
	)
	if s.TotalPrecipitation > 0 {
		line += "  " + styleRain.Render(fmt.Sprintf("%.1f mm", s.TotalPrecipitation))
	}
	if s.TotalSnowfall > 0 {
		line += "  " + styleRain.Render(fmt.Sprintf("%.1f cm snow", s.TotalSnowfall))
	}
	return line
}
