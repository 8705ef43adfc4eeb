package stats

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderChart renders the per-day hours of a report as a PNG bar chart.
// Returns an error if the report has no timed events to plot.
func RenderChart(report Report) ([]byte, error) {
	days := report.Days()
	if len(days) == 0 {
		return nil, fmt.Errorf("no timed events to chart")
	}

	bars := make([]chart.Value, 0, len(days))
	maxHours := 0.0
	for _, day := range days {
		hours := report.DailyHours[day]
		if hours > maxHours {
			maxHours = hours
		}
		bars = append(bars, chart.Value{
			Label: day,
			Value: hours,
		})
	}
	if maxHours == 0 {
		maxHours = 1
	}

	graph := chart.BarChart{
		Title:    "Busy hours per day",
		Width:    900,
		Height:   450,
		BarWidth: 40,
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Name: "Hours",
			// An explicit range keeps rendering valid when all bars
			// carry the same value.
			Range: &chart.ContinuousRange{Min: 0, Max: maxHours * 1.25},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
