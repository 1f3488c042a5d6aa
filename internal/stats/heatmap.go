package stats

import (
	"time"

	"github.com/gymmate/gymmate/internal/store"
)

// HeatmapWeeks is the number of week columns in the activity heatmap.
const HeatmapWeeks = 53

// HeatmapCell is one day of the heatmap. Future days always have level 0.
type HeatmapCell struct {
	Date   string `json:"date"`
	Level  int    `json:"level"`
	Future bool   `json:"future"`
}

// MonthLabel marks the week column where a month begins.
type MonthLabel struct {
	Month string `json:"month"`
	Week  int    `json:"week"`
}

// Heatmap is a column-major grid of HeatmapWeeks x 7 days, Sunday first.
type Heatmap struct {
	Cells  []HeatmapCell `json:"cells"`
	Months []MonthLabel  `json:"months"`
}

// BuildHeatmap lays out one year of activity starting at the Sunday on or
// before today-365.
func BuildHeatmap(logs map[string]*store.DailyWorkoutLog, today time.Time) Heatmap {
	today = Midnight(today)
	start := today.AddDate(0, 0, -365)
	start = start.AddDate(0, 0, -int(start.Weekday()))

	h := Heatmap{
		Cells:  make([]HeatmapCell, 0, HeatmapWeeks*7),
		Months: []MonthLabel{{Month: start.Format("Jan"), Week: 0}},
	}
	prev := start
	for i := 0; i < HeatmapWeeks*7; i++ {
		day := start.AddDate(0, 0, i)
		if i > 0 && day.Month() != prev.Month() {
			h.Months = append(h.Months, MonthLabel{Month: day.Format("Jan"), Week: i / 7})
		}
		prev = day

		cell := HeatmapCell{Date: FormatDate(day)}
		if day.After(today) {
			cell.Future = true
		} else if log := logs[cell.Date]; log != nil {
			cell.Level = log.Level
		}
		h.Cells = append(h.Cells, cell)
	}
	return h
}
