// Package stats derives metrics from raw workout and diet logs.
// Everything here is a pure function of its inputs.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/gymmate/gymmate/internal/store"
)

// Default classification constants.
const (
	DefaultVolumeHigh   = 2000
	DefaultVolumeMedium = 1000
	DefaultEpleyDivisor = 30
)

// SetVolume is reps times weight.
func SetVolume(set store.WorkoutSet) float64 {
	return ParseNumber(set.Reps) * ParseNumber(set.Weight)
}

// ExerciseVolume sums the volume of every set of one exercise.
func ExerciseVolume(ex store.WorkoutLog) float64 {
	var v float64
	for _, set := range ex.Sets {
		v += SetVolume(set)
	}
	return v
}

// Volume sums the volume of every set across exercises.
func Volume(exercises []store.WorkoutLog) float64 {
	var v float64
	for _, ex := range exercises {
		v += ExerciseVolume(ex)
	}
	return v
}

// Thresholds classify a day's volume into an activity level.
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds returns the standard 2000/1000 thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{High: DefaultVolumeHigh, Medium: DefaultVolumeMedium}
}

// Level returns 3 above High, 2 above Medium, and 1 otherwise.
func (t Thresholds) Level(volume float64) int {
	switch {
	case volume > t.High:
		return 3
	case volume > t.Medium:
		return 2
	default:
		return 1
	}
}

// Epley estimates a one-rep max as weight * (1 + reps/Divisor).
type Epley struct {
	Divisor float64
}

// DefaultEpley uses the conventional divisor of 30.
func DefaultEpley() Epley {
	return Epley{Divisor: DefaultEpleyDivisor}
}

// Estimate returns the rounded one-rep max.
func (e Epley) Estimate(weight, reps float64) float64 {
	d := e.Divisor
	if d <= 0 {
		d = DefaultEpleyDivisor
	}
	return math.Round(weight * (1 + reps/d))
}

// Completion returns the rounded percentage of completed sets, 0 when there are none.
func Completion(log *store.DailyWorkoutLog) int {
	if log == nil {
		return 0
	}
	var total, done int
	for _, ex := range log.Exercises {
		for _, set := range ex.Sets {
			total++
			if set.Completed {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// Point is one dated value of a series.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ActivityEntry is the stored level of one logged day.
type ActivityEntry struct {
	Date  string `json:"date"`
	Level int    `json:"level"`
}

// ActivityHistory lists every logged day with its level, sorted by date.
func ActivityHistory(logs map[string]*store.DailyWorkoutLog) []ActivityEntry {
	out := make([]ActivityEntry, 0, len(logs))
	for date, log := range logs {
		if log == nil {
			continue
		}
		out = append(out, ActivityEntry{Date: date, Level: log.Level})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DayActivity flags whether a day has a workout log.
type DayActivity struct {
	Date      string `json:"date"`
	Day       string `json:"day"`
	WorkedOut bool   `json:"workedOut"`
}

// WeeklyActivity covers the last 7 days, oldest first.
func WeeklyActivity(logs map[string]*store.DailyWorkoutLog, today time.Time) []DayActivity {
	days := LastNDays(today, 7)
	out := make([]DayActivity, 0, len(days))
	for _, d := range days {
		key := FormatDate(d)
		_, ok := logs[key]
		out = append(out, DayActivity{Date: key, Day: d.Format("Mon"), WorkedOut: ok})
	}
	return out
}

// VolumePoint is the total volume of one week.
type VolumePoint struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
}

// WeeklyVolume sums volume over the last n Sunday-start weeks, oldest first.
// include filters exercises by id; nil includes everything.
func WeeklyVolume(logs map[string]*store.DailyWorkoutLog, today time.Time, n int, include func(exerciseID string) bool) []VolumePoint {
	starts := WeekStarts(today, n)
	out := make([]VolumePoint, 0, len(starts))
	for _, start := range starts {
		var v float64
		for j := 0; j < 7; j++ {
			log := logs[FormatDate(start.AddDate(0, 0, j))]
			if log == nil {
				continue
			}
			for _, ex := range log.Exercises {
				if include != nil && !include(ex.ExerciseID) {
					continue
				}
				v += ExerciseVolume(ex)
			}
		}
		out = append(out, VolumePoint{Date: FormatDate(start), Volume: math.Round(v)})
	}
	return out
}

// StrengthProgression estimates a one-rep max for exerciseID on every day it was logged.
// Each day uses the first entry for the exercise and, within it, the heaviest set
// (the earliest one on ties). Points are sorted by date.
func StrengthProgression(logs map[string]*store.DailyWorkoutLog, exerciseID string, e Epley) []Point {
	out := []Point{}
	for date, log := range logs {
		if log == nil {
			continue
		}
		for _, ex := range log.Exercises {
			if ex.ExerciseID != exerciseID {
				continue
			}
			if len(ex.Sets) > 0 {
				best := ex.Sets[0]
				for _, set := range ex.Sets[1:] {
					if ParseNumber(set.Weight) > ParseNumber(best.Weight) {
						best = set
					}
				}
				out = append(out, Point{
					Date:  date,
					Value: e.Estimate(ParseNumber(best.Weight), ParseNumber(best.Reps)),
				})
			}
			break
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
