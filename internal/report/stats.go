// Package report computes aggregate wellness statistics over daily records.
package report

import (
	"math"
	"time"

	"health-tracker/internal/record"
)

const dateLayout = "2006-01-02"

// Period is the inclusive date range a report covers.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SleepStats struct {
	AvgHours   float64 `json:"avgHours"`
	AvgQuality float64 `json:"avgQuality"`
}

type ExerciseStats struct {
	TotalMinutes int     `json:"totalMinutes"`
	AvgMinutes   float64 `json:"avgMinutes"`
	Days         int     `json:"days"`
}

type Stats struct {
	TotalRecords int           `json:"totalRecords"`
	Sleep        SleepStats    `json:"sleep"`
	Exercise     ExerciseStats `json:"exercise"`
	AvgWater     float64       `json:"avgWaterIntake"`
	AvgMood      float64       `json:"avgMood"`
	AvgStress    float64       `json:"avgStressLevel"`
	AvgBodyTemp  float64       `json:"avgBodyTemperature"`
	AvgWeight    float64       `json:"avgWeight"`
}

// WeekPeriod returns the Sunday-through-Saturday week containing date.
func WeekPeriod(date time.Time) Period {
	start := date.AddDate(0, 0, -int(date.Weekday()))
	end := start.AddDate(0, 0, 6)
	return Period{Start: start.Format(dateLayout), End: end.Format(dateLayout)}
}

// MonthPeriod returns the calendar month containing date.
func MonthPeriod(date time.Time) Period {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Period{Start: start.Format(dateLayout), End: end.Format(dateLayout)}
}

// Compute averages each metric over the records that carry it. Returns nil
// when there are no records at all.
func Compute(records []record.Record) *Stats {
	if len(records) == 0 {
		return nil
	}

	stats := &Stats{TotalRecords: len(records)}

	var sleepHours, sleepQuality, water, mood, stress, temp, weight accumulator
	var exerciseTotal, exerciseDays int
	for _, rec := range records {
		if rec.SleepHours != nil {
			sleepHours.add(*rec.SleepHours)
			if rec.SleepQuality != nil {
				sleepQuality.add(float64(*rec.SleepQuality))
			} else {
				sleepQuality.add(0)
			}
		}
		if rec.ExerciseMinutes != nil {
			exerciseTotal += *rec.ExerciseMinutes
			exerciseDays++
		}
		if rec.WaterIntake != nil {
			water.add(*rec.WaterIntake)
		}
		if rec.Mood != nil {
			mood.add(float64(*rec.Mood))
		}
		if rec.StressLevel != nil {
			stress.add(float64(*rec.StressLevel))
		}
		if rec.BodyTemperature != nil {
			temp.add(*rec.BodyTemperature)
		}
		if rec.Weight != nil {
			weight.add(*rec.Weight)
		}
	}

	stats.Sleep = SleepStats{
		AvgHours:   round1(sleepHours.avg()),
		AvgQuality: round1(sleepQuality.avg()),
	}
	stats.Exercise = ExerciseStats{
		TotalMinutes: exerciseTotal,
		Days:         exerciseDays,
	}
	if exerciseDays > 0 {
		stats.Exercise.AvgMinutes = round1(float64(exerciseTotal) / float64(exerciseDays))
	}
	stats.AvgWater = round1(water.avg())
	stats.AvgMood = round1(mood.avg())
	stats.AvgStress = round1(stress.avg())
	stats.AvgBodyTemp = round2(temp.avg())
	stats.AvgWeight = round1(weight.avg())

	return stats
}

type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a *accumulator) avg() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
