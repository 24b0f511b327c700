package record

import "time"

// Record is one user's wellness entry for a calendar day. Every metric is
// optional; only the date is required.
type Record struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Date            string    `json:"date"`
	SleepHours      *float64  `json:"sleep_hours"`
	SleepQuality    *int      `json:"sleep_quality"`
	ExerciseMinutes *int      `json:"exercise_minutes"`
	ExerciseType    *string   `json:"exercise_type"`
	DietBreakfast   *string   `json:"diet_breakfast"`
	DietLunch       *string   `json:"diet_lunch"`
	DietDinner      *string   `json:"diet_dinner"`
	DietSnacks      *string   `json:"diet_snacks"`
	WaterIntake     *float64  `json:"water_intake"`
	Mood            *int      `json:"mood"`
	StressLevel     *int      `json:"stress_level"`
	BodyTemperature *float64  `json:"body_temperature"`
	Weight          *float64  `json:"weight"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Input is the writable subset of a Record.
type Input struct {
	Date            string   `json:"date"`
	SleepHours      *float64 `json:"sleep_hours"`
	SleepQuality    *int     `json:"sleep_quality"`
	ExerciseMinutes *int     `json:"exercise_minutes"`
	ExerciseType    *string  `json:"exercise_type"`
	DietBreakfast   *string  `json:"diet_breakfast"`
	DietLunch       *string  `json:"diet_lunch"`
	DietDinner      *string  `json:"diet_dinner"`
	DietSnacks      *string  `json:"diet_snacks"`
	WaterIntake     *float64 `json:"water_intake"`
	Mood            *int     `json:"mood"`
	StressLevel     *int     `json:"stress_level"`
	BodyTemperature *float64 `json:"body_temperature"`
	Weight          *float64 `json:"weight"`
	Notes           *string  `json:"notes"`
}
