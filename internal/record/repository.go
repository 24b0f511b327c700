package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const recordColumns = `
	id, user_id, date, sleep_hours, sleep_quality, exercise_minutes, exercise_type,
	diet_breakfast, diet_lunch, diet_dinner, diet_snacks, water_intake,
	mood, stress_level, body_temperature, weight, notes, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the record for (user, date) or overwrites its metrics.
func (r *Repository) Upsert(ctx context.Context, userID string, input Input) (Record, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Record{}, fmt.Errorf("generate record id: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO records (
			id, user_id, date, sleep_hours, sleep_quality, exercise_minutes, exercise_type,
			diet_breakfast, diet_lunch, diet_dinner, diet_snacks, water_intake,
			mood, stress_level, body_temperature, weight, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		ON CONFLICT (user_id, date) DO UPDATE SET
			sleep_hours = EXCLUDED.sleep_hours,
			sleep_quality = EXCLUDED.sleep_quality,
			exercise_minutes = EXCLUDED.exercise_minutes,
			exercise_type = EXCLUDED.exercise_type,
			diet_breakfast = EXCLUDED.diet_breakfast,
			diet_lunch = EXCLUDED.diet_lunch,
			diet_dinner = EXCLUDED.diet_dinner,
			diet_snacks = EXCLUDED.diet_snacks,
			water_intake = EXCLUDED.water_intake,
			mood = EXCLUDED.mood,
			stress_level = EXCLUDED.stress_level,
			body_temperature = EXCLUDED.body_temperature,
			weight = EXCLUDED.weight,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING `+recordColumns,
		id.String(), userID, input.Date, input.SleepHours, input.SleepQuality,
		input.ExerciseMinutes, input.ExerciseType, input.DietBreakfast, input.DietLunch,
		input.DietDinner, input.DietSnacks, input.WaterIntake, input.Mood,
		input.StressLevel, input.BodyTemperature, input.Weight, input.Notes,
		time.Now().UTC(),
	)

	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("upsert record: %w", err)
	}

	return rec, nil
}

// GetByDate returns the record for one day, or sql.ErrNoRows.
func (r *Repository) GetByDate(ctx context.Context, userID, date string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE user_id = $1 AND date = $2
	`, userID, date)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("query record by date: %w", err)
	}

	return rec, nil
}

// GetRange returns records between startDate and endDate inclusive,
// ordered by date ascending.
func (r *Repository) GetRange(ctx context.Context, userID, startDate, endDate string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("query records by range: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// GetRecent returns up to limit records ordered by date descending.
func (r *Repository) GetRecent(ctx context.Context, userID string, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.SleepHours, &rec.SleepQuality,
		&rec.ExerciseMinutes, &rec.ExerciseType, &rec.DietBreakfast, &rec.DietLunch,
		&rec.DietDinner, &rec.DietSnacks, &rec.WaterIntake, &rec.Mood,
		&rec.StressLevel, &rec.BodyTemperature, &rec.Weight, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}
