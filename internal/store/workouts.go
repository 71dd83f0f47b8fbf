package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertWorkout inserts or updates a workout.
func (s *Store) UpsertWorkout(ctx context.Context, w *Workout) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workouts (
			id, athlete_id, date, sport, machine, distance_m, duration_sec,
			avg_power, avg_hr, stroke_rate, comment, splits_synced
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			date = excluded.date,
			sport = excluded.sport,
			machine = excluded.machine,
			distance_m = excluded.distance_m,
			duration_sec = excluded.duration_sec,
			avg_power = excluded.avg_power,
			avg_hr = excluded.avg_hr,
			stroke_rate = excluded.stroke_rate,
			comment = excluded.comment,
			splits_synced = excluded.splits_synced,
			updated_at = CURRENT_TIMESTAMP
	`,
		w.ID, w.AthleteID, w.Date.UTC().Format(time.RFC3339), w.Sport, string(w.Machine),
		ptrToNullFloat64(w.DistanceM), ptrToNullFloat64(w.DurationSec),
		ptrToNullFloat64(w.AvgPower), ptrToNullFloat64(w.AvgHR),
		ptrToNullFloat64(w.StrokeRate), w.Comment, boolToInt64(w.SplitsSynced),
	)
	return err
}

// GetWorkout retrieves a workout by ID, without splits.
func (s *Store) GetWorkout(ctx context.Context, id int64) (*Workout, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, athlete_id, date, sport, machine, distance_m, duration_sec,
			avg_power, avg_hr, stroke_rate, comment, splits_synced
		FROM workouts
		WHERE id = ?
	`, id)

	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	return w, err
}

// ListWorkouts returns workouts matching the filter, ordered by date ascending.
// When filter.WithSplits is set, each workout's splits are attached in index
// order via a single batched query.
func (s *Store) ListWorkouts(ctx context.Context, filter WorkoutFilter) ([]Workout, error) {
	query := `
		SELECT id, athlete_id, date, sport, machine, distance_m, duration_sec,
			avg_power, avg_hr, stroke_rate, comment, splits_synced
		FROM workouts`

	var conds []string
	var args []interface{}
	if !filter.Since.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
	}
	if !filter.Until.IsZero() {
		conds = append(conds, "date <= ?")
		args = append(args, filter.Until.UTC().Format(time.RFC3339))
	}
	if filter.Sport != "" {
		conds = append(conds, "sport = ?")
		args = append(args, filter.Sport)
	}
	if filter.Machine != MachineNone {
		conds = append(conds, "machine = ?")
		args = append(args, string(filter.Machine))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if filter.WithSplits && len(workouts) > 0 {
		ids := make([]int64, len(workouts))
		for i := range workouts {
			ids[i] = workouts[i].ID
		}
		splitsByWorkout, err := s.getSplitsForWorkouts(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range workouts {
			workouts[i].Splits = splitsByWorkout[workouts[i].ID]
		}
	}

	return workouts, nil
}

// WorkoutDates returns the dates of all workouts, ascending. Used by the
// streak calculator; much cheaper than loading full rows.
func (s *Store) WorkoutDates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date FROM workouts ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// CountWorkouts returns the total number of workouts.
func (s *Store) CountWorkouts(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workouts`).Scan(&count)
	return count, err
}

// GetWorkoutsNeedingSplits returns workouts whose splits haven't been synced.
func (s *Store) GetWorkoutsNeedingSplits(ctx context.Context, limit int) ([]Workout, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, athlete_id, date, sport, machine, distance_m, duration_sec,
			avg_power, avg_hr, stroke_rate, comment, splits_synced
		FROM workouts
		WHERE splits_synced = 0
		ORDER BY date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

// MarkSplitsSynced marks a workout's splits as synced.
func (s *Store) MarkSplitsSynced(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE workouts SET splits_synced = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// ReplaceSplits removes and re-inserts all splits for a workout in one
// transaction.
func (s *Store) ReplaceSplits(ctx context.Context, workoutID int64, splits []Split) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM splits WHERE workout_id = ?`, workoutID); err != nil {
		return err
	}

	for i, sp := range splits {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO splits (workout_id, idx, distance_m, time_sec, avg_power, avg_hr, stroke_rate)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, workoutID, i, sp.DistanceM, sp.TimeSec,
			ptrToNullFloat64(sp.AvgPower), ptrToNullFloat64(sp.AvgHR), ptrToNullFloat64(sp.StrokeRate))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetSplits retrieves all splits for a workout in index order.
func (s *Store) GetSplits(ctx context.Context, workoutID int64) ([]Split, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT workout_id, idx, distance_m, time_sec, avg_power, avg_hr, stroke_rate
		FROM splits
		WHERE workout_id = ?
		ORDER BY idx ASC
	`, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSplits(rows)
}

// getSplitsForWorkouts retrieves splits for multiple workouts in a single
// query, returned as a map keyed by workout ID.
func (s *Store) getSplitsForWorkouts(ctx context.Context, ids []int64) (map[int64][]Split, error) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `
		SELECT workout_id, idx, distance_m, time_sec, avg_power, avg_hr, stroke_rate
		FROM splits
		WHERE workout_id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY workout_id, idx ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]Split)
	splits, err := scanSplits(rows)
	if err != nil {
		return nil, err
	}
	for _, sp := range splits {
		result[sp.WorkoutID] = append(result[sp.WorkoutID], sp)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkout(row rowScanner) (*Workout, error) {
	var w Workout
	var date, machine string
	var distance, duration, avgPower, avgHR, strokeRate sql.NullFloat64
	var splitsSynced int64

	err := row.Scan(
		&w.ID, &w.AthleteID, &date, &w.Sport, &machine, &distance, &duration,
		&avgPower, &avgHR, &strokeRate, &w.Comment, &splitsSynced,
	)
	if err != nil {
		return nil, err
	}

	w.Date, err = time.Parse(time.RFC3339, date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", date, err)
	}
	w.Machine = MachineType(machine)
	w.DistanceM = nullFloat64ToPtr(distance)
	w.DurationSec = nullFloat64ToPtr(duration)
	w.AvgPower = nullFloat64ToPtr(avgPower)
	w.AvgHR = nullFloat64ToPtr(avgHR)
	w.StrokeRate = nullFloat64ToPtr(strokeRate)
	w.SplitsSynced = splitsSynced == 1

	return &w, nil
}

func scanSplits(rows *sql.Rows) ([]Split, error) {
	var splits []Split
	for rows.Next() {
		var sp Split
		var avgPower, avgHR, strokeRate sql.NullFloat64
		if err := rows.Scan(&sp.WorkoutID, &sp.Idx, &sp.DistanceM, &sp.TimeSec, &avgPower, &avgHR, &strokeRate); err != nil {
			return nil, err
		}
		sp.AvgPower = nullFloat64ToPtr(avgPower)
		sp.AvgHR = nullFloat64ToPtr(avgHR)
		sp.StrokeRate = nullFloat64ToPtr(strokeRate)
		splits = append(splits, sp)
	}
	return splits, rows.Err()
}
