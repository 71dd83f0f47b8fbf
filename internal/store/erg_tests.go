package store

import (
	"context"
	"time"
)

// ListErgTests retrieves all legacy erg test rows, ordered by date ascending.
func (s *Store) ListErgTests(ctx context.Context) ([]ErgTest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, athlete_id, date, distance_m, time_sec
		FROM erg_tests
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []ErgTest
	for rows.Next() {
		var t ErgTest
		var date string
		if err := rows.Scan(&t.ID, &t.AthleteID, &date, &t.DistanceM, &t.TimeSec); err != nil {
			return nil, err
		}
		t.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// InsertErgTest adds a legacy erg test row. Exists for imports and tests;
// new results should be recorded as workouts.
func (s *Store) InsertErgTest(ctx context.Context, t *ErgTest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO erg_tests (athlete_id, date, distance_m, time_sec)
		VALUES (?, ?, ?, ?)
	`, t.AthleteID, t.Date.UTC().Format(time.RFC3339), t.DistanceM, t.TimeSec)
	return err
}
