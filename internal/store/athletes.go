package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetAthlete retrieves the stored athlete profile.
func (s *Store) GetAthlete(ctx context.Context) (*Athlete, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, birth_year, max_hr, threshold_hr, ftp, updated_at
		FROM athletes
		LIMIT 1
	`)

	var a Athlete
	var birthYear sql.NullInt64
	var maxHR, thresholdHR, ftp sql.NullFloat64
	var updatedAt string

	err := row.Scan(&a.ID, &a.Name, &birthYear, &maxHR, &thresholdHR, &ftp, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAthlete
	}
	if err != nil {
		return nil, err
	}

	a.BirthYear = nullInt64ToIntPtr(birthYear)
	a.MaxHR = nullFloat64ToPtr(maxHR)
	a.ThresholdHR = nullFloat64ToPtr(thresholdHR)
	a.FTP = nullFloat64ToPtr(ftp)
	a.UpdatedAt, err = time.Parse("2006-01-02 15:04:05", updatedAt)
	if err != nil {
		// updated_at may also be RFC3339 when written by SaveAthlete
		a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
		}
	}

	return &a, nil
}

// SaveAthlete stores or updates the athlete profile.
func (s *Store) SaveAthlete(ctx context.Context, a *Athlete) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO athletes (id, name, birth_year, max_hr, threshold_hr, ftp, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			birth_year = excluded.birth_year,
			max_hr = excluded.max_hr,
			threshold_hr = excluded.threshold_hr,
			ftp = excluded.ftp,
			updated_at = excluded.updated_at
	`, a.ID, a.Name, ptrToNullInt64(a.BirthYear), ptrToNullFloat64(a.MaxHR),
		ptrToNullFloat64(a.ThresholdHR), ptrToNullFloat64(a.FTP),
		time.Now().UTC().Format(time.RFC3339))
	return err
}
