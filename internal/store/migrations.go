package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Athlete profile (singleton row)
		`CREATE TABLE IF NOT EXISTS athletes (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			birth_year INTEGER,
			max_hr REAL,
			threshold_hr REAL,
			ftp REAL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Workouts (summary data per session)
		`CREATE TABLE IF NOT EXISTS workouts (
			id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			sport TEXT NOT NULL,
			machine TEXT NOT NULL DEFAULT '',
			distance_m REAL,
			duration_sec REAL,
			avg_power REAL,
			avg_hr REAL,
			stroke_rate REAL,
			comment TEXT NOT NULL DEFAULT '',
			splits_synced INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_sport ON workouts(sport)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_machine ON workouts(machine)`,

		// Splits (per-interval data within a workout)
		`CREATE TABLE IF NOT EXISTS splits (
			workout_id INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			distance_m REAL NOT NULL,
			time_sec REAL NOT NULL,
			avg_power REAL,
			avg_hr REAL,
			stroke_rate REAL,
			PRIMARY KEY (workout_id, idx),
			FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_splits_workout ON splits(workout_id)`,

		// Legacy erg test table. Kept read-only for the PR ledger; new
		// results land in workouts.
		`CREATE TABLE IF NOT EXISTS erg_tests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			athlete_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			distance_m REAL NOT NULL,
			time_sec REAL NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_erg_tests_athlete ON erg_tests(athlete_id)`,

		// Key/value sync bookkeeping
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
