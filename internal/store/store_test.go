package store

import (
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenTest()
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func f(v float64) *float64 { return &v }

func TestWorkoutRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	date := time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC)
	w := &Workout{
		ID:          42,
		AthleteID:   7,
		Date:        date,
		Sport:       SportErg,
		Machine:     MachineRower,
		DistanceM:   f(2000),
		DurationSec: f(425.0),
		AvgPower:    f(291.8),
		AvgHR:       f(178),
		Comment:     "2k test",
	}
	if err := s.UpsertWorkout(ctx, w); err != nil {
		t.Fatalf("UpsertWorkout() error = %v", err)
	}

	got, err := s.GetWorkout(ctx, 42)
	if err != nil {
		t.Fatalf("GetWorkout() error = %v", err)
	}
	if !got.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", got.Date, date)
	}
	if got.Machine != MachineRower || got.Sport != SportErg {
		t.Errorf("classification = (%q, %q), want (erg, rower)", got.Sport, got.Machine)
	}
	if got.DurationSec == nil || *got.DurationSec != 425.0 {
		t.Errorf("DurationSec = %v, want 425.0", got.DurationSec)
	}
	if got.StrokeRate != nil {
		t.Errorf("StrokeRate = %v, want nil", *got.StrokeRate)
	}
	if got.SplitsSynced {
		t.Error("SplitsSynced = true, want false")
	}

	// Upsert with the same ID updates in place
	w.Comment = "revised"
	w.SplitsSynced = true
	if err := s.UpsertWorkout(ctx, w); err != nil {
		t.Fatalf("second UpsertWorkout() error = %v", err)
	}
	got, err = s.GetWorkout(ctx, 42)
	if err != nil {
		t.Fatalf("GetWorkout() after upsert error = %v", err)
	}
	if got.Comment != "revised" || !got.SplitsSynced {
		t.Errorf("after upsert: comment=%q synced=%v", got.Comment, got.SplitsSynced)
	}

	if count, err := s.CountWorkouts(ctx); err != nil || count != 1 {
		t.Errorf("CountWorkouts() = (%d, %v), want (1, nil)", count, err)
	}
}

func TestGetWorkout_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetWorkout(context.Background(), 999); err != ErrWorkoutNotFound {
		t.Errorf("GetWorkout(999) error = %v, want ErrWorkoutNotFound", err)
	}
}

func TestListWorkouts_FilterAndSplits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	insert := func(id int64, daysLater int, sport string, machine MachineType) {
		w := &Workout{ID: id, AthleteID: 1, Date: base.AddDate(0, 0, daysLater), Sport: sport, Machine: machine, DistanceM: f(5000), DurationSec: f(1200)}
		if err := s.UpsertWorkout(ctx, w); err != nil {
			t.Fatalf("inserting %d: %v", id, err)
		}
	}
	insert(1, 0, SportErg, MachineRower)
	insert(2, 10, SportErg, MachineBikeErg)
	insert(3, 20, SportOnWater, MachineNone)

	splits := []Split{
		{DistanceM: 2500, TimeSec: 600, AvgPower: f(210)},
		{DistanceM: 2500, TimeSec: 595},
	}
	if err := s.ReplaceSplits(ctx, 1, splits); err != nil {
		t.Fatalf("ReplaceSplits() error = %v", err)
	}

	// Sport filter
	ergs, err := s.ListWorkouts(ctx, WorkoutFilter{Sport: SportErg})
	if err != nil {
		t.Fatalf("ListWorkouts(erg) error = %v", err)
	}
	if len(ergs) != 2 {
		t.Fatalf("erg workouts = %d, want 2", len(ergs))
	}

	// Since filter is inclusive and ordering is ascending
	recent, err := s.ListWorkouts(ctx, WorkoutFilter{Since: base.AddDate(0, 0, 10)})
	if err != nil {
		t.Fatalf("ListWorkouts(since) error = %v", err)
	}
	if len(recent) != 2 || recent[0].ID != 2 || recent[1].ID != 3 {
		t.Errorf("since filter = %+v, want ids [2, 3] ascending", recent)
	}

	// Splits attach only when requested
	withSplits, err := s.ListWorkouts(ctx, WorkoutFilter{Machine: MachineRower, WithSplits: true})
	if err != nil {
		t.Fatalf("ListWorkouts(withSplits) error = %v", err)
	}
	if len(withSplits) != 1 {
		t.Fatalf("rower workouts = %d, want 1", len(withSplits))
	}
	if len(withSplits[0].Splits) != 2 {
		t.Fatalf("splits = %d, want 2", len(withSplits[0].Splits))
	}
	if withSplits[0].Splits[0].Idx != 0 || withSplits[0].Splits[1].Idx != 1 {
		t.Errorf("split order = %+v, want idx 0 then 1", withSplits[0].Splits)
	}
	if withSplits[0].Splits[1].AvgPower != nil {
		t.Errorf("split[1].AvgPower = %v, want nil", *withSplits[0].Splits[1].AvgPower)
	}

	plain, err := s.ListWorkouts(ctx, WorkoutFilter{Machine: MachineRower})
	if err != nil {
		t.Fatalf("ListWorkouts(plain) error = %v", err)
	}
	if len(plain[0].Splits) != 0 {
		t.Errorf("splits attached without WithSplits: %d", len(plain[0].Splits))
	}
}

func TestReplaceSplits_Replaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := &Workout{ID: 1, AthleteID: 1, Date: time.Now().UTC(), Sport: SportErg, Machine: MachineRower}
	if err := s.UpsertWorkout(ctx, w); err != nil {
		t.Fatal(err)
	}

	if err := s.ReplaceSplits(ctx, 1, []Split{{DistanceM: 500, TimeSec: 100}, {DistanceM: 500, TimeSec: 101}, {DistanceM: 500, TimeSec: 102}}); err != nil {
		t.Fatalf("first ReplaceSplits() error = %v", err)
	}
	if err := s.ReplaceSplits(ctx, 1, []Split{{DistanceM: 1000, TimeSec: 201}}); err != nil {
		t.Fatalf("second ReplaceSplits() error = %v", err)
	}

	got, err := s.GetSplits(ctx, 1)
	if err != nil {
		t.Fatalf("GetSplits() error = %v", err)
	}
	if len(got) != 1 || got[0].DistanceM != 1000 {
		t.Errorf("splits = %+v, want the single replacement row", got)
	}
}

func TestSplitsCascadeOnForeignKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Splits for an unknown workout violate the foreign key
	if err := s.ReplaceSplits(ctx, 99, []Split{{DistanceM: 500, TimeSec: 100}}); err == nil {
		t.Error("ReplaceSplits(unknown workout) = nil error, want FK violation")
	}
}

func TestMarkSplitsSynced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := &Workout{ID: 5, AthleteID: 1, Date: time.Now().UTC(), Sport: SportErg, Machine: MachineRower}
	if err := s.UpsertWorkout(ctx, w); err != nil {
		t.Fatal(err)
	}

	pending, err := s.GetWorkoutsNeedingSplits(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("GetWorkoutsNeedingSplits() = (%d, %v), want 1 pending", len(pending), err)
	}

	if err := s.MarkSplitsSynced(ctx, 5); err != nil {
		t.Fatalf("MarkSplitsSynced() error = %v", err)
	}
	pending, err = s.GetWorkoutsNeedingSplits(ctx, 10)
	if err != nil || len(pending) != 0 {
		t.Errorf("after mark: %d pending, want 0", len(pending))
	}

	if err := s.MarkSplitsSynced(ctx, 999); err != ErrWorkoutNotFound {
		t.Errorf("MarkSplitsSynced(999) error = %v, want ErrWorkoutNotFound", err)
	}
}

func TestAthleteRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetAthlete(ctx); err != ErrNoAthlete {
		t.Errorf("GetAthlete() on empty store error = %v, want ErrNoAthlete", err)
	}

	year := 2001
	a := &Athlete{ID: 7, Name: "Sam Carver", BirthYear: &year, MaxHR: f(193)}
	if err := s.SaveAthlete(ctx, a); err != nil {
		t.Fatalf("SaveAthlete() error = %v", err)
	}

	got, err := s.GetAthlete(ctx)
	if err != nil {
		t.Fatalf("GetAthlete() error = %v", err)
	}
	if got.ID != 7 || got.Name != "Sam Carver" {
		t.Errorf("athlete = %+v", got)
	}
	if got.BirthYear == nil || *got.BirthYear != 2001 {
		t.Errorf("BirthYear = %v, want 2001", got.BirthYear)
	}
	if got.FTP != nil {
		t.Errorf("FTP = %v, want nil", *got.FTP)
	}

	// Save again with new values updates the row
	a.FTP = f(255)
	if err := s.SaveAthlete(ctx, a); err != nil {
		t.Fatalf("second SaveAthlete() error = %v", err)
	}
	got, _ = s.GetAthlete(ctx)
	if got.FTP == nil || *got.FTP != 255 {
		t.Errorf("FTP after update = %v, want 255", got.FTP)
	}
}

func TestAuthRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetAuth(ctx); err != ErrNoAuth {
		t.Errorf("GetAuth() on empty store error = %v, want ErrNoAuth", err)
	}

	expires := time.Now().Add(6 * time.Hour).Truncate(time.Second)
	auth := &Auth{UserID: 7, AccessToken: "at1", RefreshToken: "rt1", ExpiresAt: expires}
	if err := s.SaveAuth(ctx, auth); err != nil {
		t.Fatalf("SaveAuth() error = %v", err)
	}

	got, err := s.GetAuth(ctx)
	if err != nil {
		t.Fatalf("GetAuth() error = %v", err)
	}
	if got.AccessToken != "at1" || got.RefreshToken != "rt1" {
		t.Errorf("tokens = (%q, %q)", got.AccessToken, got.RefreshToken)
	}
	if !got.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, expires)
	}

	later := expires.Add(6 * time.Hour)
	if err := s.UpdateTokens(ctx, "at2", "rt2", later); err != nil {
		t.Fatalf("UpdateTokens() error = %v", err)
	}
	got, _ = s.GetAuth(ctx)
	if got.AccessToken != "at2" || !got.ExpiresAt.Equal(later) {
		t.Errorf("after update: token=%q expires=%v", got.AccessToken, got.ExpiresAt)
	}
}

func TestErgTestsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 11, 1, 8, 0, 0, 0, time.UTC)
	for _, tst := range []*ErgTest{
		{AthleteID: 1, Date: d1, DistanceM: 2000, TimeSec: 428.1},
		{AthleteID: 1, Date: d2, DistanceM: 6000, TimeSec: 1405.2},
	} {
		if err := s.InsertErgTest(ctx, tst); err != nil {
			t.Fatalf("InsertErgTest() error = %v", err)
		}
	}

	tests, err := s.ListErgTests(ctx)
	if err != nil {
		t.Fatalf("ListErgTests() error = %v", err)
	}
	if len(tests) != 2 {
		t.Fatalf("got %d tests, want 2", len(tests))
	}
	// Ascending by date: the 2023 row first
	if !tests[0].Date.Equal(d2) || tests[0].DistanceM != 6000 {
		t.Errorf("tests[0] = %+v, want the 2023 6k", tests[0])
	}
}

func TestSyncState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetSyncState(ctx, "last_result_sync")
	if err != nil || got != "" {
		t.Errorf("missing key = (%q, %v), want empty", got, err)
	}

	if err := s.SetSyncState(ctx, "last_result_sync", "2026-03-14T00:00:00Z"); err != nil {
		t.Fatalf("SetSyncState() error = %v", err)
	}
	if err := s.SetSyncState(ctx, "last_result_sync", "2026-03-15T00:00:00Z"); err != nil {
		t.Fatalf("second SetSyncState() error = %v", err)
	}

	got, err = s.GetSyncState(ctx, "last_result_sync")
	if err != nil || got != "2026-03-15T00:00:00Z" {
		t.Errorf("GetSyncState() = (%q, %v), want the overwritten value", got, err)
	}
}

func TestWorkoutDates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		w := &Workout{ID: int64(i + 1), AthleteID: 1, Date: base.AddDate(0, 0, i), Sport: SportErg, Machine: MachineRower}
		if err := s.UpsertWorkout(ctx, w); err != nil {
			t.Fatal(err)
		}
	}

	dates, err := s.WorkoutDates(ctx)
	if err != nil {
		t.Fatalf("WorkoutDates() error = %v", err)
	}
	if len(dates) != 3 {
		t.Fatalf("got %d dates, want 3", len(dates))
	}
	if !dates[0].Equal(base) || !dates[2].Equal(base.AddDate(0, 0, 2)) {
		t.Errorf("dates = %v, want ascending from %v", dates, base)
	}
}
