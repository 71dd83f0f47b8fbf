package service

import (
	"context"
	"testing"
	"time"

	"github.com/swdrow/RowLab-sub010/internal/config"
	"github.com/swdrow/RowLab-sub010/internal/store"
)

func testAnalytics(t *testing.T) (*AnalyticsService, *store.Store) {
	t.Helper()
	s, err := store.OpenTest()
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	cfg := &config.Config{
		Athlete: config.AthleteConfig{MaxHR: 190, ThresholdHR: 169, FTP: 250},
	}
	return NewAnalyticsService(s, cfg), s
}

func insertErg(t *testing.T, s *store.Store, id int64, date time.Time, distance, duration float64) {
	t.Helper()
	w := &store.Workout{
		ID:          id,
		AthleteID:   1,
		Date:        date,
		Sport:       store.SportErg,
		Machine:     store.MachineRower,
		DistanceM:   &distance,
		DurationSec: &duration,
	}
	if err := s.UpsertWorkout(context.Background(), w); err != nil {
		t.Fatalf("inserting workout %d: %v", id, err)
	}
}

func TestAnalyticsService_GetPMC(t *testing.T) {
	svc, s := testAnalytics(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		insertErg(t, s, int64(i+1), now.AddDate(0, 0, -i), 8000, 1800)
	}

	data, err := svc.GetPMC(ctx, "30d", "")
	if err != nil {
		t.Fatalf("GetPMC() error = %v", err)
	}
	if data.Result.DaysWithData != 10 {
		t.Errorf("DaysWithData = %d, want 10", data.Result.DaysWithData)
	}
	if data.Result.CurrentCTL <= 0 {
		t.Errorf("CurrentCTL = %v, want > 0", data.Result.CurrentCTL)
	}
	if data.Settings.FTP != 250 {
		t.Errorf("Settings.FTP = %v, want 250 from config", data.Settings.FTP)
	}
}

func TestAnalyticsService_GetPMC_UnknownRange(t *testing.T) {
	svc, _ := testAnalytics(t)
	if _, err := svc.GetPMC(context.Background(), "1y", ""); err == nil {
		t.Error("GetPMC(\"1y\") = nil error, want unknown range")
	}
}

func TestAnalyticsService_GetPMC_EmptyStore(t *testing.T) {
	svc, _ := testAnalytics(t)
	data, err := svc.GetPMC(context.Background(), "90d", "")
	if err != nil {
		t.Fatalf("GetPMC() error = %v", err)
	}
	if len(data.Result.Points) != 0 || data.Result.CurrentCTL != 0 {
		t.Errorf("empty store: got %d points, CTL %v; want zero result", len(data.Result.Points), data.Result.CurrentCTL)
	}
}

func TestAnalyticsService_GetPersonalRecords(t *testing.T) {
	svc, s := testAnalytics(t)
	ctx := context.Background()

	d := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	insertErg(t, s, 1, d, 2000, 425.0)
	insertErg(t, s, 2, d.AddDate(0, 0, -30), 2000, 432.5)

	legacy := &store.ErgTest{AthleteID: 1, Date: d.AddDate(0, -6, 0), DistanceM: 6000, TimeSec: 1405.2}
	if err := s.InsertErgTest(ctx, legacy); err != nil {
		t.Fatalf("inserting legacy test: %v", err)
	}

	ledger, err := svc.GetPersonalRecords(ctx)
	if err != nil {
		t.Fatalf("GetPersonalRecords() error = %v", err)
	}

	rower := ledger[store.MachineRower]
	var found2k, found6k bool
	for _, e := range rower {
		switch e.Label {
		case "2k":
			found2k = true
			if e.Best == nil || e.Best.TimeSec != 425.0 {
				t.Errorf("2k best = %+v, want 425.0", e.Best)
			}
		case "6k":
			found6k = true
			if e.Best == nil || e.Best.TimeSec != 1405.2 {
				t.Errorf("6k best = %+v, want legacy 1405.2", e.Best)
			}
		}
	}
	if !found2k || !found6k {
		t.Errorf("ledger missing entries: found2k=%v found6k=%v", found2k, found6k)
	}
}

func TestAnalyticsService_GetTrainingStreak(t *testing.T) {
	svc, s := testAnalytics(t)
	ctx := context.Background()

	now := time.Now().UTC()
	insertErg(t, s, 1, now, 8000, 1800)
	insertErg(t, s, 2, now.AddDate(0, 0, -1), 8000, 1800)

	streak, err := svc.GetTrainingStreak(ctx)
	if err != nil {
		t.Fatalf("GetTrainingStreak() error = %v", err)
	}
	if streak.Current != 2 {
		t.Errorf("Current = %d, want 2", streak.Current)
	}
	if streak.LastActivityDate == nil {
		t.Error("LastActivityDate = nil, want today")
	}
}
