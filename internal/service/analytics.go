package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/swdrow/RowLab-sub010/internal/analysis"
	"github.com/swdrow/RowLab-sub010/internal/config"
	"github.com/swdrow/RowLab-sub010/internal/store"
)

// AnalyticsService answers the read-side queries the UI renders: the
// performance management chart, insights, the PR ledger and streaks.
type AnalyticsService struct {
	store *store.Store
	cfg   *config.Config
}

// NewAnalyticsService creates an analytics service
func NewAnalyticsService(s *store.Store, cfg *config.Config) *AnalyticsService {
	return &AnalyticsService{store: s, cfg: cfg}
}

// PMCData bundles a computed chart with the settings that produced it.
type PMCData struct {
	Result   analysis.PMCResult
	Settings analysis.Settings
	Range    string
	Sport    string
}

// GetPMC computes the performance management chart for a named range
// ("30d", "90d", "180d", "all") and optional sport filter.
func (a *AnalyticsService) GetPMC(ctx context.Context, rangeName, sport string) (*PMCData, error) {
	days, ok := RangeDays[rangeName]
	if !ok {
		return nil, fmt.Errorf("unknown range %q", rangeName)
	}

	workouts, athlete, err := a.fetchTrainingData(ctx, days)
	if err != nil {
		return nil, err
	}

	settings := SettingsFromProfile(a.cfg, athlete)
	result := analysis.ComputePMC(workouts, settings, days, sport)

	return &PMCData{
		Result:   result,
		Settings: settings,
		Range:    rangeName,
		Sport:    sport,
	}, nil
}

// GetInsights computes the chart for the range and derives insights from it
func (a *AnalyticsService) GetInsights(ctx context.Context, rangeName, sport string) ([]analysis.Insight, error) {
	data, err := a.GetPMC(ctx, rangeName, sport)
	if err != nil {
		return nil, err
	}
	return analysis.DeriveInsights(data.Result, data.Settings), nil
}

// GetPersonalRecords builds the per-machine PR ledger from erg workouts
// (with their splits) and the legacy erg test table.
func (a *AnalyticsService) GetPersonalRecords(ctx context.Context) (map[store.MachineType][]analysis.RecordEntry, error) {
	var workouts []store.Workout
	var legacy []store.ErgTest

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		workouts, err = a.store.ListWorkouts(ctx, store.WorkoutFilter{
			Sport:      store.SportErg,
			WithSplits: true,
		})
		if err != nil {
			return fmt.Errorf("loading erg workouts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		legacy, err = a.store.ListErgTests(ctx)
		if err != nil {
			return fmt.Errorf("loading legacy erg tests: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return analysis.BuildPRLedger(workouts, legacy), nil
}

// GetTrainingStreak computes current and longest consecutive-day streaks
func (a *AnalyticsService) GetTrainingStreak(ctx context.Context) (analysis.Streak, error) {
	dates, err := a.store.WorkoutDates(ctx)
	if err != nil {
		return analysis.Streak{}, fmt.Errorf("loading workout dates: %w", err)
	}
	return analysis.CalculateStreak(dates), nil
}

// fetchTrainingData loads workouts and the athlete profile concurrently.
// days <= 0 loads all history; otherwise the window is extended by the
// EMA warm-up so the chart is converged at its left edge.
func (a *AnalyticsService) fetchTrainingData(ctx context.Context, days int) ([]store.Workout, *store.Athlete, error) {
	var workouts []store.Workout
	var athlete *store.Athlete

	filter := store.WorkoutFilter{}
	if days > 0 {
		filter.Since = time.Now().UTC().AddDate(0, 0, -(days + analysis.WarmupDays))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		workouts, err = a.store.ListWorkouts(ctx, filter)
		if err != nil {
			return fmt.Errorf("loading workouts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		athlete, err = a.store.GetAthlete(ctx)
		if err != nil && err != store.ErrNoAthlete {
			return fmt.Errorf("loading athlete: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return workouts, athlete, nil
}
