package service

import (
	"context"
	"fmt"
	"time"

	"github.com/swdrow/RowLab-sub010/internal/logbook"
	"github.com/swdrow/RowLab-sub010/internal/store"
)

const lastResultSyncKey = "last_result_sync"

// SyncService pulls the athlete profile, results and split detail from the
// logbook into the local store.
type SyncService struct {
	client *logbook.Client
	store  *store.Store
}

// NewSyncService creates a sync service
func NewSyncService(client *logbook.Client, s *store.Store) *SyncService {
	return &SyncService{client: client, store: s}
}

// RateLimitStatus reports the remaining API requests in the current window
func (s *SyncService) RateLimitStatus() int {
	return s.client.RateLimitStatus()
}

// SyncProgress reports sync progress for UI display
type SyncProgress struct {
	Phase     string // "profile", "results", "splits"
	Total     int
	Completed int
	Current   string
	Error     error
}

// SyncResult summarizes a completed sync
type SyncResult struct {
	ProfileSynced  bool
	ResultsFetched int
	SplitsSynced   int
	SplitsFailed   int
	Duration       time.Duration
	Errors         []string
}

// SyncAll runs a full incremental sync: profile, then new results, then
// split detail for workouts that still need it. Progress updates are sent
// to onProgress if non-nil.
func (s *SyncService) SyncAll(ctx context.Context, onProgress func(SyncProgress)) (*SyncResult, error) {
	start := time.Now()
	result := &SyncResult{}

	report := func(p SyncProgress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	// Phase 1: athlete profile
	report(SyncProgress{Phase: "profile"})
	if err := s.syncProfile(ctx); err != nil {
		// Not fatal; results can still sync
		result.Errors = append(result.Errors, fmt.Sprintf("profile: %v", err))
	} else {
		result.ProfileSynced = true
	}

	// Phase 2: results updated since the last sync watermark
	report(SyncProgress{Phase: "results"})
	fetched, err := s.syncResults(ctx, report)
	result.ResultsFetched = fetched
	if err != nil {
		return result, fmt.Errorf("syncing results: %w", err)
	}

	// Phase 3: split detail backfill
	synced, failed, errs := s.syncSplits(ctx, report)
	result.SplitsSynced = synced
	result.SplitsFailed = failed
	result.Errors = append(result.Errors, errs...)

	result.Duration = time.Since(start)
	return result, nil
}

func (s *SyncService) syncProfile(ctx context.Context) error {
	user, err := s.client.GetUser(ctx)
	if err != nil {
		return err
	}

	athlete := &store.Athlete{
		ID:   user.ID,
		Name: user.Name(),
	}
	if year := user.BirthYear(); year > 0 {
		athlete.BirthYear = &year
	}
	if user.MaxHR != nil && *user.MaxHR > 0 {
		hr := float64(*user.MaxHR)
		athlete.MaxHR = &hr
	}

	return s.store.SaveAthlete(ctx, athlete)
}

func (s *SyncService) syncResults(ctx context.Context, report func(SyncProgress)) (int, error) {
	after, err := s.lastSyncTime(ctx)
	if err != nil {
		return 0, err
	}

	results, err := s.client.GetAllResults(ctx, after, func(fetched int) {
		report(SyncProgress{Phase: "results", Completed: fetched})
	})
	if err != nil {
		return 0, err
	}

	for _, r := range results {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		w, err := resultToWorkout(r)
		if err != nil {
			report(SyncProgress{Phase: "results", Error: err})
			continue
		}
		if err := s.store.UpsertWorkout(ctx, w); err != nil {
			return 0, fmt.Errorf("saving result %d: %w", r.ID, err)
		}
	}

	if err := s.store.SetSyncState(ctx, lastResultSyncKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("updating sync watermark: %w", err)
	}

	return len(results), nil
}

func (s *SyncService) syncSplits(ctx context.Context, report func(SyncProgress)) (synced, failed int, errs []string) {
	pending, err := s.store.GetWorkoutsNeedingSplits(ctx, splitSyncBatch)
	if err != nil {
		return 0, 0, []string{fmt.Sprintf("listing pending splits: %v", err)}
	}

	for i, w := range pending {
		select {
		case <-ctx.Done():
			errs = append(errs, ctx.Err().Error())
			return synced, failed, errs
		default:
		}

		report(SyncProgress{
			Phase:     "splits",
			Total:     len(pending),
			Completed: i,
			Current:   fmt.Sprintf("workout %d", w.ID),
		})

		detail, err := s.client.GetResult(ctx, w.ID)
		if err != nil {
			failed++
			errs = append(errs, fmt.Sprintf("workout %d: %v", w.ID, err))
			continue
		}

		splits := detailSplits(detail)
		if err := s.store.ReplaceSplits(ctx, w.ID, splits); err != nil {
			failed++
			errs = append(errs, fmt.Sprintf("workout %d: %v", w.ID, err))
			continue
		}
		if err := s.store.MarkSplitsSynced(ctx, w.ID); err != nil {
			failed++
			errs = append(errs, fmt.Sprintf("workout %d: %v", w.ID, err))
			continue
		}
		synced++
	}

	return synced, failed, errs
}

func (s *SyncService) lastSyncTime(ctx context.Context) (time.Time, error) {
	raw, err := s.store.GetSyncState(ctx, lastResultSyncKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading sync watermark: %w", err)
	}
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Corrupt watermark: fall back to a full sync
		return time.Time{}, nil
	}
	return t, nil
}

// resultToWorkout maps a logbook result to a local workout row
func resultToWorkout(r logbook.Result) (*store.Workout, error) {
	date, err := r.ParsedDate()
	if err != nil {
		return nil, err
	}

	sport, machine := classifyResult(r.Type)

	w := &store.Workout{
		ID:        r.ID,
		AthleteID: r.UserID,
		Date:      date,
		Sport:     sport,
		Machine:   machine,
		Comment:   r.Comments,
	}

	if r.Distance > 0 {
		d := r.Distance
		w.DistanceM = &d
	}
	if r.Time > 0 {
		sec := r.TimeSeconds()
		w.DurationSec = &sec
	}
	if sport == store.SportErg {
		w.AvgPower = r.AvgWatts()
	}
	if r.HeartRate != nil && r.HeartRate.Average != nil && *r.HeartRate.Average > 0 {
		hr := *r.HeartRate.Average
		w.AvgHR = &hr
	}
	if r.StrokeRate != nil && *r.StrokeRate > 0 {
		sr := *r.StrokeRate
		w.StrokeRate = &sr
	}

	return w, nil
}

// classifyResult maps a logbook result type to our sport and machine tags
func classifyResult(resultType string) (sport string, machine store.MachineType) {
	switch resultType {
	case "rower", "dynamic", "slides", "multierg":
		return store.SportErg, store.MachineRower
	case "skierg":
		return store.SportErg, store.MachineSkiErg
	case "bike":
		return store.SportErg, store.MachineBikeErg
	case "water", "paddle":
		return store.SportOnWater, store.MachineNone
	case "snow", "rollerski":
		return store.SportCardio, store.MachineNone
	default:
		return store.SportOther, store.MachineNone
	}
}

// detailSplits flattens a result detail into ordered split rows. The
// logbook reports either distance splits or intervals; intervals win when
// both are present because they carry rest boundaries.
func detailSplits(r *logbook.Result) []store.Split {
	if r.Workout == nil {
		return nil
	}

	raw := r.Workout.Splits
	if len(r.Workout.Intervals) > 0 {
		raw = r.Workout.Intervals
	}

	splits := make([]store.Split, 0, len(raw))
	for i, s := range raw {
		split := store.Split{
			WorkoutID: r.ID,
			Idx:       i,
			DistanceM: s.Distance,
			TimeSec:   s.Time / 10, // wire time is in tenths
		}
		if s.Watts != nil && *s.Watts > 0 {
			w := *s.Watts
			split.AvgPower = &w
		}
		if s.HeartRate != nil && s.HeartRate.Average != nil && *s.HeartRate.Average > 0 {
			hr := *s.HeartRate.Average
			split.AvgHR = &hr
		}
		if s.StrokeRate != nil && *s.StrokeRate > 0 {
			sr := *s.StrokeRate
			split.StrokeRate = &sr
		}
		splits = append(splits, split)
	}

	return splits
}
