package progress

import (
	"context"
	"errors"
	"log"
	"time"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/metrics"
	"alcyxob/greensteps-app/internal/repository"
)

// WeeklySummary aggregates the last seven days for the dashboard.
type WeeklySummary struct {
	Days         []domain.DailyStats `json:"days"` // oldest first, zero-filled
	TotalSteps   int                 `json:"totalSteps"`
	TotalCO2     int                 `json:"totalCo2"`
	TotalPoints  int                 `json:"totalPoints"`
	AverageSteps float64             `json:"averageSteps"`
}

// Tracker maintains the per-day aggregate records.
type Tracker interface {
	// UpdateDailyProgress overwrites today's record with values derived from
	// stepCount. stepCount must be the day's cumulative total, not a delta;
	// passing a delta corrupts the day's record.
	UpdateDailyProgress(ctx context.Context, stepCount int) (domain.DailyStats, error)

	// TodayStats returns today's record, zero-valued when no update has
	// happened yet today.
	TodayStats(ctx context.Context) (domain.DailyStats, error)

	// WeeklyStats returns the last 7 days (today included), oldest first,
	// with missing days filled in as zero records.
	WeeklyStats(ctx context.Context) (WeeklySummary, error)

	// StreakDays counts the consecutive days, ending today, on which the
	// step count met or exceeded goal. A goal of 0 always yields 0.
	StreakDays(ctx context.Context, goal int) (int, error)
}

// tracker implements Tracker on top of a DailyStatsRepository.
type tracker struct {
	statsRepo repository.DailyStatsRepository
	now       func() time.Time
}

// NewTracker creates a daily progress tracker.
func NewTracker(statsRepo repository.DailyStatsRepository) Tracker {
	return &tracker{statsRepo: statsRepo, now: time.Now}
}

// newTrackerAt is like NewTracker with an injectable clock, for tests.
func newTrackerAt(statsRepo repository.DailyStatsRepository, now func() time.Time) Tracker {
	return &tracker{statsRepo: statsRepo, now: now}
}

// DateKey formats a time as the ISO date key used throughout persistence.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (t *tracker) UpdateDailyProgress(ctx context.Context, stepCount int) (domain.DailyStats, error) {
	if stepCount < 0 {
		stepCount = 0
	}
	co2Saved := metrics.CO2SavedGrams(stepCount)
	stats := domain.DailyStats{
		Date:        DateKey(t.now()),
		Steps:       stepCount,
		CO2Saved:    co2Saved,
		Distance:    metrics.DistanceKm(stepCount),
		GreenPoints: metrics.GreenPoints(stepCount, co2Saved),
	}

	if err := t.statsRepo.Upsert(ctx, stats); err != nil {
		log.Printf("ERROR: Failed to save daily stats: %v", err)
		return stats, err
	}
	return stats, nil
}

func (t *tracker) TodayStats(ctx context.Context) (domain.DailyStats, error) {
	today := DateKey(t.now())
	stats, err := t.statsRepo.GetByDate(ctx, today)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.DailyStats{Date: today}, nil
		}
		log.Printf("ERROR: Failed to fetch today's stats: %v", err)
		return domain.DailyStats{Date: today}, nil
	}
	return *stats, nil
}

func (t *tracker) WeeklyStats(ctx context.Context) (WeeklySummary, error) {
	now := t.now()
	from := DateKey(now.AddDate(0, 0, -6))
	to := DateKey(now)

	stored, err := t.statsRepo.GetRange(ctx, from, to)
	if err != nil {
		log.Printf("ERROR: Failed to fetch weekly stats: %v", err)
		stored = nil
	}
	byDate := make(map[string]domain.DailyStats, len(stored))
	for _, s := range stored {
		byDate[s.Date] = s
	}

	summary := WeeklySummary{Days: make([]domain.DailyStats, 0, 7)}
	for i := 6; i >= 0; i-- {
		date := DateKey(now.AddDate(0, 0, -i))
		day, ok := byDate[date]
		if !ok {
			day = domain.DailyStats{Date: date}
		}
		summary.Days = append(summary.Days, day)
		summary.TotalSteps += day.Steps
		summary.TotalCO2 += day.CO2Saved
		summary.TotalPoints += day.GreenPoints
	}
	summary.AverageSteps = float64(summary.TotalSteps) / 7
	return summary, nil
}

func (t *tracker) StreakDays(ctx context.Context, goal int) (int, error) {
	if goal <= 0 {
		return 0, nil
	}
	now := t.now()
	// A streak cannot be longer than the stored history window we scan.
	const lookback = 60
	from := DateKey(now.AddDate(0, 0, -(lookback - 1)))
	stored, err := t.statsRepo.GetRange(ctx, from, DateKey(now))
	if err != nil {
		log.Printf("ERROR: Failed to fetch stats for streak: %v", err)
		return 0, nil
	}
	byDate := make(map[string]domain.DailyStats, len(stored))
	for _, s := range stored {
		byDate[s.Date] = s
	}

	streak := 0
	for i := 0; i < lookback; i++ {
		date := DateKey(now.AddDate(0, 0, -i))
		day, ok := byDate[date]
		if !ok || day.Steps < goal {
			break
		}
		streak++
	}
	return streak, nil
}
