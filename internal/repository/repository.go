package repository

import (
	"context"

	"alcyxob/greensteps-app/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ProfileRepository persists the single-user profile state: the step goal,
// the lifetime GreenPoints total and the set of earned badge ids.
//
// The badge set and the points total are append-only / increment-only:
// a badge id is never removed once earned and points are never decremented.
type ProfileRepository interface {
	GetProfile(ctx context.Context) (*domain.Profile, error)
	SaveStepGoal(ctx context.Context, goal int) error
	GetStepGoal(ctx context.Context) (int, error)
	GetEarnedBadgeIDs(ctx context.Context) ([]string, error)
	AddEarnedBadges(ctx context.Context, ids []string) error
	GetGreenPoints(ctx context.Context) (int, error)
	// AddGreenPoints atomically increments the lifetime total and returns the
	// new value.
	AddGreenPoints(ctx context.Context, delta int) (int, error)
}

// DailyStatsRepository persists per-day aggregates keyed by ISO date.
type DailyStatsRepository interface {
	// Upsert overwrites the record for stats.Date (insert when absent).
	Upsert(ctx context.Context, stats domain.DailyStats) error
	GetByDate(ctx context.Context, date string) (*domain.DailyStats, error)
	// GetRange returns the records with from <= date <= to, ascending by date.
	// Days with no record are simply absent from the result.
	GetRange(ctx context.Context, from, to string) ([]domain.DailyStats, error)
}
