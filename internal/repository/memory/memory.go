// Package memory provides in-process implementations of the repository
// interfaces. They back the server when no database is reachable (the app
// degrades rather than refusing to start) and double as test fixtures.
package memory

import (
	"context"
	"sort"
	"sync"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/repository"
)

// ProfileRepository is a thread-safe in-memory repository.ProfileRepository.
type ProfileRepository struct {
	mu      sync.Mutex
	profile domain.Profile
	earned  map[string]bool
}

// NewProfileRepository returns an empty in-memory profile store.
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{earned: make(map[string]bool)}
}

func (r *ProfileRepository) GetProfile(ctx context.Context) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profile
	p.BadgeIDs = r.earnedIDs()
	return &p, nil
}

func (r *ProfileRepository) SaveStepGoal(ctx context.Context, goal int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile.StepGoal = goal
	return nil
}

func (r *ProfileRepository) GetStepGoal(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile.StepGoal, nil
}

func (r *ProfileRepository) GetEarnedBadgeIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.earnedIDs(), nil
}

func (r *ProfileRepository) AddEarnedBadges(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.earned[id] = true
	}
	return nil
}

func (r *ProfileRepository) GetGreenPoints(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile.GreenPoints, nil
}

func (r *ProfileRepository) AddGreenPoints(ctx context.Context, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile.GreenPoints += delta
	return r.profile.GreenPoints, nil
}

// earnedIDs returns the earned set in a stable order. Callers hold r.mu.
func (r *ProfileRepository) earnedIDs() []string {
	ids := make([]string, 0, len(r.earned))
	for id := range r.earned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DailyStatsRepository is a thread-safe in-memory repository.DailyStatsRepository.
type DailyStatsRepository struct {
	mu    sync.Mutex
	byDay map[string]domain.DailyStats
}

// NewDailyStatsRepository returns an empty in-memory daily stats store.
func NewDailyStatsRepository() *DailyStatsRepository {
	return &DailyStatsRepository{byDay: make(map[string]domain.DailyStats)}
}

func (r *DailyStatsRepository) Upsert(ctx context.Context, stats domain.DailyStats) error {
	if stats.Date == "" {
		return repository.ErrUpdateFailed
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byDay[stats.Date] = stats
	return nil
}

func (r *DailyStatsRepository) GetByDate(ctx context.Context, date string) (*domain.DailyStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.byDay[date]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stats, nil
}

func (r *DailyStatsRepository) GetRange(ctx context.Context, from, to string) ([]domain.DailyStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.DailyStats{}
	for date, stats := range r.byDay {
		if date >= from && date <= to {
			result = append(result, stats)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}
