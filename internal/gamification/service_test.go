package gamification

import (
	"context"
	"strings"
	"testing"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/progress"
	"alcyxob/greensteps-app/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTracker satisfies progress.Tracker with overridable behavior.
type fakeTracker struct {
	todayFn  func(context.Context) (domain.DailyStats, error)
	streakFn func(context.Context, int) (int, error)
}

func (f *fakeTracker) UpdateDailyProgress(ctx context.Context, stepCount int) (domain.DailyStats, error) {
	return domain.DailyStats{Steps: stepCount}, nil
}

func (f *fakeTracker) TodayStats(ctx context.Context) (domain.DailyStats, error) {
	if f.todayFn != nil {
		return f.todayFn(ctx)
	}
	return domain.DailyStats{}, nil
}

func (f *fakeTracker) WeeklyStats(ctx context.Context) (progress.WeeklySummary, error) {
	return progress.WeeklySummary{}, nil
}

func (f *fakeTracker) StreakDays(ctx context.Context, goal int) (int, error) {
	if f.streakFn != nil {
		return f.streakFn(ctx, goal)
	}
	return 0, nil
}

func newTestService() (Service, *memory.ProfileRepository, *fakeTracker) {
	profileRepo := memory.NewProfileRepository()
	tracker := &fakeTracker{}
	return NewService(profileRepo, tracker), profileRepo, tracker
}

func TestFirstStepsBadgeAward(t *testing.T) {
	svc, profileRepo, _ := newTestService()
	ctx := context.Background()

	badges, err := svc.CheckAndAwardBadges(ctx, 100)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "first_steps", badges[0].ID)
	assert.True(t, badges[0].Achieved)

	points, err := profileRepo.GetGreenPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, points)
}

// A badge's reward is paid exactly once per lifetime no matter how often the
// qualifying condition re-evaluates.
func TestBadgeAwardIdempotence(t *testing.T) {
	svc, profileRepo, _ := newTestService()
	ctx := context.Background()

	first, err := svc.CheckAndAwardBadges(ctx, 100)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.CheckAndAwardBadges(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, second)

	points, err := profileRepo.GetGreenPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, points)
}

func TestBadgesEmitInCatalogOrder(t *testing.T) {
	svc, _, _ := newTestService()

	badges, err := svc.CheckAndAwardBadges(context.Background(), 10000)
	require.NoError(t, err)

	ids := make([]string, len(badges))
	for i, b := range badges {
		ids[i] = b.ID
	}
	assert.Equal(t, []string{"first_steps", "1k_steps", "5k_steps", "10k_steps"}, ids)
}

func TestEcoWarriorUsesTodayCO2(t *testing.T) {
	svc, _, tracker := newTestService()
	tracker.todayFn = func(context.Context) (domain.DailyStats, error) {
		return domain.DailyStats{CO2Saved: 500}, nil
	}

	badges, err := svc.CheckAndAwardBadges(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "eco_warrior", badges[0].ID)
}

func TestWeekStreakBadge(t *testing.T) {
	svc, _, tracker := newTestService()
	tracker.streakFn = func(context.Context, int) (int, error) { return 7, nil }

	badges, err := svc.CheckAndAwardBadges(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "week_streak", badges[0].ID)
}

func TestGreenChampionBadge(t *testing.T) {
	svc, profileRepo, _ := newTestService()
	ctx := context.Background()
	_, err := profileRepo.AddGreenPoints(ctx, 1000)
	require.NoError(t, err)

	badges, err := svc.CheckAndAwardBadges(ctx, 0)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "green_champion", badges[0].ID)
}

func TestBadgesStatusJoinsEarnedSet(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CheckAndAwardBadges(ctx, 1000)
	require.NoError(t, err)

	status, err := svc.BadgesStatus(ctx)
	require.NoError(t, err)
	require.Len(t, status, 7)

	achieved := map[string]bool{}
	for _, b := range status {
		achieved[b.ID] = b.Achieved
	}
	assert.True(t, achieved["first_steps"])
	assert.True(t, achieved["1k_steps"])
	assert.False(t, achieved["5k_steps"])
	assert.False(t, achieved["week_streak"])
}

func TestProcessAchievementsGoalReached(t *testing.T) {
	svc, _, _ := newTestService()

	achievements, err := svc.ProcessAchievements(context.Background(), 10000, 10000)
	require.NoError(t, err)

	var goal *domain.Achievement
	for i := range achievements {
		if achievements[i].Type == domain.AchievementGoal {
			require.Nil(t, goal, "exactly one goal achievement expected")
			goal = &achievements[i]
		}
	}
	require.NotNil(t, goal)
	assert.Contains(t, goal.Message, "10,000")
	// Recomputed from the formulas: 10000/100 + 1400/10.
	assert.Equal(t, 240, goal.GreenPoints)
}

func TestProcessAchievementsGoalNotReached(t *testing.T) {
	svc, _, _ := newTestService()

	achievements, err := svc.ProcessAchievements(context.Background(), 9999, 10000)
	require.NoError(t, err)
	for _, a := range achievements {
		assert.NotEqual(t, domain.AchievementGoal, a.Type)
	}
}

// An unset goal never reads as achieved, even at zero steps where a plain
// stepCount >= goal comparison would hold.
func TestProcessAchievementsNoGoalConfigured(t *testing.T) {
	svc, _, _ := newTestService()

	achievements, err := svc.ProcessAchievements(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, achievements)

	achievements, err = svc.ProcessAchievements(context.Background(), 50, 0)
	require.NoError(t, err)
	for _, a := range achievements {
		assert.NotEqual(t, domain.AchievementGoal, a.Type)
	}
}

// Crossing a badge-backed milestone reports both the badge and the milestone
// in the same call; the overlap is intentional.
func TestProcessAchievementsMilestoneDuplication(t *testing.T) {
	svc, _, _ := newTestService()

	achievements, err := svc.ProcessAchievements(context.Background(), 100, 10000)
	require.NoError(t, err)

	types := make([]domain.AchievementType, len(achievements))
	for i, a := range achievements {
		types[i] = a.Type
	}
	assert.Equal(t, []domain.AchievementType{domain.AchievementBadge, domain.AchievementMilestone}, types)
	assert.Equal(t, "100 Steps!", achievements[1].Title)
}

func TestProcessAchievementsNoMilestoneBetweenBoundaries(t *testing.T) {
	svc, _, _ := newTestService()

	achievements, err := svc.ProcessAchievements(context.Background(), 150, 10000)
	require.NoError(t, err)

	// first_steps still qualifies at 150, but 150 has not crossed a
	// milestone boundary this call.
	require.Len(t, achievements, 1)
	assert.Equal(t, domain.AchievementBadge, achievements[0].Type)
}

func TestNextMilestone(t *testing.T) {
	svc, _, _ := newTestService()

	m := svc.NextMilestone(0)
	assert.Equal(t, 100, m.Steps)
	require.NotNil(t, m.Badge)
	assert.Equal(t, "first_steps", m.Badge.ID)

	m = svc.NextMilestone(12000)
	assert.Equal(t, 15000, m.Steps)
	assert.Nil(t, m.Badge) // 15000 has no backing badge

	m = svc.NextMilestone(25000)
	assert.Equal(t, 25000, m.Steps) // nothing ahead
	assert.Nil(t, m.Badge)
}

func TestMotivationalMessageTiers(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		steps, goal int
		wantPart    string
	}{
		{10000, 10000, "Goal crushed"},
		{8000, 10000, "So close"},
		{5000, 10000, "Halfway there"},
		{2500, 10000, "Great start"},
		{100, 10000, "Ready to start"},
		{5000, 0, "Ready to start"},
	}
	for _, tt := range tests {
		got := svc.MotivationalMessage(tt.steps, tt.goal)
		if !strings.Contains(got, tt.wantPart) {
			t.Errorf("MotivationalMessage(%d, %d) = %q, want it to contain %q", tt.steps, tt.goal, got, tt.wantPart)
		}
	}
}

func TestFormatSteps(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{100, "100"},
		{1000, "1,000"},
		{10000, "10,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatSteps(tt.n); got != tt.want {
			t.Errorf("FormatSteps(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
