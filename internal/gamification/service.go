package gamification

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/metrics"
	"alcyxob/greensteps-app/internal/progress"
	"alcyxob/greensteps-app/internal/repository"
)

// Service evaluates badges, milestones and goal completion, and turns them
// into the ordered achievement events shown to the user.
type Service interface {
	// ProcessAchievements evaluates the current step count against the daily
	// goal and returns the achievements earned by this call, in a fixed
	// order: new badges (catalog order), then goal completion, then a
	// milestone crossing. Badge awards are persisted and their point rewards
	// added to the lifetime total as a side effect.
	ProcessAchievements(ctx context.Context, stepCount, dailyGoal int) ([]domain.Achievement, error)

	// CheckAndAwardBadges returns the badges newly earned at the given step
	// count and persists them together with their point rewards. Already
	// earned badges are never re-emitted.
	CheckAndAwardBadges(ctx context.Context, stepCount int) ([]domain.Badge, error)

	// BadgesStatus returns the full catalog with the Achieved flag joined in
	// from the persisted earned set. Read-only.
	BadgesStatus(ctx context.Context) ([]domain.Badge, error)

	// NextMilestone returns the next step milestone above currentSteps with
	// its backing badge when one exists. When no milestone lies ahead the
	// returned Steps equals currentSteps.
	NextMilestone(currentSteps int) domain.Milestone

	// MotivationalMessage picks an encouragement line for the current
	// progress toward the goal.
	MotivationalMessage(stepCount, goal int) string
}

type service struct {
	profileRepo repository.ProfileRepository
	tracker     progress.Tracker
}

// NewService creates the gamification service.
func NewService(profileRepo repository.ProfileRepository, tracker progress.Tracker) Service {
	return &service{profileRepo: profileRepo, tracker: tracker}
}

func (s *service) CheckAndAwardBadges(ctx context.Context, stepCount int) ([]domain.Badge, error) {
	earnedIDs, err := s.profileRepo.GetEarnedBadgeIDs(ctx)
	if err != nil {
		return nil, err
	}
	earned := make(map[string]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	today, err := s.tracker.TodayStats(ctx)
	if err != nil {
		return nil, err
	}
	lifetimePoints, err := s.profileRepo.GetGreenPoints(ctx)
	if err != nil {
		return nil, err
	}
	goal, err := s.profileRepo.GetStepGoal(ctx)
	if err != nil {
		return nil, err
	}
	streakDays, err := s.tracker.StreakDays(ctx, goal)
	if err != nil {
		return nil, err
	}

	in := evalInput{
		steps:          stepCount,
		today:          today,
		lifetimePoints: lifetimePoints,
		streakDays:     streakDays,
	}

	var newBadges []domain.Badge
	for _, def := range catalog {
		if earned[def.badge.ID] || !def.qualifies(in) {
			continue
		}
		badge := def.badge
		badge.Achieved = true
		newBadges = append(newBadges, badge)
	}
	if len(newBadges) == 0 {
		return nil, nil
	}

	ids := make([]string, len(newBadges))
	for i, b := range newBadges {
		ids[i] = b.ID
	}
	if err := s.profileRepo.AddEarnedBadges(ctx, ids); err != nil {
		return nil, err
	}
	for _, b := range newBadges {
		if b.GreenPointsReward > 0 {
			if _, err := s.profileRepo.AddGreenPoints(ctx, b.GreenPointsReward); err != nil {
				return nil, err
			}
		}
	}
	log.Printf("Awarded new badges: %v", ids)
	return newBadges, nil
}

func (s *service) BadgesStatus(ctx context.Context) ([]domain.Badge, error) {
	earnedIDs, err := s.profileRepo.GetEarnedBadgeIDs(ctx)
	if err != nil {
		return nil, err
	}
	earned := make(map[string]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	badges := make([]domain.Badge, 0, len(catalog))
	for _, def := range catalog {
		badge := def.badge
		badge.Achieved = earned[badge.ID]
		badges = append(badges, badge)
	}
	return badges, nil
}

func (s *service) NextMilestone(currentSteps int) domain.Milestone {
	for _, m := range stepMilestones {
		if m > currentSteps {
			milestone := domain.Milestone{Steps: m}
			if id, ok := milestoneBadgeIDs[m]; ok {
				milestone.Badge = badgeByID(id)
			}
			return milestone
		}
	}
	return domain.Milestone{Steps: currentSteps}
}

func (s *service) ProcessAchievements(ctx context.Context, stepCount, dailyGoal int) ([]domain.Achievement, error) {
	achievements := []domain.Achievement{}

	newBadges, err := s.CheckAndAwardBadges(ctx, stepCount)
	if err != nil {
		return nil, err
	}
	for i := range newBadges {
		badge := newBadges[i]
		achievements = append(achievements, domain.Achievement{
			Type:        domain.AchievementBadge,
			Title:       fmt.Sprintf("New Badge: %s", badge.Name),
			Message:     badge.Description,
			GreenPoints: badge.GreenPointsReward,
			Badge:       &badge,
		})
	}

	if dailyGoal > 0 && stepCount >= dailyGoal {
		goalPoints := metrics.GreenPoints(stepCount, metrics.CO2SavedGrams(stepCount))
		achievements = append(achievements, domain.Achievement{
			Type:        domain.AchievementGoal,
			Title:       "Daily Goal Achieved!",
			Message:     fmt.Sprintf("Congratulations! You've reached your %s step goal!", FormatSteps(dailyGoal)),
			GreenPoints: goalPoints,
		})
	}

	// A milestone fires when the step count just crossed one of the
	// badge-backed boundaries, evaluated at stepCount-1. This deliberately
	// overlaps with the step badges above, so one crossing can produce both
	// a badge and a milestone event in the same call.
	milestone := s.NextMilestone(stepCount - 1)
	if milestone.Badge != nil && stepCount >= milestone.Steps {
		achievements = append(achievements, domain.Achievement{
			Type:    domain.AchievementMilestone,
			Title:   fmt.Sprintf("%s Steps!", FormatSteps(milestone.Steps)),
			Message: "You've reached a major milestone!",
		})
	}

	return achievements, nil
}

func (s *service) MotivationalMessage(stepCount, goal int) string {
	if goal <= 0 {
		return "🚀 Ready to start your green journey?"
	}
	progress := float64(stepCount) / float64(goal)
	switch {
	case progress >= 1.0:
		return "🎉 Goal crushed! You're an eco-champion today!"
	case progress >= 0.8:
		return "🔥 So close! Every step counts for our planet!"
	case progress >= 0.5:
		return "💪 Halfway there! Keep making a difference!"
	case progress >= 0.25:
		return "🌱 Great start! Small steps, big impact!"
	default:
		return "🚀 Ready to start your green journey?"
	}
}

// FormatSteps renders a step count with thousands separators ("10,000").
func FormatSteps(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
