package gamification

import "alcyxob/greensteps-app/internal/domain"

// evalInput is everything a badge condition may look at.
type evalInput struct {
	steps          int
	today          domain.DailyStats
	lifetimePoints int
	streakDays     int
}

// badgeDef pairs a catalog entry with its qualifying condition.
type badgeDef struct {
	badge     domain.Badge
	qualifies func(evalInput) bool
}

// catalog is the static badge catalog. Declaration order is significant:
// badges are evaluated and emitted in this order when several qualify in the
// same call.
var catalog = []badgeDef{
	{
		badge: domain.Badge{
			ID:                "first_steps",
			Name:              "First Steps",
			Description:       "Take your first 100 steps with GreenSteps.",
			Icon:              "👶",
			GreenPointsReward: 10,
		},
		qualifies: func(in evalInput) bool { return in.steps >= 100 },
	},
	{
		badge: domain.Badge{
			ID:                "1k_steps",
			Name:              "1,000 Steps",
			Description:       "Walk 1,000 steps in a day.",
			Icon:              "🚶",
			GreenPointsReward: 25,
		},
		qualifies: func(in evalInput) bool { return in.steps >= 1000 },
	},
	{
		badge: domain.Badge{
			ID:                "5k_steps",
			Name:              "5,000 Steps",
			Description:       "Walk 5,000 steps in a day.",
			Icon:              "🏃",
			GreenPointsReward: 50,
		},
		qualifies: func(in evalInput) bool { return in.steps >= 5000 },
	},
	{
		badge: domain.Badge{
			ID:                "10k_steps",
			Name:              "10,000 Steps",
			Description:       "Walk 10,000 steps in a day.",
			Icon:              "💪",
			GreenPointsReward: 100,
		},
		qualifies: func(in evalInput) bool { return in.steps >= 10000 },
	},
	{
		badge: domain.Badge{
			ID:                "eco_warrior",
			Name:              "Eco Warrior",
			Description:       "Save 500g of CO₂ in a single day.",
			Icon:              "🌍",
			GreenPointsReward: 75,
		},
		qualifies: func(in evalInput) bool { return in.today.CO2Saved >= 500 },
	},
	{
		badge: domain.Badge{
			ID:                "week_streak",
			Name:              "Week Streak",
			Description:       "Reach your daily goal for 7 consecutive days.",
			Icon:              "🔥",
			GreenPointsReward: 200,
		},
		qualifies: func(in evalInput) bool { return in.streakDays >= 7 },
	},
	{
		badge: domain.Badge{
			ID:                "green_champion",
			Name:              "Green Champion",
			Description:       "Earn 1,000 GreenPoints total.",
			Icon:              "🏆",
			GreenPointsReward: 250,
		},
		qualifies: func(in evalInput) bool { return in.lifetimePoints >= 1000 },
	},
}

// stepMilestones are the step counts celebrated with a milestone event.
// The first four are backed by catalog badges.
var stepMilestones = []int{100, 1000, 5000, 10000, 15000, 20000}

// milestoneBadgeIDs maps badge-backed milestones to their badge id.
var milestoneBadgeIDs = map[int]string{
	100:   "first_steps",
	1000:  "1k_steps",
	5000:  "5k_steps",
	10000: "10k_steps",
}

// badgeByID looks a badge up in the catalog.
func badgeByID(id string) *domain.Badge {
	for i := range catalog {
		if catalog[i].badge.ID == id {
			b := catalog[i].badge
			return &b
		}
	}
	return nil
}
