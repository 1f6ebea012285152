package domain

// Badge is a one-time-per-lifetime achievement definition. The catalog of
// badges is static; the Achieved flag is joined in per call from the
// persisted set of earned badge ids, it is never stored on the badge itself.
type Badge struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Achieved          bool   `json:"achieved"`
	Icon              string `json:"icon,omitempty"`
	GreenPointsReward int    `json:"greenPointsReward,omitempty"`
}

// AchievementType discriminates the transient events emitted to the UI.
type AchievementType string

const (
	AchievementBadge     AchievementType = "badge"
	AchievementGoal      AchievementType = "goal"
	AchievementMilestone AchievementType = "milestone"
	AchievementStreak    AchievementType = "streak"
)

// Achievement is a transient notification event produced by an evaluation
// call. It is never persisted; its lifetime ends with the call that made it.
type Achievement struct {
	Type        AchievementType `json:"type"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	GreenPoints int             `json:"greenPoints,omitempty"`
	Badge       *Badge          `json:"badge,omitempty"`
}

// Milestone is the next step milestone ahead of a given step count, with the
// backing badge when the milestone has one.
type Milestone struct {
	Steps int    `json:"steps"`
	Badge *Badge `json:"badge,omitempty"`
}
