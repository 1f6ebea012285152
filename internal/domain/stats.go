package domain

// DailyStats is the per-calendar-day aggregate of the user's activity.
// One record exists per ISO date (YYYY-MM-DD); the record for "today" is
// overwritten on every progress update with the day's cumulative totals,
// historical days are immutable once the date rolls over.
type DailyStats struct {
	Date        string  `bson:"date" json:"date"` // ISO date, unique key
	Steps       int     `bson:"steps" json:"steps"`
	CO2Saved    int     `bson:"co2Saved" json:"co2Saved"` // grams
	Distance    float64 `bson:"distance" json:"distance"` // kilometers
	GreenPoints int     `bson:"greenPoints" json:"greenPoints"` // earned that day, not cumulative
}

// Profile is the single-user persisted state outside of daily aggregates.
type Profile struct {
	StepGoal    int      `bson:"stepGoal" json:"stepGoal"`
	GreenPoints int      `bson:"greenPoints" json:"greenPoints"` // lifetime total, only ever incremented
	BadgeIDs    []string `bson:"badgeIds" json:"badgeIds"`       // earned badge ids, append-only
}
