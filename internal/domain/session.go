package domain

import "time"

// ActivityType classifies a workout session.
type ActivityType string

const (
	ActivityRunning ActivityType = "running"
	ActivityWalking ActivityType = "walking"
	ActivityCycling ActivityType = "cycling"
)

// SessionState is the lifecycle state of a workout session.
// Valid transitions: idle -> active <-> paused, and (active|paused) -> finished.
type SessionState string

const (
	SessionIdle     SessionState = "idle"
	SessionActive   SessionState = "active"
	SessionPaused   SessionState = "paused"
	SessionFinished SessionState = "finished"
)

// RoutePoint is one timestamped GPS fix on a session's route.
type RoutePoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Elevation *float64  `json:"elevation,omitempty"`
}

// WorkoutSessionData is the running totals of a single workout session.
// It is mutated continuously while the session is active and frozen when the
// session finishes; the frozen copy is what the caller receives.
type WorkoutSessionData struct {
	Duration     int          `json:"duration"` // seconds
	Distance     float64      `json:"distance"` // kilometers
	Steps        int          `json:"steps"`
	Pace         float64      `json:"pace"` // minutes per km
	Calories     int          `json:"calories"`
	CO2Saved     int          `json:"co2Saved"`     // grams
	AverageSpeed float64      `json:"averageSpeed"` // km/h
	Route        []RoutePoint `json:"route"`
	Photos       []string     `json:"photos"`
	Videos       []string     `json:"videos"`
	ActivityType ActivityType `json:"activityType"`
}
