// Package metrics holds the pure conversion formulas that turn raw activity
// numbers (steps, distance, duration) into the derived values shown to the
// user. The formulas are simplified heuristics, kept as-is for behavioral
// parity with the mobile app; they are not scientifically precise.
//
// All functions are total: negative inputs are clamped to zero rather than
// left undefined.
package metrics

import "math"

const (
	kmPerThousandSteps = 0.8   // assumed walking distance per 1000 steps
	co2GramsPerKm      = 175.0 // CO2 saved per km walked instead of driven
	caloriesPerStep    = 0.04
	caloriesPerMinute  = 8.0
)

// CO2SavedGrams converts a step count into grams of CO2 saved versus
// driving the same distance, rounded to the nearest gram.
func CO2SavedGrams(steps int) int {
	if steps < 0 {
		steps = 0
	}
	distanceKm := float64(steps) / 1000 * kmPerThousandSteps
	return int(math.Round(distanceKm * co2GramsPerKm))
}

// GreenPoints computes points from activity: 1 point per 100 steps plus
// 1 point per 10g CO2 saved. Each term floors independently before summing.
func GreenPoints(steps, co2SavedGrams int) int {
	if steps < 0 {
		steps = 0
	}
	if co2SavedGrams < 0 {
		co2SavedGrams = 0
	}
	return steps/100 + co2SavedGrams/10
}

// DistanceKm is the rough walking distance for a step count.
func DistanceKm(steps int) float64 {
	if steps < 0 {
		steps = 0
	}
	return float64(steps) / 1000 * kmPerThousandSteps
}

// PaceMinPerKm returns the average pace in minutes per kilometer, or 0 when
// no distance has been covered yet.
func PaceMinPerKm(distanceKm float64, durationSec int) float64 {
	if distanceKm <= 0 || durationSec < 0 {
		return 0
	}
	return float64(durationSec) / 60 / distanceKm
}

// SpeedKmh returns the average speed in km/h, or 0 for a zero duration.
func SpeedKmh(distanceKm float64, durationSec int) float64 {
	if durationSec <= 0 || distanceKm < 0 {
		return 0
	}
	return distanceKm / (float64(durationSec) / 3600)
}

// Calories estimates calories burned from steps plus an activity-time factor.
func Calories(steps, durationSec int) int {
	if steps < 0 {
		steps = 0
	}
	if durationSec < 0 {
		durationSec = 0
	}
	stepCalories := float64(steps) * caloriesPerStep
	timeCalories := float64(durationSec) / 60 * caloriesPerMinute
	return int(math.Round(stepCalories + timeCalories))
}
