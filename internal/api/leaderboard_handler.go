package api

import (
	"net/http"
	"sort"

	"alcyxob/greensteps-app/internal/progress"
	"alcyxob/greensteps-app/internal/repository"

	"github.com/gin-gonic/gin"
)

// LeaderboardEntry is one row of the rankings tab.
type LeaderboardEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Steps       int    `json:"steps"`
	CO2Saved    int    `json:"co2Saved"`
	GreenPoints int    `json:"greenPoints"`
	Streak      int    `json:"streak"`
	Rank        int    `json:"rank"`
	IsUser      bool   `json:"isUser"`
}

// LeaderboardHandler serves the locally mocked leaderboard. Server-side
// leaderboard computation is out of scope; the rivals are fixed seed data
// and only the user's row reflects real state.
type LeaderboardHandler struct {
	tracker     progress.Tracker
	profileRepo repository.ProfileRepository
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(tracker progress.Tracker, profileRepo repository.ProfileRepository) *LeaderboardHandler {
	return &LeaderboardHandler{tracker: tracker, profileRepo: profileRepo}
}

// mockRivals carries the seeded competitors from the mobile app's rankings
// tab, values included.
var mockRivals = []LeaderboardEntry{
	{ID: "1", Name: "EcoChampion2024", Steps: 15420, CO2Saved: 2167, GreenPoints: 1840, Streak: 12},
	{ID: "2", Name: "GreenWalker", Steps: 14890, CO2Saved: 2093, GreenPoints: 1780, Streak: 8},
	{ID: "3", Name: "PlanetSaver", Steps: 14235, CO2Saved: 2001, GreenPoints: 1695, Streak: 15},
	{ID: "4", Name: "ClimateHero", Steps: 13678, CO2Saved: 1923, GreenPoints: 1620, Streak: 5},
	{ID: "5", Name: "EcoWarrior", Steps: 13245, CO2Saved: 1862, GreenPoints: 1580, Streak: 9},
}

// GetLeaderboard returns the rivals plus the user, ranked by points. The
// user's row reads today's stats, the lifetime points total and the live goal
// streak; read failures degrade to zeros like everywhere else.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	ctx := c.Request.Context()

	points, err := h.profileRepo.GetGreenPoints(ctx)
	if err != nil {
		points = 0
	}
	today, err := h.tracker.TodayStats(ctx)
	if err != nil {
		today.Steps, today.CO2Saved = 0, 0
	}
	goal, err := h.profileRepo.GetStepGoal(ctx)
	if err != nil {
		goal = 0
	}
	streak, err := h.tracker.StreakDays(ctx, goal)
	if err != nil {
		streak = 0
	}

	entries := make([]LeaderboardEntry, len(mockRivals), len(mockRivals)+1)
	copy(entries, mockRivals)
	entries = append(entries, LeaderboardEntry{
		ID:          "you",
		Name:        "You",
		Steps:       today.Steps,
		CO2Saved:    today.CO2Saved,
		GreenPoints: points,
		Streak:      streak,
		IsUser:      true,
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].GreenPoints > entries[j].GreenPoints
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	c.JSON(http.StatusOK, entries)
}
