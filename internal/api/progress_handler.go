package api

import (
	"net/http"
	"strconv"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/gamification"
	"alcyxob/greensteps-app/internal/progress"
	"alcyxob/greensteps-app/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProgressHandler serves profile, goal, daily progress and badge endpoints.
type ProgressHandler struct {
	tracker     progress.Tracker
	game        gamification.Service
	profileRepo repository.ProfileRepository
	defaultGoal int
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(tracker progress.Tracker, game gamification.Service, profileRepo repository.ProfileRepository, defaultGoal int) *ProgressHandler {
	return &ProgressHandler{
		tracker:     tracker,
		game:        game,
		profileRepo: profileRepo,
		defaultGoal: defaultGoal,
	}
}

// --- DTOs ---

// SaveGoalRequest defines the expected JSON for setting the step goal.
type SaveGoalRequest struct {
	Goal int `json:"goal" binding:"required,gt=0"`
}

// UpdateProgressRequest carries the day's cumulative step count. Passing a
// delta instead of the cumulative total corrupts the day's record.
type UpdateProgressRequest struct {
	Steps int `json:"steps" binding:"gte=0"`
}

// UpdateProgressResponse returns the refreshed stats plus whatever
// achievements this update earned.
type UpdateProgressResponse struct {
	Stats        domain.DailyStats    `json:"stats"`
	Achievements []domain.Achievement `json:"achievements"`
	Message      string               `json:"message"`
}

// ProfileResponse summarizes the persisted profile.
type ProfileResponse struct {
	StepGoal     int `json:"stepGoal"`
	GreenPoints  int `json:"greenPoints"`
	BadgesEarned int `json:"badgesEarned"`
}

// --- Handler Methods ---

// GetProfile returns the step goal, lifetime points and earned badge count.
func (h *ProgressHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileRepo.GetProfile(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{
		StepGoal:     profile.StepGoal,
		GreenPoints:  profile.GreenPoints,
		BadgesEarned: len(profile.BadgeIDs),
	})
}

// SaveGoal stores the daily step goal.
func (h *ProgressHandler) SaveGoal(c *gin.Context) {
	var req SaveGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid goal: "+err.Error())
		return
	}
	if err := h.profileRepo.SaveStepGoal(c.Request.Context(), req.Goal); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save goal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": req.Goal})
}

// GetGoal returns the stored goal, falling back to the configured default.
func (h *ProgressHandler) GetGoal(c *gin.Context) {
	goal, err := h.profileRepo.GetStepGoal(c.Request.Context())
	if err != nil || goal <= 0 {
		goal = h.defaultGoal
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateProgress upserts today's stats from the cumulative step count and
// runs the achievement processor against the stored goal.
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid progress update: "+err.Error())
		return
	}
	ctx := c.Request.Context()

	stats, err := h.tracker.UpdateDailyProgress(ctx, req.Steps)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update daily progress")
		return
	}

	goal, err := h.profileRepo.GetStepGoal(ctx)
	if err != nil || goal <= 0 {
		goal = h.defaultGoal
	}

	achievements, err := h.game.ProcessAchievements(ctx, req.Steps, goal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to process achievements")
		return
	}

	c.JSON(http.StatusOK, UpdateProgressResponse{
		Stats:        stats,
		Achievements: achievements,
		Message:      h.game.MotivationalMessage(req.Steps, goal),
	})
}

// GetToday returns today's aggregate record.
func (h *ProgressHandler) GetToday(c *gin.Context) {
	stats, err := h.tracker.TodayStats(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load today's stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetWeek returns the last seven days, zero-filled, with totals.
func (h *ProgressHandler) GetWeek(c *gin.Context) {
	summary, err := h.tracker.WeeklyStats(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load weekly stats")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetBadges returns the catalog with achieved flags.
func (h *ProgressHandler) GetBadges(c *gin.Context) {
	badges, err := h.game.BadgesStatus(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load badges")
		return
	}
	c.JSON(http.StatusOK, badges)
}

// GetNextMilestone returns the next step milestone above ?steps=N.
func (h *ProgressHandler) GetNextMilestone(c *gin.Context) {
	steps, err := strconv.Atoi(c.DefaultQuery("steps", "0"))
	if err != nil || steps < 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid steps parameter")
		return
	}
	c.JSON(http.StatusOK, h.game.NextMilestone(steps))
}
