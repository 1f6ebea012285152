package api

import (
	"net/http"

	"alcyxob/greensteps-app/internal/gamification"
	"alcyxob/greensteps-app/internal/progress"
	"alcyxob/greensteps-app/internal/repository"
	"alcyxob/greensteps-app/internal/session"
	"alcyxob/greensteps-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers into the router.
func SetupRoutes(
	router *gin.Engine,
	tracker progress.Tracker,
	game gamification.Service,
	profileRepo repository.ProfileRepository,
	manager *session.Manager,
	media storage.FileStorage,
	defaultGoal int,
) {
	progressHandler := NewProgressHandler(tracker, game, profileRepo, defaultGoal)
	sessionHandler := NewSessionHandler(manager, media)
	leaderboardHandler := NewLeaderboardHandler(tracker, profileRepo)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/profile", progressHandler.GetProfile)
		apiV1.GET("/goal", progressHandler.GetGoal)
		apiV1.PUT("/goal", progressHandler.SaveGoal)

		apiV1.POST("/progress", progressHandler.UpdateProgress)
		apiV1.GET("/progress/today", progressHandler.GetToday)
		apiV1.GET("/progress/week", progressHandler.GetWeek)

		apiV1.GET("/badges", progressHandler.GetBadges)
		apiV1.GET("/milestones/next", progressHandler.GetNextMilestone)
		apiV1.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		sessionGroup := apiV1.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.POST("/:id/pause", sessionHandler.PauseSession)
			sessionGroup.POST("/:id/resume", sessionHandler.ResumeSession)
			sessionGroup.POST("/:id/stop", sessionHandler.StopSession)
			sessionGroup.POST("/:id/location", sessionHandler.RecordLocation)
			sessionGroup.POST("/:id/steps", sessionHandler.RecordSteps)
			sessionGroup.POST("/:id/media/upload-url", sessionHandler.RequestMediaUploadURL)
			sessionGroup.POST("/:id/media/confirm", sessionHandler.ConfirmMedia)
			sessionGroup.GET("/:id/media", sessionHandler.ListMedia)
			sessionGroup.DELETE("/:id/media", sessionHandler.DeleteMedia)
		}
	}
}
