package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/greensteps-app/internal/api"
	"alcyxob/greensteps-app/internal/config"
	"alcyxob/greensteps-app/internal/gamification"
	"alcyxob/greensteps-app/internal/notify"
	"alcyxob/greensteps-app/internal/progress"
	"alcyxob/greensteps-app/internal/repository"
	"alcyxob/greensteps-app/internal/repository/memory"
	repomongo "alcyxob/greensteps-app/internal/repository/mongo"
	"alcyxob/greensteps-app/internal/sensors"
	"alcyxob/greensteps-app/internal/session"
	"alcyxob/greensteps-app/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting GreenSteps server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Persistence ---
	// MongoDB when reachable; otherwise the server degrades to in-memory
	// stores rather than refusing to start, matching the engine's
	// best-effort persistence contract.
	var profileRepo repository.ProfileRepository
	var statsRepo repository.DailyStatsRepository

	dbClient, err := repomongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Printf("WARN: MongoDB unavailable (%v); falling back to in-memory stores", err)
		profileRepo = memory.NewProfileRepository()
		statsRepo = memory.NewDailyStatsRepository()
	} else {
		defer func() {
			log.Println("Disconnecting MongoDB...")
			if err := repomongo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Println("Database connection established.")

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			repomongo.EnsureDailyStatsIndexes(ctx, appDB.Collection("daily_stats"))
		}()

		profileRepo = repomongo.NewMongoProfileRepository(appDB)
		statsRepo = repomongo.NewMongoDailyStatsRepository(appDB)
	}

	// --- Media Storage ---
	var media storage.FileStorage
	if cfg.S3.BucketName != "" {
		media, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Printf("WARN: Media storage unavailable: %v", err)
			media = nil
		}
	} else {
		log.Println("No S3 bucket configured; session media endpoints disabled.")
	}

	// --- Services ---
	notifier := notify.NewLogNotifier()
	tracker := progress.NewTracker(statsRepo)
	game := gamification.NewService(profileRepo, tracker)

	var watcher sensors.LocationWatcher
	var stepSource sensors.StepSource
	if cfg.Tracking.Simulate {
		log.Println("Tracking simulation enabled; sessions walk on their own.")
		walker := &sensors.SimulatedWalker{
			StartLat:    52.52,
			StartLon:    13.405,
			SpeedKmh:    5,
			StepsPerSec: 2,
		}
		watcher = walker.LocationWatcherFor()
		stepSource = walker
	}

	sessionCfg := session.Config{
		TickPeriod:     cfg.Tracking.TickPeriod,
		GPSInterval:    cfg.Tracking.GPSInterval,
		GPSMinDistance: cfg.Tracking.GPSMinDistance,
	}
	manager := session.NewManager(sessionCfg, tracker, notifier, watcher, stepSource)

	if cfg.Reminders.Enabled {
		notifier.ScheduleDailyReminder(cfg.Reminders.Hour, cfg.Reminders.Minute,
			notify.TitleDailyReminder, notify.MsgDailyReminder)
	}

	// --- HTTP ---
	router := gin.Default()
	api.SetupRoutes(router, tracker, game, profileRepo, manager, media, cfg.Tracking.DefaultGoal)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	// Abort any live workout sessions so their tickers and GPS watches stop.
	manager.CloseAll(ctxShutdown)

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
