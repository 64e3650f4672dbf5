// Command server runs the sales gamification dashboard API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacemetall/salesboard/internal/api/dashboard"
	"github.com/spacemetall/salesboard/internal/cache"
	"github.com/spacemetall/salesboard/internal/config"
	"github.com/spacemetall/salesboard/internal/repository"
	"github.com/spacemetall/salesboard/internal/service/achievements"
	"github.com/spacemetall/salesboard/internal/service/leaderboard"
	"github.com/spacemetall/salesboard/internal/service/metrics"
	"github.com/spacemetall/salesboard/internal/service/scheduler"
	"github.com/spacemetall/salesboard/internal/sheets"
	"github.com/spacemetall/salesboard/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	redisCache, err := cache.NewRedisCache(&cfg.Database.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()

	feedClient := sheets.NewClient(&cfg.Sheets, redisCache, log.Component("sheets"))
	achievementRepo := repository.NewAchievementRepository(db)

	metricsService := metrics.NewService(feedClient, log.Component("metrics"))
	leaderboardService := leaderboard.NewService(feedClient, cfg.Job.ExcludedUsers, log.Component("leaderboard"))
	achievementsService := achievements.NewService(achievementRepo, log.Component("achievements"))
	job := achievements.NewJob(feedClient, achievementRepo, log.Component("achievements_job"))

	sched := scheduler.NewService(&cfg.Scheduler, job, log.Component("scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer sched.Stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := dashboard.NewHandler(
		metricsService,
		leaderboardService,
		achievementsService,
		job,
		cfg.Job.Secret,
		db,
		redisCache,
		log,
	)
	handler.RegisterRoutes(router)

	if cfg.Metrics.Prometheus.Enabled {
		router.GET(cfg.Metrics.Prometheus.Path, gin.WrapH(promhttp.Handler()))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}
