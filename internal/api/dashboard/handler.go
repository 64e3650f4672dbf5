// Package dashboard provides REST API handlers for the sales gamification
// dashboard. It exposes endpoints for per-user metrics, the employee listing,
// achievements and company-wide standings.
package dashboard

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	prommetrics "github.com/spacemetall/salesboard/internal/metrics"
	"github.com/spacemetall/salesboard/internal/models"
	"github.com/spacemetall/salesboard/internal/service/achievements"
	"github.com/spacemetall/salesboard/internal/service/leaderboard"
	"github.com/spacemetall/salesboard/internal/service/metrics"
	"github.com/spacemetall/salesboard/pkg/logger"
)

// MetricsService interface for per-user metrics computation.
type MetricsService interface {
	GetUserMetrics(ctx context.Context, userID string) (*metrics.Result, error)
}

// LeaderboardService interface for cross-user standings.
type LeaderboardService interface {
	Employees(ctx context.Context) ([]leaderboard.Employee, error)
	GetOverview(ctx context.Context) (*leaderboard.Overview, error)
}

// AchievementsService interface for achievement reads.
type AchievementsService interface {
	GetUserAchievements(ctx context.Context, userID, monthKey string) ([]models.AchievedCatalogItem, error)
}

// JobRunner interface for triggering the achievements job.
type JobRunner interface {
	Run(ctx context.Context) models.JobResult
}

// HealthChecker reports the health of a backing service.
type HealthChecker interface {
	Health() error
}

// CacheHealthChecker reports the health of the cache connection.
type CacheHealthChecker interface {
	Health(ctx context.Context) error
}

// Handler handles dashboard API requests.
type Handler struct {
	metricsService      MetricsService
	leaderboardService  LeaderboardService
	achievementsService AchievementsService
	job                 JobRunner
	jobSecret           string
	db                  HealthChecker
	cache               CacheHealthChecker
	log                 *logger.Logger
}

// NewHandler creates a new dashboard handler. jobSecret guards the manual
// job trigger; empty disables the check. db and cache may be nil in tests.
func NewHandler(
	metricsService MetricsService,
	leaderboardService LeaderboardService,
	achievementsService AchievementsService,
	job JobRunner,
	jobSecret string,
	db HealthChecker,
	cache CacheHealthChecker,
	log *logger.Logger,
) *Handler {
	return &Handler{
		metricsService:      metricsService,
		leaderboardService:  leaderboardService,
		achievementsService: achievementsService,
		job:                 job,
		jobSecret:           jobSecret,
		db:                  db,
		cache:               cache,
		log:                 log,
	}
}

// RegisterRoutes wires the dashboard endpoints onto a gin engine.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	v1.GET("/metrics", h.GetUserMetrics)
	v1.GET("/employees", h.GetEmployees)
	v1.GET("/achievements", h.GetUserAchievements)
	v1.GET("/leaderboard", h.GetLeaderboard)
	v1.POST("/jobs/achievements", h.TriggerAchievementsJob)
}

// GetUserMetrics returns the full metrics snapshot for one salesperson.
// GET /api/v1/metrics?user_id=Иванов Иван Иванович.
func (h *Handler) GetUserMetrics(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		prommetrics.RecordRequest("metrics", "bad_request")
		h.errorResponse(c, http.StatusBadRequest, "user_id is required")
		return
	}

	result, err := h.metricsService.GetUserMetrics(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute user metrics")
		prommetrics.RecordRequest("metrics", "error")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to compute metrics")
		return
	}

	achievementsCount := achievements.CountAchievements(
		result.Totals.PaidTotal,
		result.Totals.BudgetTotal,
		result.MaxMonthlyBudget,
		result.Monthly.MonthlyPaidCount,
	)

	h.log.Info().
		Str("user_id", userID).
		Int("companies", result.CompaniesCount).
		Str("league", result.League.Name).
		Msg("Retrieved user metrics")
	prommetrics.RecordRequest("metrics", "success")

	c.JSON(http.StatusOK, gin.H{
		"metrics":            result,
		"achievements_count": achievementsCount,
		"generated_at":       time.Now().UTC(),
	})
}

// GetEmployees returns the employee listing with connection counts and leagues.
// GET /api/v1/employees.
func (h *Handler) GetEmployees(c *gin.Context) {
	employees, err := h.leaderboardService.Employees(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list employees")
		prommetrics.RecordRequest("employees", "error")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	prommetrics.RecordRequest("employees", "success")
	prommetrics.SetEmployeesCount(len(employees))

	c.JSON(http.StatusOK, gin.H{
		"employees":    employees,
		"total":        len(employees),
		"generated_at": time.Now().UTC(),
	})
}

// GetUserAchievements returns the achievement catalog with the user's
// achieved flags for a month.
// GET /api/v1/achievements?user_id=...&month=2025-01 (or month=all).
func (h *Handler) GetUserAchievements(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		prommetrics.RecordRequest("achievements", "bad_request")
		h.errorResponse(c, http.StatusBadRequest, "user_id is required")
		return
	}

	monthKey := achievements.ResolveMonthKey(c.Query("month"), time.Now())

	merged, err := h.achievementsService.GetUserAchievements(c.Request.Context(), userID, monthKey)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Str("month", monthKey).Msg("Failed to get user achievements")
		prommetrics.RecordRequest("achievements", "error")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve achievements")
		return
	}

	prommetrics.RecordRequest("achievements", "success")

	c.JSON(http.StatusOK, gin.H{
		"user_id":      userID,
		"month":        monthKey,
		"achievements": merged,
		"generated_at": time.Now().UTC(),
	})
}

// GetLeaderboard returns the company-wide standings.
// GET /api/v1/leaderboard.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	overview, err := h.leaderboardService.GetOverview(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute leaderboard")
		prommetrics.RecordRequest("leaderboard", "error")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	prommetrics.RecordRequest("leaderboard", "success")

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":  overview,
		"generated_at": time.Now().UTC(),
	})
}

// TriggerAchievementsJob runs the reconciliation job on demand.
// POST /api/v1/jobs/achievements with "Authorization: Bearer <secret>".
func (h *Handler) TriggerAchievementsJob(c *gin.Context) {
	if h.jobSecret != "" {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer"))
		if token != h.jobSecret {
			prommetrics.RecordRequest("jobs_achievements", "unauthorized")
			h.errorResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
	}

	result := h.job.Run(c.Request.Context())

	h.log.Info().
		Int("rows_read", result.RowsRead).
		Int("rows_filtered", result.RowsFiltered).
		Int("achievements_updated", result.AchievementsUpdated).
		Int("errors", len(result.Errors)).
		Msg("Achievements job triggered via API")

	status := "success"
	if len(result.Errors) > 0 {
		status = "error"
	}
	prommetrics.RecordRequest("jobs_achievements", status)

	c.JSON(http.StatusOK, gin.H{
		"ok":                   len(result.Errors) == 0,
		"rows_read":            result.RowsRead,
		"rows_filtered":        result.RowsFiltered,
		"achievements_updated": result.AchievementsUpdated,
		"errors":               result.Errors,
		"generated_at":         time.Now().UTC(),
	})
}

// Health reports database and cache health.
// GET /health.
func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Health(); err != nil {
			h.log.Error().Err(err).Msg("Database health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
	}
	if h.cache != nil {
		if err := h.cache.Health(c.Request.Context()); err != nil {
			h.log.Error().Err(err).Msg("Cache health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "cache unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
