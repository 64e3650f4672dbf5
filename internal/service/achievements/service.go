package achievements

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/spacemetall/salesboard/internal/models"
	"github.com/spacemetall/salesboard/internal/repository"
	"github.com/spacemetall/salesboard/internal/service/metrics"
	"github.com/spacemetall/salesboard/pkg/logger"
)

// AchievementRepository reads persisted achievement records.
type AchievementRepository interface {
	GetByUserMonth(userID, monthKey string) ([]models.UserAchievement, error)
}

// Service serves the achievement catalog merged with persisted user state.
type Service struct {
	repo AchievementRepository
	log  *logger.Logger
}

// NewService creates a new achievements service.
func NewService(repo *repository.AchievementRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// NewServiceWithInterfaces creates a new achievements service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(repo AchievementRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

var monthKeyRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ResolveMonthKey validates a requested month. "all" selects lifetime
// records; anything that is not a valid "YYYY-MM" falls back to the current
// month.
func ResolveMonthKey(month string, now time.Time) string {
	if month == models.LifetimeMonthKey {
		return models.LifetimeMonthKey
	}
	if monthKeyRe.MatchString(month) {
		return month
	}
	return metrics.CurrentMonthKey(now)
}

// GetUserAchievements returns the persistable catalog with the user's
// achieved flags for the given month key.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetUserAchievements(ctx context.Context, userID, monthKey string) ([]models.AchievedCatalogItem, error) {
	records, err := s.repo.GetByUserMonth(userID, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load user achievements: %w", err)
	}

	s.log.Debug().
		Str("user_id", userID).
		Str("month", monthKey).
		Int("records", len(records)).
		Msg("Loaded user achievement records")

	return MergeWithUserData(Catalog, records), nil
}
