// Package repository provides data access layer for the application.
package repository

import (
	"gorm.io/gorm/clause"

	"github.com/spacemetall/salesboard/internal/models"
)

// AchievementRepository handles user achievement database operations.
type AchievementRepository struct {
	db *DB
}

// NewAchievementRepository creates a new achievement repository.
func NewAchievementRepository(db *DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// GetByUserMonth retrieves a user's achievement records for one month key.
func (r *AchievementRepository) GetByUserMonth(userID, monthKey string) ([]models.UserAchievement, error) {
	var records []models.UserAchievement
	err := r.db.
		Where("user_id = ? AND month_key = ?", userID, monthKey).
		Order("achievement_id ASC").
		Find(&records).Error
	return records, err
}

// GetByUser retrieves all achievement records for a user across months.
func (r *AchievementRepository) GetByUser(userID string) ([]models.UserAchievement, error) {
	var records []models.UserAchievement
	err := r.db.
		Where("user_id = ?", userID).
		Order("month_key ASC, achievement_id ASC").
		Find(&records).Error
	return records, err
}

// UpsertBatch writes achievement records, updating achieved and achieved_at
// on conflict of (user_id, achievement_id, month_key). Duplicates within one
// batch collapse to the last occurrence. Returns the number of records
// written after de-duplication.
func (r *AchievementRepository) UpsertBatch(records []models.UserAchievement) (int, error) {
	deduped := dedupeLastWins(records)
	if len(deduped) == 0 {
		return 0, nil
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "achievement_id"},
			{Name: "month_key"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"achieved", "achieved_at", "updated_at"}),
	}).CreateInBatches(deduped, 500).Error
	if err != nil {
		return 0, err
	}
	return len(deduped), nil
}

// dedupeLastWins collapses duplicate (user, achievement, month) entries,
// keeping the last occurrence at the position of the first.
func dedupeLastWins(records []models.UserAchievement) []models.UserAchievement {
	type key struct {
		userID        string
		achievementID string
		monthKey      string
	}

	index := make(map[key]int, len(records))
	deduped := make([]models.UserAchievement, 0, len(records))
	for _, rec := range records {
		k := key{rec.UserID, rec.AchievementID, rec.MonthKey}
		if i, ok := index[k]; ok {
			deduped[i] = rec
			continue
		}
		index[k] = len(deduped)
		deduped = append(deduped, rec)
	}
	return deduped
}
