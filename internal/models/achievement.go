package models

import (
	"time"
)

// AchievementCategory groups catalog items by the metric they threshold on.
type AchievementCategory string

const (
	CategoryMonthlySales     AchievementCategory = "monthly_sales"
	CategoryTotalSales       AchievementCategory = "total_sales"
	CategoryTotalMargin      AchievementCategory = "total_margin"
	CategoryMaxMonthlyBudget AchievementCategory = "max_monthly_budget"
	CategoryMaxMonthlySales  AchievementCategory = "max_monthly_sales"
)

// LifetimeMonthKey marks achievement records that are not bound to a month.
const LifetimeMonthKey = "all"

// CatalogItem is one pre-generated achievement definition.
type CatalogItem struct {
	ID          string              `json:"id"`
	Key         string              `json:"key"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Threshold   float64             `json:"threshold"`
	Category    AchievementCategory `json:"type"`
}

// AchievedCatalogItem is a catalog item merged with a user's persisted state.
type AchievedCatalogItem struct {
	CatalogItem
	Achieved   bool       `json:"achieved"`
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}

// UserAchievement is a persisted per-user achievement record. MonthKey is a
// YYYY-MM month for monthly families or LifetimeMonthKey for lifetime ones.
type UserAchievement struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        string     `gorm:"not null;index;uniqueIndex:idx_user_achievement_month" json:"user_id"`
	AchievementID string     `gorm:"not null;uniqueIndex:idx_user_achievement_month" json:"achievement_id"`
	MonthKey      string     `gorm:"not null;uniqueIndex:idx_user_achievement_month" json:"month_key"`
	Achieved      bool       `gorm:"not null;default:false" json:"achieved"`
	AchievedAt    *time.Time `json:"achieved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for UserAchievement
func (UserAchievement) TableName() string {
	return "user_achievements"
}

// JobResult summarizes one reconciliation run.
type JobResult struct {
	RowsRead            int      `json:"rows_read"`
	RowsFiltered        int      `json:"rows_filtered"`
	AchievementsUpdated int      `json:"achievements_updated"`
	Errors              []string `json:"errors"`
}
