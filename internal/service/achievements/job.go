package achievements

import (
	"context"
	"fmt"
	"strings"
	"time"

	prommetrics "github.com/spacemetall/salesboard/internal/metrics"
	"github.com/spacemetall/salesboard/internal/models"
	"github.com/spacemetall/salesboard/internal/service/metrics"
	"github.com/spacemetall/salesboard/pkg/logger"
)

// InvoiceSource feeds the job with the current deal rows.
type InvoiceSource interface {
	FetchInvoices(ctx context.Context) ([]models.InvoiceRow, error)
}

// AchievementStore persists user achievement records.
type AchievementStore interface {
	UpsertBatch(records []models.UserAchievement) (int, error)
}

// Job recomputes achievement records from the deal feed. Reruns are
// idempotent: records are upserted, never duplicated.
type Job struct {
	source InvoiceSource
	store  AchievementStore
	log    *logger.Logger
	now    func() time.Time
}

// NewJob creates a reconciliation job.
func NewJob(source InvoiceSource, store AchievementStore, log *logger.Logger) *Job {
	return &Job{
		source: source,
		store:  store,
		log:    log,
		now:    time.Now,
	}
}

type userMonth struct {
	userID   string
	monthKey string
}

// Run reads the deal feed, recounts closed deals per salesperson and month,
// and upserts the monthly_sales and total_sales records. Failures are
// collected into the result instead of aborting the caller.
func (j *Job) Run(ctx context.Context) models.JobResult {
	start := time.Now()
	var result models.JobResult
	result.Errors = []string{}

	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("panic: %v", r))
			j.log.Error().Interface("panic", r).Msg("Achievements job panicked")
		}
		prommetrics.ObserveJobDuration(time.Since(start).Seconds())
		status := "success"
		if len(result.Errors) > 0 {
			status = "error"
		}
		prommetrics.RecordJobRun(status)
	}()

	j.log.Info().Msg("Running achievements job")

	rows, err := j.source.FetchInvoices(ctx)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		j.log.Error().Err(err).Msg("Failed to fetch deal rows")
		return result
	}
	result.RowsRead = len(rows)

	byMonth := make(map[userMonth]int)
	byUser := make(map[string]int)
	var userOrder []string
	var monthOrder []userMonth

	for _, row := range rows {
		if !metrics.IsPaidDeal(row) {
			continue
		}
		result.RowsFiltered++

		userID := strings.TrimSpace(row.UserID)
		if userID == "" {
			continue
		}

		// Monthly records count by completion date only; a deal without a
		// parseable one still counts toward the lifetime total.
		if monthKey, ok := metrics.MonthKey(row.PaidDate); ok {
			key := userMonth{userID: userID, monthKey: monthKey}
			if _, seen := byMonth[key]; !seen {
				monthOrder = append(monthOrder, key)
			}
			byMonth[key]++
		}
		if _, seen := byUser[userID]; !seen {
			userOrder = append(userOrder, userID)
		}
		byUser[userID]++
	}

	now := j.now()
	var toUpsert []models.UserAchievement

	for _, key := range monthOrder {
		count := byMonth[key]
		for _, item := range MonthlyCatalog {
			toUpsert = append(toUpsert, record(key.userID, item, key.monthKey, count >= int(item.Threshold), now))
		}
	}
	for _, userID := range userOrder {
		total := byUser[userID]
		for _, item := range TotalSalesCatalog {
			toUpsert = append(toUpsert, record(userID, item, models.LifetimeMonthKey, total >= int(item.Threshold), now))
		}
	}

	updated, err := j.store.UpsertBatch(toUpsert)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		j.log.Error().Err(err).Msg("Failed to upsert achievement records")
		return result
	}
	result.AchievementsUpdated = updated
	prommetrics.AddAchievementRecordsWritten(updated)

	j.log.Info().
		Int("rows_read", result.RowsRead).
		Int("rows_filtered", result.RowsFiltered).
		Int("achievements_updated", result.AchievementsUpdated).
		Dur("duration", time.Since(start)).
		Msg("Achievements job completed")

	return result
}

func record(userID string, item models.CatalogItem, monthKey string, achieved bool, now time.Time) models.UserAchievement {
	ua := models.UserAchievement{
		UserID:        userID,
		AchievementID: item.ID,
		MonthKey:      monthKey,
		Achieved:      achieved,
	}
	if achieved {
		ua.AchievedAt = &now
	}
	return ua
}
