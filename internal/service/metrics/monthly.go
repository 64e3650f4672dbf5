package metrics

import (
	"time"

	"github.com/spacemetall/salesboard/internal/models"
)

// MinMonthKey is the earliest month that counts toward monthly records and
// achievements. Older feed history predates the gamification program.
const MinMonthKey = "2024-01"

type monthAgg struct {
	count  int
	margin float64
	budget float64
}

// groupPaidByMonth buckets a salesperson's closed deals by calendar month.
// The completion date wins over the invoice date; deals with unparseable
// dates or months before MinMonthKey are dropped.
func groupPaidByMonth(invoices []models.InvoiceRow, userID string) map[string]*monthAgg {
	byMonth := make(map[string]*monthAgg)
	for _, inv := range invoices {
		if !UserIDMatches(userID, inv.UserID) || !IsPaidDeal(inv) {
			continue
		}
		dateStr := inv.PaidDate
		if dateStr == "" {
			dateStr = inv.InvoiceDate
		}
		key, ok := MonthKey(dateStr)
		if !ok || key < MinMonthKey {
			continue
		}
		agg := byMonth[key]
		if agg == nil {
			agg = &monthAgg{}
			byMonth[key] = agg
		}
		agg.count++
		agg.margin += MarginRub(inv)
		agg.budget += inv.BudgetOrAmount()
	}
	return byMonth
}

// ComputeMonthlyStats derives per-month records and the current-month snapshot
// for one salesperson. now fixes which month counts as current.
func ComputeMonthlyStats(invoices []models.InvoiceRow, userID string, now time.Time) models.MonthlyStats {
	byMonth := groupPaidByMonth(invoices, userID)

	stats := models.MonthlyStats{ByMonth: make(map[string]int, len(byMonth))}
	for key, agg := range byMonth {
		stats.ByMonth[key] = agg.count
		if agg.count > stats.MonthlyPaidCount {
			stats.MonthlyPaidCount = agg.count
		}
		if agg.margin > stats.MonthlyMargin {
			stats.MonthlyMargin = agg.margin
		}
	}

	if cur := byMonth[CurrentMonthKey(now)]; cur != nil {
		stats.CurrentMonthPaid = cur.count
		stats.CurrentMonthMargin = cur.margin
		stats.CurrentMonthBudget = cur.budget
	}
	return stats
}

// ComputeMaxMonthlyBudget returns the record budget sum a salesperson has
// closed within one calendar month.
func ComputeMaxMonthlyBudget(invoices []models.InvoiceRow, userID string) float64 {
	var max float64
	for _, agg := range groupPaidByMonth(invoices, userID) {
		if agg.budget > max {
			max = agg.budget
		}
	}
	return max
}

// ClosedCountForMonth returns the number of deals a salesperson closed in
// the given "YYYY-MM" month.
func ClosedCountForMonth(invoices []models.InvoiceRow, userID, monthKey string) int {
	if agg := groupPaidByMonth(invoices, userID)[monthKey]; agg != nil {
		return agg.count
	}
	return 0
}
