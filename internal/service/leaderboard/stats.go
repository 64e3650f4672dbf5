package leaderboard

import (
	"strings"
	"time"

	"github.com/spacemetall/salesboard/internal/models"
	"github.com/spacemetall/salesboard/internal/service/metrics"
)

// BestEmployee is the top earner of a period by ruble margin.
type BestEmployee struct {
	UserID string  `json:"user_id"`
	Margin float64 `json:"margin"`
	// ConsecutiveMonths counts how many months in a row the employee has
	// topped the board, newest first. Only set for previous-month results.
	ConsecutiveMonths int `json:"consecutive_months,omitempty"`
}

// maxStreakMonths bounds the backwards walk when counting a winner's streak.
const maxStreakMonths = 24

// isExcluded matches a raw feed identity against the exclusion list with
// loose containment in both directions, same as identity resolution in the
// feeds themselves.
func isExcluded(userID string, excluded []string) bool {
	for _, ex := range excluded {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		if strings.Contains(userID, ex) || strings.Contains(ex, userID) {
			return true
		}
	}
	return false
}

func rowMonthKey(inv models.InvoiceRow) (string, bool) {
	dateStr := inv.PaidDate
	if dateStr == "" {
		dateStr = inv.InvoiceDate
	}
	return metrics.MonthKey(dateStr)
}

// TotalMonthBudget sums the budget of deals closed in the given month across
// all salespeople, skipping excluded identities.
func TotalMonthBudget(invoices []models.InvoiceRow, monthKey string, excluded []string) float64 {
	var total float64
	for _, inv := range invoices {
		if !metrics.IsPaidDeal(inv) || isExcluded(strings.TrimSpace(inv.UserID), excluded) {
			continue
		}
		if key, ok := rowMonthKey(inv); ok && key == monthKey {
			total += inv.BudgetOrAmount()
		}
	}
	return total
}

// TotalMonthMargin sums the ruble margin of deals closed in the given month
// across all salespeople, skipping excluded identities.
func TotalMonthMargin(invoices []models.InvoiceRow, monthKey string, excluded []string) float64 {
	var total float64
	for _, inv := range invoices {
		if !metrics.IsPaidDeal(inv) || isExcluded(strings.TrimSpace(inv.UserID), excluded) {
			continue
		}
		if key, ok := rowMonthKey(inv); ok && key == monthKey {
			total += metrics.MarginRub(inv)
		}
	}
	return total
}

// marginByUser sums margin per known salesperson for one month. Rows whose
// identity resolves to no known salesperson are dropped.
func marginByUser(invoices []models.InvoiceRow, monthKey string, userIDs, excluded []string) map[string]float64 {
	byUser := make(map[string]float64)
	for _, inv := range invoices {
		if !metrics.IsPaidDeal(inv) {
			continue
		}
		uid := strings.TrimSpace(inv.UserID)
		if isExcluded(uid, excluded) {
			continue
		}
		var matched string
		for _, id := range userIDs {
			if metrics.UserIDMatches(id, uid) {
				matched = id
				break
			}
		}
		if matched == "" {
			continue
		}
		if key, ok := rowMonthKey(inv); ok && key == monthKey {
			byUser[matched] += metrics.MarginRub(inv)
		}
	}
	return byUser
}

// BestEmployeeForMonth picks the salesperson with the highest strictly
// positive margin in one month. Ties keep the earlier candidate in userIDs
// order. nil when nobody earned a positive margin.
func BestEmployeeForMonth(invoices []models.InvoiceRow, monthKey string, userIDs, excluded []string) *BestEmployee {
	byUser := marginByUser(invoices, monthKey, userIDs, excluded)

	var best *BestEmployee
	for _, id := range userIDs {
		margin, ok := byUser[id]
		if !ok || margin <= 0 {
			continue
		}
		if best == nil || margin > best.Margin {
			best = &BestEmployee{UserID: id, Margin: margin}
		}
	}
	return best
}

// BestEmployeeByPreviousMonth picks last month's winner and counts their
// winning streak, walking back month by month up to maxStreakMonths and never
// past metrics.MinMonthKey.
func BestEmployeeByPreviousMonth(invoices []models.InvoiceRow, userIDs, excluded []string, now time.Time) *BestEmployee {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthKeys []string
	for i := 1; i <= maxStreakMonths; i++ {
		key := firstOfMonth.AddDate(0, -i, 0).Format("2006-01")
		if key < metrics.MinMonthKey {
			break
		}
		monthKeys = append(monthKeys, key)
	}
	if len(monthKeys) == 0 {
		return nil
	}

	first := BestEmployeeForMonth(invoices, monthKeys[0], userIDs, excluded)
	if first == nil {
		return nil
	}

	first.ConsecutiveMonths = 1
	for _, key := range monthKeys[1:] {
		next := BestEmployeeForMonth(invoices, key, userIDs, excluded)
		if next == nil || !metrics.UserIDMatches(first.UserID, next.UserID) {
			break
		}
		first.ConsecutiveMonths++
	}
	return first
}

// BestEmployeeYearToDate picks the salesperson with the highest strictly
// positive margin accumulated since January 1 of the current year.
func BestEmployeeYearToDate(invoices []models.InvoiceRow, userIDs, excluded []string, now time.Time) *BestEmployee {
	yearPrefix := now.Format("2006")
	byUser := make(map[string]float64)

	for _, inv := range invoices {
		if !metrics.IsPaidDeal(inv) {
			continue
		}
		uid := strings.TrimSpace(inv.UserID)
		if isExcluded(uid, excluded) {
			continue
		}
		var matched string
		for _, id := range userIDs {
			if metrics.UserIDMatches(id, uid) {
				matched = id
				break
			}
		}
		if matched == "" {
			continue
		}
		if key, ok := rowMonthKey(inv); ok && strings.HasPrefix(key, yearPrefix) {
			byUser[matched] += metrics.MarginRub(inv)
		}
	}

	var best *BestEmployee
	for _, id := range userIDs {
		margin, ok := byUser[id]
		if !ok || margin <= 0 {
			continue
		}
		if best == nil || margin > best.Margin {
			best = &BestEmployee{UserID: id, Margin: margin}
		}
	}
	return best
}
