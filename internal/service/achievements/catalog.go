// Package achievements holds the achievement catalog, the evaluator and the
// reconciliation job that persists per-user achievement records.
package achievements

import (
	"fmt"
	"math"

	"github.com/spacemetall/salesboard/internal/models"
)

// Threshold ladders per achievement family.
var (
	monthlySalesThresholds = []int{5, 10, 20, 35, 50}

	totalSalesThresholds = []int{
		5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100,
		120, 140, 160, 180, 200, 220, 240, 260, 280, 300,
	}

	totalMarginThresholds = []float64{
		100_000, 250_000, 500_000, 750_000, 1_000_000, 1_500_000, 2_000_000, 2_500_000,
		3_000_000, 4_000_000, 5_000_000, 7_000_000, 10_000_000, 15_000_000, 20_000_000,
		25_000_000, 30_000_000,
	}

	maxMonthlyBudgetThresholds = []float64{
		50_000, 75_000, 100_000, 150_000, 200_000, 250_000, 300_000, 400_000, 500_000,
		600_000, 750_000, 1_000_000, 1_250_000, 1_500_000, 2_000_000, 2_500_000,
		3_000_000, 4_000_000, 5_000_000,
	}

	maxMonthlySalesThresholds = []int{1, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50}
)

// formatMarginTitle renders a ruble threshold the way the dashboard shows it:
// "750 тыс. ₽", "1 млн ₽", "1.5 млн ₽".
func formatMarginTitle(rubles float64) string {
	if rubles >= 1_000_000 {
		m := rubles / 1_000_000
		if m == math.Floor(m) {
			return fmt.Sprintf("%.0f млн ₽", m)
		}
		return fmt.Sprintf("%.1f млн ₽", m)
	}
	return fmt.Sprintf("%.0f тыс. ₽", rubles/1_000)
}

// salesWord picks the Russian plural form for a sales count.
func salesWord(n int) string {
	switch {
	case n == 1:
		return "продажа"
	case n >= 2 && n <= 4:
		return "продажи"
	default:
		return "продаж"
	}
}

func monthlySalesCatalog() []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(monthlySalesThresholds))
	for _, t := range monthlySalesThresholds {
		items = append(items, models.CatalogItem{
			ID:          fmt.Sprintf("ms-%d", t),
			Key:         fmt.Sprintf("monthly_sales_%d", t),
			Title:       fmt.Sprintf("%d продаж", t),
			Description: fmt.Sprintf("%d закрытых сделок за месяц", t),
			Threshold:   float64(t),
			Category:    models.CategoryMonthlySales,
		})
	}
	return items
}

func totalSalesCatalog() []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(totalSalesThresholds))
	for _, t := range totalSalesThresholds {
		items = append(items, models.CatalogItem{
			ID:          fmt.Sprintf("ts-%d", t),
			Key:         fmt.Sprintf("total_sales_%d", t),
			Title:       fmt.Sprintf("%d продаж", t),
			Description: fmt.Sprintf("%d закрытых сделок всего", t),
			Threshold:   float64(t),
			Category:    models.CategoryTotalSales,
		})
	}
	return items
}

func totalMarginCatalog() []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(totalMarginThresholds))
	for _, t := range totalMarginThresholds {
		items = append(items, models.CatalogItem{
			ID:          fmt.Sprintf("tm-%.0f", t),
			Key:         fmt.Sprintf("total_margin_%.0f", t),
			Title:       formatMarginTitle(t),
			Description: fmt.Sprintf("Сумма продаж %s и выше", formatMarginTitle(t)),
			Threshold:   t,
			Category:    models.CategoryTotalMargin,
		})
	}
	return items
}

func maxMonthlyBudgetCatalog() []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(maxMonthlyBudgetThresholds))
	for _, t := range maxMonthlyBudgetThresholds {
		items = append(items, models.CatalogItem{
			ID:          fmt.Sprintf("mmb-%.0f", t),
			Key:         fmt.Sprintf("max_monthly_budget_%.0f", t),
			Title:       formatMarginTitle(t),
			Description: fmt.Sprintf("Рекордная маржа (бюджет) в одном месяце: %s и выше", formatMarginTitle(t)),
			Threshold:   t,
			Category:    models.CategoryMaxMonthlyBudget,
		})
	}
	return items
}

func maxMonthlySalesCatalog() []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(maxMonthlySalesThresholds))
	for _, t := range maxMonthlySalesThresholds {
		items = append(items, models.CatalogItem{
			ID:          fmt.Sprintf("mms-%d", t),
			Key:         fmt.Sprintf("max_monthly_sales_%d", t),
			Title:       fmt.Sprintf("%d %s в месяц", t, salesWord(t)),
			Description: fmt.Sprintf("%d закрытых сделок в одном месяце", t),
			Threshold:   float64(t),
			Category:    models.CategoryMaxMonthlySales,
		})
	}
	return items
}

// Pre-generated catalogs. Catalog (monthly + lifetime sales) is what the
// reconciliation job persists; the remaining families are computed from
// metrics on read.
var (
	MonthlyCatalog          = monthlySalesCatalog()
	TotalSalesCatalog       = totalSalesCatalog()
	TotalMarginCatalog      = totalMarginCatalog()
	MaxMonthlyBudgetCatalog = maxMonthlyBudgetCatalog()
	MaxMonthlySalesCatalog  = maxMonthlySalesCatalog()

	Catalog = append(append([]models.CatalogItem{}, MonthlyCatalog...), TotalSalesCatalog...)
)

// CountAchievements counts how many thresholds the given metrics meet or
// exceed across the four non-monthly families.
func CountAchievements(paidCount int, budgetTotal, maxMonthlyBudget float64, maxMonthlySales int) int {
	count := 0
	for _, t := range totalSalesThresholds {
		if paidCount >= t {
			count++
		}
	}
	for _, t := range totalMarginThresholds {
		if budgetTotal >= t {
			count++
		}
	}
	for _, t := range maxMonthlyBudgetThresholds {
		if maxMonthlyBudget >= t {
			count++
		}
	}
	for _, t := range maxMonthlySalesThresholds {
		if maxMonthlySales >= t {
			count++
		}
	}
	return count
}

// MergeWithUserData left-joins the catalog with a user's persisted records.
// Catalog items without a record come back unachieved.
func MergeWithUserData(catalog []models.CatalogItem, userAchievements []models.UserAchievement) []models.AchievedCatalogItem {
	byID := make(map[string]models.UserAchievement, len(userAchievements))
	for _, ua := range userAchievements {
		byID[ua.AchievementID] = ua
	}

	merged := make([]models.AchievedCatalogItem, 0, len(catalog))
	for _, item := range catalog {
		out := models.AchievedCatalogItem{CatalogItem: item}
		if ua, ok := byID[item.ID]; ok {
			out.Achieved = ua.Achieved
			out.AchievedAt = ua.AchievedAt
		}
		merged = append(merged, out)
	}
	return merged
}
