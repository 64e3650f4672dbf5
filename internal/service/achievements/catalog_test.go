package achievements

import (
	"testing"
	"time"

	"github.com/spacemetall/salesboard/internal/models"
)

func TestCatalogSizes(t *testing.T) {
	if len(MonthlyCatalog) != 5 {
		t.Errorf("MonthlyCatalog size = %d, want 5", len(MonthlyCatalog))
	}
	if len(TotalSalesCatalog) != 21 {
		t.Errorf("TotalSalesCatalog size = %d, want 21", len(TotalSalesCatalog))
	}
	if len(Catalog) != len(MonthlyCatalog)+len(TotalSalesCatalog) {
		t.Errorf("Catalog size = %d, want %d", len(Catalog), len(MonthlyCatalog)+len(TotalSalesCatalog))
	}

	seen := make(map[string]struct{})
	for _, item := range Catalog {
		if _, dup := seen[item.ID]; dup {
			t.Errorf("Duplicate catalog id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
}

func TestFormatMarginTitle(t *testing.T) {
	tests := []struct {
		rubles float64
		want   string
	}{
		{rubles: 100_000, want: "100 тыс. ₽"},
		{rubles: 750_000, want: "750 тыс. ₽"},
		{rubles: 1_000_000, want: "1 млн ₽"},
		{rubles: 1_500_000, want: "1.5 млн ₽"},
		{rubles: 30_000_000, want: "30 млн ₽"},
	}

	for _, tt := range tests {
		if got := formatMarginTitle(tt.rubles); got != tt.want {
			t.Errorf("formatMarginTitle(%v) = %q, want %q", tt.rubles, got, tt.want)
		}
	}
}

func TestSalesWord(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{n: 1, want: "продажа"},
		{n: 2, want: "продажи"},
		{n: 4, want: "продажи"},
		{n: 5, want: "продаж"},
		{n: 25, want: "продаж"},
	}

	for _, tt := range tests {
		if got := salesWord(tt.n); got != tt.want {
			t.Errorf("salesWord(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCountAchievements(t *testing.T) {
	if got := CountAchievements(0, 0, 0, 0); got != 0 {
		t.Errorf("CountAchievements with zero metrics = %d, want 0", got)
	}

	// 5 closed deals, 100k budget, 50k record month, 1 sale in best month.
	got := CountAchievements(5, 100_000, 50_000, 1)
	if got != 4 {
		t.Errorf("CountAchievements(5, 100k, 50k, 1) = %d, want 4", got)
	}

	// Counts never decrease as metrics grow.
	prev := -1
	for paid := 0; paid <= 300; paid += 25 {
		cur := CountAchievements(paid, float64(paid)*100_000, float64(paid)*20_000, paid/6)
		if cur < prev {
			t.Fatalf("CountAchievements regressed from %d to %d at paid=%d", prev, cur, paid)
		}
		prev = cur
	}
}

func TestMergeWithUserData(t *testing.T) {
	achievedAt := time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)
	records := []models.UserAchievement{
		{UserID: "Иванов Иван", AchievementID: "ms-5", MonthKey: "2025-01", Achieved: true, AchievedAt: &achievedAt},
		{UserID: "Иванов Иван", AchievementID: "ms-10", MonthKey: "2025-01", Achieved: false},
	}

	merged := MergeWithUserData(Catalog, records)

	if len(merged) != len(Catalog) {
		t.Fatalf("Merged size = %d, want %d", len(merged), len(Catalog))
	}

	byID := make(map[string]models.AchievedCatalogItem, len(merged))
	for _, item := range merged {
		byID[item.ID] = item
	}

	if !byID["ms-5"].Achieved {
		t.Error("ms-5 expected achieved")
	}
	if byID["ms-5"].AchievedAt == nil || !byID["ms-5"].AchievedAt.Equal(achievedAt) {
		t.Error("ms-5 expected the persisted achieved_at")
	}
	if byID["ms-10"].Achieved {
		t.Error("ms-10 expected unachieved")
	}
	if byID["ts-5"].Achieved {
		t.Error("Catalog items without a record must come back unachieved")
	}
}
