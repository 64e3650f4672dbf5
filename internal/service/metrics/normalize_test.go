package metrics

import (
	"testing"

	"github.com/spacemetall/salesboard/internal/models"
)

func fptr(v float64) *float64 {
	return &v
}

func TestUserIDMatches(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "exact match",
			a:    "Иванов Иван",
			b:    "Иванов Иван",
			want: true,
		},
		{
			name: "exact match after trim",
			a:    "  Иванов Иван  ",
			b:    "Иванов Иван",
			want: true,
		},
		{
			name: "short and full name form",
			a:    "Ружников Дмитрий",
			b:    "Ружников Дмитрий Константинович",
			want: true,
		},
		{
			name: "prefix in the other direction",
			a:    "Ружников Дмитрий Константинович",
			b:    "Ружников Дмитрий",
			want: true,
		},
		{
			name: "short identifiers never prefix-match",
			a:    "Иван",
			b:    "Иванов",
			want: false,
		},
		{
			name: "long but unrelated",
			a:    "Ружников Дмитрий",
			b:    "Петров Пётр Петрович",
			want: false,
		},
		{
			name: "empty left",
			a:    "",
			b:    "Иванов Иван",
			want: false,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserIDMatches(tt.a, tt.b); got != tt.want {
				t.Errorf("UserIDMatches(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsPaidDeal(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{
			name:   "canonical paid status",
			status: "Успешно реализовано",
			want:   true,
		},
		{
			name:   "extra whitespace collapses",
			status: "  Успешно   реализовано ",
			want:   true,
		},
		{
			name:   "other status",
			status: "Закрыто и не реализовано",
			want:   false,
		},
		{
			name:   "blank status",
			status: "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := models.InvoiceRow{Status: tt.status}
			if got := IsPaidDeal(row); got != tt.want {
				t.Errorf("IsPaidDeal(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestHasInvoiceIssued(t *testing.T) {
	if !HasInvoiceIssued(models.InvoiceRow{InvoiceID: "СЧ-1042"}) {
		t.Error("Expected issued for non-blank invoice number")
	}
	if HasInvoiceIssued(models.InvoiceRow{InvoiceID: "   "}) {
		t.Error("Expected not issued for whitespace invoice number")
	}
}

func TestMarginRub(t *testing.T) {
	tests := []struct {
		name string
		row  models.InvoiceRow
		want float64
	}{
		{
			name: "positive margin",
			row:  models.InvoiceRow{InvoiceAmount: 100000, PurchaseAmount: fptr(60000)},
			want: 40000,
		},
		{
			name: "negative margin clamps to zero",
			row:  models.InvoiceRow{InvoiceAmount: 50000, PurchaseAmount: fptr(70000)},
			want: 0,
		},
		{
			name: "no purchase amount",
			row:  models.InvoiceRow{InvoiceAmount: 100000},
			want: 0,
		},
		{
			name: "non-positive sale amount",
			row:  models.InvoiceRow{InvoiceAmount: 0, PurchaseAmount: fptr(10000)},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarginRub(tt.row); got != tt.want {
				t.Errorf("MarginRub() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarginPercent(t *testing.T) {
	pct, ok := MarginPercent(models.InvoiceRow{InvoiceAmount: 100000, PurchaseAmount: fptr(60000)})
	if !ok || pct != 40 {
		t.Errorf("MarginPercent() = %v, %v, want 40, true", pct, ok)
	}

	if _, ok := MarginPercent(models.InvoiceRow{InvoiceAmount: 100000}); ok {
		t.Error("Expected no percent margin without a purchase amount")
	}
	if _, ok := MarginPercent(models.InvoiceRow{InvoiceAmount: 0, PurchaseAmount: fptr(100)}); ok {
		t.Error("Expected no percent margin for non-positive sale amount")
	}

	pct, ok = MarginPercent(models.InvoiceRow{InvoiceAmount: 50000, PurchaseAmount: fptr(70000)})
	if !ok || pct != -40 {
		t.Errorf("MarginPercent() = %v, %v, want -40, true", pct, ok)
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "dotted date",
			raw:  "13.01.2025",
			want: "2025-01",
			ok:   true,
		},
		{
			name: "dotted date with time suffix",
			raw:  "13.01.2025 14:30",
			want: "2025-01",
			ok:   true,
		},
		{
			name: "slashed day-month-year",
			raw:  "1/2/2025",
			want: "2025-02",
			ok:   true,
		},
		{
			name: "iso date",
			raw:  "2025-01-13",
			want: "2025-01",
			ok:   true,
		},
		{
			name: "iso datetime",
			raw:  "2025-01-13T14:30:00Z",
			want: "2025-01",
			ok:   true,
		},
		{
			name: "spreadsheet serial",
			raw:  "45658",
			want: "2025-01",
			ok:   true,
		},
		{
			name: "month out of range",
			raw:  "13.13.2025",
			ok:   false,
		},
		{
			name: "garbage",
			raw:  "скоро",
			ok:   false,
		},
		{
			name: "empty",
			raw:  "",
			ok:   false,
		},
		{
			name: "whitespace only",
			raw:  "   ",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MonthKey(tt.raw)
			if ok != tt.ok {
				t.Fatalf("MonthKey(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("MonthKey(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
