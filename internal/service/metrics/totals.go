package metrics

import (
	"strings"

	"github.com/spacemetall/salesboard/internal/models"
)

// ComputeTotals aggregates lifetime deal totals for one salesperson.
func ComputeTotals(invoices []models.InvoiceRow, userID string) models.Totals {
	var t models.Totals

	for _, inv := range invoices {
		if !UserIDMatches(userID, inv.UserID) {
			continue
		}

		issued := HasInvoiceIssued(inv)
		paid := IsPaidDeal(inv)

		if issued {
			t.IssuedTotal++
		}
		if paid {
			t.PaidTotal++
			t.PaidSumTotal += inv.InvoiceAmount
			t.BudgetTotal += inv.BudgetOrAmount()
			t.TotalMargin += MarginRub(inv)
		}
		// Cancelled: invoice went out, the deal ended in some non-paid
		// status. Blank status means still in flight.
		if issued && !paid && strings.TrimSpace(inv.Status) != "" {
			t.CancelledCount++
		}
	}

	if t.IssuedTotal > 0 {
		t.ConversionTotal = float64(t.PaidTotal) / float64(t.IssuedTotal)
	}
	return t
}

// CompaniesCount counts the distinct companies a salesperson has a named
// contact at. Connections without a contact do not count.
func CompaniesCount(companies []models.ConnectionRow, userID string) int {
	seen := make(map[string]struct{})
	for _, c := range companies {
		if c.UserID != userID {
			continue
		}
		if strings.TrimSpace(c.ContactName) == "" {
			continue
		}
		seen[c.CompanyID] = struct{}{}
	}
	return len(seen)
}
