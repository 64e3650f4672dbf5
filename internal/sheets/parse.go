package sheets

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spacemetall/salesboard/internal/models"
)

var currencyMarkerRe = regexp.MustCompile(`(?i)руб\.?|р\.?`)

// ParseAmount reads a monetary value out of feed formats like "р.44 500,00"
// or "руб. 1 234,56". Currency markers and spacing are stripped and the
// decimal comma becomes a dot. Unparseable input is 0.
func ParseAmount(raw string) float64 {
	if strings.TrimSpace(raw) == "" {
		return 0
	}
	s := currencyMarkerRe.ReplaceAllString(raw, "")
	s = strings.Join(strings.Fields(s), "")
	s = strings.ReplaceAll(s, ",", ".")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseConnectionRow maps one CSV record to a connection using resolved
// column indexes, falling back to positional order for unresolved columns.
func parseConnectionRow(row []string, cols map[string]int) models.ConnectionRow {
	idx := func(name string, def int) int {
		if i, ok := cols[name]; ok && i >= 0 {
			return i
		}
		return def
	}
	return models.ConnectionRow{
		UserID:      cell(row, idx("user_id", 0)),
		CompanyID:   cell(row, idx("company_id", 1)),
		CompanyName: cell(row, idx("company_name", 2)),
		ContactName: cell(row, idx("contact_name", 3)),
		CreatedAt:   cell(row, idx("created_at", 4)),
	}
}

// parseInvoiceRow maps one CSV record to a deal. Budget and purchase amount
// stay unset when their columns are missing or blank; blank is not zero for
// margin math.
func parseInvoiceRow(row []string, cols map[string]int) models.InvoiceRow {
	idx := func(name string, def int) int {
		if i, ok := cols[name]; ok && i >= 0 {
			return i
		}
		return def
	}

	inv := models.InvoiceRow{
		UserID:        strings.TrimSpace(cell(row, idx("user_id", 0))),
		InvoiceID:     strings.TrimSpace(cell(row, idx("invoice_number", 1))),
		InvoiceAmount: ParseAmount(cell(row, idx("sales_amount", 2))),
		InvoiceDate:   cell(row, idx("date", 3)),
		Status:        strings.TrimSpace(cell(row, idx("status_name", 4))),
		PaidDate:      strings.TrimSpace(cell(row, idx("paid_date", 5))),
	}

	if i := cols["budget"]; i >= 0 {
		if raw := cell(row, i); strings.TrimSpace(raw) != "" {
			budget := ParseAmount(raw)
			inv.Budget = &budget
		}
	}
	if i := cols["purchase_amount"]; i >= 0 {
		if raw := cell(row, i); strings.TrimSpace(raw) != "" {
			purchase := ParseAmount(raw)
			inv.PurchaseAmount = &purchase
		}
	}
	return inv
}
