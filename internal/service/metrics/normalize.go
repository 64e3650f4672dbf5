// Package metrics computes per-salesperson sales metrics from the raw feeds.
package metrics

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spacemetall/salesboard/internal/models"
)

// PaidStatuses lists the deal statuses that count as a closed sale.
// Only these deals enter sales totals and achievements.
var PaidStatuses = []string{"Успешно реализовано"}

// minPrefixRunes is the minimum name length before prefix matching kicks in.
// Protects short identifiers from accidental prefix collisions.
const minPrefixRunes = 10

var whitespaceRe = regexp.MustCompile(`\s+`)

func normalizeStatus(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// HasInvoiceIssued reports whether an invoice was issued for the deal.
// The feed marks issued deals with a non-blank invoice number.
func HasInvoiceIssued(row models.InvoiceRow) bool {
	return strings.TrimSpace(row.InvoiceID) != ""
}

// IsPaidDeal reports whether the deal is closed-won.
func IsPaidDeal(row models.InvoiceRow) bool {
	s := normalizeStatus(row.Status)
	for _, paid := range PaidStatuses {
		if normalizeStatus(paid) == s {
			return true
		}
	}
	return false
}

// UserIDMatches compares two salesperson identifiers. The feeds mix short and
// full name forms ("Ружников Дмитрий" vs "Ружников Дмитрий Константинович"),
// so two sufficiently long identifiers match when one is a prefix of the other.
func UserIDMatches(userID, rowUserID string) bool {
	a := strings.TrimSpace(userID)
	b := strings.TrimSpace(rowUserID)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if utf8.RuneCountInString(a) >= minPrefixRunes && utf8.RuneCountInString(b) >= minPrefixRunes {
		if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
			return true
		}
	}
	return false
}

// MarginRub returns the deal margin in rubles: sale amount minus purchase
// amount, clamped at zero. Zero when either amount is unusable.
func MarginRub(row models.InvoiceRow) float64 {
	if row.InvoiceAmount <= 0 || row.PurchaseAmount == nil {
		return 0
	}
	m := row.InvoiceAmount - *row.PurchaseAmount
	if m < 0 {
		return 0
	}
	return m
}

// MarginPercent returns the percent margin of the deal. The second return is
// false when the margin cannot be computed (no purchase amount or non-positive
// sale amount); such deals are excluded from averages rather than counted as 0%.
func MarginPercent(row models.InvoiceRow) (float64, bool) {
	if row.InvoiceAmount <= 0 || row.PurchaseAmount == nil {
		return 0, false
	}
	return (row.InvoiceAmount - *row.PurchaseAmount) / row.InvoiceAmount * 100, true
}

var (
	ddmmyyyyRe = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{4})$`)
	isoDateRe  = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
)

// excelEpoch is day zero of spreadsheet serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// fallbackLayouts are tried when a date matches none of the known feed formats.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
}

// MonthKey extracts the calendar month from a raw feed date as "YYYY-MM".
// The feeds mix DD.MM.YYYY, DD/MM/YYYY, ISO dates with optional time suffix
// and spreadsheet serial numbers. Returns false for unparseable input.
func MonthKey(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	// Strip a time suffix: "13.01.2025 14:30" and "2025-01-13T14:30" both
	// carry the date in the first field.
	if i := strings.IndexAny(s, " \tT"); i > 0 {
		s = s[:i]
	}

	if m := ddmmyyyyRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return m[3] + "-" + pad2(month), true
		}
		return "", false
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return m[1] + "-" + pad2(month), true
		}
		return "", false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		d := excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
		return d.Format("2006-01"), true
	}

	for _, layout := range fallbackLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01"), true
		}
	}
	return "", false
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// CurrentMonthKey formats a point in time as its "YYYY-MM" month key.
func CurrentMonthKey(now time.Time) string {
	return now.Format("2006-01")
}

// PreviousMonthKey returns the month key of the month before now.
func PreviousMonthKey(now time.Time) string {
	return now.AddDate(0, 0, -now.Day()).Format("2006-01")
}
