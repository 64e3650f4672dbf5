// Package models defines domain models for the sales dashboard.
package models

// ConnectionRow is a company contact record from the connections feed.
// A connection counts toward a salesperson's companies total only once it
// has a named contact.
type ConnectionRow struct {
	UserID      string `json:"user_id"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	CreatedAt   string `json:"created_at"`
}

// InvoiceRow is a deal record from the sales funnel feed. Dates are kept as
// raw strings; the feed mixes DD.MM.YYYY, ISO and spreadsheet serial formats
// and normalization happens at aggregation time.
type InvoiceRow struct {
	UserID string `json:"user_id"`
	// InvoiceID is the invoice number; a deal is "issued" iff it is non-blank.
	InvoiceID     string  `json:"invoice_id"`
	InvoiceAmount float64 `json:"invoice_amount"`
	InvoiceDate   string  `json:"invoice_date"`
	// Status must match the canonical paid status for the deal to count as closed.
	Status   string `json:"status"`
	PaidDate string `json:"paid_date,omitempty"`
	// Budget defaults to InvoiceAmount when the feed has no separate budget column.
	Budget         *float64 `json:"budget,omitempty"`
	PurchaseAmount *float64 `json:"purchase_amount,omitempty"`
}

// BudgetOrAmount returns the deal budget, falling back to the sale amount.
func (r InvoiceRow) BudgetOrAmount() float64 {
	if r.Budget != nil {
		return *r.Budget
	}
	return r.InvoiceAmount
}

// Totals holds lifetime aggregates for one salesperson.
type Totals struct {
	IssuedTotal     int     `json:"issued_total"`
	PaidTotal       int     `json:"paid_total"`
	ConversionTotal float64 `json:"conversion_total"`
	CancelledCount  int     `json:"cancelled_count"`
	PaidSumTotal    float64 `json:"paid_sum_total"`
	BudgetTotal     float64 `json:"budget_total"`
	TotalMargin     float64 `json:"total_margin"`
}

// BucketMetrics holds aggregates for one monetary range.
type BucketMetrics struct {
	BucketID          string  `json:"bucket_id"`
	Label             string  `json:"label"`
	IssuedCountBucket int     `json:"issued_count_bucket"`
	PaidCountBucket   int     `json:"paid_count_bucket"`
	ConversionBucket  float64 `json:"conversion_bucket"`
	PaidSumBucket     float64 `json:"paid_sum_bucket"`
	BudgetSumBucket   float64 `json:"budget_sum_bucket"`
	// AvgMarginBucket is nil when no paid deal in the range has a computable
	// percent margin; zero would be a different statement.
	AvgMarginBucket *float64 `json:"avg_margin_bucket,omitempty"`
}

// MonthlyStats holds per-month aggregates for one salesperson.
type MonthlyStats struct {
	// MonthlyPaidCount is the all-time record of closed deals in one month.
	MonthlyPaidCount int `json:"monthly_paid_count"`
	// MonthlyMargin is the all-time record of margin earned in one month.
	MonthlyMargin      float64 `json:"monthly_margin"`
	CurrentMonthPaid   int     `json:"current_month_paid"`
	CurrentMonthMargin float64 `json:"current_month_margin"`
	CurrentMonthBudget float64 `json:"current_month_budget"`
	// ByMonth maps YYYY-MM to the closed-deal count of that month.
	ByMonth map[string]int `json:"by_month"`
}
