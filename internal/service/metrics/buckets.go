package metrics

import (
	"math"

	"github.com/spacemetall/salesboard/internal/models"
)

// Bucket is one monetary range of deal amounts.
type Bucket struct {
	ID    string
	Label string
	Min   float64
	Max   float64
}

// Buckets are the five fixed deal-amount ranges of the dashboard.
var Buckets = []Bucket{
	{ID: "<50k", Label: "< 50 000", Min: 0, Max: 49999},
	{ID: "50-200k", Label: "50 000 – 200 000", Min: 50000, Max: 199999},
	{ID: "200-500k", Label: "200 000 – 500 000", Min: 200000, Max: 499999},
	{ID: "500k-1M", Label: "500 000 – 1 000 000", Min: 500000, Max: 999999},
	{ID: ">1M", Label: "> 1 000 000", Min: 1000000, Max: math.Inf(1)},
}

// AggregateByBuckets groups a salesperson's deals into the fixed monetary
// ranges. Always returns exactly one entry per bucket, in range order.
func AggregateByBuckets(invoices []models.InvoiceRow, userID string) []models.BucketMetrics {
	var userInvoices []models.InvoiceRow
	for _, inv := range invoices {
		if UserIDMatches(userID, inv.UserID) {
			userInvoices = append(userInvoices, inv)
		}
	}

	result := make([]models.BucketMetrics, 0, len(Buckets))
	for _, bucket := range Buckets {
		bm := models.BucketMetrics{BucketID: bucket.ID, Label: bucket.Label}

		var marginSum float64
		var marginN int
		for _, inv := range userInvoices {
			if inv.InvoiceAmount < bucket.Min || inv.InvoiceAmount > bucket.Max {
				continue
			}
			if HasInvoiceIssued(inv) {
				bm.IssuedCountBucket++
			}
			if IsPaidDeal(inv) {
				bm.PaidCountBucket++
				bm.PaidSumBucket += inv.InvoiceAmount
				bm.BudgetSumBucket += inv.BudgetOrAmount()
				if pct, ok := MarginPercent(inv); ok {
					marginSum += pct
					marginN++
				}
			}
		}

		if bm.IssuedCountBucket > 0 {
			bm.ConversionBucket = float64(bm.PaidCountBucket) / float64(bm.IssuedCountBucket)
		}
		if marginN > 0 {
			avg := marginSum / float64(marginN)
			bm.AvgMarginBucket = &avg
		}
		result = append(result, bm)
	}
	return result
}
