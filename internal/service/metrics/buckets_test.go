package metrics

import (
	"testing"

	"github.com/spacemetall/salesboard/internal/models"
)

func TestAggregateByBuckets_AlwaysFiveEntries(t *testing.T) {
	got := AggregateByBuckets(nil, "Иванов Иван Иванович")

	if len(got) != len(Buckets) {
		t.Fatalf("Expected %d buckets, got %d", len(Buckets), len(got))
	}
	for i, bm := range got {
		if bm.BucketID != Buckets[i].ID {
			t.Errorf("Bucket %d id = %q, want %q", i, bm.BucketID, Buckets[i].ID)
		}
		if bm.PaidCountBucket != 0 || bm.IssuedCountBucket != 0 {
			t.Errorf("Bucket %q expected empty, got %+v", bm.BucketID, bm)
		}
		if bm.AvgMarginBucket != nil {
			t.Errorf("Bucket %q expected nil avg margin, got %v", bm.BucketID, *bm.AvgMarginBucket)
		}
	}
}

func TestAggregateByBuckets_DealLandsInOneBucket(t *testing.T) {
	invoices := []models.InvoiceRow{
		{UserID: "Иванов Иван Иванович", InvoiceID: "СЧ-1", InvoiceAmount: 25000, Status: paidStatus, PurchaseAmount: fptr(20000)},
	}

	got := AggregateByBuckets(invoices, "Иванов Иван Иванович")

	var paidTotal int
	for _, bm := range got {
		paidTotal += bm.PaidCountBucket
	}
	if paidTotal != 1 {
		t.Fatalf("Deal counted in %d buckets, want 1", paidTotal)
	}
	if got[0].PaidCountBucket != 1 {
		t.Errorf("Expected the deal in the first range, got %+v", got)
	}
	if got[0].AvgMarginBucket == nil || *got[0].AvgMarginBucket != 20 {
		t.Errorf("Expected 20%% avg margin, got %v", got[0].AvgMarginBucket)
	}
}

func TestAggregateByBuckets_Boundaries(t *testing.T) {
	tests := []struct {
		amount     float64
		wantBucket string
	}{
		{amount: 49999, wantBucket: "<50k"},
		{amount: 50000, wantBucket: "50-200k"},
		{amount: 199999, wantBucket: "50-200k"},
		{amount: 200000, wantBucket: "200-500k"},
		{amount: 999999, wantBucket: "500k-1M"},
		{amount: 1000000, wantBucket: ">1M"},
		{amount: 25000000, wantBucket: ">1M"},
	}

	for _, tt := range tests {
		invoices := []models.InvoiceRow{
			{UserID: "Иванов Иван Иванович", InvoiceID: "СЧ-1", InvoiceAmount: tt.amount, Status: paidStatus},
		}
		got := AggregateByBuckets(invoices, "Иванов Иван Иванович")
		for _, bm := range got {
			want := 0
			if bm.BucketID == tt.wantBucket {
				want = 1
			}
			if bm.PaidCountBucket != want {
				t.Errorf("Amount %v: bucket %q paid count = %d, want %d", tt.amount, bm.BucketID, bm.PaidCountBucket, want)
			}
		}
	}
}

func TestAggregateByBuckets_ConversionPerBucket(t *testing.T) {
	invoices := []models.InvoiceRow{
		{UserID: "Иванов Иван Иванович", InvoiceID: "СЧ-1", InvoiceAmount: 60000, Status: paidStatus},
		{UserID: "Иванов Иван Иванович", InvoiceID: "СЧ-2", InvoiceAmount: 70000, Status: "Закрыто и не реализовано"},
		{UserID: "Иванов Иван Иванович", InvoiceID: "СЧ-3", InvoiceAmount: 80000, Status: ""},
		{UserID: "Иванов Иван Иванович", InvoiceID: "СЧ-4", InvoiceAmount: 90000, Status: paidStatus},
	}

	got := AggregateByBuckets(invoices, "Иванов Иван Иванович")

	second := got[1]
	if second.IssuedCountBucket != 4 {
		t.Errorf("IssuedCountBucket = %d, want 4", second.IssuedCountBucket)
	}
	if second.PaidCountBucket != 2 {
		t.Errorf("PaidCountBucket = %d, want 2", second.PaidCountBucket)
	}
	if second.ConversionBucket != 0.5 {
		t.Errorf("ConversionBucket = %v, want 0.5", second.ConversionBucket)
	}
	if second.AvgMarginBucket != nil {
		t.Errorf("Expected nil avg margin without purchase amounts, got %v", *second.AvgMarginBucket)
	}
}
