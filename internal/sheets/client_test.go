package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spacemetall/salesboard/internal/config"
	"github.com/spacemetall/salesboard/pkg/logger"
	"github.com/spacemetall/salesboard/test/mocks"
)

const invoicesCSV = `Имя ответственного,Номер счета,Сумма продажи,Дата,Имя статуса,Дата завершения,Бюджет сделки,Сумма закупки
Иванов Иван Иванович,СЧ-1,"р.100 000,00",13.01.2025,Успешно реализовано,20.01.2025,"р.120 000,00","р.60 000,00"
Петров Пётр Петрович,СЧ-2,50000,14.01.2025,Закрыто и не реализовано,,,
`

const connectionsCSV = `Имя ответственного,Company_id,Название компании,Имена контактов
Иванов Иван Иванович,c-1,ООО Ромашка,Анна
Иванов Иван Иванович,c-2,ООО Василёк,
`

func newTestClient(t *testing.T, invoicesBody, connectionsBody string) (*Client, *mocks.MockCache, *int) {
	t.Helper()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "text/csv")
		switch r.URL.Path {
		case "/invoices":
			_, _ = w.Write([]byte(invoicesBody))
		case "/connections":
			_, _ = w.Write([]byte(connectionsBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	cfg := &config.SheetsConfig{
		ConnectionsCSVURL: server.URL + "/connections",
		SalesFunnelCSVURL: server.URL + "/invoices",
		CacheTTL:          30,
		RequestTimeout:    5,
	}
	cache := mocks.NewMockCache()
	return NewClient(cfg, cache, logger.Get()), cache, &requests
}

func TestFetchInvoices(t *testing.T) {
	client, _, _ := newTestClient(t, invoicesCSV, connectionsCSV)

	rows, err := client.FetchInvoices(context.Background())
	if err != nil {
		t.Fatalf("FetchInvoices failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.UserID != "Иванов Иван Иванович" {
		t.Errorf("UserID = %q", first.UserID)
	}
	if first.InvoiceAmount != 100000 {
		t.Errorf("InvoiceAmount = %v, want 100000", first.InvoiceAmount)
	}
	if first.PaidDate != "20.01.2025" {
		t.Errorf("PaidDate = %q, want 20.01.2025", first.PaidDate)
	}
	if first.Budget == nil || *first.Budget != 120000 {
		t.Errorf("Budget = %v, want 120000", first.Budget)
	}
	if first.PurchaseAmount == nil || *first.PurchaseAmount != 60000 {
		t.Errorf("PurchaseAmount = %v, want 60000", first.PurchaseAmount)
	}

	second := rows[1]
	if second.Budget != nil || second.PurchaseAmount != nil {
		t.Errorf("Blank optional amounts must stay unset, got %+v", second)
	}
}

func TestFetchConnections(t *testing.T) {
	client, _, _ := newTestClient(t, invoicesCSV, connectionsCSV)

	rows, err := client.FetchConnections(context.Background())
	if err != nil {
		t.Fatalf("FetchConnections failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].CompanyID != "c-1" || rows[0].ContactName != "Анна" {
		t.Errorf("Parsed %+v", rows[0])
	}
	if rows[1].ContactName != "" {
		t.Errorf("ContactName = %q, want empty", rows[1].ContactName)
	}
}

func TestFetchInvoices_SecondReadHitsCache(t *testing.T) {
	client, cache, requests := newTestClient(t, invoicesCSV, connectionsCSV)

	if _, err := client.FetchInvoices(context.Background()); err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	if *requests != 1 {
		t.Fatalf("Expected 1 upstream request, got %d", *requests)
	}
	if _, ok := cache.Stored("feed:invoices"); !ok {
		t.Fatal("Expected the snapshot cached after the first fetch")
	}

	rows, err := client.FetchInvoices(context.Background())
	if err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if *requests != 1 {
		t.Errorf("Expected the second read served from cache, got %d upstream requests", *requests)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows from cache, got %d", len(rows))
	}
}

func TestFetchInvoices_CacheFailureFallsBackToFetch(t *testing.T) {
	client, cache, requests := newTestClient(t, invoicesCSV, connectionsCSV)
	cache.GetErr = context.DeadlineExceeded

	rows, err := client.FetchInvoices(context.Background())
	if err != nil {
		t.Fatalf("FetchInvoices failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(rows))
	}
	if *requests != 1 {
		t.Errorf("Expected an upstream fetch despite the cache failure, got %d", *requests)
	}
}

func TestFetchInvoices_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	cfg := &config.SheetsConfig{
		SalesFunnelCSVURL: server.URL + "/invoices",
		CacheTTL:          30,
		RequestTimeout:    5,
	}
	client := NewClient(cfg, mocks.NewMockCache(), logger.Get())

	if _, err := client.FetchInvoices(context.Background()); err == nil {
		t.Error("Expected error for non-200 upstream response")
	}
}

func TestInvalidate(t *testing.T) {
	client, cache, requests := newTestClient(t, invoicesCSV, connectionsCSV)

	if _, err := client.FetchInvoices(context.Background()); err != nil {
		t.Fatalf("FetchInvoices failed: %v", err)
	}
	if err := client.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok := cache.Stored("feed:invoices"); ok {
		t.Error("Expected the snapshot dropped from cache")
	}

	if _, err := client.FetchInvoices(context.Background()); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}
	if *requests != 2 {
		t.Errorf("Expected a refetch after invalidation, got %d upstream requests", *requests)
	}
}
