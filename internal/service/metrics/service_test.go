package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spacemetall/salesboard/internal/models"
	"github.com/spacemetall/salesboard/pkg/logger"
)

type mockRowSource struct {
	connections []models.ConnectionRow
	invoices    []models.InvoiceRow
	connErr     error
	invErr      error
}

func (m *mockRowSource) FetchConnections(_ context.Context) ([]models.ConnectionRow, error) {
	return m.connections, m.connErr
}

func (m *mockRowSource) FetchInvoices(_ context.Context) ([]models.InvoiceRow, error) {
	return m.invoices, m.invErr
}

func TestGetUserMetrics(t *testing.T) {
	user := "Иванов Иван Иванович"
	source := &mockRowSource{
		connections: []models.ConnectionRow{
			{UserID: user, CompanyID: "c-1", ContactName: "Анна"},
			{UserID: user, CompanyID: "c-2", ContactName: "Борис"},
		},
		invoices: []models.InvoiceRow{
			{UserID: user, InvoiceID: "СЧ-1", InvoiceAmount: 100000, Status: "Успешно реализовано", PaidDate: "05.01.2025", PurchaseAmount: fptr(60000)},
			{UserID: user, InvoiceID: "СЧ-2", InvoiceAmount: 30000, Status: "Закрыто и не реализовано"},
		},
	}

	svc := NewServiceWithInterfaces(source, logger.Get())
	svc.now = func() time.Time {
		return time.Date(2025, time.January, 20, 12, 0, 0, 0, time.UTC)
	}

	result, err := svc.GetUserMetrics(context.Background(), user)
	if err != nil {
		t.Fatalf("GetUserMetrics failed: %v", err)
	}

	if result.UserID != user {
		t.Errorf("UserID = %q, want %q", result.UserID, user)
	}
	if result.CompaniesCount != 2 {
		t.Errorf("CompaniesCount = %d, want 2", result.CompaniesCount)
	}
	if result.League.ID != "bronze" {
		t.Errorf("League = %q, want bronze", result.League.ID)
	}
	if result.NextLeague == nil {
		t.Error("Expected a next league below the top tier")
	}
	if result.ProgressToNext == nil {
		t.Error("Expected progress toward the next league")
	}
	if result.Totals.PaidTotal != 1 {
		t.Errorf("PaidTotal = %d, want 1", result.Totals.PaidTotal)
	}
	if len(result.Buckets) != 5 {
		t.Errorf("Expected 5 buckets, got %d", len(result.Buckets))
	}
	if result.Monthly.CurrentMonthPaid != 1 {
		t.Errorf("CurrentMonthPaid = %d, want 1", result.Monthly.CurrentMonthPaid)
	}
	if result.MaxMonthlyBudget != 100000 {
		t.Errorf("MaxMonthlyBudget = %v, want 100000", result.MaxMonthlyBudget)
	}
}

func TestGetUserMetrics_FetchErrors(t *testing.T) {
	svc := NewServiceWithInterfaces(&mockRowSource{connErr: errors.New("feed down")}, logger.Get())
	if _, err := svc.GetUserMetrics(context.Background(), "Иванов Иван"); err == nil {
		t.Error("Expected error when connections feed fails")
	}

	svc = NewServiceWithInterfaces(&mockRowSource{invErr: errors.New("feed down")}, logger.Get())
	if _, err := svc.GetUserMetrics(context.Background(), "Иванов Иван"); err == nil {
		t.Error("Expected error when invoices feed fails")
	}
}
