package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/spacemetall/salesboard/internal/models"
	"github.com/spacemetall/salesboard/internal/service/league"
	"github.com/spacemetall/salesboard/internal/sheets"
	"github.com/spacemetall/salesboard/pkg/logger"
)

// RowSource provides the two tabular feeds.
type RowSource interface {
	FetchConnections(ctx context.Context) ([]models.ConnectionRow, error)
	FetchInvoices(ctx context.Context) ([]models.InvoiceRow, error)
}

// Result is the full metrics snapshot for one salesperson.
type Result struct {
	UserID           string                 `json:"user_id"`
	CompaniesCount   int                    `json:"companies_count"`
	League           league.League          `json:"league"`
	NextLeague       *league.League         `json:"next_league,omitempty"`
	ProgressToNext   *float64               `json:"progress_to_next,omitempty"`
	HardSkills       league.HardSkillsRank  `json:"hard_skills"`
	Totals           models.Totals          `json:"totals"`
	Buckets          []models.BucketMetrics `json:"buckets"`
	Monthly          models.MonthlyStats    `json:"monthly"`
	MaxMonthlyBudget float64                `json:"max_monthly_budget"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// Service computes metrics snapshots from the raw feeds.
type Service struct {
	source RowSource
	log    *logger.Logger
	now    func() time.Time
}

// NewService creates a new metrics service.
func NewService(source *sheets.Client, log *logger.Logger) *Service {
	return &Service{source: source, log: log, now: time.Now}
}

// NewServiceWithInterfaces creates a new metrics service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(source RowSource, log *logger.Logger) *Service {
	return &Service{source: source, log: log, now: time.Now}
}

// GetUserMetrics computes the full snapshot for one salesperson: league,
// totals, buckets, monthly records and the hard-skills rank.
func (s *Service) GetUserMetrics(ctx context.Context, userID string) (*Result, error) {
	companies, err := s.source.FetchConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connections: %w", err)
	}
	invoices, err := s.source.FetchInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	now := s.now()
	companiesCount := CompaniesCount(companies, userID)
	totals := ComputeTotals(invoices, userID)

	result := &Result{
		UserID:           userID,
		CompaniesCount:   companiesCount,
		League:           league.ForCount(companiesCount),
		HardSkills:       league.HardSkills(totals.TotalMargin, totals.ConversionTotal*100, totals.PaidTotal),
		Totals:           totals,
		Buckets:          AggregateByBuckets(invoices, userID),
		Monthly:          ComputeMonthlyStats(invoices, userID, now),
		MaxMonthlyBudget: ComputeMaxMonthlyBudget(invoices, userID),
		UpdatedAt:        now.UTC(),
	}
	if next, ok := league.Next(companiesCount); ok {
		result.NextLeague = &next
	}
	if progress, ok := league.ProgressToNext(companiesCount); ok {
		result.ProgressToNext = &progress
	}

	s.log.Debug().
		Str("user_id", userID).
		Int("companies", companiesCount).
		Int("paid_total", totals.PaidTotal).
		Msg("Computed user metrics")

	return result, nil
}
