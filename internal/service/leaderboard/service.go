// Package leaderboard computes company-wide standings across salespeople.
package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spacemetall/salesboard/internal/models"
	"github.com/spacemetall/salesboard/internal/service/league"
	"github.com/spacemetall/salesboard/internal/service/metrics"
	"github.com/spacemetall/salesboard/internal/sheets"
	"github.com/spacemetall/salesboard/pkg/logger"
)

// RowSource provides the two tabular feeds.
type RowSource interface {
	FetchConnections(ctx context.Context) ([]models.ConnectionRow, error)
	FetchInvoices(ctx context.Context) ([]models.InvoiceRow, error)
}

// Employee is one entry of the employees listing.
type Employee struct {
	UserID         string `json:"user_id"`
	CompaniesCount int    `json:"companies_count"`
	LeagueName     string `json:"league_name"`
	LeagueColorHex string `json:"league_color_hex"`
	BadgeImagePath string `json:"badge_image_path"`
}

// Overview is the company-wide standings snapshot.
type Overview struct {
	CurrentMonthBudget  float64       `json:"current_month_budget"`
	CurrentMonthMargin  float64       `json:"current_month_margin"`
	PreviousMonthMargin float64       `json:"previous_month_margin"`
	BestOfMonth         *BestEmployee `json:"best_of_month,omitempty"`
	BestOfPreviousMonth *BestEmployee `json:"best_of_previous_month,omitempty"`
	BestYearToDate      *BestEmployee `json:"best_year_to_date,omitempty"`
}

// Service computes cross-user standings from the raw feeds.
type Service struct {
	source   RowSource
	excluded []string
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new leaderboard service. excluded lists identities
// (for example internal test accounts) left out of all standings.
func NewService(source *sheets.Client, excluded []string, log *logger.Logger) *Service {
	return &Service{source: source, excluded: excluded, log: log, now: time.Now}
}

// NewServiceWithInterfaces creates a new leaderboard service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(source RowSource, excluded []string, log *logger.Logger) *Service {
	return &Service{source: source, excluded: excluded, log: log, now: time.Now}
}

// Employees lists every known salesperson with their connection count and
// league, sorted by identifier. Excluded identities are dropped.
func (s *Service) Employees(ctx context.Context) ([]Employee, error) {
	companies, err := s.source.FetchConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connections: %w", err)
	}

	userIDs := s.knownUserIDs(companies)
	employees := make([]Employee, 0, len(userIDs))
	for _, userID := range userIDs {
		count := metrics.CompaniesCount(companies, userID)
		lg := league.ForCount(count)
		employees = append(employees, Employee{
			UserID:         userID,
			CompaniesCount: count,
			LeagueName:     lg.Name,
			LeagueColorHex: lg.ColorHex,
			BadgeImagePath: lg.BadgeImagePath,
		})
	}

	s.log.Debug().Int("employees", len(employees)).Msg("Computed employee listing")
	return employees, nil
}

// GetOverview computes the company-wide standings: month totals, the current
// leaders and last month's winner with their streak.
func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	companies, err := s.source.FetchConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connections: %w", err)
	}
	invoices, err := s.source.FetchInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	now := s.now()
	userIDs := s.knownUserIDs(companies)
	currentKey := metrics.CurrentMonthKey(now)
	previousKey := metrics.PreviousMonthKey(now)

	return &Overview{
		CurrentMonthBudget:  TotalMonthBudget(invoices, currentKey, s.excluded),
		CurrentMonthMargin:  TotalMonthMargin(invoices, currentKey, s.excluded),
		PreviousMonthMargin: TotalMonthMargin(invoices, previousKey, s.excluded),
		BestOfMonth:         BestEmployeeForMonth(invoices, currentKey, userIDs, s.excluded),
		BestOfPreviousMonth: BestEmployeeByPreviousMonth(invoices, userIDs, s.excluded, now),
		BestYearToDate:      BestEmployeeYearToDate(invoices, userIDs, s.excluded, now),
	}, nil
}

// knownUserIDs derives the distinct non-excluded identities present in the
// connections feed, sorted.
func (s *Service) knownUserIDs(companies []models.ConnectionRow) []string {
	seen := make(map[string]struct{})
	var userIDs []string
	for _, c := range companies {
		uid := strings.TrimSpace(c.UserID)
		if uid == "" || isExcluded(uid, s.excluded) {
			continue
		}
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		userIDs = append(userIDs, uid)
	}
	sort.Strings(userIDs)
	return userIDs
}
