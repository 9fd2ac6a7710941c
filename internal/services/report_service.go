package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/models"
	"fizcal/internal/money"
)

// UncategorizedLabel groups expenses recorded without a category.
const UncategorizedLabel = "Uncategorized"

var (
	weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	weekLabels    = []string{"Week 1", "Week 2", "Week 3", "Week 4", "Week 5"}
	monthLabels   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// reportService builds reports and the dashboard.
type reportService struct {
	db                 *gorm.DB
	accountService     AccountServicer
	transactionService TransactionServicer
	budgetService      BudgetServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, accountService AccountServicer, transactionService TransactionServicer, budgetService BudgetServicer) ReportServicer {
	return &reportService{
		db:                 db,
		accountService:     accountService,
		transactionService: transactionService,
		budgetService:      budgetService,
	}
}

// Window returns the report range ending at now.
func (tf Timeframe) Window(now time.Time) (time.Time, time.Time, error) {
	now = now.UTC()
	switch tf {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7), now, nil
	case TimeframeMonth:
		return now.AddDate(0, -1, 0), now, nil
	case TimeframeYear:
		return now.AddDate(-1, 0, 0), now, nil
	}
	return time.Time{}, time.Time{}, apperrors.ErrInvalidTimeframe
}

// GetReport totals income and expenses within timeframe ending at now.
func (s *reportService) GetReport(userID string, timeframe Timeframe, now time.Time) (*Report, error) {
	from, to, err := timeframe.Window(now)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return buildReport(timeframe, from, to, transactions), nil
}

func buildReport(timeframe Timeframe, from, to time.Time, transactions []models.Transaction) *Report {
	r := &Report{
		Timeframe:  timeframe,
		From:       from,
		To:         to,
		Categories: []CategoryTotal{},
		Chart:      newChart(timeframe),
	}

	byCategory := make(map[string]int64)
	for _, t := range transactions {
		if t.Type == models.TransactionTypeIncome {
			r.Income += t.Amount
			continue
		}
		r.Expense += t.Amount

		category := t.Category
		if category == "" {
			category = UncategorizedLabel
		}
		byCategory[category] += t.Amount
		r.Chart[chartIndex(timeframe, t.Date)].Amount += t.Amount
	}
	r.Net = r.Income - r.Expense

	for category, total := range byCategory {
		r.Categories = append(r.Categories, CategoryTotal{
			Category:   category,
			Total:      total,
			Percentage: money.Percent(total, r.Expense),
		})
	}
	sort.Slice(r.Categories, func(i, j int) bool {
		if r.Categories[i].Total != r.Categories[j].Total {
			return r.Categories[i].Total > r.Categories[j].Total
		}
		return r.Categories[i].Category < r.Categories[j].Category
	})
	return r
}

func newChart(timeframe Timeframe) []ChartBucket {
	var labels []string
	switch timeframe {
	case TimeframeWeek:
		labels = weekdayLabels
	case TimeframeMonth:
		labels = weekLabels
	default:
		labels = monthLabels
	}
	chart := make([]ChartBucket, len(labels))
	for i, l := range labels {
		chart[i].Label = l
	}
	return chart
}

// chartIndex places t in its bucket: weekday starting Monday, week of the
// month as day/7, or calendar month.
func chartIndex(timeframe Timeframe, t time.Time) int {
	t = t.UTC()
	switch timeframe {
	case TimeframeWeek:
		return (int(t.Weekday()) + 6) % 7
	case TimeframeMonth:
		return t.Day() / 7
	default:
		return int(t.Month()) - 1
	}
}

// GetDashboard loads the balance summary, recent transactions and budget
// progress concurrently. The first failure cancels the rest.
func (s *reportService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	g, ctx := errgroup.WithContext(ctx)
	d := &Dashboard{}

	g.Go(func() error {
		summary, err := s.accountService.GetBalanceSummary(userID)
		if err != nil {
			return err
		}
		d.Summary = summary
		return ctx.Err()
	})
	g.Go(func() error {
		recent, err := s.transactionService.GetRecentTransactions(userID, defaultRecentLimit)
		if err != nil {
			return err
		}
		d.RecentTransactions = recent
		return ctx.Err()
	})
	g.Go(func() error {
		progress, err := s.budgetService.GetBudgetsProgress(userID)
		if err != nil {
			return err
		}
		d.Budgets = progress
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
