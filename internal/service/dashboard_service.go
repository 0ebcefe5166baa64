package service

import (
	"context"
	"time"

	"citycut/internal/cache"
	"citycut/internal/dto"
	"citycut/internal/model"
	"citycut/internal/repository"
	"citycut/internal/session"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentLimit = 5
	trendMonths = 6
)

type DashboardService interface {
	// Sales is the signed-in rep's own day: totals and latest entries.
	Sales(ctx context.Context, p *session.Principal) (*dto.SalesDashboard, error)
	Admin(ctx context.Context) (*dto.AdminDashboard, error)
}

type dashboardService struct {
	records   repository.ServiceRecordRepository
	expenses  repository.ExpenseRepository
	customers repository.CustomerRepository
	reports   repository.ReportRepository
	views     cache.Views
	clock     Clock
}

func NewDashboardService(
	records repository.ServiceRecordRepository,
	expenses repository.ExpenseRepository,
	customers repository.CustomerRepository,
	reports repository.ReportRepository,
	views cache.Views,
	clock Clock,
) DashboardService {
	return &dashboardService{
		records:   records,
		expenses:  expenses,
		customers: customers,
		reports:   reports,
		views:     views,
		clock:     clock,
	}
}

func dayRange(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}

func monthRange(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}

func (s *dashboardService) Sales(ctx context.Context, p *session.Principal) (*dto.SalesDashboard, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	now := s.clock.now()
	scope := p.UserID.String() + ":" + now.Format("2006-01-02")

	return cache.Fetch(ctx, s.views, ViewSales, scope, func() (*dto.SalesDashboard, error) {
		from, to := dayRange(now)
		mine := &p.UserID
		today := repository.RecordQuery{From: &from, To: &to, RecordedBy: mine}
		recent := repository.RecordQuery{RecordedBy: mine, Limit: recentLimit}

		out := &dto.SalesDashboard{
			PaymentMethods:    paymentMethodNames(),
			ExpenseCategories: model.ExpenseCategories,
		}
		var (
			recs []model.ServiceRecord
			exps []model.Expense
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			out.TodaySales, out.TodayServices, err = s.records.Sum(gctx, today)
			return err
		})
		g.Go(func() (err error) {
			out.TodayExpenses, err = s.expenses.Sum(gctx, today)
			return err
		})
		g.Go(func() (err error) {
			recs, err = s.records.List(gctx, recent)
			return err
		})
		g.Go(func() (err error) {
			exps, err = s.expenses.List(gctx, recent)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		out.RecentServices = toRecordResponses(recs)
		out.RecentExpenses = toExpenseResponses(exps)
		return out, nil
	})
}

func (s *dashboardService) Admin(ctx context.Context) (*dto.AdminDashboard, error) {
	now := s.clock.now()
	return cache.Fetch(ctx, s.views, ViewAdminDashboard, now.Format("2006-01"), func() (*dto.AdminDashboard, error) {
		from, to := monthRange(now)
		month := repository.RecordQuery{From: &from, To: &to}
		out := &dto.AdminDashboard{}
		var recs []model.ServiceRecord

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			out.MonthRevenue, out.MonthServices, err = s.records.Sum(gctx, month)
			return err
		})
		g.Go(func() (err error) {
			out.MonthExpenses, err = s.expenses.Sum(gctx, month)
			return err
		})
		g.Go(func() (err error) {
			out.TotalCustomers, err = s.customers.Count(gctx)
			return err
		})
		g.Go(func() (err error) {
			out.Trend, err = monthlyTrend(gctx, s.reports, now, s.clock.loc())
			return err
		})
		g.Go(func() (err error) {
			recs, err = s.records.List(gctx, repository.RecordQuery{Limit: recentLimit})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		out.NetProfit = out.MonthRevenue.Sub(out.MonthExpenses)
		out.RecentServices = toRecordResponses(recs)
		return out, nil
	})
}

func paymentMethodNames() []string {
	out := make([]string, len(model.PaymentMethods))
	for i, m := range model.PaymentMethods {
		out[i] = string(m)
	}
	return out
}

// monthlyTrend returns the trendMonths calendar months ending with the one
// containing now, oldest first. Months without activity are zero-filled.
func monthlyTrend(ctx context.Context, reports repository.ReportRepository, now time.Time, loc *time.Location) ([]dto.MonthlyTrend, error) {
	cur, to := monthRange(now)
	from := cur.AddDate(0, -(trendMonths - 1), 0)
	tz := loc.String()

	revenue, err := reports.MonthlyRevenue(ctx, from, to, tz)
	if err != nil {
		return nil, err
	}
	expenses, err := reports.MonthlyExpenses(ctx, from, to, tz)
	if err != nil {
		return nil, err
	}
	newCustomers, err := reports.MonthlyNewCustomers(ctx, from, to, tz)
	if err != nil {
		return nil, err
	}

	index := func(rows []repository.MonthTotal) map[string]repository.MonthTotal {
		m := make(map[string]repository.MonthTotal, len(rows))
		for _, r := range rows {
			m[r.Month] = r
		}
		return m
	}
	rev, exp, cust := index(revenue), index(expenses), index(newCustomers)

	out := make([]dto.MonthlyTrend, 0, trendMonths)
	for m := from; m.Before(to); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		r, e := rev[key].Amount, exp[key].Amount
		out = append(out, dto.MonthlyTrend{
			Month:        key,
			Revenue:      r,
			Expenses:     e,
			Profit:       r.Sub(e),
			NewCustomers: cust[key].Count,
		})
	}
	return out, nil
}

// percent returns part/whole*100 rounded to two places, or zero for an empty whole.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}
