package service

import (
	"context"
	"fmt"
	"time"

	"citycut/internal/cache"
	"citycut/internal/dto"
	"citycut/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Report periods.
const (
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"

	topCustomersLimit = 5
)

type ReportService interface {
	Build(ctx context.Context, period string) (*dto.Report, error)
	DailySummary(ctx context.Context, day time.Time) (*dto.DailySummary, error)
}

type reportService struct {
	records  repository.ServiceRecordRepository
	expenses repository.ExpenseRepository
	reports  repository.ReportRepository
	views    cache.Views
	clock    Clock
}

func NewReportService(
	records repository.ServiceRecordRepository,
	expenses repository.ExpenseRepository,
	reports repository.ReportRepository,
	views cache.Views,
	clock Clock,
) ReportService {
	return &reportService{records: records, expenses: expenses, reports: reports, views: views, clock: clock}
}

// PeriodRange returns the current [from, to) window for period and the window
// immediately before it.
func PeriodRange(period string, now time.Time) (from, to, prevFrom time.Time, err error) {
	y, m, loc := now.Year(), now.Month(), now.Location()
	switch period {
	case "", PeriodMonth:
		from = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 1, 0)
		prevFrom = from.AddDate(0, -1, 0)
	case PeriodQuarter:
		q := (int(m) - 1) / 3
		from = time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 3, 0)
		prevFrom = from.AddDate(0, -3, 0)
	case PeriodYear:
		from = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		to = from.AddDate(1, 0, 0)
		prevFrom = from.AddDate(-1, 0, 0)
	default:
		return from, to, prevFrom, fmt.Errorf("%w: unknown period %q", ErrInvalidFilter, period)
	}
	return from, to, prevFrom, nil
}

func (s *reportService) Build(ctx context.Context, period string) (*dto.Report, error) {
	if period == "" {
		period = PeriodMonth
	}
	now := s.clock.now()
	from, to, prevFrom, err := PeriodRange(period, now)
	if err != nil {
		return nil, err
	}

	return cache.Fetch(ctx, s.views, ViewAdminReports, period+":"+from.Format("2006-01-02"), func() (*dto.Report, error) {
		r := &dto.Report{Period: period, From: from, To: to}
		cur := repository.RecordQuery{From: &from, To: &to}
		prev := repository.RecordQuery{From: &prevFrom, To: &from}

		var (
			prevRevenue        decimal.Decimal
			byType, byMethod   []repository.GroupTotal
			top                []repository.CustomerStats
			returning, custAll int64
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			r.Revenue, r.ServiceCount, err = s.records.Sum(gctx, cur)
			return err
		})
		g.Go(func() (err error) {
			prevRevenue, _, err = s.records.Sum(gctx, prev)
			return err
		})
		g.Go(func() (err error) {
			r.Expenses, err = s.expenses.Sum(gctx, cur)
			return err
		})
		g.Go(func() (err error) {
			byType, err = s.reports.RevenueByServiceType(gctx, from, to)
			return err
		})
		g.Go(func() (err error) {
			byMethod, err = s.reports.RevenueByPaymentMethod(gctx, from, to)
			return err
		})
		g.Go(func() (err error) {
			top, err = s.reports.TopCustomers(gctx, from, to, topCustomersLimit)
			return err
		})
		g.Go(func() (err error) {
			r.CustomerCount, err = s.reports.DistinctCustomers(gctx, from, to)
			return err
		})
		g.Go(func() (err error) {
			returning, custAll, err = s.reports.Retention(gctx)
			return err
		})
		g.Go(func() (err error) {
			r.Trend, err = monthlyTrend(gctx, s.reports, now, s.clock.loc())
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		r.NetProfit = r.Revenue.Sub(r.Expenses)
		r.ProfitMargin = percent(r.NetProfit, r.Revenue)
		r.RevenueGrowth = growth(r.Revenue, prevRevenue)
		if r.CustomerCount > 0 {
			r.AvgCustomerValue = r.Revenue.Div(decimal.NewFromInt(r.CustomerCount)).Round(2)
		}
		r.RetentionRate = percent(decimal.NewFromInt(returning), decimal.NewFromInt(custAll))

		r.ByServiceType = make([]dto.ServiceTypeStat, len(byType))
		for i, t := range byType {
			r.ByServiceType[i] = dto.ServiceTypeStat{ServiceType: t.Key, Revenue: t.Amount, Count: t.Count}
		}
		r.ByPaymentMethod = make([]dto.PaymentMethodStat, len(byMethod))
		for i, m := range byMethod {
			r.ByPaymentMethod[i] = dto.PaymentMethodStat{
				PaymentMethod: m.Key,
				Amount:        m.Amount,
				Count:         m.Count,
				Percentage:    percent(m.Amount, r.Revenue),
			}
		}
		r.TopCustomers = make([]dto.TopCustomer, len(top))
		for i, c := range top {
			r.TopCustomers[i] = dto.TopCustomer{
				ID:         c.ID.String(),
				Name:       c.Name,
				Phone:      c.Phone,
				Visits:     c.Visits,
				TotalSpent: c.TotalSpent,
			}
		}
		return r, nil
	})
}

// growth is the percentage change from prev to cur. Growth from nothing to
// something is reported as 100%.
func growth(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		if cur.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return percent(cur.Sub(prev), prev)
}

// DailySummary totals the whole shop's activity for the calendar day containing day.
func (s *reportService) DailySummary(ctx context.Context, day time.Time) (*dto.DailySummary, error) {
	from, to := dayRange(day.In(s.clock.loc()))
	q := repository.RecordQuery{From: &from, To: &to}

	revenue, count, err := s.records.Sum(ctx, q)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.Sum(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.DailySummary{Date: from, Revenue: revenue, Expenses: expenses, Services: count}, nil
}
