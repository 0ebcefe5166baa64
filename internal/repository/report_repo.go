package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GroupTotal struct {
	Key    string
	Amount decimal.Decimal
	Count  int64
}

// MonthTotal is one YYYY-MM bucket.
type MonthTotal struct {
	Month  string
	Amount decimal.Decimal
	Count  int64
}

// ReportRepository holds the read-only aggregates behind dashboards and reports.
// Windows are half-open [from, to).
type ReportRepository interface {
	RevenueByServiceType(ctx context.Context, from, to time.Time) ([]GroupTotal, error)
	RevenueByPaymentMethod(ctx context.Context, from, to time.Time) ([]GroupTotal, error)
	TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]CustomerStats, error)
	DistinctCustomers(ctx context.Context, from, to time.Time) (int64, error)
	// Retention returns customers with more than one visit and all customers.
	Retention(ctx context.Context) (returning int64, total int64, err error)
	MonthlyRevenue(ctx context.Context, from, to time.Time, tz string) ([]MonthTotal, error)
	MonthlyExpenses(ctx context.Context, from, to time.Time, tz string) ([]MonthTotal, error)
	MonthlyNewCustomers(ctx context.Context, from, to time.Time, tz string) ([]MonthTotal, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) groupRecords(ctx context.Context, op, col string, from, to time.Time) ([]GroupTotal, error) {
	var rows []GroupTotal
	err := r.db.WithContext(ctx).
		Table("service_records").
		Select(col+"::text AS key, COALESCE(SUM(amount_paid), 0) AS amount, COUNT(*) AS count").
		Where("service_date >= ? AND service_date < ?", from, to).
		Group(col).
		Order("amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(op, err)
	}
	return rows, nil
}

func (r *reportRepo) RevenueByServiceType(ctx context.Context, from, to time.Time) ([]GroupTotal, error) {
	return r.groupRecords(ctx, "report.by_service_type", "service_type", from, to)
}

func (r *reportRepo) RevenueByPaymentMethod(ctx context.Context, from, to time.Time) ([]GroupTotal, error) {
	return r.groupRecords(ctx, "report.by_payment_method", "payment_method", from, to)
}

func (r *reportRepo) TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]CustomerStats, error) {
	var rows []CustomerStats
	err := r.db.WithContext(ctx).
		Table("customers c").
		Select("c.*, SUM(s.amount_paid) AS total_spent, MAX(s.service_date) AS last_visit").
		Joins("JOIN service_records s ON s.customer_id = c.id").
		Where("s.service_date >= ? AND s.service_date < ?", from, to).
		Group("c.id").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, classify("report.top_customers", err)
	}
	return rows, nil
}

func (r *reportRepo) DistinctCustomers(ctx context.Context, from, to time.Time) (int64, error) {
	var out struct{ N int64 }
	err := r.db.WithContext(ctx).
		Table("service_records").
		Select("COUNT(DISTINCT customer_id) AS n").
		Where("service_date >= ? AND service_date < ?", from, to).
		Scan(&out).Error
	return out.N, classify("report.distinct_customers", err)
}

func (r *reportRepo) Retention(ctx context.Context) (int64, int64, error) {
	var out struct {
		ReturningCount int64
		TotalCount     int64
	}
	err := r.db.WithContext(ctx).
		Table("customers").
		Select("COUNT(*) FILTER (WHERE visits > 1) AS returning_count, COUNT(*) AS total_count").
		Scan(&out).Error
	if err != nil {
		return 0, 0, classify("report.retention", err)
	}
	return out.ReturningCount, out.TotalCount, nil
}

func (r *reportRepo) monthly(ctx context.Context, op, table, dateCol, amountExpr string, from, to time.Time, tz string) ([]MonthTotal, error) {
	var rows []MonthTotal
	month := "to_char(date_trunc('month', " + dateCol + " AT TIME ZONE ?), 'YYYY-MM')"
	err := r.db.WithContext(ctx).
		Table(table).
		Select(month+" AS month, "+amountExpr+" AS amount, COUNT(*) AS count", tz).
		Where(dateCol+" >= ? AND "+dateCol+" < ?", from, to).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(op, err)
	}
	return rows, nil
}

func (r *reportRepo) MonthlyRevenue(ctx context.Context, from, to time.Time, tz string) ([]MonthTotal, error) {
	return r.monthly(ctx, "report.monthly_revenue", "service_records", "service_date", "COALESCE(SUM(amount_paid), 0)", from, to, tz)
}

func (r *reportRepo) MonthlyExpenses(ctx context.Context, from, to time.Time, tz string) ([]MonthTotal, error) {
	return r.monthly(ctx, "report.monthly_expenses", "expenses", "expense_date", "COALESCE(SUM(amount), 0)", from, to, tz)
}

func (r *reportRepo) MonthlyNewCustomers(ctx context.Context, from, to time.Time, tz string) ([]MonthTotal, error) {
	return r.monthly(ctx, "report.monthly_new_customers", "customers", "created_at", "0", from, to, tz)
}
