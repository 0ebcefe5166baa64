package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesDashboard backs GET /sales for the signed-in sales rep.
type SalesDashboard struct {
	TodaySales        decimal.Decimal         `json:"today_sales"`
	TodayServices     int64                   `json:"today_services"`
	TodayExpenses     decimal.Decimal         `json:"today_expenses"`
	RecentServices    []ServiceRecordResponse `json:"recent_services"`
	RecentExpenses    []ExpenseResponse       `json:"recent_expenses"`
	PaymentMethods    []string                `json:"payment_methods"`
	ExpenseCategories []string                `json:"expense_categories"`
}

type MonthlyTrend struct {
	Month        string          `json:"month"` // YYYY-MM
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	Profit       decimal.Decimal `json:"profit"`
	NewCustomers int64           `json:"new_customers"`
}

// AdminDashboard backs GET /admin/dashboard.
type AdminDashboard struct {
	MonthRevenue   decimal.Decimal         `json:"month_revenue"`
	MonthExpenses  decimal.Decimal         `json:"month_expenses"`
	NetProfit      decimal.Decimal         `json:"net_profit"`
	MonthServices  int64                   `json:"month_services"`
	TotalCustomers int64                   `json:"total_customers"`
	Trend          []MonthlyTrend          `json:"trend"`
	RecentServices []ServiceRecordResponse `json:"recent_services"`
}

type ServiceTypeStat struct {
	ServiceType string          `json:"service_type"`
	Revenue     decimal.Decimal `json:"revenue"`
	Count       int64           `json:"count"`
}

type PaymentMethodStat struct {
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
	Count         int64           `json:"count"`
	Percentage    decimal.Decimal `json:"percentage"`
}

type TopCustomer struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Visits     int             `json:"visits"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// Report backs GET /admin/reports and its PDF rendering.
type Report struct {
	Period           string              `json:"period"` // month | quarter | year
	From             time.Time           `json:"from"`
	To               time.Time           `json:"to"`
	Revenue          decimal.Decimal     `json:"revenue"`
	Expenses         decimal.Decimal     `json:"expenses"`
	NetProfit        decimal.Decimal     `json:"net_profit"`
	ProfitMargin     decimal.Decimal     `json:"profit_margin"`      // percent
	RevenueGrowth    decimal.Decimal     `json:"revenue_growth"`     // percent vs previous period
	AvgCustomerValue decimal.Decimal     `json:"avg_customer_value"` // revenue per distinct customer
	RetentionRate    decimal.Decimal     `json:"retention_rate"`     // percent of customers with visits > 1
	ServiceCount     int64               `json:"service_count"`
	CustomerCount    int64               `json:"customer_count"`
	ByServiceType    []ServiceTypeStat   `json:"by_service_type"`
	ByPaymentMethod  []PaymentMethodStat `json:"by_payment_method"`
	TopCustomers     []TopCustomer       `json:"top_customers"`
	Trend            []MonthlyTrend      `json:"trend"`
}

// DailySummary is what the scheduled report mails out.
type DailySummary struct {
	Date     time.Time       `json:"date"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Services int64           `json:"services"`
}
