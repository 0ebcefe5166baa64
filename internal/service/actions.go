package service

import (
	"context"
	"time"

	"citycut/internal/apierror"
	"citycut/internal/cache"
	"citycut/internal/metrics"
	"citycut/internal/session"
	"citycut/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// View paths named by the invalidation signal.
const (
	ViewSales          = "/sales"
	ViewAdminDashboard = "/admin/dashboard"
	ViewAdminSales     = "/admin/sales"
	ViewAdminExpenses  = "/admin/expenses"
	ViewAdminCustomers = "/admin/customers"
	ViewAdminReports   = "/admin/reports"
)

// MsgNotAuthenticated is returned by every action called without a principal.
const MsgNotAuthenticated = "Not authenticated"

// Notifier is satisfied by *worker.Dispatcher.
type Notifier interface {
	EnqueueNotification(ctx context.Context, p worker.NotifyPayload) error
}

// Clock supplies the current time and the shop's timezone.
type Clock struct {
	Now func() time.Time
	Loc *time.Location
}

func (c Clock) now() time.Time {
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	if c.Now == nil {
		return time.Now().In(loc)
	}
	return c.Now().In(loc)
}

func (c Clock) loc() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// action describes one mutating operation: its envelope messages and the views
// it makes stale. Aggregate admin views are stale after any money or visit change.
type action struct {
	name  string
	ok    string
	fail  string
	views []string
}

var (
	actRecordService = action{"record_service", "Service recorded successfully", "Failed to record service",
		[]string{ViewSales, ViewAdminSales, ViewAdminCustomers, ViewAdminDashboard, ViewAdminReports}}
	actUpdateService = action{"update_service", "Service updated successfully", "Failed to update service",
		[]string{ViewSales, ViewAdminSales, ViewAdminCustomers, ViewAdminDashboard, ViewAdminReports}}
	actDeleteService = action{"delete_service", "Sale deleted successfully", "Failed to delete sale",
		[]string{ViewSales, ViewAdminSales, ViewAdminCustomers, ViewAdminDashboard, ViewAdminReports}}
	actUpdateCustomer = action{"update_customer", "Customer updated successfully", "Failed to update customer",
		[]string{ViewAdminCustomers, ViewAdminSales, ViewSales, ViewAdminDashboard, ViewAdminReports}}
	actDeleteCustomer = action{"delete_customer", "Customer deleted successfully", "Failed to delete customer",
		[]string{ViewAdminCustomers, ViewAdminSales, ViewSales, ViewAdminDashboard, ViewAdminReports}}
	actRecordExpense = action{"record_expense", "Expense recorded successfully", "Failed to record expense",
		[]string{ViewSales, ViewAdminExpenses, ViewAdminDashboard, ViewAdminReports}}
	actUpdateExpense = action{"update_expense", "Expense updated successfully", "Failed to update expense",
		[]string{ViewSales, ViewAdminExpenses, ViewAdminDashboard, ViewAdminReports}}
	actDeleteExpense = action{"delete_expense", "Expense deleted successfully", "Failed to delete expense",
		[]string{ViewSales, ViewAdminExpenses, ViewAdminDashboard, ViewAdminReports}}
)

// requirePrincipal fails with NotAuthenticated when p is nil.
func requirePrincipal(p *session.Principal) error {
	if p == nil {
		return apierror.ErrNotAuthenticated
	}
	return nil
}

// conclude maps the outcome of an action to its envelope. Causes are logged
// with their kind and never returned; views are invalidated only on success.
func conclude(ctx context.Context, inv cache.Invalidator, a action, err error) apierror.ActionResult {
	if err != nil {
		kind := apierror.KindOf(err)
		metrics.RecordAction(a.name, kind.String())
		if kind == apierror.KindNotAuthenticated {
			return apierror.Fail(MsgNotAuthenticated)
		}
		log.Error().Err(err).
			Str("action", a.name).
			Str("kind", kind.String()).
			Msg("action failed")
		return apierror.Fail(a.fail)
	}
	metrics.RecordAction(a.name, "ok")
	if inv != nil {
		inv.Invalidate(ctx, a.views...)
	}
	return apierror.OK(a.ok)
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
