package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"citycut/internal/apierror"
	"citycut/internal/model"
	"citycut/internal/repository"
	"citycut/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// memStore backs every stub repository so cascades and sums stay consistent.
type memStore struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*model.Customer
	records   map[uuid.UUID]*model.ServiceRecord
	expenses  map[uuid.UUID]*model.Expense
	users     map[string]*model.User

	failRecordCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		customers: make(map[uuid.UUID]*model.Customer),
		records:   make(map[uuid.UUID]*model.ServiceRecord),
		expenses:  make(map[uuid.UUID]*model.Expense),
		users:     make(map[string]*model.User),
	}
}

func notFound(op string) error {
	return apierror.E(apierror.KindNotFound, op, gorm.ErrRecordNotFound)
}

func inQuery(t time.Time, by uuid.UUID, q repository.RecordQuery) bool {
	if q.From != nil && t.Before(*q.From) {
		return false
	}
	if q.To != nil && !t.Before(*q.To) {
		return false
	}
	if q.RecordedBy != nil && by != *q.RecordedBy {
		return false
	}
	return true
}

// stubCustomerRepo ---------------------------------------------------------------

type stubCustomerRepo struct{ s *memStore }

func (r *stubCustomerRepo) UpsertVisit(_ context.Context, _ *gorm.DB, name, phone string) (*model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Phone == phone {
			c.Visits++
			cp := *c
			return &cp, nil
		}
	}
	c := &model.Customer{ID: uuid.New(), Name: name, Phone: phone, Visits: 1, CreatedAt: time.Now()}
	r.s.customers[c.ID] = c
	cp := *c
	return &cp, nil
}

// byPhone is a test lookup; production code reaches customers through UpsertVisit.
func (r *stubCustomerRepo) byPhone(_ context.Context, phone string) (*model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, notFound("customer.find_by_phone")
}

func (r *stubCustomerRepo) List(_ context.Context, query string) ([]repository.CustomerStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repository.CustomerStats
	for _, c := range r.s.customers {
		if query != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) && !strings.Contains(c.Phone, query) {
			continue
		}
		st := repository.CustomerStats{Customer: *c, TotalSpent: decimal.Zero}
		for _, rec := range r.s.records {
			if rec.CustomerID == c.ID {
				st.TotalSpent = st.TotalSpent.Add(rec.AmountPaid)
				d := rec.ServiceDate
				if st.LastVisit == nil || d.After(*st.LastVisit) {
					st.LastVisit = &d
				}
			}
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, id uuid.UUID, name, phone string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return notFound("customer.update")
	}
	for _, other := range r.s.customers {
		if other.ID != id && other.Phone == phone {
			return apierror.E(apierror.KindConstraintViolation, "customer.update", gorm.ErrDuplicatedKey)
		}
	}
	c.Name, c.Phone = name, phone
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return notFound("customer.delete")
	}
	delete(r.s.customers, id)
	for rid, rec := range r.s.records {
		if rec.CustomerID == id {
			delete(r.s.records, rid)
		}
	}
	return nil
}

func (r *stubCustomerRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.customers)), nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubRecordRepo -----------------------------------------------------------------

type stubRecordRepo struct{ s *memStore }

func (r *stubRecordRepo) Create(_ context.Context, _ *gorm.DB, rec *model.ServiceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failRecordCreate {
		return apierror.E(apierror.KindUnknown, "service_record.create", errors.New("connection reset"))
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	r.s.records[rec.ID] = &cp
	return nil
}

func (r *stubRecordRepo) Update(_ context.Context, id uuid.UUID, u repository.RecordUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.records[id]
	if !ok {
		return notFound("service_record.update")
	}
	rec.ServiceType, rec.BarberName, rec.AmountPaid = u.ServiceType, u.BarberName, u.AmountPaid
	rec.PaymentMethod, rec.ServiceDate = u.PaymentMethod, u.ServiceDate
	return nil
}

func (r *stubRecordRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.records[id]; !ok {
		return notFound("service_record.delete")
	}
	delete(r.s.records, id)
	return nil
}

func (r *stubRecordRepo) List(_ context.Context, q repository.RecordQuery) ([]model.ServiceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.ServiceRecord
	for _, rec := range r.s.records {
		if inQuery(rec.ServiceDate, rec.RecordedByID, q) {
			cp := *rec
			if c, ok := r.s.customers[rec.CustomerID]; ok {
				cc := *c
				cp.Customer = &cc
			}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceDate.After(out[j].ServiceDate) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *stubRecordRepo) Sum(_ context.Context, q repository.RecordQuery) (decimal.Decimal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total, n := decimal.Zero, int64(0)
	for _, rec := range r.s.records {
		if inQuery(rec.ServiceDate, rec.RecordedByID, q) {
			total = total.Add(rec.AmountPaid)
			n++
		}
	}
	return total, n, nil
}

var _ repository.ServiceRecordRepository = (*stubRecordRepo)(nil)

// stubExpenseRepo ----------------------------------------------------------------

type stubExpenseRepo struct{ s *memStore }

func (r *stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	r.s.expenses[e.ID] = &cp
	return nil
}

func (r *stubExpenseRepo) Update(_ context.Context, id uuid.UUID, u repository.ExpenseUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return notFound("expense.update")
	}
	e.Category, e.Amount, e.Description, e.ExpenseDate = u.Category, u.Amount, u.Description, u.ExpenseDate
	return nil
}

func (r *stubExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[id]; !ok {
		return notFound("expense.delete")
	}
	delete(r.s.expenses, id)
	return nil
}

func (r *stubExpenseRepo) List(_ context.Context, q repository.RecordQuery) ([]model.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Expense
	for _, e := range r.s.expenses {
		if inQuery(e.ExpenseDate, e.RecordedByID, q) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpenseDate.After(out[j].ExpenseDate) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *stubExpenseRepo) Sum(_ context.Context, q repository.RecordQuery) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, e := range r.s.expenses {
		if inQuery(e.ExpenseDate, e.RecordedByID, q) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)

// stubUserRepo -------------------------------------------------------------------

type stubUserRepo struct {
	s   *memStore
	err error
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.s.users[strings.ToLower(email)]
	if !ok {
		return nil, notFound("user.find_by_email")
	}
	return u, nil
}

func (r *stubUserRepo) Upsert(_ context.Context, u *model.User) error {
	r.s.users[strings.ToLower(u.Email)] = u
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// stubReportRepo -----------------------------------------------------------------

type stubReportRepo struct {
	byType, byMethod  []repository.GroupTotal
	top               []repository.CustomerStats
	distinct          int64
	returning, total  int64
	revenue, expenses []repository.MonthTotal
	newCustomers      []repository.MonthTotal
}

func (r *stubReportRepo) RevenueByServiceType(context.Context, time.Time, time.Time) ([]repository.GroupTotal, error) {
	return r.byType, nil
}

func (r *stubReportRepo) RevenueByPaymentMethod(context.Context, time.Time, time.Time) ([]repository.GroupTotal, error) {
	return r.byMethod, nil
}

func (r *stubReportRepo) TopCustomers(context.Context, time.Time, time.Time, int) ([]repository.CustomerStats, error) {
	return r.top, nil
}

func (r *stubReportRepo) DistinctCustomers(context.Context, time.Time, time.Time) (int64, error) {
	return r.distinct, nil
}

func (r *stubReportRepo) Retention(context.Context) (int64, int64, error) {
	return r.returning, r.total, nil
}

func (r *stubReportRepo) MonthlyRevenue(context.Context, time.Time, time.Time, string) ([]repository.MonthTotal, error) {
	return r.revenue, nil
}

func (r *stubReportRepo) MonthlyExpenses(context.Context, time.Time, time.Time, string) ([]repository.MonthTotal, error) {
	return r.expenses, nil
}

func (r *stubReportRepo) MonthlyNewCustomers(context.Context, time.Time, time.Time, string) ([]repository.MonthTotal, error) {
	return r.newCustomers, nil
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

// recordingViews captures invalidations and never caches.
type recordingViews struct {
	mu          sync.Mutex
	invalidated []string
}

func (v *recordingViews) Invalidate(_ context.Context, paths ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.invalidated = append(v.invalidated, paths...)
}

func (v *recordingViews) Get(context.Context, string, string, any) bool { return false }
func (v *recordingViews) Set(context.Context, string, string, any)      {}

// stubNotifier records queued thank-you texts.
type stubNotifier struct {
	sent []worker.NotifyPayload
	err  error
}

func (n *stubNotifier) EnqueueNotification(_ context.Context, p worker.NotifyPayload) error {
	n.sent = append(n.sent, p)
	return n.err
}
