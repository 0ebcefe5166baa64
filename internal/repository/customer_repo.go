package repository

import (
	"context"
	"strings"
	"time"

	"citycut/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerStats is a customer with its derived aggregates.
type CustomerStats struct {
	model.Customer
	TotalSpent decimal.Decimal
	LastVisit  *time.Time
}

type CustomerRepository interface {
	// UpsertVisit creates the customer with visits=1 or increments visits of the
	// existing one, in a single statement. The stored name is kept on conflict.
	UpsertVisit(ctx context.Context, tx *gorm.DB, name, phone string) (*model.Customer, error)
	List(ctx context.Context, query string) ([]CustomerStats, error)
	Update(ctx context.Context, id uuid.UUID, name, phone string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) DB() *gorm.DB { return r.db }

const upsertVisitSQL = `INSERT INTO customers (name, phone, visits, created_at, updated_at)
VALUES (?, ?, 1, NOW(), NOW())
ON CONFLICT (phone) DO UPDATE SET visits = customers.visits + 1, updated_at = NOW()
RETURNING id, name, phone, visits, created_at, updated_at`

func (r *customerRepo) UpsertVisit(ctx context.Context, tx *gorm.DB, name, phone string) (*model.Customer, error) {
	var c model.Customer
	res := conn(r.db, tx).WithContext(ctx).Raw(upsertVisitSQL, name, phone).Scan(&c)
	if res.Error != nil {
		return nil, classify("customer.upsert_visit", res.Error)
	}
	if c.ID == uuid.Nil {
		return nil, classify("customer.upsert_visit", gorm.ErrRecordNotFound)
	}
	return &c, nil
}

func (r *customerRepo) List(ctx context.Context, query string) ([]CustomerStats, error) {
	var rows []CustomerStats
	q := r.db.WithContext(ctx).
		Table("customers c").
		Select(`c.*, COALESCE(SUM(s.amount_paid), 0) AS total_spent, MAX(s.service_date) AS last_visit`).
		Joins("LEFT JOIN service_records s ON s.customer_id = c.id").
		Group("c.id").
		Order("c.name ASC")
	if query != "" {
		like := "%" + escapeLike(query) + "%"
		q = q.Where("c.name ILIKE ? OR c.phone LIKE ?", like, like)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, classify("customer.list", err)
	}
	return rows, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern (Postgres' default
// escape character is the backslash).
func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *customerRepo) Update(ctx context.Context, id uuid.UUID, name, phone string) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "phone": phone})
	return affected("customer.update", res)
}

// Delete removes the customer; service_records cascade at the schema level.
func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Customer{})
	return affected("customer.delete", res)
}

func (r *customerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&n).Error
	return n, classify("customer.count", err)
}
