package repository

import (
	"context"
	"time"

	"citycut/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseUpdate is the editable field set of an expense.
type ExpenseUpdate struct {
	Category    string
	Amount      decimal.Decimal
	Description string
	ExpenseDate time.Time
}

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	Update(ctx context.Context, id uuid.UUID, u ExpenseUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q RecordQuery) ([]model.Expense, error)
	Sum(ctx context.Context, q RecordQuery) (decimal.Decimal, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return classify("expense.create", r.db.WithContext(ctx).Omit("RecordedBy").Create(e).Error)
}

func (r *expenseRepo) Update(ctx context.Context, id uuid.UUID, u ExpenseUpdate) error {
	res := r.db.WithContext(ctx).Model(&model.Expense{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"category":     u.Category,
			"amount":       u.Amount,
			"description":  u.Description,
			"expense_date": u.ExpenseDate,
		})
	return affected("expense.update", res)
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Expense{})
	return affected("expense.delete", res)
}

func (r *expenseRepo) scoped(ctx context.Context, q RecordQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Expense{})
	if q.From != nil {
		db = db.Where("expense_date >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("expense_date < ?", *q.To)
	}
	if q.RecordedBy != nil {
		db = db.Where("recorded_by_id = ?", *q.RecordedBy)
	}
	return db
}

func (r *expenseRepo) List(ctx context.Context, q RecordQuery) ([]model.Expense, error) {
	var out []model.Expense
	db := r.scoped(ctx, q).Preload("RecordedBy").Order("expense_date DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if err := db.Find(&out).Error; err != nil {
		return nil, classify("expense.list", err)
	}
	return out, nil
}

func (r *expenseRepo) Sum(ctx context.Context, q RecordQuery) (decimal.Decimal, error) {
	var out struct{ Total decimal.Decimal }
	err := r.scoped(ctx, q).Select("COALESCE(SUM(amount), 0) AS total").Scan(&out).Error
	if err != nil {
		return decimal.Zero, classify("expense.sum", err)
	}
	return out.Total, nil
}
