package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateExpenseRequest struct {
	Category      string          `json:"category"       validate:"required,min=1,max=60"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	Description   string          `json:"description"    validate:"required,min=1,max=500"`
	ExpenseDate   *time.Time      `json:"expense_date"`
	PaymentMethod *string         `json:"payment_method" validate:"omitempty,oneof=CASH POS TRANSFER OTHER"`
	Notes         *string         `json:"notes"          validate:"omitempty,max=500"`
}

type UpdateExpenseRequest struct {
	Category    string          `json:"category"     validate:"required,min=1,max=60"`
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	Description string          `json:"description"  validate:"required,min=1,max=500"`
	ExpenseDate time.Time       `json:"expense_date" validate:"required"`
}

type ExpenseResponse struct {
	ID            string          `json:"id"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	ExpenseDate   time.Time       `json:"expense_date"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	RecordedBy    *UserRef        `json:"recorded_by,omitempty"`
}

type ExpenseListResponse struct {
	Filter   string            `json:"filter"`
	Date     string            `json:"date,omitempty"`
	Count    int               `json:"count"`
	Total    decimal.Decimal   `json:"total"`
	Expenses []ExpenseResponse `json:"expenses"`
}
