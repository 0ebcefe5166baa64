package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateServiceRecordRequest is submitted by the sales dashboard. The recording
// user is never taken from the body.
type CreateServiceRecordRequest struct {
	CustomerName  string          `json:"customer_name"  validate:"required,min=1,max=120"`
	CustomerPhone string          `json:"customer_phone" validate:"required,phone"`
	BarberName    string          `json:"barber_name"    validate:"required,min=1,max=120"`
	ServiceType   string          `json:"service_type"   validate:"required,min=1,max=120"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH POS TRANSFER OTHER"`
	ServiceDate   *time.Time      `json:"service_date"`
	Notes         *string         `json:"notes"          validate:"omitempty,max=500"`
}

// UpdateServiceRecordRequest replaces the editable fields in one statement.
type UpdateServiceRecordRequest struct {
	ServiceType   string          `json:"service_type"   validate:"required,min=1,max=120"`
	BarberName    string          `json:"barber_name"    validate:"required,min=1,max=120"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH POS TRANSFER OTHER"`
	ServiceDate   time.Time       `json:"service_date"   validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ServiceRecordResponse struct {
	ID            string          `json:"id"`
	ServiceType   string          `json:"service_type"`
	BarberName    string          `json:"barber_name"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
	ServiceDate   time.Time       `json:"service_date"`
	Notes         *string         `json:"notes,omitempty"`
	Customer      *CustomerRef    `json:"customer,omitempty"`
	RecordedBy    *UserRef        `json:"recorded_by,omitempty"`
}

type ServiceRecordListResponse struct {
	Filter  string                  `json:"filter"`
	Date    string                  `json:"date,omitempty"`
	Count   int                     `json:"count"`
	Total   decimal.Decimal         `json:"total"`
	Records []ServiceRecordResponse `json:"records"`
}
