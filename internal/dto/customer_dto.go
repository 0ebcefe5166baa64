package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type UpdateCustomerRequest struct {
	Name  string `json:"name"  validate:"required,min=1,max=120"`
	Phone string `json:"phone" validate:"required,phone"`
}

type CustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Visits      int             `json:"visits"`
	LastVisit   *time.Time      `json:"last_visit"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	WhatsAppURL string          `json:"whatsapp_url"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CustomerListResponse struct {
	Query     string             `json:"query,omitempty"`
	Count     int                `json:"count"`
	Customers []CustomerResponse `json:"customers"`
}
