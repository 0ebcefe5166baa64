package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the closed set stored in the payment_method enum.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentPOS      PaymentMethod = "POS"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentOther    PaymentMethod = "OTHER"
)

// PaymentMethods lists every method in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentPOS, PaymentTransfer, PaymentOther}

// ParsePaymentMethod accepts any casing of a known method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range PaymentMethods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// ServiceRecord is one completed barbershop transaction.
type ServiceRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServiceType   string          `gorm:"not null"`
	BarberName    string          `gorm:"not null"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:payment_method;not null"`
	ServiceDate   time.Time       `gorm:"not null;index"`
	Notes         *string
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RecordedByID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Customer   *Customer `gorm:"foreignKey:CustomerID"`
	RecordedBy *User     `gorm:"foreignKey:RecordedByID"`
}
