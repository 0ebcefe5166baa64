package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategories are offered by the recording forms. The column itself is
// free text.
var ExpenseCategories = []string{
	"supplies", "utilities", "maintenance", "commission", "fuel", "electricity", "other",
}

type Expense struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Category      string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description   string          `gorm:"not null"`
	ExpenseDate   time.Time       `gorm:"not null;index"`
	PaymentMethod *PaymentMethod  `gorm:"type:payment_method"`
	Notes         *string
	RecordedByID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	RecordedBy *User `gorm:"foreignKey:RecordedByID"`
}
