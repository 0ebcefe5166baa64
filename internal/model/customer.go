package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// Customer is keyed naturally by Phone. Visits counts every service record ever
// created for the phone; total spend is derived from the records.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"uniqueIndex;not null"`
	Visits    int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ServiceRecords []ServiceRecord `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// ThankYouMessage is sent to a customer after each visit.
func ThankYouMessage(name string) string {
	return fmt.Sprintf("Hello %s, thank you for choosing CityCut BarberShop!", name)
}

// WhatsAppURL opens a chat with the customer prefilled with the thank-you text.
func WhatsAppURL(name, phone string) string {
	digits := strings.TrimPrefix(E164(phone), "+")
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(ThankYouMessage(name))
}

// PhoneRegion is assumed for numbers typed without a country code.
const PhoneRegion = "NG"

// ValidPhone reports whether phone is a dialable number, reading local numbers
// ("0803 000 0001") as Nigerian.
func ValidPhone(phone string) bool {
	n, err := phonenumbers.Parse(phone, PhoneRegion)
	return err == nil && phonenumbers.IsValidNumber(n)
}

// E164 formats phone as +<country><number>. Numbers stored before validation
// existed and that no longer parse fall back to their digits with a leading +.
func E164(phone string) string {
	n, err := phonenumbers.Parse(phone, PhoneRegion)
	if err != nil {
		return "+" + phonenumbers.NormalizeDigitsOnly(phone)
	}
	return phonenumbers.Format(n, phonenumbers.E164)
}
