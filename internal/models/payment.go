package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod is how a payment was made
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// Valid reports whether the payment method is one of the known methods
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodCash, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// Payment records money received against a bill. Immutable once created;
// the sum of a bill's payments never exceeds its amount due.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	BillID        uint            `gorm:"index" json:"bill_id"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount_paid"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(50)" json:"payment_method"`

	// Relationships
	Bill Bill `gorm:"foreignKey:BillID" json:"bill,omitempty"`
}
