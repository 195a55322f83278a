package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillStatus represents the persisted payment state of a bill.
// BillOverdue is a display-only derivation and is never written to the store.
type BillStatus string

const (
	BillPending       BillStatus = "Pending"
	BillPartiallyPaid BillStatus = "Partially Paid"
	BillPaid          BillStatus = "Paid"
	BillOverdue       BillStatus = "Overdue"
)

// DeriveBillStatus returns the persisted status implied by the cumulative
// paid amount. Monotonic in totalPaid: once Paid, more payments cannot
// regress the status.
func DeriveBillStatus(totalPaid, amountDue decimal.Decimal) BillStatus {
	switch {
	case totalPaid.GreaterThanOrEqual(amountDue):
		return BillPaid
	case totalPaid.GreaterThan(decimal.Zero):
		return BillPartiallyPaid
	}
	return BillPending
}

// Bill is a charge owed by a member, settled by accumulating payments
type Bill struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	MemberID    uint            `gorm:"index" json:"member_id"`
	AmountDue   decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount_due"`
	IssueDate   time.Time       `json:"issue_date"`
	DueDate     time.Time       `json:"due_date"`
	Status      BillStatus      `gorm:"type:varchar(50);default:'Pending'" json:"status"`
	Description string          `gorm:"type:text" json:"description"`

	// Relationships
	Member   User      `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Payments []Payment `gorm:"foreignKey:BillID" json:"payments,omitempty"`
}

// DisplayStatus returns the status to show to users: a still-Pending bill
// past its due date reads as Overdue without mutating the stored status.
func (b Bill) DisplayStatus(now time.Time) BillStatus {
	if b.Status == BillPending && b.DueDate.Before(now) {
		return BillOverdue
	}
	return b.Status
}
