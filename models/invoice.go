package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceStatus is the billing lifecycle state of an invoice.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusSent      InvoiceStatus = "sent"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// Chargeable reports whether an invoice in this status may still be charged.
// Paid is terminal for billing; cancelled invoices are never charged.
func (s InvoiceStatus) Chargeable() bool {
	switch s {
	case StatusDraft, StatusSent, StatusOverdue:
		return true
	case StatusPaid, StatusCancelled:
		return false
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// FeeType tags a line item as one of the one-time production fees.
// Preferred over matching the localized description text.
type FeeType string

const (
	FeeInitial FeeType = "initial"
	FeeInterim FeeType = "interim"
	FeeFinal   FeeType = "final"
)

// Invoice is the current state of a billable document. Amounts are integer
// minor currency units (JPY has no fraction, so 33000 means ¥33,000).
type Invoice struct {
	ID            string `json:"id" gorm:"primaryKey"`
	ClientID      string `json:"client_id" gorm:"not null;index"`
	Client        Client `json:"-" gorm:"foreignKey:ClientID;references:ID"`
	InvoiceNumber string `json:"invoice_number" gorm:"unique;not null"`

	Items       []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	TotalAmount int64         `json:"total_amount"`

	Status InvoiceStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`

	// Billing period this invoice covers; consulted by invoice generation
	// to avoid billing the same calendar span twice.
	BillingPeriodStart *time.Time `json:"billing_period_start"`
	BillingPeriodEnd   *time.Time `json:"billing_period_end"`

	// Set by reconciliation after a successful charge.
	PaymentMethod   string     `json:"payment_method"`
	GatewayChargeID string     `json:"gateway_charge_id" gorm:"index"`
	PaidAmount      int64      `json:"paid_amount"`
	PaidAt          *time.Time `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	return
}

type InvoiceItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	InvoiceID   string  `json:"-" gorm:"index;not null"`
	Description string  `json:"description"`
	FeeType     FeeType `json:"fee_type" gorm:"type:varchar(20)"`
	Quantity    int     `json:"quantity"`
	UnitPrice   int64   `json:"unit_price"`
	Amount      int64   `json:"amount"`
}
