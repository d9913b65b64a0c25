package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeBreakdown tracks the three one-time production fees and whether each
// has been collected. Updated only by charge reconciliation.
type FeeBreakdown struct {
	InitialPayment          int64 `json:"initial_payment"`
	InitialPaymentPaid      bool  `json:"initial_payment_paid"`
	IntermediatePayment     int64 `json:"intermediate_payment"`
	IntermediatePaymentPaid bool  `json:"intermediate_payment_paid"`
	FinalPayment            int64 `json:"final_payment"`
	FinalPaymentPaid        bool  `json:"final_payment_paid"`
}

// Client is a billed customer together with its stored payment profile.
// The record is created by onboarding; this service only updates the
// payment-related fields.
type Client struct {
	ID          string `json:"id" gorm:"primaryKey"`
	CompanyName string `json:"company_name" gorm:"not null"`
	Email       string `json:"email" gorm:"unique;not null"`
	ContactName string `json:"contact_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`

	// Gateway references required before any charge can be attempted.
	GatewayCustomerID      string `json:"gateway_customer_id"`
	GatewayPaymentMethodID string `json:"gateway_payment_method_id"`

	FeeBreakdown FeeBreakdown `json:"production_fee_breakdown" gorm:"embedded;embeddedPrefix:fee_"`

	// Mirror of the most recently paid invoice's billing period. Advances
	// monotonically; invoice generation must consult it before creating a
	// new invoice for the same span.
	LastPaidPeriodStart *time.Time `json:"last_paid_period_start"`
	LastPaidPeriodEnd   *time.Time `json:"last_paid_period_end"`
	// Coarse "YYYY-MM" marker derived from the period end, kept for
	// legacy-format consumers.
	LastPaidPeriod string `json:"last_paid_period" gorm:"type:varchar(7)"`

	Active    bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (client *Client) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	return
}

// HasPaymentMethod reports whether both gateway references needed for an
// off-session charge are present.
func (client *Client) HasPaymentMethod() bool {
	return client.GatewayCustomerID != "" && client.GatewayPaymentMethodID != ""
}
