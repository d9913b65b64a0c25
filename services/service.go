package services

import (
	"context"
	"time"

	"billing-backend/gateway"
	"billing-backend/models"

	"github.com/rs/zerolog"
)

// Store is the persistence surface the billing service needs: point lookups
// plus one atomic write batch per reconciled invoice. Implemented by
// database.BillingStore; tests substitute an in-memory fake.
type Store interface {
	InvoiceByID(ctx context.Context, id string) (*models.Invoice, error)
	ClientByID(ctx context.Context, id string) (*models.Client, error)
	// SaveChargeRef persists the gateway intent id on an invoice whose charge
	// is still processing, so a later attempt re-queries instead of re-charging.
	SaveChargeRef(ctx context.Context, invoiceID, intentID string) error
	// ApplyReconciliation applies the whole write set in one transaction;
	// partial application must not be observable.
	ApplyReconciliation(ctx context.Context, rec *Reconciliation) error
}

// Billing charges invoices and reconciles the results. All dependencies are
// injected; nothing here touches globals.
type Billing struct {
	store Store
	gw    gateway.Gateway
	log   zerolog.Logger
	now   func() time.Time
}

func NewBilling(store Store, gw gateway.Gateway, log zerolog.Logger) *Billing {
	return &Billing{
		store: store,
		gw:    gw,
		log:   log,
		now:   time.Now,
	}
}
