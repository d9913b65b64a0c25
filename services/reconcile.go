package services

import (
	"context"
	"strings"

	"billing-backend/gateway"
	"billing-backend/models"
	"billing-backend/utils"

	"gorm.io/datatypes"
)

// Localized description markers for the one-time production fees. Fallback
// only: a structured FeeType on the line item always wins.
var feeMarkers = map[models.FeeType]string{
	models.FeeInitial: "初期費用",
	models.FeeInterim: "中間費用",
	models.FeeFinal:   "最終費用",
}

// Column names of the paid flags inside the embedded fee breakdown.
var feeColumns = map[models.FeeType]string{
	models.FeeInitial: "fee_initial_payment_paid",
	models.FeeInterim: "fee_intermediate_payment_paid",
	models.FeeFinal:   "fee_final_payment_paid",
}

// Reconciliation is the full write set for one successfully charged invoice.
// The store applies it in a single transaction.
type Reconciliation struct {
	InvoiceID      string
	InvoiceUpdates map[string]any
	ClientID       string
	// Empty when no client-side field changed; the store then skips the
	// client write entirely.
	ClientUpdates map[string]any
	Event         models.GatewayEvent
}

// reconcilePaid records a settled charge: invoice goes to paid, client fee
// flags and paid-period markers advance, and a gateway event row is kept.
func (b *Billing) reconcilePaid(ctx context.Context, inv *models.Invoice, client *models.Client, intent *gateway.Intent) error {
	rec := b.buildReconciliation(inv, client, intent)
	if err := b.store.ApplyReconciliation(ctx, rec); err != nil {
		return err
	}
	b.log.Info().
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("intent_id", intent.ID).
		Int64("amount", inv.TotalAmount).
		Msg("invoice reconciled as paid")
	return nil
}

func (b *Billing) buildReconciliation(inv *models.Invoice, client *models.Client, intent *gateway.Intent) *Reconciliation {
	now := b.now()
	paymentMethod := intent.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	rec := &Reconciliation{
		InvoiceID: inv.ID,
		InvoiceUpdates: map[string]any{
			"status":            models.StatusPaid,
			"paid_amount":       inv.TotalAmount,
			"paid_at":           now,
			"gateway_charge_id": intent.ID,
			"payment_method":    paymentMethod,
		},
		ClientID:      client.ID,
		ClientUpdates: map[string]any{},
		Event: models.GatewayEvent{
			InvoiceID: inv.ID,
			ClientID:  client.ID,
			IntentID:  intent.ID,
			Status:    string(intent.Status),
			Amount:    intent.Amount,
			Payload:   datatypes.JSON(intent.Raw),
		},
	}

	for _, fee := range matchedFees(inv.Items) {
		rec.ClientUpdates[feeColumns[fee]] = true
	}

	// Advance the paid-period markers, never backwards: an out-of-order
	// settlement of an older invoice must not regress them.
	if inv.BillingPeriodStart != nil && inv.BillingPeriodEnd != nil {
		if client.LastPaidPeriodEnd == nil || inv.BillingPeriodEnd.After(*client.LastPaidPeriodEnd) {
			rec.ClientUpdates["last_paid_period_start"] = *inv.BillingPeriodStart
			rec.ClientUpdates["last_paid_period_end"] = *inv.BillingPeriodEnd
			rec.ClientUpdates["last_paid_period"] = utils.PeriodMonth(*inv.BillingPeriodEnd)
		}
	}

	return rec
}

// matchedFees returns the one-time fees present on the invoice, deduplicated.
// Structured FeeType tags take precedence; otherwise the localized
// description text is scanned for the known markers.
func matchedFees(items []models.InvoiceItem) []models.FeeType {
	seen := map[models.FeeType]bool{}
	var fees []models.FeeType
	add := func(fee models.FeeType) {
		if !seen[fee] {
			seen[fee] = true
			fees = append(fees, fee)
		}
	}
	for _, item := range items {
		if _, ok := feeColumns[item.FeeType]; ok {
			add(item.FeeType)
			continue
		}
		for fee, marker := range feeMarkers {
			if strings.Contains(item.Description, marker) {
				add(fee)
			}
		}
	}
	return fees
}
