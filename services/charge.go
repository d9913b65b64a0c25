package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"billing-backend/gateway"
	"billing-backend/models"
)

// Invoices are yen-denominated; amounts are already minor units.
const chargeCurrency = "jpy"

// ChargeOutcome is the result of one ChargeInvoice call. Exactly one of
// AlreadyPaid, Processing, or a plain success (both false) applies.
type ChargeOutcome struct {
	AlreadyPaid bool
	Processing  bool
	IntentID    string
	Amount      int64
}

// ChargeKey derives the gateway idempotency key for an invoice. It depends
// only on invoice identity, so duplicate submissions (client retry, double
// click, overlapping requests) collapse to a single charge at the gateway.
func ChargeKey(invoiceID, invoiceNumber string) string {
	h := sha256.New()
	h.Write([]byte(invoiceID))
	h.Write([]byte{'\n'})
	h.Write([]byte(invoiceNumber))
	return "invoice-charge-" + hex.EncodeToString(h.Sum(nil))
}

// ChargeInvoice attempts exactly one real-money charge for the invoice and,
// on success, reconciles invoice and client state.
func (b *Billing) ChargeInvoice(ctx context.Context, invoiceID string) (*ChargeOutcome, error) {
	inv, err := b.store.InvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == models.StatusPaid {
		return &ChargeOutcome{AlreadyPaid: true, IntentID: inv.GatewayChargeID}, nil
	}
	if !inv.Status.Chargeable() {
		return nil, fmt.Errorf("%w: status %s", ErrNotChargeable, inv.Status)
	}

	client, err := b.store.ClientByID(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.HasPaymentMethod() {
		return nil, ErrMissingPaymentMethod
	}

	// A previous attempt may have already charged this invoice. Re-query its
	// intent before creating a new one.
	if inv.GatewayChargeID != "" {
		out, err := b.checkExistingIntent(ctx, inv, client)
		if err != nil {
			return nil, err
		}
		if out != nil {
			return out, nil
		}
	}

	intent, err := b.gw.CreateIntent(ctx, gateway.CreateIntentParams{
		CustomerID:      client.GatewayCustomerID,
		PaymentMethodID: client.GatewayPaymentMethodID,
		Amount:          inv.TotalAmount,
		Currency:        chargeCurrency,
		Description:     fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		IdempotencyKey:  ChargeKey(inv.ID, inv.InvoiceNumber),
	})
	if err != nil {
		b.log.Warn().Err(err).
			Str("invoice_id", inv.ID).
			Str("invoice_number", inv.InvoiceNumber).
			Msg("charge attempt failed")
		return nil, err
	}

	switch intent.Status {
	case gateway.StatusSucceeded:
		if err := b.reconcilePaid(ctx, inv, client, intent); err != nil {
			return nil, err
		}
		return &ChargeOutcome{IntentID: intent.ID, Amount: inv.TotalAmount}, nil
	case gateway.StatusProcessing:
		if err := b.store.SaveChargeRef(ctx, inv.ID, intent.ID); err != nil {
			return nil, err
		}
		return &ChargeOutcome{Processing: true, IntentID: intent.ID}, nil
	default:
		return nil, fmt.Errorf("%w: intent %s in state %s", gateway.ErrGateway, intent.ID, intent.Status)
	}
}

// checkExistingIntent resolves a previously stored intent reference. A non-nil
// outcome means the caller should stop (already settled or still processing);
// nil, nil means a fresh charge attempt is allowed.
func (b *Billing) checkExistingIntent(ctx context.Context, inv *models.Invoice, client *models.Client) (*ChargeOutcome, error) {
	intent, err := b.gw.IntentByID(ctx, inv.GatewayChargeID)
	if err != nil {
		// Unknown or unreadable intent: fall through to a new attempt; the
		// idempotency key still protects against a double charge.
		b.log.Warn().Err(err).
			Str("invoice_id", inv.ID).
			Str("intent_id", inv.GatewayChargeID).
			Msg("could not re-query stored intent")
		return nil, nil
	}
	switch intent.Status {
	case gateway.StatusSucceeded:
		// Money already moved; bring our records in line. A failed write must
		// surface to the operator: the invoice row still says unpaid.
		if err := b.reconcilePaid(ctx, inv, client, intent); err != nil {
			return nil, err
		}
		return &ChargeOutcome{AlreadyPaid: true, IntentID: intent.ID}, nil
	case gateway.StatusProcessing:
		return &ChargeOutcome{Processing: true, IntentID: intent.ID}, nil
	}
	// requires_payment_method / canceled etc.: the old attempt is dead.
	return nil, nil
}
