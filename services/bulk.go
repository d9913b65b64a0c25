package services

import (
	"context"
	"errors"

	"billing-backend/gateway"
	"billing-backend/models"
)

// BulkItemResult is the per-invoice outcome of a bulk run. JSON field names
// follow the admin UI contract.
type BulkItemResult struct {
	InvoiceID       string `json:"invoiceId"`
	InvoiceNumber   string `json:"invoiceNumber,omitempty"`
	Success         bool   `json:"success"`
	Amount          int64  `json:"amount,omitempty"`
	Error           string `json:"error,omitempty"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}

type BulkSummary struct {
	Total       int   `json:"total"`
	Succeeded   int   `json:"succeeded"`
	Failed      int   `json:"failed"`
	TotalAmount int64 `json:"totalAmount"`
}

type BulkReport struct {
	Summary BulkSummary      `json:"summary"`
	Results []BulkItemResult `json:"results"`
}

// BulkCharge processes the ids strictly one at a time. A decline or error on
// one invoice never aborts the rest; every id produces exactly one result, so
// succeeded+failed always equals len(ids). There is no retry here — failed
// items are resubmitted by the operator in a later batch.
func (b *Billing) BulkCharge(ctx context.Context, invoiceIDs []string) *BulkReport {
	report := &BulkReport{
		Summary: BulkSummary{Total: len(invoiceIDs)},
		Results: make([]BulkItemResult, 0, len(invoiceIDs)),
	}

	for _, id := range invoiceIDs {
		res := b.chargeOne(ctx, id)
		if res.Success {
			report.Summary.Succeeded++
			report.Summary.TotalAmount += res.Amount
		} else {
			report.Summary.Failed++
		}
		report.Results = append(report.Results, res)
	}

	b.log.Info().
		Int("total", report.Summary.Total).
		Int("succeeded", report.Summary.Succeeded).
		Int("failed", report.Summary.Failed).
		Int64("total_amount", report.Summary.TotalAmount).
		Msg("bulk charge finished")
	return report
}

func (b *Billing) chargeOne(ctx context.Context, id string) BulkItemResult {
	res := BulkItemResult{InvoiceID: id}

	inv, err := b.store.InvoiceByID(ctx, id)
	if err != nil {
		res.Error = "Invoice not found"
		return res
	}
	res.InvoiceNumber = inv.InvoiceNumber

	// Recorded as a failed item (not an error) so callers can tell no-ops
	// apart from real declines; never counted toward totalAmount.
	if inv.Status == models.StatusPaid {
		res.Error = "Already paid"
		return res
	}

	out, err := b.ChargeInvoice(ctx, id)
	if err != nil {
		res.Error = bulkErrorMessage(err)
		return res
	}
	switch {
	case out.AlreadyPaid:
		res.Error = "Already paid"
	case out.Processing:
		res.Error = "Charge still processing"
		res.PaymentIntentID = out.IntentID
	default:
		res.Success = true
		res.Amount = out.Amount
		res.PaymentIntentID = out.IntentID
	}
	return res
}

func bulkErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingPaymentMethod):
		return "No payment method registered"
	case errors.Is(err, ErrClientNotFound):
		return "Client not found"
	case errors.Is(err, ErrNotChargeable):
		return "Invoice cancelled"
	}
	return gateway.UserMessage(err)
}
