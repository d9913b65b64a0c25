package gateway

import "context"

// IntentStatus mirrors the gateway's payment-intent lifecycle states.
type IntentStatus string

const (
	StatusSucceeded             IntentStatus = "succeeded"
	StatusProcessing            IntentStatus = "processing"
	StatusRequiresAction        IntentStatus = "requires_action"
	StatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	StatusCanceled              IntentStatus = "canceled"
)

// Intent is the provider-neutral view of a payment intent.
type Intent struct {
	ID            string
	Status        IntentStatus
	Amount        int64
	PaymentMethod string
	// Raw is the provider's JSON representation, kept for the audit trail.
	Raw []byte
}

// CreateIntentParams describes one off-session charge against a stored
// payment method. IdempotencyKey must be deterministic per invoice so the
// provider collapses duplicate submissions into a single charge.
type CreateIntentParams struct {
	CustomerID      string
	PaymentMethodID string
	Amount          int64
	Currency        string
	Description     string
	IdempotencyKey  string
}

// Gateway abstracts the payment provider. Constructed once at bootstrap and
// passed to the billing service, so tests can substitute a double.
type Gateway interface {
	CreateIntent(ctx context.Context, p CreateIntentParams) (*Intent, error)
	IntentByID(ctx context.Context, id string) (*Intent, error)
}
