package gateway

import (
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v79"
)

func TestMapStripeError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "card declined",
			in:   &stripe.Error{Code: stripe.ErrorCodeCardDeclined, Msg: "Your card was declined."},
			want: ErrCardDeclined,
		},
		{
			name: "insufficient funds decline",
			in:   &stripe.Error{Code: stripe.ErrorCodeCardDeclined, DeclineCode: "insufficient_funds", Msg: "Your card has insufficient funds."},
			want: ErrInsufficientFunds,
		},
		{
			name: "other stripe error",
			in:   &stripe.Error{Code: stripe.ErrorCodeExpiredCard, Msg: "Your card has expired."},
			want: ErrGateway,
		},
		{
			name: "transport error",
			in:   errors.New("connection reset"),
			want: ErrGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapStripeError(tt.in)
			if !errors.Is(got, tt.want) {
				t.Fatalf("mapStripeError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(mapStripeError(&stripe.Error{Code: stripe.ErrorCodeCardDeclined})); got != "Card was declined" {
		t.Fatalf("got %q", got)
	}
	if got := UserMessage(mapStripeError(&stripe.Error{Code: stripe.ErrorCodeCardDeclined, DeclineCode: "insufficient_funds"})); got != "Insufficient funds" {
		t.Fatalf("got %q", got)
	}
	// Generic gateway failures pass the provider's message through.
	got := UserMessage(mapStripeError(&stripe.Error{Code: stripe.ErrorCodeExpiredCard, Msg: "Your card has expired."}))
	if got != "gateway error: Your card has expired." {
		t.Fatalf("got %q", got)
	}
}

func TestFromPaymentIntent(t *testing.T) {
	pi := &stripe.PaymentIntent{
		ID:            "pi_123",
		Status:        stripe.PaymentIntentStatusSucceeded,
		Amount:        33000,
		PaymentMethod: &stripe.PaymentMethod{ID: "pm_123"},
	}
	intent := fromPaymentIntent(pi)
	if intent.ID != "pi_123" || intent.Status != StatusSucceeded {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if intent.Amount != 33000 || intent.PaymentMethod != "pm_123" {
		t.Fatalf("unexpected intent fields: %+v", intent)
	}
	if len(intent.Raw) == 0 {
		t.Fatalf("raw payload should be captured for the audit trail")
	}
}
