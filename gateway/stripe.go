package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeGateway implements Gateway against the Stripe PaymentIntents API.
type StripeGateway struct {
	api *client.API
}

// NewStripe builds a gateway bound to the given secret key.
func NewStripe(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, p CreateIntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context:        ctx,
			IdempotencyKey: stripe.String(p.IdempotencyKey),
		},
		Amount:        stripe.Int64(p.Amount),
		Currency:      stripe.String(p.Currency),
		Customer:      stripe.String(p.CustomerID),
		PaymentMethod: stripe.String(p.PaymentMethodID),
		Description:   stripe.String(p.Description),
		// Charge the stored method immediately, without the cardholder present.
		Confirm:    stripe.Bool(true),
		OffSession: stripe.Bool(true),
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return fromPaymentIntent(pi), nil
}

func (g *StripeGateway) IntentByID(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return fromPaymentIntent(pi), nil
}

func fromPaymentIntent(pi *stripe.PaymentIntent) *Intent {
	intent := &Intent{
		ID:     pi.ID,
		Status: IntentStatus(pi.Status),
		Amount: pi.Amount,
	}
	if pi.PaymentMethod != nil {
		intent.PaymentMethod = pi.PaymentMethod.ID
	}
	if raw, err := json.Marshal(pi); err == nil {
		intent.Raw = raw
	}
	return intent
}

// mapStripeError folds Stripe's error codes into the charge failure taxonomy.
func mapStripeError(err error) error {
	var serr *stripe.Error
	if !errors.As(err, &serr) {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if serr.Code == stripe.ErrorCodeCardDeclined {
		if serr.DeclineCode == "insufficient_funds" {
			return fmt.Errorf("%w: %s", ErrInsufficientFunds, serr.Msg)
		}
		return fmt.Errorf("%w: %s", ErrCardDeclined, serr.Msg)
	}
	return fmt.Errorf("%w: %s", ErrGateway, serr.Msg)
}
