package services

import "errors"

var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrClientNotFound       = errors.New("client not found")
	ErrMissingPaymentMethod = errors.New("no payment method registered")
	ErrNotChargeable        = errors.New("invoice is not chargeable")
)
