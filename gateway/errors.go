package gateway

import "errors"

// Charge failure taxonomy. Wrapped with the provider's own message; callers
// distinguish them with errors.Is.
var (
	ErrCardDeclined      = errors.New("card declined")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrGateway           = errors.New("gateway error")
)

// UserMessage maps a gateway error to the string shown to operators.
// Provider messages for generic failures are passed through.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient funds"
	case errors.Is(err, ErrCardDeclined):
		return "Card was declined"
	}
	return err.Error()
}
