package services

import (
	"context"
	"time"

	"billing-backend/gateway"
	"billing-backend/models"

	"github.com/rs/zerolog"
)

// fakeStore is an in-memory services.Store.
type fakeStore struct {
	invoices map[string]*models.Invoice
	clients  map[string]*models.Client

	applied   []*Reconciliation
	savedRefs map[string]string
	applyErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invoices:  map[string]*models.Invoice{},
		clients:   map[string]*models.Client{},
		savedRefs: map[string]string{},
	}
}

func (s *fakeStore) InvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, ok := s.invoices[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *fakeStore) ClientByID(ctx context.Context, id string) (*models.Client, error) {
	client, ok := s.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *fakeStore) SaveChargeRef(ctx context.Context, invoiceID, intentID string) error {
	s.savedRefs[invoiceID] = intentID
	if inv, ok := s.invoices[invoiceID]; ok {
		inv.GatewayChargeID = intentID
	}
	return nil
}

func (s *fakeStore) ApplyReconciliation(ctx context.Context, rec *Reconciliation) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = append(s.applied, rec)
	if inv, ok := s.invoices[rec.InvoiceID]; ok {
		inv.Status = models.StatusPaid
	}
	return nil
}

// fakeGateway scripts gateway responses per test.
type fakeGateway struct {
	createCalls []gateway.CreateIntentParams
	// Returned from CreateIntent unless the customer has a scripted error.
	createIntent         *gateway.Intent
	createErrForCustomer map[string]error

	intents map[string]*gateway.Intent
	getErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		createErrForCustomer: map[string]error{},
		intents:              map[string]*gateway.Intent{},
	}
}

func (g *fakeGateway) CreateIntent(ctx context.Context, p gateway.CreateIntentParams) (*gateway.Intent, error) {
	g.createCalls = append(g.createCalls, p)
	if err := g.createErrForCustomer[p.CustomerID]; err != nil {
		return nil, err
	}
	if g.createIntent != nil {
		return g.createIntent, nil
	}
	return &gateway.Intent{
		ID:            "pi_" + p.IdempotencyKey[:8],
		Status:        gateway.StatusSucceeded,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethodID,
	}, nil
}

func (g *fakeGateway) IntentByID(ctx context.Context, id string) (*gateway.Intent, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	intent, ok := g.intents[id]
	if !ok {
		return nil, gateway.ErrGateway
	}
	return intent, nil
}

func newTestBilling(store *fakeStore, gw *fakeGateway) *Billing {
	b := NewBilling(store, gw, zerolog.Nop())
	b.now = func() time.Time { return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func timePtr(t time.Time) *time.Time { return &t }

func testClient(id string) *models.Client {
	return &models.Client{
		ID:                     id,
		CompanyName:            "Acme Web",
		Email:                  id + "@example.com",
		GatewayCustomerID:      "cus_" + id,
		GatewayPaymentMethodID: "pm_" + id,
	}
}

func testInvoice(id, clientID string, amount int64) *models.Invoice {
	return &models.Invoice{
		ID:            id,
		ClientID:      clientID,
		InvoiceNumber: "INV-" + id,
		TotalAmount:   amount,
		Status:        models.StatusSent,
		Items: []models.InvoiceItem{
			{Description: "月額保守", Quantity: 1, UnitPrice: amount, Amount: amount},
		},
	}
}
