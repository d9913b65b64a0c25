package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"billing-backend/gateway"
	"billing-backend/middlewares"
	"billing-backend/models"
	"billing-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	invoices map[string]*models.Invoice
	clients  map[string]*models.Client
}

func (s *stubStore) InvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	if inv, ok := s.invoices[id]; ok {
		return inv, nil
	}
	return nil, services.ErrInvoiceNotFound
}

func (s *stubStore) ClientByID(ctx context.Context, id string) (*models.Client, error) {
	if client, ok := s.clients[id]; ok {
		return client, nil
	}
	return nil, services.ErrClientNotFound
}

func (s *stubStore) SaveChargeRef(ctx context.Context, invoiceID, intentID string) error {
	return nil
}

func (s *stubStore) ApplyReconciliation(ctx context.Context, rec *services.Reconciliation) error {
	if inv, ok := s.invoices[rec.InvoiceID]; ok {
		inv.Status = models.StatusPaid
	}
	return nil
}

type stubGateway struct {
	err    error
	status gateway.IntentStatus
}

func (g *stubGateway) CreateIntent(ctx context.Context, p gateway.CreateIntentParams) (*gateway.Intent, error) {
	if g.err != nil {
		return nil, g.err
	}
	status := g.status
	if status == "" {
		status = gateway.StatusSucceeded
	}
	return &gateway.Intent{ID: "pi_test", Status: status, Amount: p.Amount, PaymentMethod: p.PaymentMethodID}, nil
}

func (g *stubGateway) IntentByID(ctx context.Context, id string) (*gateway.Intent, error) {
	return nil, gateway.ErrGateway
}

func chargeTestApp(store *stubStore, gw *stubGateway) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	billing := services.NewBilling(store, gw, zerolog.Nop())
	ct := NewChargeController(billing)
	app.Post("/api/invoices/auto-charge", ct.AutoCharge)
	app.Post("/api/invoices/bulk-charge", ct.BulkCharge)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return resp, out
}

func seededStore() *stubStore {
	return &stubStore{
		invoices: map[string]*models.Invoice{
			"inv1": {
				ID:            "inv1",
				ClientID:      "c1",
				InvoiceNumber: "INV-001",
				TotalAmount:   33000,
				Status:        models.StatusSent,
				Items:         []models.InvoiceItem{{Description: "初期費用", Quantity: 1, UnitPrice: 33000, Amount: 33000}},
			},
		},
		clients: map[string]*models.Client{
			"c1": {ID: "c1", CompanyName: "Acme", Email: "acme@example.com", GatewayCustomerID: "cus_1", GatewayPaymentMethodID: "pm_1"},
		},
	}
}

func TestAutoChargeSuccess(t *testing.T) {
	app := chargeTestApp(seededStore(), &stubGateway{})

	resp, out := postJSON(t, app, "/api/invoices/auto-charge", fiber.Map{"invoiceId": "inv1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "pi_test", out["paymentIntentId"])
	assert.Contains(t, out["message"], "¥33,000")
}

func TestAutoChargeAlreadyPaid(t *testing.T) {
	store := seededStore()
	store.invoices["inv1"].Status = models.StatusPaid
	app := chargeTestApp(store, &stubGateway{})

	resp, out := postJSON(t, app, "/api/invoices/auto-charge", fiber.Map{"invoiceId": "inv1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["alreadyPaid"])
	assert.NotContains(t, out, "success")
}

func TestAutoChargeProcessing(t *testing.T) {
	app := chargeTestApp(seededStore(), &stubGateway{status: gateway.StatusProcessing})

	resp, out := postJSON(t, app, "/api/invoices/auto-charge", fiber.Map{"invoiceId": "inv1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["processing"])
}

func TestAutoChargeUnknownInvoice(t *testing.T) {
	app := chargeTestApp(seededStore(), &stubGateway{})

	resp, out := postJSON(t, app, "/api/invoices/auto-charge", fiber.Map{"invoiceId": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "invoice not found", out["error"])
}

func TestAutoChargeMissingBody(t *testing.T) {
	app := chargeTestApp(seededStore(), &stubGateway{})

	resp, out := postJSON(t, app, "/api/invoices/auto-charge", fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invoiceId is required", out["error"])
}

func TestAutoChargeMissingPaymentMethod(t *testing.T) {
	store := seededStore()
	store.clients["c1"].GatewayPaymentMethodID = ""
	app := chargeTestApp(store, &stubGateway{})

	resp, out := postJSON(t, app, "/api/invoices/auto-charge", fiber.Map{"invoiceId": "inv1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No payment method registered", out["error"])
}

func TestAutoChargeDeclineIs500(t *testing.T) {
	app := chargeTestApp(seededStore(), &stubGateway{err: gateway.ErrCardDeclined})

	resp, out := postJSON(t, app, "/api/invoices/auto-charge", fiber.Map{"invoiceId": "inv1"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Card was declined", out["error"])
}

func TestBulkChargeEmptyList(t *testing.T) {
	app := chargeTestApp(seededStore(), &stubGateway{})

	resp, out := postJSON(t, app, "/api/invoices/bulk-charge", fiber.Map{"invoiceIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invoiceIds is required", out["error"])
}

func TestBulkChargeReport(t *testing.T) {
	app := chargeTestApp(seededStore(), &stubGateway{})

	resp, out := postJSON(t, app, "/api/invoices/bulk-charge", fiber.Map{"invoiceIds": []string{"inv1", "ghost"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	summary, ok := out["summary"].(map[string]any)
	require.True(t, ok, "summary missing: %v", out)
	assert.Equal(t, float64(2), summary["total"])
	assert.Equal(t, float64(1), summary["succeeded"])
	assert.Equal(t, float64(1), summary["failed"])
	assert.Equal(t, float64(33000), summary["totalAmount"])

	results, ok := out["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, true, first["success"])
	assert.Equal(t, "INV-001", first["invoiceNumber"])
	second := results[1].(map[string]any)
	assert.Equal(t, false, second["success"])
	assert.Equal(t, "Invoice not found", second["error"])
}
