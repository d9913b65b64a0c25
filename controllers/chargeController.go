package controllers

import (
	"errors"

	"billing-backend/gateway"
	"billing-backend/middlewares"
	"billing-backend/services"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// ChargeController serves the auto-charge and bulk-charge endpoints. The
// billing service is injected so tests can run against fakes.
type ChargeController struct {
	billing *services.Billing
}

func NewChargeController(billing *services.Billing) *ChargeController {
	return &ChargeController{billing: billing}
}

type autoChargeRequest struct {
	InvoiceID string `json:"invoiceId" validate:"required"`
}

type bulkChargeRequest struct {
	InvoiceIDs []string `json:"invoiceIds" validate:"required,min=1,dive,required"`
}

// AutoCharge charges a single invoice against the client's stored payment method.
func (ct *ChargeController) AutoCharge(c *fiber.Ctx) error {
	var req autoChargeRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invoiceId is required"})
	}

	out, err := ct.billing.ChargeInvoice(c.UserContext(), req.InvoiceID)
	if err != nil {
		return chargeErrorResponse(c, err)
	}

	switch {
	case out.AlreadyPaid:
		return c.JSON(fiber.Map{"alreadyPaid": true})
	case out.Processing:
		return c.JSON(fiber.Map{"processing": true})
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"message":         "Charged " + utils.FormatJPY(out.Amount),
		"paymentIntentId": out.IntentID,
	})
}

// BulkCharge processes a list of invoice ids sequentially and returns the
// per-item results plus an aggregate summary. Item failures are reported in
// the result list, never as an HTTP error.
func (ct *ChargeController) BulkCharge(c *fiber.Ctx) error {
	var req bulkChargeRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invoiceIds is required"})
	}

	report := ct.billing.BulkCharge(c.UserContext(), req.InvoiceIDs)
	return c.JSON(report)
}

func chargeErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvoiceNotFound), errors.Is(err, services.ErrClientNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrMissingPaymentMethod):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No payment method registered"})
	case errors.Is(err, services.ErrNotChargeable):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	// Gateway failures (declines included) surface as 500 on this endpoint;
	// the bulk endpoint reports them per item instead.
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": gateway.UserMessage(err)})
}
