package controllers

import (
	"errors"
	"time"

	"billing-backend/database"
	"billing-backend/middlewares"
	"billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type invoiceItemDTO struct {
	Description string         `json:"description" validate:"required"`
	FeeType     models.FeeType `json:"fee_type" validate:"omitempty,oneof=initial interim final"`
	Quantity    int            `json:"quantity" validate:"min=1"`
	UnitPrice   int64          `json:"unit_price" validate:"min=0"`
}

type createInvoiceDTO struct {
	ClientID           string           `json:"client_id" validate:"required"`
	InvoiceNumber      string           `json:"invoice_number" validate:"required"`
	Status             string           `json:"status" validate:"omitempty,oneof=draft sent"`
	BillingPeriodStart *time.Time       `json:"billing_period_start"`
	BillingPeriodEnd   *time.Time       `json:"billing_period_end"`
	Items              []invoiceItemDTO `json:"items" validate:"required,min=1,dive"`
}

// CreateInvoice creates an invoice in draft or sent state. Line amounts and
// the invoice total are computed server-side.
func CreateInvoice(c *fiber.Ctx) error {
	var dto createInvoiceDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	if (dto.BillingPeriodStart == nil) != (dto.BillingPeriodEnd == nil) {
		return fiber.NewError(fiber.StatusBadRequest, "billing period must have both start and end")
	}
	if dto.BillingPeriodStart != nil && dto.BillingPeriodEnd.Before(*dto.BillingPeriodStart) {
		return fiber.NewError(fiber.StatusBadRequest, "billing period end before start")
	}

	var client models.Client
	if err := database.DB.First(&client, "id = ?", dto.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return err
	}

	status := models.StatusDraft
	if dto.Status != "" {
		status = models.InvoiceStatus(dto.Status)
	}

	var items []models.InvoiceItem
	var total int64
	for _, it := range dto.Items {
		amount := it.UnitPrice * int64(it.Quantity)
		total += amount
		items = append(items, models.InvoiceItem{
			Description: it.Description,
			FeeType:     it.FeeType,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      amount,
		})
	}

	invoice := models.Invoice{
		ClientID:           dto.ClientID,
		InvoiceNumber:      dto.InvoiceNumber,
		Items:              items,
		TotalAmount:        total,
		Status:             status,
		BillingPeriodStart: dto.BillingPeriodStart,
		BillingPeriodEnd:   dto.BillingPeriodEnd,
	}

	tx := database.DB.Begin()
	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create invoice",
			"error":   err.Error(),
		})
	}
	tx.Commit()

	return c.JSON(invoice)
}

func GetInvoices(c *fiber.Ctx) error {
	var invoices []models.Invoice
	q := database.DB.Preload("Items")
	if status := c.Query("status"); status != "" {
		if !models.InvoiceStatus(status).Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown status")
		}
		q = q.Where("status = ?", status)
	}
	if clientID := c.Query("client_id"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if err := q.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invoices": invoices,
		"message":  "success",
	})
}

func GetInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	err := database.DB.Preload("Items").First(&invoice, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return err
	}
	return c.JSON(invoice)
}
