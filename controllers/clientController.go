package controllers

import (
	"errors"

	"billing-backend/database"
	"billing-backend/middlewares"
	"billing-backend/models"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type createClientDTO struct {
	CompanyName string `json:"company_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	ContactName string `json:"contact_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`

	GatewayCustomerID      string `json:"gateway_customer_id"`
	GatewayPaymentMethodID string `json:"gateway_payment_method_id"`

	InitialPayment      int64 `json:"initial_payment" validate:"min=0"`
	IntermediatePayment int64 `json:"intermediate_payment" validate:"min=0"`
	FinalPayment        int64 `json:"final_payment" validate:"min=0"`
}

// updateClientDTO carries only the fields this service may change after
// onboarding. Pointer fields: nil means "leave untouched".
type updateClientDTO struct {
	ContactName            *string `json:"contact_name"`
	PhoneNumber            *string `json:"phone_number"`
	Address                *string `json:"address"`
	GatewayCustomerID      *string `json:"gateway_customer_id"`
	GatewayPaymentMethodID *string `json:"gateway_payment_method_id"`
}

func CreateClient(c *fiber.Ctx) error {
	var dto createClientDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	client := models.Client{
		CompanyName:            dto.CompanyName,
		Email:                  dto.Email,
		ContactName:            dto.ContactName,
		PhoneNumber:            dto.PhoneNumber,
		Address:                dto.Address,
		GatewayCustomerID:      dto.GatewayCustomerID,
		GatewayPaymentMethodID: dto.GatewayPaymentMethodID,
		FeeBreakdown: models.FeeBreakdown{
			InitialPayment:      dto.InitialPayment,
			IntermediatePayment: dto.IntermediatePayment,
			FinalPayment:        dto.FinalPayment,
		},
		Active: true,
	}

	tx := database.DB.Begin()
	if err := tx.Create(&client).Error; err != nil {
		tx.Rollback()
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create client",
			"error":   err.Error(),
		})
	}
	tx.Commit()

	return c.JSON(client)
}

func GetClients(c *fiber.Ctx) error {
	var clients []models.Client
	if err := database.DB.Order("created_at DESC").Find(&clients).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"clients": clients,
		"message": "success",
	})
}

func GetClient(c *fiber.Ctx) error {
	var client models.Client
	err := database.DB.First(&client, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return err
	}
	return c.JSON(client)
}

// UpdateClient applies a partial update. Fee flags and paid-period markers
// are reconciliation-owned and deliberately not patchable here.
func UpdateClient(c *fiber.Ctx) error {
	var dto updateClientDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&dto)

	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no updatable fields in request")
	}

	tx := database.DB.Begin()
	res := tx.Model(&models.Client{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		tx.Rollback()
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not update client",
			"error":   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	tx.Commit()

	var client models.Client
	database.DB.First(&client, "id = ?", c.Params("id"))
	return c.JSON(client)
}
