package routes

import (
	"github.com/gofiber/fiber/v2"

	"billing-backend/controllers"
	"billing-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, charge *controllers.ChargeController) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard for mutating requests (runs after auth so userID is present)
	protected.Use(middlewares.Idempotency())

	// Clients (payment profiles)
	protected.Post("/clients", controllers.CreateClient)
	protected.Get("/clients", controllers.GetClients)
	protected.Get("/clients/:id", controllers.GetClient)
	protected.Put("/clients/:id", controllers.UpdateClient)

	// Invoices
	protected.Post("/invoices", controllers.CreateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoices/:id", controllers.GetInvoice)

	// Charging
	protected.Post("/invoices/auto-charge", charge.AutoCharge)
	protected.Post("/invoices/bulk-charge", charge.BulkCharge)
}
