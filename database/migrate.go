package database

import (
	"fmt"

	"billing-backend/models"

	"gorm.io/gorm"
)

// AutoMigrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Helpful composite indexes
// - Basic CHECK constraints on amounts and invoice status
// - Idempotency keys table + unique index
func AutoMigrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Client{},
			&models.Invoice{},
			&models.InvoiceItem{},
			&models.GatewayEvent{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_invoices_client_status ON invoices (client_id, status)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_gateway_events_invoice_created ON gateway_events (invoice_id, created_at)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Non-negative invoice amounts
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_amounts_nonneg'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_amounts_nonneg
					CHECK (total_amount >= 0 AND paid_amount >= 0);
				END IF;
			END $$;`,
			// Known invoice statuses only
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_status'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_status
					CHECK (status IN ('draft','sent','paid','overdue','cancelled'));
				END IF;
			END $$;`,
			// Line item quantity/amount >= 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_items'::regclass
					  AND conname  = 'chk_invoice_items_nonneg'
				) THEN
					ALTER TABLE invoice_items
					ADD CONSTRAINT chk_invoice_items_nonneg
					CHECK (quantity >= 0 AND amount >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
