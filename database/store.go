package database

import (
	"context"
	"errors"
	"fmt"

	"billing-backend/models"
	"billing-backend/services"

	"gorm.io/gorm"
)

// BillingStore implements services.Store on top of GORM/Postgres.
type BillingStore struct {
	db *gorm.DB
}

func NewBillingStore(db *gorm.DB) *BillingStore {
	return &BillingStore{db: db}
}

func (s *BillingStore) InvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).Preload("Items").First(&inv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoice lookup failed: %w", err)
	}
	return &inv, nil
}

func (s *BillingStore) ClientByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := s.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrClientNotFound
		}
		return nil, fmt.Errorf("client lookup failed: %w", err)
	}
	return &client, nil
}

func (s *BillingStore) SaveChargeRef(ctx context.Context, invoiceID, intentID string) error {
	return s.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", invoiceID).
		Update("gateway_charge_id", intentID).Error
}

// ApplyReconciliation writes the invoice update, the client update (if any)
// and the gateway event row in one transaction, so a partially reconciled
// invoice is never observable.
func (s *BillingStore) ApplyReconciliation(ctx context.Context, rec *services.Reconciliation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Invoice{}).
			Where("id = ?", rec.InvoiceID).
			Updates(rec.InvoiceUpdates).Error; err != nil {
			return fmt.Errorf("invoice update failed: %w", err)
		}
		if len(rec.ClientUpdates) > 0 {
			if err := tx.Model(&models.Client{}).
				Where("id = ?", rec.ClientID).
				Updates(rec.ClientUpdates).Error; err != nil {
				return fmt.Errorf("client update failed: %w", err)
			}
		}
		event := rec.Event
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("gateway event insert failed: %w", err)
		}
		return nil
	})
}
