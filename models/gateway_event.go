package models

import (
	"time"

	"gorm.io/datatypes"
)

// GatewayEvent is an audit row recorded for every gateway charge outcome we
// act on. Payload keeps the raw intent JSON as returned by the gateway.
type GatewayEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	InvoiceID string         `json:"invoice_id" gorm:"index"`
	ClientID  string         `json:"client_id" gorm:"index"`
	IntentID  string         `json:"intent_id" gorm:"index"`
	Status    string         `json:"status" gorm:"type:varchar(32)"`
	Amount    int64          `json:"amount"`
	Payload   datatypes.JSON `json:"-" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
}
