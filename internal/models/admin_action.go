package models

import (
	"encoding/json"
	"time"
)

// AdminAction is a single entry in the admin audit log
type AdminAction struct {
	ID         int64           `json:"id" db:"id"`
	AdminID    int64           `json:"adminId" db:"admin_id"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entityType" db:"entity_type"`
	EntityID   string          `json:"entityId" db:"entity_id"`
	Details    json.RawMessage `json:"details" db:"details"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`

	Admin *User `json:"admin,omitempty"`
}

const (
	ActionCreatedCoupon  = "CREATED_COUPON"
	ActionUpdatedCoupon  = "UPDATED_COUPON"
	ActionCreatedProduct = "CREATED_PRODUCT"
	ActionUpdatedProduct = "UPDATED_PRODUCT"
)
