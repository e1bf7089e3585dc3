package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateRole       = "CREATE_ROLE"
	ActionUpdateRole       = "UPDATE_ROLE"
	ActionDeleteRole       = "DELETE_ROLE"
	ActionCreateAdmin      = "CREATE_ADMIN"
	ActionUpdateAdmin      = "UPDATE_ADMIN"
	ActionDeleteAdmin      = "DELETE_ADMIN"
	ActionInitiatePayment  = "INITIATE_PAYMENT"
	ActionFinalizePayment  = "FINALIZE_PAYMENT"
	ActionCreatePledge     = "CREATE_PLEDGE"
	ActionRedeemPledge     = "REDEEM_PLEDGE"
	ActionRegisterForEvent = "REGISTER_FOR_EVENT"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for unauthenticated gateway callbacks
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // reference string (uuid/gateway reference)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
