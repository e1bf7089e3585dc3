package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentCategory tags what a payment transaction pays for. Only the two values
// below are valid; handlers reject anything else before the reconciler runs.
type PaymentCategory string

const (
	CategoryEvent    PaymentCategory = "event"
	CategoryDonation PaymentCategory = "donation"
)

// Valid reports whether the category is one of the known purchasable categories.
func (c PaymentCategory) Valid() bool {
	return c == CategoryEvent || c == CategoryDonation
}

// PaymentTransaction statuses. A transaction is created PENDING and moves to a
// verified state exactly once; a failed verification leaves it PENDING.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
)

// PaymentTransaction is one attempt to collect money. It is the source of truth
// for money movement and is never deleted. Amounts are stored in major currency
// units; conversion to/from the gateway's minor units happens only at the
// gateway boundary.
type PaymentTransaction struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName           string          `gorm:"type:varchar(255);not null" json:"full_name"`
	UserID             *uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	User               *User           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Category           PaymentCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	CategoryObjectID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_object_id"` // EventRegistration or Donation, by category
	PaymentMethod      string          `gorm:"type:varchar(50)" json:"payment_method"`
	Amount             decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency           string          `gorm:"type:varchar(5);not null" json:"currency"`
	Reference          string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"reference"` // assigned by the gateway at initiation
	Status             string          `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	ReceiptNumber      string          `gorm:"type:varchar(255)" json:"receipt_number"`
	GatewayResponse    string          `gorm:"type:varchar(255)" json:"gateway_response"`
	AuthorizationCode  string          `gorm:"type:varchar(255)" json:"authorization_code"`
	Fees               decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"fees"`
	BankName           string          `gorm:"type:varchar(255)" json:"bank_name"`
	CustomerEmail      string          `gorm:"type:varchar(255)" json:"customer_email"`
	CustomerPhone      string          `gorm:"type:varchar(20)" json:"customer_phone"`
	IsVerified         bool            `gorm:"default:false;index" json:"is_verified"`
	TransactionObject  string          `gorm:"type:jsonb" json:"-"` // raw gateway payload from verification
	PaymentStartedAt   time.Time       `gorm:"not null" json:"payment_started_at"`
	PaymentCompletedAt *time.Time      `json:"payment_completed_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
