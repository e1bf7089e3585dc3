package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Donation is a cause members can give toward, directly or through a pledge.
type Donation struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	CoverImageURL string         `gorm:"type:text" json:"cover_image_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Pledge is a user's promise to donate a fixed amount by a redeem date.
// A user may hold at most one unredeemed pledge per donation. Redemption happens
// exactly once, when the funding payment transaction finalizes successfully.
type Pledge struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DonationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"donation_id"`
	Donation   *Donation       `gorm:"foreignKey:DonationID;constraint:OnDelete:CASCADE" json:"donation,omitempty"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency   string          `gorm:"type:varchar(30);not null" json:"currency"`
	RedeemDate time.Time       `gorm:"type:date;not null" json:"redeem_date"`
	IsRedeemed bool            `gorm:"default:false;index" json:"is_redeemed"`
	RedeemedAt *time.Time      `json:"redeemed_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DonationPayment links a PaymentTransaction to the donation it funded,
// optionally via a pledge. Created in the same transaction as the
// PaymentTransaction at initiation time; never deleted.
type DonationPayment struct {
	ID                   uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PaymentTransactionID uuid.UUID           `gorm:"type:uuid;uniqueIndex;not null" json:"payment_transaction_id"`
	PaymentTransaction   *PaymentTransaction `gorm:"foreignKey:PaymentTransactionID" json:"-"`
	UserID               uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	DonationID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"donation_id"`
	Donation             *Donation           `gorm:"foreignKey:DonationID" json:"donation,omitempty"`
	IsPledge             bool                `gorm:"default:false" json:"is_pledge"`
	PledgeID             *uuid.UUID          `gorm:"type:uuid;index" json:"pledge_id"`
	Pledge               *Pledge             `gorm:"foreignKey:PledgeID;constraint:OnDelete:SET NULL" json:"-"`
	DonatedAt            time.Time           `gorm:"not null" json:"donated_at"`
	CreatedAt            time.Time           `json:"created_at"`
}
