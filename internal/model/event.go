package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Church position choices for event registration
const (
	PositionElder      = "elder"
	PositionPastor     = "pastor"
	PositionDeacon     = "deacon"
	PositionMember     = "member"
	PositionDeaconess  = "deaconess"
	PositionProphet    = "prophet"
	PositionProphetess = "prophetess"
	PositionApostle    = "apostle"
	PositionReverend   = "reverend"
	PositionOther      = "other"
	PositionNone       = "none"
)

// Event is a church event attendees register and pay for.
type Event struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Location      string         `gorm:"type:varchar(255);not null" json:"location"`
	StartDatetime time.Time      `gorm:"not null;index" json:"start_datetime"`
	EndDatetime   time.Time      `gorm:"not null" json:"end_datetime"`
	CoverImageURL string         `gorm:"type:text" json:"cover_image_url"`
	Amounts       []EventAmount  `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"amounts,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// EventAmount is the registration fee for an event in one currency.
type EventAmount struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency  string          `gorm:"type:varchar(30);not null" json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventRegistration records one attendee's paid registration for an event.
// IsPaid flips when the funding payment transaction is verified.
type EventRegistration struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	Event          *Event          `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event,omitempty"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User           `gorm:"foreignKey:UserID" json:"-"`
	FullName       string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Email          string          `gorm:"type:varchar(255);not null" json:"email"`
	PhoneNumber    string          `gorm:"type:varchar(14);not null" json:"phone_number"`
	Gender         string          `gorm:"type:varchar(1);not null" json:"gender"`
	IsChurchMember bool            `gorm:"default:true" json:"is_church_member"`
	ChurchPosition string          `gorm:"type:varchar(100)" json:"church_position"`
	Nation         string          `gorm:"type:varchar(100)" json:"nation"`
	Region         string          `gorm:"type:varchar(100)" json:"region"`
	CityTown       string          `gorm:"type:varchar(100)" json:"city_town"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency       string          `gorm:"type:varchar(30);not null" json:"currency"`
	IsPaid         bool            `gorm:"default:false" json:"is_paid"`
	BranchID       *uuid.UUID      `gorm:"type:uuid;index" json:"branch_id"`
	Branch         *Branch         `gorm:"foreignKey:BranchID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
