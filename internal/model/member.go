package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member communication / marital / education choices
const (
	CommunicationEmail = "email"
	CommunicationSMS   = "sms"

	MaritalSingle   = "single"
	MaritalMarried  = "married"
	MaritalDivorced = "divorced"
	MaritalWidowed  = "widowed"

	EducationNone      = "none"
	EducationPrimary   = "primary"
	EducationSecondary = "secondary"
	EducationTertiary  = "tertiary"
)

// Member is a church member record, independent of any login account.
type Member struct {
	ID                          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName                   string         `gorm:"type:varchar(50)" json:"first_name"`
	LastName                    string         `gorm:"type:varchar(50)" json:"last_name"`
	OtherName                   string         `gorm:"type:varchar(50)" json:"other_name"`
	Gender                      string         `gorm:"type:varchar(1);not null" json:"gender"`
	Email                       string         `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PhoneNumber                 string         `gorm:"type:varchar(40);uniqueIndex;not null" json:"phone_number"`
	Address                     string         `gorm:"type:text" json:"address"`
	EmergencyContactName        string         `gorm:"type:varchar(100)" json:"emergency_contact_name"`
	EmergencyContactPhoneNumber string         `gorm:"type:varchar(20)" json:"emergency_contact_phone_number"`
	DateOfBirth                 *time.Time     `gorm:"type:date" json:"date_of_birth"`
	Hometown                    string         `gorm:"type:varchar(100)" json:"hometown"`
	Region                      string         `gorm:"type:varchar(100)" json:"region"`
	Country                     string         `gorm:"type:varchar(100)" json:"country"`
	MaritalStatus               string         `gorm:"type:varchar(20)" json:"marital_status"`
	BranchID                    *uuid.UUID     `gorm:"type:uuid;index" json:"branch_id"`
	Branch                      *Branch        `gorm:"foreignKey:BranchID;constraint:OnDelete:SET NULL" json:"branch,omitempty"`
	IsBaptised                  bool           `gorm:"default:false" json:"is_baptised"`
	DateJoined                  *time.Time     `gorm:"type:date" json:"date_joined"`
	CommunicationPreference     string         `gorm:"type:varchar(5);default:'sms'" json:"communication_preference"`
	Occupation                  string         `gorm:"type:varchar(100)" json:"occupation"`
	EducationalLevel            string         `gorm:"type:varchar(20)" json:"educational_level"`
	MemberTitleID               *uuid.UUID     `gorm:"type:uuid" json:"member_title_id"`
	MemberTypeID                *uuid.UUID     `gorm:"type:uuid" json:"member_type_id"`
	MemberPositionID            *uuid.UUID     `gorm:"type:uuid" json:"member_position_id"`
	CreatedAt                   time.Time      `json:"created_at"`
	UpdatedAt                   time.Time      `json:"updated_at"`
	DeletedAt                   gorm.DeletedAt `gorm:"index" json:"-"`
}
