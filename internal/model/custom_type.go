package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomType categories
const (
	CustomTypeMemberType     = "member_type"
	CustomTypeMemberPosition = "member_position"
	CustomTypeMemberTitle    = "member_title"
	CustomTypeMinistryGroup  = "ministry_group"
)

// CustomType is an admin-curated lookup value (member titles, positions, types,
// ministry groups) referenced by member records.
type CustomType struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"type:varchar(50);not null;index" json:"category"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidCustomTypeCategory reports whether the category is one of the known kinds.
func ValidCustomTypeCategory(category string) bool {
	switch category {
	case CustomTypeMemberType, CustomTypeMemberPosition, CustomTypeMemberTitle, CustomTypeMinistryGroup:
		return true
	}
	return false
}
