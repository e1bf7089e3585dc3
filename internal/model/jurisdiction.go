package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Area is the top level of the jurisdiction hierarchy (area → district → branch).
type Area struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	AreaHeadID *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"area_head_id"`
	AreaHead   *Member        `gorm:"foreignKey:AreaHeadID;constraint:OnDelete:SET NULL" json:"area_head,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type District struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	DistrictHeadID *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"district_head_id"`
	DistrictHead   *Member        `gorm:"foreignKey:DistrictHeadID;constraint:OnDelete:SET NULL" json:"district_head,omitempty"`
	AreaID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"area_id"`
	Area           *Area          `gorm:"foreignKey:AreaID;constraint:OnDelete:CASCADE" json:"area,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

type Branch struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name               string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	BranchHeadID       *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"branch_head_id"`
	BranchHead         *Member        `gorm:"foreignKey:BranchHeadID;constraint:OnDelete:SET NULL" json:"branch_head,omitempty"`
	DistrictID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"district_id"`
	District           *District      `gorm:"foreignKey:DistrictID;constraint:OnDelete:CASCADE" json:"district,omitempty"`
	Address            string         `gorm:"type:text" json:"address"`
	ContactInformation string         `gorm:"type:text" json:"contact_information"`
	MapLatitude        *float64       `json:"map_latitude"`
	MapLongitude       *float64       `json:"map_longitude"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
