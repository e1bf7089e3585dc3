package model

import (
	"time"

	"github.com/google/uuid"
)

// SuperAdminRoleName is the distinguished default role. A user whose role is the
// default Super Admin role passes every permission check.
const SuperAdminRoleName = "Super Admin"

// Role represents a named set of permissions assignable to a user (one role per user)
type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
	Ranking     *RoleRank    `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"ranking,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RoleRank holds the ordering/default metadata for a role. It lives in a side
// table so role identity (used by the permission join) stays decoupled from
// administrative metadata. Created together with its role, cascades on delete.
type RoleRank struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RoleID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"role_id"`
	Rank      int       `gorm:"not null" json:"rank"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Permission is a statically enumerated permission code with a human label.
// The catalog is seeded at startup; permissions are not user-creatable.
type Permission struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"` // e.g. "account_management_list_admins"
	Name  string    `gorm:"type:varchar(255);not null" json:"name"`
	Group string    `gorm:"type:varchar(50);not null;index" json:"group"` // "accounts", "member", "jurisdiction"...
}
