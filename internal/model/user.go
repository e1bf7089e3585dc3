package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender choices shared by User, Member and EventRegistration
const (
	GenderMale   = "m"
	GenderFemale = "f"
)

// User is an admin-managed account. A user holds at most one role; reassignment
// fully replaces the previous role. Direct permissions are granted independently
// of the role.
type User struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username          string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	FirstName         string         `gorm:"type:varchar(30)" json:"first_name"`
	LastName          string         `gorm:"type:varchar(30)" json:"last_name"`
	Gender            string         `gorm:"type:varchar(1)" json:"gender"`
	Email             string         `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PhoneNumber       string         `gorm:"type:varchar(40);uniqueIndex;not null" json:"phone_number"`
	Password          string         `gorm:"type:varchar(255);not null" json:"-"`
	RoleID            *uuid.UUID     `gorm:"type:uuid;index" json:"role_id"`
	Role              *Role          `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL" json:"role,omitempty"`
	Permissions       []Permission   `gorm:"many2many:user_permissions;" json:"permissions"` // direct grants, independent of role
	MemberID          *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"member_id"`
	Member            *Member        `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	BranchID          *uuid.UUID     `gorm:"type:uuid;index" json:"branch_id"`
	Branch            *Branch        `gorm:"foreignKey:BranchID;constraint:OnDelete:SET NULL" json:"branch,omitempty"`
	VerificationCode  *int           `json:"-"`
	IsVerified        bool           `gorm:"default:false" json:"is_verified"`
	DateVerified      *time.Time     `json:"date_verified"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName joins first and last name for display and payment records.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsSuperAdmin reports whether the user's role is the default Super Admin role.
// Requires Role and Role.Ranking to be preloaded.
func (u *User) IsSuperAdmin() bool {
	return u.Role != nil &&
		u.Role.Name == SuperAdminRoleName &&
		u.Role.Ranking != nil &&
		u.Role.Ranking.IsDefault
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
