package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post types
const (
	PostTypeFeed   = "feed"
	PostTypeSlider = "slider"
)

// Interaction types
const (
	InteractionLike     = "like"
	InteractionComment  = "comment"
	InteractionFavorite = "favorite"
)

// Post is a feed entry. Counters are denormalized and maintained in the same
// transaction as the interaction rows.
type Post struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostType  string         `gorm:"type:varchar(20);not null;index" json:"post_type"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Author    *User          `gorm:"foreignKey:AuthorID" json:"-"`
	Comments  int            `gorm:"default:0" json:"comments"`
	Likes     int            `gorm:"default:0" json:"likes"`
	Shares    int            `gorm:"default:0" json:"shares"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInteraction records a like/favorite by a user on a post. At most one row
// per (user, post, type); likes and favorites toggle.
type UserInteraction struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_post_type" json:"user_id"`
	PostID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_post_type" json:"post_id"`
	Post            *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	InteractionType string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_post_type" json:"interaction_type"`
	CreatedAt       time.Time `json:"created_at"`
}
