package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post is a general project/collaboration post. It may optionally be linked
// to one of the author's structured interests.
type Post struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	AuthorID         uint                        `gorm:"not null;index:idx_posts_author_title" json:"author_id"`
	Author           User                        `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Title            string                      `gorm:"not null;index:idx_posts_author_title" json:"title"`
	Description      string                      `gorm:"type:text;not null" json:"description"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	InterestType     *InterestType               `gorm:"type:varchar(10)" json:"interest_type,omitempty"`
	InterestValue    *string                     `json:"interest_value,omitempty"`
	ProgressSnapshot *float64                    `json:"progress_snapshot,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// InterestPost is an update a user shares about one of their interests.
type InterestPost struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	UserID           uint         `gorm:"not null;index" json:"user_id"`
	User             User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Type             InterestType `gorm:"type:varchar(10);not null" json:"type"`
	InterestValue    string       `gorm:"not null" json:"interest_value"`
	Content          string       `gorm:"type:text;not null" json:"content"`
	ProgressSnapshot *float64     `json:"progress_snapshot,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// InterestLike records that a user liked an InterestPost.
// The combination of PostID and UserID must be unique.
type InterestLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_interest_like_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_interest_like_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Post InterestPost `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	User User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// InterestComment is a comment on an InterestPost.
type InterestComment struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	PostID    uint         `gorm:"not null;index" json:"post_id"`
	UserID    uint         `gorm:"not null;index" json:"user_id"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	Post      InterestPost `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	User      User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
