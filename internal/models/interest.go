package models

import "time"

// InterestType identifies which structured interest a post refers to.
type InterestType string

const (
	// InterestTypeBook refers to a user's current book.
	InterestTypeBook InterestType = "book"
	// InterestTypeSkill refers to a skill the user is learning.
	InterestTypeSkill InterestType = "skill"
	// InterestTypeGame refers to a game the user is playing.
	InterestTypeGame InterestType = "game"
)

// Valid reports whether t is a known interest type.
func (t InterestType) Valid() bool {
	switch t {
	case InterestTypeBook, InterestTypeSkill, InterestTypeGame:
		return true
	}
	return false
}

// BookStatus is the reading progress state of a CurrentBook.
type BookStatus string

const (
	BookStatusReading   BookStatus = "reading"
	BookStatusCompleted BookStatus = "completed"
	BookStatusPaused    BookStatus = "paused"
)

// Valid reports whether s is a known book status.
func (s BookStatus) Valid() bool {
	switch s {
	case BookStatusReading, BookStatusCompleted, BookStatusPaused:
		return true
	}
	return false
}

// SkillLevel is the self-assessed proficiency of a CurrentSkill.
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
)

// Valid reports whether l is a known skill level.
func (l SkillLevel) Valid() bool {
	switch l {
	case SkillLevelBeginner, SkillLevelIntermediate, SkillLevelAdvanced:
		return true
	}
	return false
}

// GameFrequency is how often a user plays their CurrentGame.
type GameFrequency string

const (
	GameFrequencyDaily        GameFrequency = "daily"
	GameFrequencyWeekly       GameFrequency = "weekly"
	GameFrequencyOccasionally GameFrequency = "occasionally"
)

// Valid reports whether f is a known play frequency.
func (f GameFrequency) Valid() bool {
	switch f {
	case GameFrequencyDaily, GameFrequencyWeekly, GameFrequencyOccasionally:
		return true
	}
	return false
}

// CurrentBook is the book a user is reading. At most one per user.
type CurrentBook struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title      string     `gorm:"not null" json:"title"`
	TotalPages int        `gorm:"not null;default:0" json:"total_pages"`
	PagesRead  int        `gorm:"not null;default:0" json:"pages_read"`
	Status     BookStatus `gorm:"type:varchar(20);not null;default:'reading'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Progress returns the percentage of the book read, in [0, 100].
func (b *CurrentBook) Progress() float64 {
	if b.TotalPages <= 0 {
		return 0
	}
	p := float64(b.PagesRead) / float64(b.TotalPages) * 100
	if p > 100 {
		return 100
	}
	return p
}

// CurrentSkill is the skill a user is working on. At most one per user.
type CurrentSkill struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string     `gorm:"not null" json:"name"`
	Level     SkillLevel `gorm:"type:varchar(20);not null;default:'beginner'" json:"level"`
	Notes     *string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CurrentGame is the game a user is playing. At most one per user.
type CurrentGame struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Rank      *string        `json:"rank,omitempty"`
	Frequency *GameFrequency `gorm:"type:varchar(20)" json:"frequency,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
