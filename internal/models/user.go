// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// User represents a Collabia member profile.
type User struct {
	ID                uint                        `gorm:"primaryKey" json:"id"`
	Email             string                      `gorm:"uniqueIndex;not null" json:"email"`
	Name              string                      `gorm:"not null" json:"name"`
	Password          string                      `gorm:"not null" json:"-"`
	School            string                      `json:"school"`
	Location          string                      `json:"location"`
	Bio               string                      `gorm:"type:text" json:"bio"`
	Skills            datatypes.JSONSlice[string] `json:"skills"`
	Interests         datatypes.JSONSlice[string] `json:"interests"`
	OpenToCollaborate bool                        `gorm:"not null;default:false" json:"open_to_collaborate"`
	OpenToMentoring   bool                        `gorm:"not null;default:false" json:"open_to_mentoring"`
	OpenToStudyGroup  bool                        `gorm:"not null;default:false" json:"open_to_study_group"`
	SchoolVerified    bool                        `gorm:"not null;default:false" json:"school_verified"`

	// Discovery fields drive shared-interest matching. They are free text and
	// are refreshed on every seeding run.
	CurrentBook    string `json:"current_book"`
	CurrentGame    string `json:"current_game"`
	CurrentSkill   string `json:"current_skill"`
	WhatImBuilding string `gorm:"column:what_im_building" json:"what_im_building"`
	LookingFor     string `json:"looking_for"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiscoveryFields is the subset of User columns that seeding overwrites on
// every run.
type DiscoveryFields struct {
	CurrentBook    string
	CurrentGame    string
	CurrentSkill   string
	WhatImBuilding string
	LookingFor     string
}

// Discovery returns the user's current discovery fields.
func (u *User) Discovery() DiscoveryFields {
	return DiscoveryFields{
		CurrentBook:    u.CurrentBook,
		CurrentGame:    u.CurrentGame,
		CurrentSkill:   u.CurrentSkill,
		WhatImBuilding: u.WhatImBuilding,
		LookingFor:     u.LookingFor,
	}
}

// ApplyDiscovery copies d onto the user.
func (u *User) ApplyDiscovery(d DiscoveryFields) {
	u.CurrentBook = d.CurrentBook
	u.CurrentGame = d.CurrentGame
	u.CurrentSkill = d.CurrentSkill
	u.WhatImBuilding = d.WhatImBuilding
	u.LookingFor = d.LookingFor
}

// Columns maps the discovery fields to their column names for partial updates.
func (d DiscoveryFields) Columns() map[string]interface{} {
	return map[string]interface{}{
		"current_book":     d.CurrentBook,
		"current_game":     d.CurrentGame,
		"current_skill":    d.CurrentSkill,
		"what_im_building": d.WhatImBuilding,
		"looking_for":      d.LookingFor,
	}
}
