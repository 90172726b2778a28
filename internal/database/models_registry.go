package database

import "collabia/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.CurrentBook{},
		&models.CurrentSkill{},
		&models.CurrentGame{},
		&models.Post{},
		&models.InterestPost{},
		&models.InterestLike{},
		&models.InterestComment{},
	}
}

// SeededTables lists the tables written by the seeder, children first.
var SeededTables = []string{
	"interest_comments",
	"interest_likes",
	"interest_posts",
	"posts",
	"current_games",
	"current_skills",
	"current_books",
	"users",
}
