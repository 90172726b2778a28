package repository

import (
	"context"

	"collabia/internal/models"
	"collabia/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InterestRepository persists the per-user structured interests.
type InterestRepository interface {
	GetBookByUser(ctx context.Context, userID uint) (*models.CurrentBook, error)
	CreateBook(ctx context.Context, book *models.CurrentBook) error
	GetSkillByUser(ctx context.Context, userID uint) (*models.CurrentSkill, error)
	CreateSkill(ctx context.Context, skill *models.CurrentSkill) error
	GetGameByUser(ctx context.Context, userID uint) (*models.CurrentGame, error)
	CreateGame(ctx context.Context, game *models.CurrentGame) error
}

type interestRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewInterestRepository returns a new InterestRepository implementation.
func NewInterestRepository(db *gorm.DB) InterestRepository {
	return &interestRepository{db: db, log: observability.NewRepoLogger("current_interests")}
}

func byUser(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func (r *interestRepository) GetBookByUser(ctx context.Context, userID uint) (*models.CurrentBook, error) {
	return first[models.CurrentBook](ctx, r.db, "CurrentBook", userID, byUser(userID))
}

func (r *interestRepository) CreateBook(ctx context.Context, book *models.CurrentBook) error {
	return r.create(ctx, "current_books", book, book.UserID)
}

func (r *interestRepository) GetSkillByUser(ctx context.Context, userID uint) (*models.CurrentSkill, error) {
	return first[models.CurrentSkill](ctx, r.db, "CurrentSkill", userID, byUser(userID))
}

func (r *interestRepository) CreateSkill(ctx context.Context, skill *models.CurrentSkill) error {
	return r.create(ctx, "current_skills", skill, skill.UserID)
}

func (r *interestRepository) GetGameByUser(ctx context.Context, userID uint) (*models.CurrentGame, error) {
	return first[models.CurrentGame](ctx, r.db, "CurrentGame", userID, byUser(userID))
}

func (r *interestRepository) CreateGame(ctx context.Context, game *models.CurrentGame) error {
	return r.create(ctx, "current_games", game, game.UserID)
}

func (r *interestRepository) create(ctx context.Context, table string, row interface{}, userID uint) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		r.log.LogError(ctx, err, "create "+table)
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{"kind": table, "user_id": userID})
	return nil
}
