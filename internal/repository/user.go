package repository

import (
	"context"

	"collabia/internal/models"
	"collabia/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateDiscovery(ctx context.Context, id uint, fields models.DiscoveryFields) error
	ListExcluding(ctx context.Context, excludeID uint, limit int) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](ctx, r.db, "User", email, func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ?", email)
	})
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": user.ID, "email": user.Email})
	return nil
}

// UpdateDiscovery overwrites only the discovery columns of user id.
func (r *userRepository) UpdateDiscovery(ctx context.Context, id uint, fields models.DiscoveryFields) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields.Columns())
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "update")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"id": id})
	return nil
}

// ListExcluding returns up to limit users other than excludeID in ascending id order.
func (r *userRepository) ListExcluding(ctx context.Context, excludeID uint, limit int) ([]models.User, error) {
	var users []models.User
	if limit <= 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
