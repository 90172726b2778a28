package repository

import (
	"context"
	"fmt"

	"collabia/internal/models"
	"collabia/internal/observability"

	"gorm.io/gorm"
)

// InterestCommentRepository defines interface for interest comment operations
type InterestCommentRepository interface {
	Get(ctx context.Context, postID, userID uint, content string) (*models.InterestComment, error)
	Create(ctx context.Context, comment *models.InterestComment) error
}

type interestCommentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewInterestCommentRepository creates a new InterestCommentRepository
func NewInterestCommentRepository(db *gorm.DB) InterestCommentRepository {
	return &interestCommentRepository{db: db, log: observability.NewRepoLogger("interest_comments")}
}

func (r *interestCommentRepository) Get(ctx context.Context, postID, userID uint, content string) (*models.InterestComment, error) {
	key := fmt.Sprintf("(post %d, user %d)", postID, userID)
	return first[models.InterestComment](ctx, r.db, "InterestComment", key, func(db *gorm.DB) *gorm.DB {
		return db.Where("post_id = ? AND user_id = ? AND content = ?", postID, userID, content)
	})
}

func (r *interestCommentRepository) Create(ctx context.Context, comment *models.InterestComment) error {
	if err := r.db.WithContext(ctx).Omit("Post", "User").Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": comment.ID, "post_id": comment.PostID})
	return nil
}
