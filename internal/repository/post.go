package repository

import (
	"context"
	"fmt"
	"strings"

	"collabia/internal/models"
	"collabia/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for general posts.
type PostRepository interface {
	GetByAuthorAndTitle(ctx context.Context, authorID uint, title string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) GetByAuthorAndTitle(ctx context.Context, authorID uint, title string) (*models.Post, error) {
	key := fmt.Sprintf("(%d, %q)", authorID, title)
	return first[models.Post](ctx, r.db, "Post", key, func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id = ? AND title = ?", authorID, title)
	})
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": post.ID, "author_id": post.AuthorID})
	return nil
}

// InterestPostRepository defines persistence operations for interest posts and their likes.
type InterestPostRepository interface {
	GetByUserAndContent(ctx context.Context, userID uint, content string) (*models.InterestPost, error)
	FindFirstContaining(ctx context.Context, snippet string) (*models.InterestPost, error)
	Create(ctx context.Context, post *models.InterestPost) error
	CreateLike(ctx context.Context, like *models.InterestLike) error
}

type interestPostRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewInterestPostRepository creates a new InterestPostRepository
func NewInterestPostRepository(db *gorm.DB) InterestPostRepository {
	return &interestPostRepository{db: db, log: observability.NewRepoLogger("interest_posts")}
}

func (r *interestPostRepository) GetByUserAndContent(ctx context.Context, userID uint, content string) (*models.InterestPost, error) {
	return first[models.InterestPost](ctx, r.db, "InterestPost", userID, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND content = ?", userID, content)
	})
}

// FindFirstContaining returns the lowest-id interest post whose content
// contains snippet. Several posts may match; only the first is returned.
func (r *interestPostRepository) FindFirstContaining(ctx context.Context, snippet string) (*models.InterestPost, error) {
	pattern := "%" + escapeLike(snippet) + "%"
	return first[models.InterestPost](ctx, r.db, "InterestPost", snippet, func(db *gorm.DB) *gorm.DB {
		return db.Where(`content LIKE ? ESCAPE '\'`, pattern)
	})
}

func (r *interestPostRepository) Create(ctx context.Context, post *models.InterestPost) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": post.ID, "user_id": post.UserID})
	return nil
}

func (r *interestPostRepository) CreateLike(ctx context.Context, like *models.InterestLike) error {
	if err := r.db.WithContext(ctx).Omit("Post", "User").Create(like).Error; err != nil {
		r.log.LogError(ctx, err, "create like")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{"post_id": like.PostID, "user_id": like.UserID})
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
