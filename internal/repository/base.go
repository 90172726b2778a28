// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"collabia/internal/models"

	"gorm.io/gorm"
)

// first runs query and returns the first row in primary-key order. A miss is
// reported as a models not-found error so callers can tell it apart from a
// store fault.
func first[T any](ctx context.Context, db *gorm.DB, resource string, key interface{}, query func(*gorm.DB) *gorm.DB) (*T, error) {
	var row T
	if err := query(db.WithContext(ctx)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(resource, key)
		}
		return nil, models.NewInternalError(err)
	}
	return &row, nil
}

// Store bundles the repositories the seeder writes through.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Interests     InterestRepository
	Posts         PostRepository
	InterestPosts InterestPostRepository
	Comments      InterestCommentRepository
}

// NewStore builds a Store whose repositories share db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Interests:     NewInterestRepository(db),
		Posts:         NewPostRepository(db),
		InterestPosts: NewInterestPostRepository(db),
		Comments:      NewInterestCommentRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
