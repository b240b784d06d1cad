// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return ErrNotFound.
//   - A unique email/username collision is reported as ErrDuplicate.
//   - Any other DB error is propagated unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

// CreateUser inserts u, assigning a UUID and UTC timestamps when unset.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetUser fetches a user by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// CountUsers returns the total number of users.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}

// ListUsersPage returns a page of users ordered by username.
func ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Order("username asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountSubscriptions returns how many authors userID follows.
func CountSubscriptions(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListSubscribedAuthorsPage returns the authors userID follows, most recently
// followed first.
func ListSubscribedAuthorsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at desc").
		Order("users.username asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
