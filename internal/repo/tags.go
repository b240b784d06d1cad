package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

// CreateTag inserts t. A name, color or slug collision yields ErrDuplicate.
func CreateTag(ctx context.Context, db *gorm.DB, t *domain.Tag) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListTags returns every tag ordered by name. Tags are reference data and
// are never paginated.
func ListTags(ctx context.Context, db *gorm.DB) ([]domain.Tag, error) {
	out := []domain.Tag{}
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// GetTag fetches a tag by ID, or ErrNotFound.
func GetTag(ctx context.Context, db *gorm.DB, id string) (*domain.Tag, error) {
	var t domain.Tag
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ExistingTagIDs returns the subset of ids present in the tags table.
func ExistingTagIDs(ctx context.Context, db *gorm.DB, ids []string) ([]string, error) {
	return existingIDs(ctx, db, &domain.Tag{}, ids)
}

// existingIDs selects the ids of model that appear in ids.
func existingIDs(ctx context.Context, db *gorm.DB, model any, ids []string) ([]string, error) {
	out := []string{}
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Model(model).
		Where("id IN ?", ids).
		Pluck("id", &out).Error
	return out, err
}
