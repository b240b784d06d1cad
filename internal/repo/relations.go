// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the generic storage for the binary user
// relations (favorites, shopping cart, subscriptions). Each kind maps to one
// table whose composite primary key (user_id, <target>) makes the pair
// unique, so inserting is an atomic get-or-create guarded by the index.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

// ErrUnknownRelation is returned for a RelationKind without a table.
var ErrUnknownRelation = errors.New("unknown relation kind")

// ErrSelfRelation is returned when the store rejects a relation from a user
// to themselves (the subscriptions CHECK constraint).
var ErrSelfRelation = errors.New("self relation")

// relationSpec describes where a relation kind lives.
type relationSpec struct {
	model     any
	targetCol string
	build     func(userID, targetID string, at time.Time) any
}

var relationSpecs = map[domain.RelationKind]relationSpec{
	domain.RelationFavorite: {
		model:     &domain.Favorite{},
		targetCol: "recipe_id",
		build: func(u, t string, at time.Time) any {
			return &domain.Favorite{UserID: u, RecipeID: t, CreatedAt: at}
		},
	},
	domain.RelationShoppingCart: {
		model:     &domain.ShoppingCartEntry{},
		targetCol: "recipe_id",
		build: func(u, t string, at time.Time) any {
			return &domain.ShoppingCartEntry{UserID: u, RecipeID: t, CreatedAt: at}
		},
	},
	domain.RelationSubscription: {
		model:     &domain.Subscription{},
		targetCol: "author_id",
		build: func(u, t string, at time.Time) any {
			return &domain.Subscription{UserID: u, AuthorID: t, CreatedAt: at}
		},
	},
}

func specFor(kind domain.RelationKind) (relationSpec, error) {
	s, ok := relationSpecs[kind]
	if !ok {
		return relationSpec{}, fmt.Errorf("%w: %d", ErrUnknownRelation, kind)
	}
	return s, nil
}

// CreateRelation inserts the (userID, targetID) pair of kind. An existing
// pair yields ErrDuplicate; a self-subscription rejected by the CHECK
// constraint yields ErrSelfRelation.
func CreateRelation(ctx context.Context, db *gorm.DB, kind domain.RelationKind, userID, targetID string) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}
	row := spec.build(userID, targetID, time.Now().UTC())
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicate
		case isCheckViolation(err):
			return ErrSelfRelation
		}
		return err
	}
	return nil
}

// DeleteRelation removes the (userID, targetID) pair of kind, returning
// ErrNotFound when no such pair exists.
func DeleteRelation(ctx context.Context, db *gorm.DB, kind domain.RelationKind, userID, targetID string) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}
	res := db.WithContext(ctx).
		Where("user_id = ? AND "+spec.targetCol+" = ?", userID, targetID).
		Delete(spec.model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RelatedTargets reports which of targetIDs userID is related to by kind.
// Only related IDs are present in the returned set.
func RelatedTargets(ctx context.Context, db *gorm.DB, kind domain.RelationKind, userID string, targetIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(targetIDs))
	if userID == "" || len(targetIDs) == 0 {
		return out, nil
	}
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	var ids []string
	err = db.WithContext(ctx).
		Model(spec.model).
		Where("user_id = ? AND "+spec.targetCol+" IN ?", userID, targetIDs).
		Pluck(spec.targetCol, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
