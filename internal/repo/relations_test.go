package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

func TestRelations_CreateDeleteCycle(t *testing.T) {
	db := newStoreDB(t)
	seedCatalog(t, db)
	seedRecipe(t, db, "r1", "u1", "Pancakes", time.Time{}, nil)
	ctx := context.Background()

	cases := []struct {
		kind   domain.RelationKind
		target string
	}{
		{domain.RelationFavorite, "r1"},
		{domain.RelationShoppingCart, "r1"},
		{domain.RelationSubscription, "u1"},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if err := CreateRelation(ctx, db, tc.kind, "u2", tc.target); err != nil {
				t.Fatalf("first add: %v", err)
			}
			if err := CreateRelation(ctx, db, tc.kind, "u2", tc.target); !errors.Is(err, ErrDuplicate) {
				t.Fatalf("second add: want ErrDuplicate, got %v", err)
			}
			set, err := RelatedTargets(ctx, db, tc.kind, "u2", []string{tc.target, "other"})
			if err != nil || !set[tc.target] || set["other"] {
				t.Fatalf("RelatedTargets = (%v, %v)", set, err)
			}
			if err := DeleteRelation(ctx, db, tc.kind, "u2", tc.target); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if err := DeleteRelation(ctx, db, tc.kind, "u2", tc.target); !errors.Is(err, ErrNotFound) {
				t.Fatalf("second remove: want ErrNotFound, got %v", err)
			}
			if err := CreateRelation(ctx, db, tc.kind, "u2", tc.target); err != nil {
				t.Fatalf("re-add after remove: %v", err)
			}
		})
	}
}

func TestCreateRelation_SelfSubscriptionRejectedByStore(t *testing.T) {
	db := newStoreDB(t)
	seedUser(t, db, "u1", "alice")
	err := CreateRelation(context.Background(), db, domain.RelationSubscription, "u1", "u1")
	if !errors.Is(err, ErrSelfRelation) {
		t.Fatalf("want ErrSelfRelation, got %v", err)
	}
}

func TestRelations_UnknownKind(t *testing.T) {
	db := newStoreDB(t)
	ctx := context.Background()
	if err := CreateRelation(ctx, db, domain.RelationKind(42), "u", "t"); !errors.Is(err, ErrUnknownRelation) {
		t.Fatalf("CreateRelation: want ErrUnknownRelation, got %v", err)
	}
	if err := DeleteRelation(ctx, db, domain.RelationKind(0), "u", "t"); !errors.Is(err, ErrUnknownRelation) {
		t.Fatalf("DeleteRelation: want ErrUnknownRelation, got %v", err)
	}
	if _, err := RelatedTargets(ctx, db, domain.RelationKind(9), "u", []string{"t"}); !errors.Is(err, ErrUnknownRelation) {
		t.Fatalf("RelatedTargets: want ErrUnknownRelation, got %v", err)
	}
}

func TestRelatedTargets_AnonymousOrEmpty(t *testing.T) {
	db := newTestDB(t) // short-circuits before touching the store
	set, err := RelatedTargets(context.Background(), db, domain.RelationFavorite, "", []string{"r1"})
	if err != nil || len(set) != 0 {
		t.Fatalf("anonymous: (%v, %v)", set, err)
	}
	set, err = RelatedTargets(context.Background(), db, domain.RelationFavorite, "u1", nil)
	if err != nil || len(set) != 0 {
		t.Fatalf("no targets: (%v, %v)", set, err)
	}
}
