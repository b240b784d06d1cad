// Package services – relation toggle
//
// Toggle is the single add/remove state machine behind favorites, shopping
// cart entries and subscriptions. Each (kind, user, target) triple is either
// ABSENT or PRESENT:
//
//   - Add:    ABSENT -> PRESENT; PRESENT yields ErrRelationExists.
//   - Remove: PRESENT -> ABSENT; ABSENT yields ErrRelationNotFound.
//
// The target is looked up before the state is touched, so a missing recipe
// or author is reported as such. Subscriptions additionally reject a user
// following themselves before anything else.
//
// Add is an insert guarded by the relation's unique key, so two concurrent
// adds produce exactly one row and one ErrRelationExists.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/observability"
	"github.com/tbourn/foodgram-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// relationMessages holds the per-kind wording of the two state errors.
var relationMessages = map[domain.RelationKind][2]string{
	domain.RelationFavorite:     {"recipe is already in favorites", "recipe is not in favorites"},
	domain.RelationShoppingCart: {"recipe is already in the shopping cart", "recipe is not in the shopping cart"},
	domain.RelationSubscription: {"already subscribed to this author", "not subscribed to this author"},
}

// Toggle adds and removes relations of one kind between a user and a target
// of type T (a recipe or another user).
type Toggle[T any] struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Kind selects the relation table.
	Kind domain.RelationKind
	// Lookup loads the target; it must return repo.ErrNotFound when missing.
	Lookup func(ctx context.Context, db *gorm.DB, id string) (*T, error)
	// NotFound is returned when Lookup reports a missing target.
	NotFound *Error
}

// NewFavoriteToggle returns the toggle for user -> recipe favorites.
func NewFavoriteToggle(db *gorm.DB) *Toggle[domain.Recipe] {
	return &Toggle[domain.Recipe]{DB: db, Kind: domain.RelationFavorite, Lookup: repo.GetRecipeRow, NotFound: ErrRecipeNotFound}
}

// NewCartToggle returns the toggle for user -> recipe shopping cart entries.
func NewCartToggle(db *gorm.DB) *Toggle[domain.Recipe] {
	return &Toggle[domain.Recipe]{DB: db, Kind: domain.RelationShoppingCart, Lookup: repo.GetRecipeRow, NotFound: ErrRecipeNotFound}
}

// NewSubscriptionToggle returns the toggle for user -> author subscriptions.
func NewSubscriptionToggle(db *gorm.DB) *Toggle[domain.User] {
	return &Toggle[domain.User]{DB: db, Kind: domain.RelationSubscription, Lookup: repo.GetUser, NotFound: ErrUserNotFound}
}

// Add creates the (userID, targetID) relation and returns the target.
func (t *Toggle[T]) Add(ctx context.Context, userID, targetID string) (target *T, err error) {
	ctx, span := t.start(ctx, "Add", userID, targetID)
	defer span.End()
	defer func() { t.count("add", err) }()

	if t.Kind == domain.RelationSubscription && userID == targetID {
		return nil, ErrSelfSubscription
	}

	err = t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		got, err := t.lookup(ctx, tx, targetID)
		if err != nil {
			return err
		}
		if err := repo.CreateRelation(ctx, tx, t.Kind, userID, targetID); err != nil {
			switch {
			case errors.Is(err, repo.ErrDuplicate):
				return t.stateError(ErrRelationExists, 0)
			case errors.Is(err, repo.ErrSelfRelation):
				return ErrSelfSubscription
			}
			return err
		}
		target = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Remove deletes the (userID, targetID) relation.
func (t *Toggle[T]) Remove(ctx context.Context, userID, targetID string) (err error) {
	ctx, span := t.start(ctx, "Remove", userID, targetID)
	defer span.End()
	defer func() { t.count("remove", err) }()

	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := t.lookup(ctx, tx, targetID); err != nil {
			return err
		}
		if err := repo.DeleteRelation(ctx, tx, t.Kind, userID, targetID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return t.stateError(ErrRelationNotFound, 1)
			}
			return err
		}
		return nil
	})
}

func (t *Toggle[T]) lookup(ctx context.Context, db *gorm.DB, id string) (*T, error) {
	got, err := t.Lookup(ctx, db, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, t.NotFound
		}
		return nil, err
	}
	return got, nil
}

// stateError copies base with the kind-specific message at index i.
func (t *Toggle[T]) stateError(base *Error, i int) *Error {
	e := *base
	if msgs, ok := relationMessages[t.Kind]; ok {
		e.Msg = msgs[i]
	}
	return &e
}

func (t *Toggle[T]) start(ctx context.Context, op, userID, targetID string) (context.Context, trace.Span) {
	tr := otel.Tracer("services/Toggle")
	return tr.Start(ctx, op,
		trace.WithAttributes(
			attribute.String("relation.kind", t.Kind.String()),
			attribute.String("user.id", userID),
			attribute.String("target.id", targetID),
		),
	)
}

func (t *Toggle[T]) count(transition string, err error) {
	observability.RelationToggles.
		WithLabelValues(t.Kind.String(), transition, observability.Outcome(err, isClientError)).
		Inc()
}
