package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/observability"
)

func TestToggle_StateMachine_AllKinds(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	r := w.compose(t, w.alice, "Cake", amt(w.flour, 1))

	type toggler interface {
		add(context.Context, string, string) error
		remove(context.Context, string, string) error
	}
	cases := []struct {
		kind   domain.RelationKind
		target string
		tg     toggler
	}{
		{domain.RelationFavorite, r.ID, recipeToggler{NewFavoriteToggle(w.db)}},
		{domain.RelationShoppingCart, r.ID, recipeToggler{NewCartToggle(w.db)}},
		{domain.RelationSubscription, w.alice, userToggler{NewSubscriptionToggle(w.db)}},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if err := tc.tg.add(ctx, w.bob, tc.target); err != nil {
				t.Fatalf("first add: %v", err)
			}
			err := tc.tg.add(ctx, w.bob, tc.target)
			if !errors.Is(err, ErrRelationExists) || !errors.Is(err, ErrConflict) {
				t.Fatalf("second add: want ErrRelationExists, got %v", err)
			}
			if err.Error() != relationMessages[tc.kind][0] {
				t.Fatalf("message = %q, want %q", err.Error(), relationMessages[tc.kind][0])
			}

			if err := tc.tg.remove(ctx, w.bob, tc.target); err != nil {
				t.Fatalf("first remove: %v", err)
			}
			err = tc.tg.remove(ctx, w.bob, tc.target)
			if !errors.Is(err, ErrRelationNotFound) {
				t.Fatalf("second remove: want ErrRelationNotFound, got %v", err)
			}
			if err.Error() != relationMessages[tc.kind][1] {
				t.Fatalf("message = %q, want %q", err.Error(), relationMessages[tc.kind][1])
			}

			if err := tc.tg.add(ctx, w.bob, tc.target); err != nil {
				t.Fatalf("re-add after remove: %v", err)
			}
		})
	}

	// The shared sentinels are never mutated by per-kind messages.
	if ErrRelationExists.Msg != "relation already exists" {
		t.Fatalf("sentinel message mutated: %q", ErrRelationExists.Msg)
	}
}

type recipeToggler struct{ t *Toggle[domain.Recipe] }

func (r recipeToggler) add(ctx context.Context, u, id string) error {
	_, err := r.t.Add(ctx, u, id)
	return err
}
func (r recipeToggler) remove(ctx context.Context, u, id string) error { return r.t.Remove(ctx, u, id) }

type userToggler struct{ t *Toggle[domain.User] }

func (r userToggler) add(ctx context.Context, u, id string) error {
	_, err := r.t.Add(ctx, u, id)
	return err
}
func (r userToggler) remove(ctx context.Context, u, id string) error { return r.t.Remove(ctx, u, id) }

func TestToggle_Add_ReturnsTarget(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	r := w.compose(t, w.alice, "Cake", amt(w.flour, 1))

	got, err := NewCartToggle(w.db).Add(ctx, w.bob, r.ID)
	if err != nil || got.ID != r.ID || got.Name != "Cake" {
		t.Fatalf("cart Add = (%+v, %v)", got, err)
	}
	author, err := NewSubscriptionToggle(w.db).Add(ctx, w.bob, w.alice)
	if err != nil || author.Username != "alice" {
		t.Fatalf("subscription Add = (%+v, %v)", author, err)
	}
}

func TestToggle_SelfSubscription_AlwaysRejected(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	sub := NewSubscriptionToggle(w.db)

	for i := 0; i < 2; i++ {
		if _, err := sub.Add(ctx, w.alice, w.alice); !errors.Is(err, ErrSelfSubscription) || !errors.Is(err, ErrSelfReference) {
			t.Fatalf("attempt %d: want ErrSelfSubscription, got %v", i, err)
		}
	}
	if n := countRows(t, w.db, &domain.Subscription{}); n != 0 {
		t.Fatalf("self subscription stored: %d rows", n)
	}
}

func TestToggle_TargetNotFound(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	if _, err := NewFavoriteToggle(w.db).Add(ctx, w.bob, "missing"); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("favorite missing recipe: want ErrRecipeNotFound, got %v", err)
	}
	if err := NewCartToggle(w.db).Remove(ctx, w.bob, "missing"); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("cart remove missing recipe: want ErrRecipeNotFound, got %v", err)
	}
	if _, err := NewSubscriptionToggle(w.db).Add(ctx, w.bob, "missing"); !errors.Is(err, ErrUserNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("subscribe missing author: want ErrUserNotFound, got %v", err)
	}
}

func TestToggle_ConcurrentAdds_ExactlyOneWins(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	r := w.compose(t, w.alice, "Cake", amt(w.flour, 1))
	fav := NewFavoriteToggle(w.db)

	const n = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, dups int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fav.Add(ctx, w.bob, r.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrRelationExists):
				dups++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if ok != 1 || dups != n-1 {
		t.Fatalf("ok=%d dups=%d, want 1 and %d", ok, dups, n-1)
	}
}

func TestToggle_RecordsMetrics(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	r := w.compose(t, w.alice, "Cake", amt(w.flour, 1))
	fav := NewFavoriteToggle(w.db)

	okBefore := testutil.ToFloat64(observability.RelationToggles.WithLabelValues("favorite", "add", observability.OutcomeOK))
	rejBefore := testutil.ToFloat64(observability.RelationToggles.WithLabelValues("favorite", "add", observability.OutcomeRejected))

	_, _ = fav.Add(ctx, w.bob, r.ID)
	_, _ = fav.Add(ctx, w.bob, r.ID)

	if got := testutil.ToFloat64(observability.RelationToggles.WithLabelValues("favorite", "add", observability.OutcomeOK)); got != okBefore+1 {
		t.Fatalf("ok counter = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(observability.RelationToggles.WithLabelValues("favorite", "add", observability.OutcomeRejected)); got != rejBefore+1 {
		t.Fatalf("rejected counter = %v, want %v", got, rejBefore+1)
	}
}
