// Package services – RecipeService
//
// This file implements RecipeService, the recipe composition engine. Compose
// creates a recipe together with its tag set and ingredient amounts;
// Recompose replaces the scalar fields and the whole composition of an
// existing recipe. Both validate the input against the ordered RecipeRules
// list and write everything in one transaction, so a half-written
// composition is never observable.
//
// Listing and lookup decorate recipes with the viewer's relations
// (favorited, in cart, subscribed to the author).
//
// Observability: all public methods are OpenTelemetry-instrumented and feed
// the recipe_compositions_total counter.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/observability"
	"github.com/tbourn/foodgram-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IngredientAmount is one ingredient entry of a composition.
type IngredientAmount struct {
	IngredientID string
	Amount       int
}

// RecipeInput carries everything Compose and Recompose write.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []string
	Ingredients []IngredientAmount
}

func (in RecipeInput) ingredientIDs() []string {
	ids := make([]string, 0, len(in.Ingredients))
	for _, it := range in.Ingredients {
		ids = append(ids, it.IngredientID)
	}
	return ids
}

func (in RecipeInput) rows() []domain.RecipeIngredient {
	rows := make([]domain.RecipeIngredient, 0, len(in.Ingredients))
	for _, it := range in.Ingredients {
		rows = append(rows, domain.RecipeIngredient{IngredientID: it.IngredientID, Amount: it.Amount})
	}
	return rows
}

// RecipeFilter narrows List. Favorited and InCart are ignored for anonymous
// viewers.
type RecipeFilter struct {
	AuthorID  string
	TagSlugs  []string
	Favorited *bool
	InCart    *bool
}

// RecipeView is a recipe decorated with the viewer's relations to it.
type RecipeView struct {
	domain.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// RecipeService coordinates recipe composition and retrieval.
type RecipeService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Limits bounds cooking time and ingredient amounts.
	Limits Limits
	// Rules overrides RecipeRules when non-nil.
	Rules []Rule
}

// NewRecipeService constructs a RecipeService using RecipeRules. Zero
// limits mean DefaultLimits.
func NewRecipeService(db *gorm.DB, lim Limits) *RecipeService {
	if lim == (Limits{}) {
		lim = DefaultLimits()
	}
	return &RecipeService{DB: db, Limits: lim}
}

func (s *RecipeService) rules() []Rule {
	if s.Rules != nil {
		return s.Rules
	}
	return RecipeRules
}

// Compose validates in and creates a recipe authored by authorID with its
// tags and ingredient amounts, atomically. A recipe with the same
// (name, text) yields ErrRecipeExists.
func (s *RecipeService) Compose(ctx context.Context, authorID string, in RecipeInput) (out *domain.Recipe, err error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Compose",
		trace.WithAttributes(
			attribute.String("user.id", authorID),
			attribute.Int("recipe.tags", len(in.TagIDs)),
			attribute.Int("recipe.ingredients", len(in.Ingredients)),
		),
	)
	defer span.End()
	defer func() { countComposition("compose", err) }()

	in = normalizeInput(in)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := runRules(ctx, tx, s.rules(), in, s.Limits); err != nil {
			return err
		}
		r := &domain.Recipe{
			AuthorID:    authorID,
			Name:        in.Name,
			Text:        in.Text,
			Image:       in.Image,
			CookingTime: in.CookingTime,
		}
		if err := repo.CreateRecipe(ctx, tx, r); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrRecipeExists
			}
			return err
		}
		if err := repo.InsertComposition(ctx, tx, r.ID, in.TagIDs, in.rows()); err != nil {
			return err
		}
		loaded, err := repo.GetRecipe(ctx, tx, r.ID)
		if err != nil {
			return err
		}
		out = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("recipe.id", out.ID))
	return out, nil
}

// Recompose replaces the scalar fields and the whole composition of recipe
// id on behalf of actorID, atomically. Only the author may recompose
// (ErrNotAuthor). Tags and ingredients are always required; with partial
// set, blank scalar fields keep their stored values.
func (s *RecipeService) Recompose(ctx context.Context, actorID, id string, in RecipeInput, partial bool) (out *domain.Recipe, err error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Recompose",
		trace.WithAttributes(
			attribute.String("user.id", actorID),
			attribute.String("recipe.id", id),
			attribute.Bool("partial", partial),
		),
	)
	defer span.End()
	defer func() { countComposition("recompose", err) }()

	in = normalizeInput(in)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.ownedRecipe(ctx, tx, actorID, id)
		if err != nil {
			return err
		}
		if partial {
			in = mergeScalars(in, cur)
		}
		if err := runRules(ctx, tx, s.rules(), in, s.Limits); err != nil {
			return err
		}
		if err := repo.UpdateRecipeFields(ctx, tx, id, in.Name, in.Text, in.Image, in.CookingTime); err != nil {
			switch {
			case errors.Is(err, repo.ErrDuplicate):
				return ErrRecipeExists
			case errors.Is(err, repo.ErrNotFound):
				return ErrRecipeNotFound
			}
			return err
		}
		if err := repo.DeleteComposition(ctx, tx, id); err != nil {
			return err
		}
		if err := repo.InsertComposition(ctx, tx, id, in.TagIDs, in.rows()); err != nil {
			return err
		}
		loaded, err := repo.GetRecipe(ctx, tx, id)
		if err != nil {
			return err
		}
		out = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes recipe id, its composition, and every favorite and cart
// entry pointing at it. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, actorID, id string) (err error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("user.id", actorID),
			attribute.String("recipe.id", id),
		),
	)
	defer span.End()
	defer func() { countComposition("delete", err) }()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ownedRecipe(ctx, tx, actorID, id); err != nil {
			return err
		}
		if err := repo.DeleteRecipe(ctx, tx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		return nil
	})
}

// Get returns recipe id decorated for viewerID (empty for anonymous).
func (s *RecipeService) Get(ctx context.Context, viewerID, id string) (*RecipeView, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("recipe.id", id)),
	)
	defer span.End()

	r, err := repo.GetRecipe(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	views, err := s.decorate(ctx, viewerID, []domain.Recipe{*r})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListPage returns a page of recipes matching f, newest first, plus the
// total number of matches.
func (s *RecipeService) ListPage(ctx context.Context, viewerID string, f RecipeFilter, page, pageSize int) ([]RecipeView, int64, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	_, pageSize, offset := pageBounds(page, pageSize)
	q := f.query(viewerID)

	total, err := repo.CountRecipes(ctx, s.DB, q)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []RecipeView{}, 0, nil
	}

	items, err := repo.ListRecipesPage(ctx, s.DB, q, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorate(ctx, viewerID, items)
	return views, total, err
}

// ListStamp summarises the recipes matching f for conditional GETs.
func (s *RecipeService) ListStamp(ctx context.Context, viewerID string, f RecipeFilter) (repo.RecipeSetStamp, error) {
	return repo.StampRecipes(ctx, s.DB, f.query(viewerID))
}

func (f RecipeFilter) query(viewerID string) repo.RecipeQuery {
	return repo.RecipeQuery{
		AuthorID:  f.AuthorID,
		TagSlugs:  f.TagSlugs,
		ViewerID:  viewerID,
		Favorited: f.Favorited,
		InCart:    f.InCart,
	}
}

// ownedRecipe loads recipe id and checks that actorID authored it.
func (s *RecipeService) ownedRecipe(ctx context.Context, db *gorm.DB, actorID, id string) (*domain.Recipe, error) {
	cur, err := repo.GetRecipeRow(ctx, db, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if cur.AuthorID != actorID {
		return nil, ErrNotAuthor
	}
	return cur, nil
}

// decorate attaches the viewer's relation flags in three set queries.
func (s *RecipeService) decorate(ctx context.Context, viewerID string, items []domain.Recipe) ([]RecipeView, error) {
	out := make([]RecipeView, len(items))
	recipeIDs := make([]string, len(items))
	authorIDs := make([]string, 0, len(items))
	for i := range items {
		out[i].Recipe = items[i]
		recipeIDs[i] = items[i].ID
		authorIDs = append(authorIDs, items[i].AuthorID)
	}
	if viewerID == "" || len(items) == 0 {
		return out, nil
	}

	fav, err := repo.RelatedTargets(ctx, s.DB, domain.RelationFavorite, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	cart, err := repo.RelatedTargets(ctx, s.DB, domain.RelationShoppingCart, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subs, err := repo.RelatedTargets(ctx, s.DB, domain.RelationSubscription, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].IsFavorited = fav[out[i].ID]
		out[i].IsInShoppingCart = cart[out[i].ID]
		out[i].AuthorSubscribed = subs[out[i].AuthorID]
	}
	return out, nil
}

func normalizeInput(in RecipeInput) RecipeInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Text = strings.TrimSpace(in.Text)
	in.Image = strings.TrimSpace(in.Image)
	return in
}

func mergeScalars(in RecipeInput, cur *domain.Recipe) RecipeInput {
	if in.Name == "" {
		in.Name = cur.Name
	}
	if in.Text == "" {
		in.Text = cur.Text
	}
	if in.Image == "" {
		in.Image = cur.Image
	}
	if in.CookingTime == 0 {
		in.CookingTime = cur.CookingTime
	}
	return in
}

func countComposition(op string, err error) {
	observability.RecipeCompositions.
		WithLabelValues(op, observability.Outcome(err, isClientError)).
		Inc()
}

// isClientError reports whether err is a classified service error.
func isClientError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
