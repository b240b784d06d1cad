// Package services – CatalogService
//
// This file implements CatalogService, which owns the read-mostly reference
// data recipes are composed from: tags and ingredients. Tags are created by
// administrators with a unique name, HEX color and slug; ingredients are
// bulk-imported and looked up by case-insensitive name prefix.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

const (
	maxTagNameRunes    = 30
	maxIngredientRunes = 200
)

// TagInput is the payload for creating a tag. An empty Slug is derived from
// Name, which must then contain latin letters or digits.
type TagInput struct {
	Name  string
	Color string
	Slug  string
}

// CatalogService manages tags and ingredients.
type CatalogService struct {
	DB *gorm.DB
	// Locale drives lower-casing of derived slugs.
	Locale language.Tag
}

// NewCatalogService constructs a CatalogService with a neutral locale.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db, Locale: language.Und}
}

// ValidHexColor reports whether s is a six-digit HEX color such as "#E26C2D".
func ValidHexColor(s string) bool { return hexColorRe.MatchString(s) }

// CreateTag validates in and stores a new tag. The color is stored
// upper-cased so "#e26c2d" and "#E26C2D" collide.
func (s *CatalogService) CreateTag(ctx context.Context, in TagInput) (*domain.Tag, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "CreateTag", trace.WithAttributes(attribute.String("tag.name", in.Name)))
	defer span.End()

	name := strings.TrimSpace(in.Name)
	if name == "" || utf8.RuneCountInString(name) > maxTagNameRunes {
		return nil, validationError("tag_name", "tag name must be 1 to 30 characters")
	}
	color := strings.TrimSpace(in.Color)
	if !ValidHexColor(color) {
		return nil, validationError("tag_color", "color must be a HEX value like #E26C2D")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		if slug = s.slugify(name); slug == "" {
			return nil, validationError("slug_required", "slug is required when the name has no latin letters or digits")
		}
	}
	if !slugRe.MatchString(slug) {
		return nil, validationError("tag_slug", "slug may contain only letters, digits, '-' and '_'")
	}

	t := &domain.Tag{Name: name, Color: strings.ToUpper(color), Slug: slug}
	if err := repo.CreateTag(ctx, s.DB, t); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return repo.ListTags(ctx, s.DB)
}

// GetTag returns tag id or ErrTagNotFound.
func (s *CatalogService) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	t, err := repo.GetTag(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrTagNotFound
	}
	return t, err
}

// ListIngredients returns ingredients whose name starts with prefix,
// ignoring case.
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "ListIngredients", trace.WithAttributes(attribute.String("prefix", prefix)))
	defer span.End()

	return repo.ListIngredients(ctx, s.DB, strings.TrimSpace(prefix))
}

// GetIngredient returns ingredient id or ErrIngredientNotFound.
func (s *CatalogService) GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	in, err := repo.GetIngredient(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	return in, err
}

// ImportIngredients trims and validates rows, then stores them in one
// transaction. Rows with a blank name or unit fail the whole import.
func (s *CatalogService) ImportIngredients(ctx context.Context, rows []domain.Ingredient) (int64, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "ImportIngredients", trace.WithAttributes(attribute.Int("rows", len(rows))))
	defer span.End()

	clean := make([]domain.Ingredient, 0, len(rows))
	for _, r := range rows {
		r.Name = strings.TrimSpace(r.Name)
		r.MeasurementUnit = strings.TrimSpace(r.MeasurementUnit)
		if r.Name == "" || r.MeasurementUnit == "" {
			return 0, validationError("ingredient_fields", "ingredient name and measurement unit are required")
		}
		if utf8.RuneCountInString(r.Name) > maxIngredientRunes || utf8.RuneCountInString(r.MeasurementUnit) > maxIngredientRunes {
			return 0, validationError("ingredient_fields", "ingredient name and unit must be at most 200 characters")
		}
		clean = append(clean, r)
	}

	var n int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = repo.CreateIngredients(ctx, tx, clean)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// slugify lower-cases name and joins its letter/digit runs with '-'.
// Non-ASCII letters are dropped, so a name made only of them yields "" and
// CreateTag then asks for an explicit slug.
func (s *CatalogService) slugify(name string) string {
	lower := cases.Lower(s.Locale).String(name)
	var b strings.Builder
	dash := false
	for _, r := range lower {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
