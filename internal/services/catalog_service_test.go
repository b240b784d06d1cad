package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

func TestCatalogService_CreateTag(t *testing.T) {
	db := newSvcDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	if _, err := svc.CreateTag(ctx, TagInput{Name: "Dinner", Color: "#12345"}); ruleOf(err) != "tag_color" {
		t.Fatalf("short color: want tag_color, got %v", err)
	}
	if _, err := svc.CreateTag(ctx, TagInput{Name: "Dinner", Color: "#GGGGGG"}); ruleOf(err) != "tag_color" {
		t.Fatalf("non-hex color: want tag_color, got %v", err)
	}
	if _, err := svc.CreateTag(ctx, TagInput{Name: "  ", Color: "#123456"}); ruleOf(err) != "tag_name" {
		t.Fatalf("blank name: want tag_name, got %v", err)
	}
	// Cyrillic names cannot be slugified; the caller must supply a slug.
	if _, err := svc.CreateTag(ctx, TagInput{Name: "Завтрак", Color: "#123456"}); ruleOf(err) != "slug_required" {
		t.Fatalf("want slug_required, got %v", err)
	}
	if _, err := svc.CreateTag(ctx, TagInput{Name: "Dinner", Color: "#123456", Slug: "bad slug!"}); ruleOf(err) != "tag_slug" {
		t.Fatalf("bad slug: want tag_slug, got %v", err)
	}

	tag, err := svc.CreateTag(ctx, TagInput{Name: "Late Dinner", Color: "#abcdef"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if tag.Slug != "late-dinner" || tag.Color != "#ABCDEF" || tag.ID == "" {
		t.Fatalf("unexpected tag: %+v", tag)
	}

	if _, err := svc.CreateTag(ctx, TagInput{Name: "Other", Color: "#ABCDEF"}); !errors.Is(err, ErrTagExists) {
		t.Fatalf("same color: want ErrTagExists, got %v", err)
	}

	got, err := svc.GetTag(ctx, tag.ID)
	if err != nil || got.Name != "Late Dinner" {
		t.Fatalf("GetTag = (%+v, %v)", got, err)
	}
	if _, err := svc.GetTag(ctx, "missing"); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("GetTag missing: want ErrTagNotFound, got %v", err)
	}
	tags, err := svc.ListTags(ctx)
	if err != nil || len(tags) != 1 {
		t.Fatalf("ListTags = (%+v, %v)", tags, err)
	}
}

func TestCatalogService_CreateTag_CyrillicNameWithSlug(t *testing.T) {
	svc := NewCatalogService(newSvcDB(t))
	tag, err := svc.CreateTag(context.Background(), TagInput{Name: "Завтрак", Color: "#E26C2D", Slug: "zavtrak"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if tag.Name != "Завтрак" || tag.Slug != "zavtrak" {
		t.Fatalf("unexpected tag: %+v", tag)
	}
}

func TestCatalogService_Slugify(t *testing.T) {
	svc := NewCatalogService(nil)
	cases := map[string]string{
		"Breakfast":         "breakfast",
		"Quick  & Easy":     "quick-easy",
		"Top 10 Snacks!":    "top-10-snacks",
		"  -Vegan- ":        "vegan",
		"Завтрак":           "",
		"Soup (hot) 2":      "soup-hot-2",
		"Brunch\tSpecial":   "brunch-special",
		"UPPER_lower-mixed": "upper-lower-mixed",
	}
	for in, want := range cases {
		if got := svc.slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidHexColor(t *testing.T) {
	for s, want := range map[string]bool{
		"#123456": true, "#abcDEF": true, "#12345": false, "123456": false, "#1234567": false, "": false,
	} {
		if got := ValidHexColor(s); got != want {
			t.Errorf("ValidHexColor(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestCatalogService_Ingredients(t *testing.T) {
	db := newSvcDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	n, err := svc.ImportIngredients(ctx, []domain.Ingredient{
		{Name: " Flour ", MeasurementUnit: "g"},
		{Name: "flour", MeasurementUnit: "cup"},
		{Name: "Fish sauce", MeasurementUnit: "ml"},
		{Name: "egg", MeasurementUnit: "pcs"},
		{Name: "50%_mix", MeasurementUnit: "g"},
	})
	if err != nil || n != 5 {
		t.Fatalf("ImportIngredients = (%d, %v)", n, err)
	}

	got, err := svc.ListIngredients(ctx, "FL")
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Flour" || got[1].MeasurementUnit != "cup" {
		t.Fatalf("prefix FL = %+v", got)
	}
	if got, _ := svc.ListIngredients(ctx, "f"); len(got) != 3 {
		t.Fatalf("prefix f = %d rows, want 3", len(got))
	}
	if got, _ := svc.ListIngredients(ctx, "50%"); len(got) != 1 {
		t.Fatalf("prefix with wildcard char = %d rows, want 1", len(got))
	}
	if got, _ := svc.ListIngredients(ctx, ""); len(got) != 5 {
		t.Fatalf("empty prefix = %d rows, want 5", len(got))
	}

	ing, err := svc.GetIngredient(ctx, got[0].ID)
	if err != nil || ing.ID != got[0].ID {
		t.Fatalf("GetIngredient = (%+v, %v)", ing, err)
	}
	if _, err := svc.GetIngredient(ctx, "missing"); !errors.Is(err, ErrIngredientNotFound) {
		t.Fatalf("GetIngredient missing: want ErrIngredientNotFound, got %v", err)
	}
}

func TestCatalogService_ListIngredients_NonASCII(t *testing.T) {
	svc := NewCatalogService(newSvcDB(t))
	ctx := context.Background()
	if _, err := svc.ImportIngredients(ctx, []domain.Ingredient{
		{Name: "Мука", MeasurementUnit: "г"},
		{Name: "Éclair", MeasurementUnit: "g"},
	}); err != nil {
		t.Fatalf("ImportIngredients: %v", err)
	}
	for prefix, want := range map[string]string{"му": "Мука", "Му": "Мука", " МУ ": "Мука", "é": "Éclair", "É": "Éclair"} {
		got, err := svc.ListIngredients(ctx, prefix)
		if err != nil || len(got) != 1 || got[0].Name != want {
			t.Fatalf("prefix %q = (%+v, %v), want %s", prefix, got, err, want)
		}
	}
}

func TestCatalogService_ImportIngredients_RejectsBlankRows(t *testing.T) {
	db := newSvcDB(t)
	svc := NewCatalogService(db)

	_, err := svc.ImportIngredients(context.Background(), []domain.Ingredient{
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "pepper", MeasurementUnit: "  "},
	})
	if ruleOf(err) != "ingredient_fields" {
		t.Fatalf("want ingredient_fields, got %v", err)
	}
	if n := countRows(t, db, &domain.Ingredient{}); n != 0 {
		t.Fatalf("partial import stored %d rows", n)
	}
}
