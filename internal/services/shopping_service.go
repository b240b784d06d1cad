package services

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/observability"
	"github.com/tbourn/foodgram-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ShoppingService builds a user's aggregated shopping list.
type ShoppingService struct {
	DB *gorm.DB
}

// List sums the ingredients of every recipe in userID's cart, one line per
// (ingredient name, measurement unit), ordered by name then unit. An empty
// cart is an empty list, not an error.
func (s *ShoppingService) List(ctx context.Context, userID string) ([]domain.ShoppingItem, error) {
	tr := otel.Tracer("services/ShoppingService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	items, err := repo.AggregateShoppingList(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	observability.ShoppingListLines.Observe(float64(len(items)))
	return items, nil
}

// RenderShoppingList formats items as "{name} - {amount} {unit}" lines
// separated by newlines.
func RenderShoppingList(items []domain.ShoppingItem) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(it.Name)
		b.WriteString(" - ")
		b.WriteString(strconv.FormatInt(it.Amount, 10))
		b.WriteByte(' ')
		b.WriteString(it.Unit)
	}
	return b.String()
}
