package observability

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values shared by the domain counters.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// RecipeCompositions counts compose/recompose/delete calls by operation
	// ("compose", "recompose", "delete") and outcome.
	RecipeCompositions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_compositions_total",
			Help: "Recipe composition operations by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	// RelationToggles counts relation transitions by kind ("favorite",
	// "shopping_cart", "subscription"), transition ("add", "remove") and
	// outcome.
	RelationToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relation_toggles_total",
			Help: "Relation toggle transitions by kind, transition and outcome.",
		},
		[]string{"kind", "transition", "outcome"},
	)

	// ShoppingListLines observes how many aggregated lines a shopping list has.
	ShoppingListLines = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shopping_list_lines",
			Help:    "Number of aggregated lines per generated shopping list.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)
)

func init() {
	prometheus.MustRegister(RecipeCompositions, RelationToggles, ShoppingListLines)
}

// Outcome classifies err for the counters above: nil is OutcomeOK, an error
// the caller can act on (rejected reports true) is OutcomeRejected, anything
// else is OutcomeError.
func Outcome(err error, rejected func(error) bool) string {
	switch {
	case err == nil:
		return OutcomeOK
	case rejected != nil && rejected(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
