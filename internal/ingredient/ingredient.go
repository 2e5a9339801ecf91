package ingredient

import (
	"context"

	"grocery-planner/internal/shared"
)

// Ingredient is a single raw ingredient extracted for a dish. Quantity and
// unit are optional: HasQuantity is false when the model did not specify one.
type Ingredient struct {
	Name        string
	Quantity    float64
	Unit        string
	HasQuantity bool
}

// Source produces the raw ingredient list for a dish name. The LLM-backed
// implementation can be swapped for a deterministic one in tests.
type Source interface {
	Extract(ctx context.Context, dish string) ([]Ingredient, shared.CallMeta, error)
}
