package shopping

import (
	"time"

	"grocery-planner/internal/ingredient"
)

// Status classifies a shopping list item relative to the pantry.
type Status string

const (
	StatusHave    Status = "have"
	StatusShort   Status = "short"
	StatusMissing Status = "missing"
)

// DishIngredients pairs a planned dish with its extracted ingredients.
type DishIngredients struct {
	Dish  string
	Items []ingredient.Ingredient
}

// AggregatedIngredient is the merged need for one normalized ingredient name
// across all planned dishes. Approximate is set when quantities could not be
// summed exactly (incompatible or unspecified units).
type AggregatedIngredient struct {
	Name        string
	Quantity    float64
	Unit        string
	Approximate bool
	Dishes      []string
}

// ShoppingListItem is one line of the final shopping list.
type ShoppingListItem struct {
	Name        string
	Needed      float64
	Have        float64
	ToBuy       float64
	Unit        string
	Status      Status
	Approximate bool
}

// ShoppingList is a persisted list for one planning period.
type ShoppingList struct {
	ID          int64
	PeriodID    string
	PlanRef     string
	Items       []ShoppingListItem
	EmptyDishes []string
	CreatedAt   time.Time
}
