package shopping

import (
	"sort"
	"strings"

	"grocery-planner/internal/pantry"
)

// NormalizeName folds an ingredient name into its merge key: lower case,
// trimmed, inner whitespace collapsed, and a naive plural fold on the last
// word so "Tomato" and "tomatoes " land on the same key. Synonyms and
// irregular plurals are a known limitation, not handled here.
func NormalizeName(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	fields[len(fields)-1] = singularize(last)
	return strings.Join(fields, " ")
}

func singularize(word string) string {
	switch {
	case len(word) >= 5 && strings.HasSuffix(word, "oes"):
		return word[:len(word)-2] // tomatoes -> tomato
	case len(word) >= 4 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1] // eggs -> egg, cheeses -> cheese
	default:
		return word
	}
}

// aggregated is the working state for one normalized name during a run.
type aggregated struct {
	display     string
	quantity    float64
	unit        string
	family      unitFamily
	approximate bool
	dishes      []string
}

// Aggregate merges per-dish ingredient lists into one deduplicated need per
// normalized name, then subtracts the pantry snapshot to produce the final
// list. It never mutates its inputs and is deterministic for a given input
// pair, so re-running it on the same plan and pantry yields identical output.
//
// Dishes whose ingredient list is empty contribute nothing and are reported
// in the result's EmptyDishes.
func Aggregate(dishes []DishIngredients, inventory []pantry.Item) ShoppingList {
	merged := make(map[string]*aggregated)
	var emptyDishes []string

	for _, dish := range dishes {
		if len(dish.Items) == 0 {
			emptyDishes = append(emptyDishes, dish.Dish)
			continue
		}
		for _, item := range dish.Items {
			key := NormalizeName(item.Name)
			if key == "" {
				continue
			}

			// An entry without a quantity counts as one unspecified unit:
			// needed, but only approximately quantifiable.
			qty, unit, fam := 1.0, "", familyNone
			approx := true
			if item.HasQuantity {
				qty, unit, fam = toCanonical(item.Quantity, item.Unit)
				approx = fam == familyNone
			}

			entry, ok := merged[key]
			if !ok {
				merged[key] = &aggregated{
					display:     key,
					quantity:    qty,
					unit:        unit,
					family:      fam,
					approximate: approx,
					dishes:      []string{dish.Dish},
				}
				continue
			}

			switch {
			case fam != familyNone && fam == entry.family:
				// Known-convertible units: sum in the canonical unit.
				entry.quantity += qty
			case fam == familyNone && entry.family == familyNone && unit == entry.unit:
				// Matching units outside the table still add; they just
				// cannot be converted, so the total stays approximate.
				entry.quantity += qty
				entry.approximate = true
			default:
				// Incompatible units: keep the larger raw count rather
				// than failing the run.
				if qty > entry.quantity {
					entry.quantity = qty
					entry.unit = unit
					entry.family = fam
				}
				entry.approximate = true
			}
			entry.approximate = entry.approximate || approx
			if len(entry.dishes) == 0 || entry.dishes[len(entry.dishes)-1] != dish.Dish {
				entry.dishes = append(entry.dishes, dish.Dish)
			}
		}
	}

	have := inventoryIndex(inventory)

	items := make([]ShoppingListItem, 0, len(merged))
	for key, entry := range merged {
		availableQty := 0.0
		if stock, ok := have[key]; ok {
			stockQty, _, stockFam := toCanonical(stock.Quantity, stock.Unit)
			switch {
			case entry.family != familyNone && stockFam == entry.family:
				availableQty = stockQty
			case entry.family == familyNone && strings.EqualFold(strings.TrimSpace(stock.Unit), entry.unit):
				availableQty = stock.Quantity
			}
		}

		item := ShoppingListItem{
			Name:        entry.display,
			Needed:      entry.quantity,
			Have:        availableQty,
			Unit:        entry.unit,
			Approximate: entry.approximate,
		}
		switch {
		case item.Have >= item.Needed:
			item.Status = StatusHave
		case item.Have == 0:
			item.Status = StatusMissing
		default:
			item.Status = StatusShort
		}
		if item.Have < item.Needed {
			item.ToBuy = item.Needed - item.Have
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return ShoppingList{Items: items, EmptyDishes: emptyDishes}
}

// inventoryIndex keys the pantry snapshot by normalized name. Later rows win
// on duplicate names; the pantry store itself keeps names unique.
func inventoryIndex(inventory []pantry.Item) map[string]pantry.Item {
	idx := make(map[string]pantry.Item, len(inventory))
	for _, item := range inventory {
		idx[NormalizeName(item.Name)] = item
	}
	return idx
}
