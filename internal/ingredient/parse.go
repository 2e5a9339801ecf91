package ingredient

import (
	"regexp"
	"strconv"
	"strings"
)

// quantityRe matches entries like "200g chicken", "1.5 kg potatoes" or
// "2 eggs": an optional decimal quantity, an optional glued or spaced unit
// token, then the ingredient name.
var quantityRe = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)\s*([a-zA-Z]*)\s+(.+)$`)

// knownUnitTokens are the unit words ParseLine recognises. Anything else
// after the quantity is treated as part of the ingredient name.
var knownUnitTokens = map[string]string{
	"mg":          "mg",
	"g":           "g",
	"gram":        "g",
	"grams":       "g",
	"kg":          "kg",
	"kgs":         "kg",
	"kilogram":    "kg",
	"kilograms":   "kg",
	"ml":          "ml",
	"milliliter":  "ml",
	"milliliters": "ml",
	"l":           "l",
	"liter":       "l",
	"liters":      "l",
	"litre":       "l",
	"litres":      "l",
	"tsp":         "tsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"tbsp":        "tbsp",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"cup":         "cup",
	"cups":        "cup",
	"count":       "count",
	"piece":       "count",
	"pieces":      "count",
	"pcs":         "count",
}

// ParseLine parses a free-text ingredient entry into a structured Ingredient.
// Entries without a leading quantity ("fresh basil") come back with
// HasQuantity false. The second return value is false only for blank input.
func ParseLine(line string) (Ingredient, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Ingredient{}, false
	}

	m := quantityRe.FindStringSubmatch(line)
	if m == nil {
		return Ingredient{Name: line}, true
	}

	qty, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || qty <= 0 {
		return Ingredient{Name: line}, true
	}

	unitToken := strings.ToLower(m[2])
	name := strings.TrimSpace(m[3])

	if unit, ok := knownUnitTokens[unitToken]; ok {
		return Ingredient{Name: name, Quantity: qty, Unit: unit, HasQuantity: true}, true
	}

	// "2 eggs": the token after the number is the name itself.
	if unitToken != "" {
		name = strings.TrimSpace(unitToken + " " + name)
	}
	return Ingredient{Name: name, Quantity: qty, HasQuantity: true}, true
}
