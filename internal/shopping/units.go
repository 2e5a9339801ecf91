package shopping

import "strings"

// unitFamily groups units that are convertible into each other. The table is
// deliberately conservative: only metric mass, metric volume plus common
// kitchen measures, and plain counts. Anything else (bunch, clove, slice) is
// its own incomparable bucket and aggregation falls back to keep-the-larger.
type unitFamily int

const (
	familyNone unitFamily = iota
	familyMass
	familyVolume
	familyCount
)

type unitDef struct {
	family    unitFamily
	canonical string
	factor    float64
}

var unitTable = map[string]unitDef{
	"mg":          {familyMass, "g", 0.001},
	"g":           {familyMass, "g", 1},
	"gram":        {familyMass, "g", 1},
	"grams":       {familyMass, "g", 1},
	"kg":          {familyMass, "g", 1000},
	"kgs":         {familyMass, "g", 1000},
	"kilogram":    {familyMass, "g", 1000},
	"kilograms":   {familyMass, "g", 1000},
	"ml":          {familyVolume, "ml", 1},
	"milliliter":  {familyVolume, "ml", 1},
	"milliliters": {familyVolume, "ml", 1},
	"l":           {familyVolume, "ml", 1000},
	"liter":       {familyVolume, "ml", 1000},
	"liters":      {familyVolume, "ml", 1000},
	"litre":       {familyVolume, "ml", 1000},
	"litres":      {familyVolume, "ml", 1000},
	"tsp":         {familyVolume, "ml", 5},
	"teaspoon":    {familyVolume, "ml", 5},
	"teaspoons":   {familyVolume, "ml", 5},
	"tbsp":        {familyVolume, "ml", 15},
	"tablespoon":  {familyVolume, "ml", 15},
	"tablespoons": {familyVolume, "ml", 15},
	"cup":         {familyVolume, "ml", 240},
	"cups":        {familyVolume, "ml", 240},
	"count":       {familyCount, "count", 1},
	"piece":       {familyCount, "count", 1},
	"pieces":      {familyCount, "count", 1},
	"pcs":         {familyCount, "count", 1},
}

// toCanonical converts a quantity to its family's canonical unit. For units
// outside the table it returns the inputs unchanged with familyNone.
func toCanonical(qty float64, unit string) (float64, string, unitFamily) {
	key := strings.ToLower(strings.TrimSpace(unit))
	def, ok := unitTable[key]
	if !ok {
		return qty, key, familyNone
	}
	return qty * def.factor, def.canonical, def.family
}
