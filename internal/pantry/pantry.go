package pantry

import (
	"context"
	"strings"
)

// Item is one pantry inventory row: what is on hand and in which unit.
type Item struct {
	Name     string
	Quantity float64
	Unit     string
}

// Store is the inventory collaborator: a readable, writable mapping of item
// name to quantity and unit. Writes are independent per item; there is no
// partial-write rollback to worry about.
type Store interface {
	Inventory(ctx context.Context) ([]Item, error)
	Upsert(ctx context.Context, item Item) error
	Remove(ctx context.Context, name string) error
}

// key folds an item name into its case-insensitive lookup key.
func key(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
