package pantry

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository is the sqlite-backed pantry store, the local source of truth
// when the Google Sheets pantry is not configured.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new pantry repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Inventory returns the full current inventory, ordered by name.
func (r *Repository) Inventory(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, quantity, unit FROM inventory ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.Name, &item.Quantity, &item.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory rows: %w", err)
	}
	return items, nil
}

// Upsert writes one inventory item, replacing an existing row with the same
// case-insensitive name.
func (r *Repository) Upsert(ctx context.Context, item Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory (name_key, name, quantity, unit, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name_key) DO UPDATE SET
		   name = excluded.name,
		   quantity = excluded.quantity,
		   unit = excluded.unit,
		   updated_at = excluded.updated_at`,
		key(item.Name), item.Name, item.Quantity, item.Unit, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert inventory item %q: %w", item.Name, err)
	}
	return nil
}

// Remove deletes one inventory item by name. Removing an absent item is not
// an error.
func (r *Repository) Remove(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM inventory WHERE name_key = ?`, key(name))
	if err != nil {
		return fmt.Errorf("failed to remove inventory item %q: %w", name, err)
	}
	return nil
}
