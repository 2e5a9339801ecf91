package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository handles persistence of shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save stores a list under its period identifier, replacing any previous list
// for the same period: the aggregator is deterministic, so a regenerated list
// supersedes the old one.
func (r *Repository) Save(ctx context.Context, list *ShoppingList) (int64, error) {
	emptyDishes, err := json.Marshal(list.EmptyDishes)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal empty dish report: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE period_id = ?`, list.PeriodID); err != nil {
		return 0, fmt.Errorf("failed to replace previous list for %s: %w", list.PeriodID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM shopping_list_items WHERE list_id NOT IN (SELECT id FROM shopping_lists)`); err != nil {
		return 0, fmt.Errorf("failed to clean up orphaned items: %w", err)
	}

	createdAt := list.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO shopping_lists (period_id, plan_ref, empty_dishes, created_at)
		 VALUES (?, ?, ?, ?)`,
		list.PeriodID, list.PlanRef, string(emptyDishes), createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	listID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted list ID: %w", err)
	}

	for i, item := range list.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO shopping_list_items
			   (list_id, position, name, needed, have, to_buy, unit, status, approximate)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			listID, i, item.Name, item.Needed, item.Have, item.ToBuy,
			item.Unit, string(item.Status), item.Approximate)
		if err != nil {
			return 0, fmt.Errorf("failed to insert shopping list item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit shopping list: %w", err)
	}
	return listID, nil
}

// GetByPeriod retrieves a stored list by period identifier. Returns nil when
// no list exists for the period.
func (r *Repository) GetByPeriod(ctx context.Context, periodID string) (*ShoppingList, error) {
	list := &ShoppingList{PeriodID: periodID}
	var emptyDishes string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, plan_ref, empty_dishes, created_at
		 FROM shopping_lists WHERE period_id = ?`, periodID).
		Scan(&list.ID, &list.PlanRef, &emptyDishes, &list.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No shopping list found
		}
		return nil, fmt.Errorf("failed to get shopping list for %s: %w", periodID, err)
	}

	if err := json.Unmarshal([]byte(emptyDishes), &list.EmptyDishes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal empty dish report: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT name, needed, have, to_buy, unit, status, approximate
		 FROM shopping_list_items WHERE list_id = ? ORDER BY position`, list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read shopping list items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item ShoppingListItem
		var status string
		if err := rows.Scan(&item.Name, &item.Needed, &item.Have, &item.ToBuy,
			&item.Unit, &status, &item.Approximate); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list item: %w", err)
		}
		item.Status = Status(status)
		list.Items = append(list.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping list items: %w", err)
	}

	return list, nil
}

// ListPeriods returns all stored period identifiers, newest first.
func (r *Repository) ListPeriods(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT period_id FROM shopping_lists ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping list periods: %w", err)
	}
	defer rows.Close()

	var periods []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate periods: %w", err)
	}
	return periods, nil
}
