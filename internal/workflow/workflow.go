// Package workflow drives the weekly pass from meal plan to placed order:
// extract ingredients per dish, aggregate against the pantry, persist the
// list, then walk it through review and approval.
package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"grocery-planner/internal/ingredient"
	"grocery-planner/internal/mealplan"
	"grocery-planner/internal/order"
	"grocery-planner/internal/pantry"
	"grocery-planner/internal/shared"
	"grocery-planner/internal/shopping"
)

// ListRepository is the slice of the shopping repository the workflow needs.
type ListRepository interface {
	Save(ctx context.Context, list *shopping.ShoppingList) (int64, error)
}

// MetaRecorder records LLM call metadata; *metrics.Store satisfies it.
type MetaRecorder interface {
	RecordMeta(meta shared.CallMeta) error
}

// Workflow wires the extraction source, pantry store and repositories into
// the run lifecycle.
type Workflow struct {
	source   ingredient.Source
	pantry   pantry.Store
	lists    ListRepository
	recorder MetaRecorder
	placer   order.Placer
	storeID  string
}

// New creates a Workflow. recorder and placer may be nil: metrics are then
// skipped and approval cannot reach Ordered.
func New(source ingredient.Source, pantryStore pantry.Store, lists ListRepository, recorder MetaRecorder, placer order.Placer, storeID string) *Workflow {
	return &Workflow{
		source:   source,
		pantry:   pantryStore,
		lists:    lists,
		recorder: recorder,
		placer:   placer,
		storeID:  storeID,
	}
}

// GenerateList runs extraction and aggregation for a week plan and persists
// the resulting shopping list. A dish whose extraction fails or comes back
// empty contributes zero ingredients and shows up in the list's EmptyDishes;
// it never aborts the other dishes. Store failures do abort: the pantry is
// the only source of truth and the caller should retry.
func (w *Workflow) GenerateList(ctx context.Context, plan *mealplan.WeekPlan) (*shopping.ShoppingList, *Run, error) {
	run := NewRun(shopping.PeriodID(plan.WeekStart))

	var dishes []shopping.DishIngredients
	for _, dish := range plan.Dishes() {
		items, meta, err := w.source.Extract(ctx, dish)
		w.record(meta)
		if err != nil {
			log.Printf("Extraction failed for %q, continuing without it: %v", dish, err)
			dishes = append(dishes, shopping.DishIngredients{Dish: dish})
			continue
		}
		dishes = append(dishes, shopping.DishIngredients{Dish: dish, Items: items})
	}

	inventory, err := w.pantry.Inventory(ctx)
	if err != nil {
		err = fmt.Errorf("failed to read pantry inventory: %w", err)
		run.fail(err)
		return nil, run, err
	}

	list := shopping.Aggregate(dishes, inventory)
	list.PeriodID = run.PeriodID
	list.PlanRef = plan.Ref()
	list.CreatedAt = time.Now().UTC()

	if _, err := w.lists.Save(ctx, &list); err != nil {
		err = fmt.Errorf("failed to persist shopping list: %w", err)
		run.fail(err)
		return nil, run, err
	}

	if err := run.Apply(EventExtractionDone); err != nil {
		return nil, run, err
	}
	return &list, run, nil
}

// RequestReview marks the list as sent to a human reviewer.
func (w *Workflow) RequestReview(run *Run) error {
	return run.Apply(EventReviewRequested)
}

// Approve places the order for a reviewed list. The order API is called at
// most once per approval: a placement failure lands the run in Failed and is
// surfaced to the user instead of being retried.
func (w *Workflow) Approve(ctx context.Context, run *Run, list *shopping.ShoppingList) (string, error) {
	if err := run.Apply(EventApprove); err != nil {
		return "", err
	}
	if w.placer == nil {
		err := fmt.Errorf("no delivery api configured")
		run.fail(err)
		return "", err
	}

	confirmation, err := w.placer.PlaceOrder(ctx, w.storeID, list.Items)
	if err != nil {
		err = fmt.Errorf("order placement failed: %w", err)
		run.fail(err)
		return "", err
	}

	if err := run.Apply(EventOrderPlaced); err != nil {
		return "", err
	}
	return confirmation, nil
}

// Reject ends the run without an order.
func (w *Workflow) Reject(run *Run) error {
	return run.Apply(EventReject)
}

func (w *Workflow) record(meta shared.CallMeta) {
	if w.recorder == nil {
		return
	}
	if err := w.recorder.RecordMeta(meta); err != nil {
		log.Printf("Warning: failed to record call metrics: %v", err)
	}
}
