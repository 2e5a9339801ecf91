// Package app holds the orchestration facade the CLI drives: week plan
// editing, pantry maintenance, list generation and dish clipping.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"grocery-planner/internal/clipper"
	"grocery-planner/internal/config"
	"grocery-planner/internal/database"
	"grocery-planner/internal/mealplan"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/pantry"
	"grocery-planner/internal/shopping"
	"grocery-planner/internal/workflow"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	db           *database.DB
	planStore    *mealplan.Store
	pantryStore  pantry.Store
	listRepo     *shopping.Repository
	metricsStore *metrics.Store
	workflow     *workflow.Workflow
	dishClipper  *clipper.Clipper
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	planStore *mealplan.Store,
	pantryStore pantry.Store,
	listRepo *shopping.Repository,
	metricsStore *metrics.Store,
	wf *workflow.Workflow,
	dishClipper *clipper.Clipper,
) *App {
	return &App{
		cfg:          cfg,
		db:           db,
		planStore:    planStore,
		pantryStore:  pantryStore,
		listRepo:     listRepo,
		metricsStore: metricsStore,
		workflow:     wf,
		dishClipper:  dishClipper,
	}
}

// CurrentWeekStart returns the plan key for the week containing now.
func (a *App) CurrentWeekStart() string {
	return mealplan.WeekStartOf(time.Now()).Format("2006-01-02")
}

// LoadPlan retrieves the plan for a week start date ("2006-01-02"). Returns
// nil when no plan is stored.
func (a *App) LoadPlan(weekStart string) (*mealplan.WeekPlan, error) {
	return a.planStore.Load(weekStart)
}

// AddPlanEntry adds a dish to the given week's plan, creating the plan file
// if the week has none yet.
func (a *App) AddPlanEntry(weekStart string, day int, slot mealplan.Slot, dish string) (*mealplan.WeekPlan, error) {
	plan, err := a.planStore.Load(weekStart)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		start, err := time.Parse("2006-01-02", weekStart)
		if err != nil {
			return nil, fmt.Errorf("invalid week start %q: %w", weekStart, err)
		}
		plan = &mealplan.WeekPlan{WeekStart: mealplan.WeekStartOf(start)}
	}

	plan.Entries = append(plan.Entries, mealplan.Entry{Day: day, Slot: slot, Dish: dish})
	if err := a.planStore.Save(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ListPlans returns the week start dates of all stored plans.
func (a *App) ListPlans() ([]string, error) {
	return a.planStore.List()
}

// GenerateList runs the shopping workflow for the current week's plan.
func (a *App) GenerateList(ctx context.Context) (*shopping.ShoppingList, *workflow.Run, error) {
	weekStart := a.CurrentWeekStart()
	plan, err := a.planStore.Load(weekStart)
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, fmt.Errorf("no meal plan saved for week starting %s", weekStart)
	}
	return a.workflow.GenerateList(ctx, plan)
}

// PantryItems returns the pantry inventory sorted by name.
func (a *App) PantryItems(ctx context.Context) ([]pantry.Item, error) {
	return a.pantryStore.Inventory(ctx)
}

// SetPantryItem creates or overwrites a pantry item.
func (a *App) SetPantryItem(ctx context.Context, name string, quantity float64, unit string) error {
	if name == "" {
		return fmt.Errorf("pantry item needs a name")
	}
	if quantity < 0 {
		return fmt.Errorf("pantry quantity cannot be negative")
	}
	return a.pantryStore.Upsert(ctx, pantry.Item{Name: name, Quantity: quantity, Unit: unit})
}

// RemovePantryItem deletes a pantry item. Removing an absent item is not an
// error.
func (a *App) RemovePantryItem(ctx context.Context, name string) error {
	return a.pantryStore.Remove(ctx, name)
}

// ListPeriods returns the period IDs of all stored shopping lists.
func (a *App) ListPeriods(ctx context.Context) ([]string, error) {
	return a.listRepo.ListPeriods(ctx)
}

// GetList retrieves a stored shopping list by period ID. Returns nil when
// none exists.
func (a *App) GetList(ctx context.Context, periodID string) (*shopping.ShoppingList, error) {
	return a.listRepo.GetByPeriod(ctx, periodID)
}

// ClipDish imports a dish from a recipe URL.
func (a *App) ClipDish(ctx context.Context, url string) (*clipper.ClippedDish, error) {
	dish, meta, err := a.dishClipper.ClipURL(ctx, url)
	if recErr := a.metricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record call metrics: %v", recErr)
	}
	if err != nil {
		return nil, err
	}
	return dish, nil
}

// CleanupMetrics removes metric records older than the given number of days.
func (a *App) CleanupMetrics(days int) (int64, error) {
	return a.metricsStore.Cleanup(days)
}
