package mealplan

import (
	"os"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		plan := &WeekPlan{
			WeekStart: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Entries: []Entry{
				{Day: 1, Slot: SlotDinner, Dish: "Spaghetti"},
				{Day: 2, Slot: SlotLunch, Dish: ""},
				{Day: 7, Slot: SlotBreakfast, Dish: "Omelette"},
			},
		}
		if err := plan.Validate(); err != nil {
			t.Errorf("Expected plan to be valid, got %v", err)
		}
	})

	t.Run("BadDay", func(t *testing.T) {
		plan := &WeekPlan{Entries: []Entry{{Day: 8, Slot: SlotDinner, Dish: "Tacos"}}}
		if err := plan.Validate(); err == nil {
			t.Error("Expected an error for day 8, got nil")
		}
	})

	t.Run("BadSlot", func(t *testing.T) {
		plan := &WeekPlan{Entries: []Entry{{Day: 1, Slot: "Brunch", Dish: "Tacos"}}}
		if err := plan.Validate(); err == nil {
			t.Error("Expected an error for unknown slot, got nil")
		}
	})
}

func TestDishes(t *testing.T) {
	plan := &WeekPlan{
		Entries: []Entry{
			{Day: 1, Slot: SlotDinner, Dish: "Spaghetti"},
			{Day: 2, Slot: SlotDinner, Dish: ""},
			{Day: 3, Slot: SlotDinner, Dish: "Tacos"},
			{Day: 4, Slot: SlotDinner, Dish: "Spaghetti"},
		},
	}
	dishes := plan.Dishes()
	if len(dishes) != 3 {
		t.Fatalf("Expected 3 dishes (duplicates kept), got %v", dishes)
	}
	if dishes[0] != "Spaghetti" || dishes[1] != "Tacos" || dishes[2] != "Spaghetti" {
		t.Errorf("Unexpected dish order: %v", dishes)
	}
}

func TestWeekStartOf(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC), "2025-06-02"}, // Wednesday
		{time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), "2025-06-02"},  // Monday
		{time.Date(2025, 6, 8, 23, 0, 0, 0, time.UTC), "2025-06-02"}, // Sunday
	}
	for _, tt := range tests {
		if got := WeekStartOf(tt.date).Format("2006-01-02"); got != tt.want {
			t.Errorf("WeekStartOf(%s) = %s, want %s", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "mealplan_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	plan := &WeekPlan{
		WeekStart: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Entries: []Entry{
			{Day: 1, Slot: SlotDinner, Dish: "Spaghetti"},
		},
	}

	t.Run("LoadMissing", func(t *testing.T) {
		got, err := store.Load("2025-06-02")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil for missing plan, got %+v", got)
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		if err := store.Save(plan); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := store.Load("2025-06-02")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected a stored plan, got nil")
		}
		if len(got.Entries) != 1 || got.Entries[0].Dish != "Spaghetti" {
			t.Errorf("Unexpected plan: %+v", got)
		}
	})

	t.Run("SaveRejectsInvalid", func(t *testing.T) {
		bad := &WeekPlan{Entries: []Entry{{Day: 0, Slot: SlotDinner, Dish: "Tacos"}}}
		if err := store.Save(bad); err == nil {
			t.Error("Expected an error saving an invalid plan, got nil")
		}
	})

	t.Run("List", func(t *testing.T) {
		weeks, err := store.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(weeks) != 1 || weeks[0] != "2025-06-02" {
			t.Errorf("Unexpected weeks: %v", weeks)
		}
	})
}
