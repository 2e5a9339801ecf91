package mealplan

import (
	"fmt"
	"time"
)

// Slot is a meal slot within a day.
type Slot string

const (
	SlotBreakfast Slot = "Breakfast"
	SlotLunch     Slot = "Lunch"
	SlotDinner    Slot = "Dinner"
	SlotSnack     Slot = "Snack"
)

var validSlots = map[Slot]bool{
	SlotBreakfast: true,
	SlotLunch:     true,
	SlotDinner:    true,
	SlotSnack:     true,
}

// Entry is one planned meal: a day of the week (1=Monday .. 7=Sunday), a
// slot, and a dish name. An empty dish means the slot is skipped.
type Entry struct {
	Day  int    `json:"day"`
	Slot Slot   `json:"slot"`
	Dish string `json:"dish"`
}

// WeekPlan is the full plan for one week.
type WeekPlan struct {
	WeekStart time.Time `json:"week_start"`
	Entries   []Entry   `json:"entries"`
}

// Validate checks entry days and slots. Empty dishes are allowed; they are
// skipped slots, not errors.
func (p *WeekPlan) Validate() error {
	for _, e := range p.Entries {
		if e.Day < 1 || e.Day > 7 {
			return fmt.Errorf("invalid day %d: must be 1..7", e.Day)
		}
		if !validSlots[e.Slot] {
			return fmt.Errorf("invalid meal slot %q", e.Slot)
		}
	}
	return nil
}

// Dishes returns the non-empty dish names in plan order. Duplicates are kept:
// cooking the same dish twice needs its ingredients twice.
func (p *WeekPlan) Dishes() []string {
	var dishes []string
	for _, e := range p.Entries {
		if e.Dish != "" {
			dishes = append(dishes, e.Dish)
		}
	}
	return dishes
}

// Ref is the plan's stable reference used when a shopping list records which
// plan produced it.
func (p *WeekPlan) Ref() string {
	return "plan-" + p.WeekStart.Format("2006-01-02")
}

// WeekStartOf returns the Monday of the week containing t.
func WeekStartOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}
