package mealplan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store provides file-based storage for week plans, one JSON file per week.
type Store struct {
	basePath string
}

// NewStore creates a new Store and ensures the base directory exists.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plan directory %s: %w", basePath, err)
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) planPath(plan *WeekPlan) string {
	filename := fmt.Sprintf("%s.json", plan.WeekStart.Format("2006-01-02"))
	return filepath.Join(s.basePath, filename)
}

// Save stores a week plan, overwriting any previous plan for the same week.
func (s *Store) Save(plan *WeekPlan) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid plan: %w", err)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := os.WriteFile(s.planPath(plan), data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// Load retrieves the plan whose week starts on the given date. Returns nil
// when no plan file exists for that week.
func (s *Store) Load(weekStart string) (*WeekPlan, error) {
	filePath := filepath.Join(s.basePath, weekStart+".json")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan WeekPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return &plan, nil
}

// List returns the week start dates of all stored plans, sorted by filename.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan directory: %w", err)
	}

	var weeks []string
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		weeks = append(weeks, name[:len(name)-len(".json")])
	}
	return weeks, nil
}
