package acceptance_tests

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"grocery-planner/internal/app"
	"grocery-planner/internal/config"
	"grocery-planner/internal/database"
	"grocery-planner/internal/ingredient"
	"grocery-planner/internal/llm"
	"grocery-planner/internal/mealplan"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/pantry"
	"grocery-planner/internal/shared"
	"grocery-planner/internal/shopping"
	"grocery-planner/internal/workflow"
)

// --- Mock LLM Client ---
type mockLLMClient struct {
	generateContentCalls int
}

func (m *mockLLMClient) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.generateContentCalls++

	usage := shared.TokenUsage{PromptTokens: 50, CompletionTokens: 20, TotalTokens: 70, Model: "mock"}

	var content string
	switch {
	case strings.Contains(prompt, "Spaghetti"):
		content = `{"ingredients": [
			{"name": "pasta", "quantity": 400, "unit": "g"},
			{"name": "tomatoes", "quantity": 3, "unit": "count"}
		]}`
	case strings.Contains(prompt, "Tacos"):
		content = `{"ingredients": [
			{"name": "tomato", "quantity": 2, "unit": "count"},
			{"name": "beef", "quantity": 300, "unit": "g"}
		]}`
	default:
		content = `{"ingredients": []}`
	}
	return llm.ContentResponse{Content: content, Usage: usage}, nil
}

func (m *mockLLMClient) Close() error {
	return nil
}

// --- Mock Order Placer ---
type mockPlacer struct {
	calls int
}

func (m *mockPlacer) PlaceOrder(ctx context.Context, storeID string, items []shopping.ShoppingListItem) (string, error) {
	m.calls++
	return "ORD-ACCEPT-1", nil
}

// --- Acceptance Test ---
func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()

	// 1. Set up a temporary directory for storage
	tempDir, err := os.MkdirTemp("", "acceptance_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	db, err := database.NewDB(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	planStore, err := mealplan.NewStore(filepath.Join(tempDir, "plans"))
	if err != nil {
		t.Fatalf("Failed to create plan store: %v", err)
	}

	// 2. Initialize mocks and real stores
	llmClient := &mockLLMClient{}
	placer := &mockPlacer{}
	pantryStore := pantry.NewRepository(db.SQL)
	listRepo := shopping.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	extractor := ingredient.NewExtractor(llmClient)
	wf := workflow.New(extractor, pantryStore, listRepo, metricsStore, placer, "store-1")

	application := app.NewApp(&config.Config{}, db, planStore, pantryStore, listRepo, metricsStore, wf, nil)

	// --- 3. Step 1: Plan the current week ---
	t.Log("--- Step 1: Building the week plan ---")
	week := application.CurrentWeekStart()
	if _, err := application.AddPlanEntry(week, 1, mealplan.SlotDinner, "Spaghetti"); err != nil {
		t.Fatalf("Failed to add Spaghetti: %v", err)
	}
	if _, err := application.AddPlanEntry(week, 2, mealplan.SlotDinner, "Tacos"); err != nil {
		t.Fatalf("Failed to add Tacos: %v", err)
	}

	// --- 4. Step 2: Stock the pantry ---
	t.Log("--- Step 2: Stocking the pantry ---")
	if err := application.SetPantryItem(ctx, "tomato", 4, "count"); err != nil {
		t.Fatalf("Failed to stock tomatoes: %v", err)
	}

	// --- 5. Step 3: Generate the shopping list ---
	t.Log("--- Step 3: Generating the shopping list ---")
	list, run, err := application.GenerateList(ctx)
	if err != nil {
		t.Fatalf("List generation failed: %v", err)
	}

	if llmClient.generateContentCalls != 2 {
		t.Errorf("Expected 1 LLM call per dish (2 total), got %d", llmClient.generateContentCalls)
	}
	if run.State() != workflow.StateExtracted {
		t.Errorf("Expected run state Extracted, got %s", run.State())
	}
	if len(list.Items) != 3 {
		t.Fatalf("Expected beef, pasta and tomato, got %+v", list.Items)
	}

	// "tomatoes" and "tomato" must have merged: 5 needed, 4 in the pantry.
	tomato := list.Items[2]
	if tomato.Name != "tomato" || tomato.Needed != 5 || tomato.Have != 4 || tomato.ToBuy != 1 {
		t.Errorf("Unexpected tomato aggregation: %+v", tomato)
	}
	if tomato.Status != shopping.StatusShort {
		t.Errorf("Expected tomato to be short, got %s", tomato.Status)
	}

	// The list must be retrievable by period.
	stored, err := application.GetList(ctx, list.PeriodID)
	if err != nil {
		t.Fatalf("Failed to reload list: %v", err)
	}
	if stored == nil || len(stored.Items) != 3 {
		t.Fatalf("Expected the persisted list back, got %+v", stored)
	}

	// --- 6. Step 4: Review and approve ---
	t.Log("--- Step 4: Approving and ordering ---")
	if err := wf.RequestReview(run); err != nil {
		t.Fatalf("RequestReview failed: %v", err)
	}
	confirmation, err := wf.Approve(ctx, run, stored)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if confirmation != "ORD-ACCEPT-1" {
		t.Errorf("Expected confirmation 'ORD-ACCEPT-1', got '%s'", confirmation)
	}
	if run.State() != workflow.StateOrdered {
		t.Errorf("Expected run state Ordered, got %s", run.State())
	}
	if placer.calls != 1 {
		t.Errorf("Expected exactly one order placement, got %d", placer.calls)
	}

	// --- 7. Metrics were recorded for both extractions ---
	usage, err := metricsStore.GetDailyUsage(1)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 || usage[0].TotalExecution != 2 {
		t.Errorf("Expected 2 recorded executions today, got %+v", usage)
	}
}
