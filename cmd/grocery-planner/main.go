package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"grocery-planner/internal/app"
	"grocery-planner/internal/clipper"
	"grocery-planner/internal/config"
	"grocery-planner/internal/database"
	"grocery-planner/internal/ingredient"
	"grocery-planner/internal/llm"
	"grocery-planner/internal/mealplan"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/order"
	"grocery-planner/internal/pantry"
	"grocery-planner/internal/shopping"
	"grocery-planner/internal/workflow"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var textGen llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		defer geminiClient.Close()
		textGen = geminiClient
	} else {
		textGen = llm.NewOpenAIClient(cfg)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	planStore, err := mealplan.NewStore(cfg.PlanPath)
	if err != nil {
		log.Fatalf("Failed to initialize plan store: %v", err)
	}

	pantryStore, err := buildPantryStore(ctx, cfg, db, os.Args)
	if err != nil {
		log.Fatalf("Failed to initialize pantry store: %v", err)
	}

	listRepo := shopping.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	var placer order.Placer
	if cfg.OrderingEnabled() {
		placer = order.NewClient(cfg)
	}

	extractor := ingredient.NewExtractor(textGen)
	wf := workflow.New(extractor, pantryStore, listRepo, metricsStore, placer, cfg.DeliveryStoreID)
	dishClipper := clipper.NewClipper(textGen)

	application := app.NewApp(cfg, db, planStore, pantryStore, listRepo, metricsStore, wf, dishClipper)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		runPlan(application, os.Args[2:])
	case "pantry":
		runPantry(ctx, application, os.Args[2:])
	case "generate":
		runGenerate(ctx, application)
	case "lists":
		runLists(ctx, application, os.Args[2:])
	case "clip":
		runClip(ctx, application, os.Args[2:])
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := application.CleanupMetrics(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// buildPantryStore picks the sqlite pantry by default and the Google Sheets
// store when the pantry subcommand is invoked with --sheets.
func buildPantryStore(ctx context.Context, cfg *config.Config, db *database.DB, args []string) (pantry.Store, error) {
	useSheets := false
	for _, arg := range args {
		if arg == "--sheets" || arg == "-sheets" {
			useSheets = true
		}
	}
	if !useSheets {
		return pantry.NewRepository(db.SQL), nil
	}
	if !cfg.SheetsEnabled() {
		return nil, fmt.Errorf("--sheets requires GOOGLE_SHEETS_CREDENTIALS_PATH and GROCERIES_INVENTORY_SHEET_ID")
	}
	return pantry.NewSheetsStore(ctx, cfg.SheetsCredentialsPath, cfg.InventorySheetID)
}

func runPlan(application *app.App, args []string) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	week := planCmd.String("week", application.CurrentWeekStart(), "Week start date (Monday, 2006-01-02)")
	day := planCmd.Int("day", 1, "Day of week (1=Monday .. 7=Sunday)")
	slot := planCmd.String("slot", string(mealplan.SlotDinner), "Meal slot (Breakfast, Lunch, Dinner, Snack)")
	add := planCmd.String("add", "", "Dish to add to the plan")
	planCmd.Parse(args)

	if *add != "" {
		plan, err := application.AddPlanEntry(*week, *day, mealplan.Slot(*slot), *add)
		if err != nil {
			log.Fatalf("Failed to add plan entry: %v", err)
		}
		fmt.Printf("Added %q to week %s (%d entries).\n", *add, *week, len(plan.Entries))
		return
	}

	plan, err := application.LoadPlan(*week)
	if err != nil {
		log.Fatalf("Failed to load plan: %v", err)
	}
	if plan == nil {
		fmt.Printf("No plan stored for week %s.\n", *week)
		weeks, err := application.ListPlans()
		if err == nil && len(weeks) > 0 {
			fmt.Printf("Stored weeks: %s\n", strings.Join(weeks, ", "))
		}
		return
	}

	fmt.Printf("Week plan starting %s:\n", plan.WeekStart.Format("2006-01-02"))
	for _, entry := range plan.Entries {
		fmt.Printf("  day %d %-9s %s\n", entry.Day, entry.Slot, entry.Dish)
	}
}

func runPantry(ctx context.Context, application *app.App, args []string) {
	pantryCmd := flag.NewFlagSet("pantry", flag.ExitOnError)
	set := pantryCmd.String("set", "", "Item name to create or overwrite")
	qty := pantryCmd.Float64("qty", 0, "Quantity for --set")
	unit := pantryCmd.String("unit", "", "Unit for --set")
	remove := pantryCmd.String("remove", "", "Item name to remove")
	pantryCmd.Bool("sheets", false, "Target the Google Sheets pantry store")
	pantryCmd.Parse(args)

	switch {
	case *set != "":
		if err := application.SetPantryItem(ctx, *set, *qty, *unit); err != nil {
			log.Fatalf("Failed to set pantry item: %v", err)
		}
		fmt.Printf("Set %s = %g %s\n", *set, *qty, *unit)
	case *remove != "":
		if err := application.RemovePantryItem(ctx, *remove); err != nil {
			log.Fatalf("Failed to remove pantry item: %v", err)
		}
		fmt.Printf("Removed %s\n", *remove)
	default:
		items, err := application.PantryItems(ctx)
		if err != nil {
			log.Fatalf("Failed to list pantry: %v", err)
		}
		if len(items) == 0 {
			fmt.Println("Pantry is empty.")
			return
		}
		for _, item := range items {
			fmt.Printf("  %-20s %g %s\n", item.Name, item.Quantity, item.Unit)
		}
	}
}

func runGenerate(ctx context.Context, application *app.App) {
	list, run, err := application.GenerateList(ctx)
	if err != nil {
		log.Fatalf("Failed to generate shopping list: %v", err)
	}

	fmt.Printf("%s (run state: %s)\n", shopping.ListTitle(list.PeriodID), run.State())
	printList(list)
}

func runLists(ctx context.Context, application *app.App, args []string) {
	if len(args) == 0 {
		periods, err := application.ListPeriods(ctx)
		if err != nil {
			log.Fatalf("Failed to list periods: %v", err)
		}
		if len(periods) == 0 {
			fmt.Println("No shopping lists stored.")
			return
		}
		for _, p := range periods {
			fmt.Println(p)
		}
		return
	}

	list, err := application.GetList(ctx, args[0])
	if err != nil {
		log.Fatalf("Failed to load shopping list: %v", err)
	}
	if list == nil {
		fmt.Printf("No shopping list stored for %s.\n", args[0])
		return
	}
	fmt.Println(shopping.ListTitle(list.PeriodID))
	printList(list)
}

func printList(list *shopping.ShoppingList) {
	for _, item := range list.Items {
		marker := " "
		if item.Approximate {
			marker = "~"
		}
		fmt.Printf("  [%-7s] %-20s need %g%s have %g%s buy %s%g %s\n",
			item.Status, item.Name, item.Needed, unitSuffix(item.Unit), item.Have, unitSuffix(item.Unit), marker, item.ToBuy, item.Unit)
	}
	if len(list.EmptyDishes) > 0 {
		fmt.Printf("  no ingredients found for: %s\n", strings.Join(list.EmptyDishes, ", "))
	}
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}

func runClip(ctx context.Context, application *app.App, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: grocery-planner clip <url>")
		os.Exit(1)
	}

	dish, err := application.ClipDish(ctx, args[0])
	if err != nil {
		log.Fatalf("Failed to clip dish: %v", err)
	}

	fmt.Printf("Clipped: %s\n", dish.Title)
	for _, line := range dish.Lines {
		fmt.Printf("  - %s\n", line)
	}
}

func printUsage() {
	fmt.Println("Usage: grocery-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan             Show the week plan, or add a dish with --add")
	fmt.Println("  pantry           List inventory, --set/--remove items, --sheets for Google Sheets")
	fmt.Println("  generate         Run extraction and aggregation for the current week's plan")
	fmt.Println("  lists            Show stored shopping list periods, or one list by period ID")
	fmt.Println("  clip             Import a dish from a recipe URL")
	fmt.Println("  metrics-cleanup  Remove old metric records")
}
