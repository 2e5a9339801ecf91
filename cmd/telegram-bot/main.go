package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"grocery-planner/internal/telegram"
	"grocery-planner/internal/workflow"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize Infrastructure (LLM)
	var textGen llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		textGen = geminiClient
	} else {
		textGen = llm.NewOpenAIClient(cfg)
	}

	// 3. Initialize the SQLite database and repositories
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	listRepo := shopping.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	approvals := telegram.NewApprovalRepository(db.SQL)

	planStore, err := mealplan.NewStore(cfg.PlanPath)
	if err != nil {
		log.Fatalf("Failed to initialize plan store: %v", err)
	}

	var pantryStore pantry.Store = pantry.NewRepository(db.SQL)
	if cfg.SheetsEnabled() {
		sheetsStore, err := pantry.NewSheetsStore(ctx, cfg.SheetsCredentialsPath, cfg.InventorySheetID)
		if err != nil {
			log.Fatalf("Failed to initialize Sheets pantry store: %v", err)
		}
		pantryStore = sheetsStore
	}

	// 4. Initialize Services
	var placer order.Placer
	if cfg.OrderingEnabled() {
		placer = order.NewClient(cfg)
	}

	extractor := ingredient.NewExtractor(textGen)
	wf := workflow.New(extractor, pantryStore, listRepo, metricsStore, placer, cfg.DeliveryStoreID)
	dishClipper := clipper.NewClipper(textGen)

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, wf, dishClipper, metricsStore, planStore, pantryStore, listRepo, approvals)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 6. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
