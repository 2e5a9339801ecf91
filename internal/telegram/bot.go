// Package telegram exposes the planner over a Telegram webhook bot: list
// generation on demand, inline-keyboard review of the weekly shopping list,
// dish clipping from URLs and a usage report for the admin.
package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"grocery-planner/internal/clipper"
	"grocery-planner/internal/config"
	"grocery-planner/internal/mealplan"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/pantry"
	"grocery-planner/internal/shared"
	"grocery-planner/internal/shopping"
	"grocery-planner/internal/workflow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Approval states persisted in pending_approvals.
const (
	StateAwaitingDecision = "awaiting_decision"
	StateApproved         = "approved"
	StateRejected         = "rejected"
)

// Bot wraps the Telegram API, the shopping workflow, and the Clipper.
type Bot struct {
	api          *tgbotapi.BotAPI
	workflow     *workflow.Workflow
	clipper      *clipper.Clipper
	metricsStore *metrics.Store
	cfg          *config.Config

	planStore   *mealplan.Store
	pantryStore pantry.Store
	listRepo    *shopping.Repository
	approvals   *ApprovalRepository
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	wf *workflow.Workflow,
	clip *clipper.Clipper,
	metricsStore *metrics.Store,
	planStore *mealplan.Store,
	pantryStore pantry.Store,
	listRepo *shopping.Repository,
	approvals *ApprovalRepository,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		workflow:     wf,
		clipper:      clip,
		metricsStore: metricsStore,
		cfg:          cfg,
		planStore:    planStore,
		pantryStore:  pantryStore,
		listRepo:     listRepo,
		approvals:    approvals,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		if !b.isAllowed(update.CallbackQuery.From.ID) {
			log.Printf("⚠️ Unauthorized callback from UserID: %d", update.CallbackQuery.From.ID)
			return
		}
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch {
	case msg.Text == "/generate":
		b.handleGenerateRequest(msg)
	case msg.Text == "/list" || strings.HasPrefix(msg.Text, "/list "):
		b.handleListRequest(msg)
	case msg.Text == "/pantry":
		b.handlePantryRequest(msg)
	case msg.Text == "/status":
		b.handleStatusCommand(msg.Chat.ID)
	case strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://"):
		b.handleClipperRequest(msg)
	default:
		b.sendMarkdown(msg.Chat.ID, "Commands: /generate, /list [period], /pantry, /status — or send a recipe URL to clip it.")
	}
}

func (b *Bot) handleGenerateRequest(msg *tgbotapi.Message) {
	statusText := "🛒 *Generating shopping list...* \n(Extracting ingredients and checking the pantry)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()

	weekStart := mealplan.WeekStartOf(time.Now()).Format("2006-01-02")
	plan, err := b.planStore.Load(weekStart)
	if err == nil && plan == nil {
		err = fmt.Errorf("no meal plan saved for week starting %s", weekStart)
	}
	if err != nil {
		b.editWithError(msg.Chat.ID, sentMsg.MessageID, "Error loading meal plan", err)
		return
	}

	list, run, err := b.workflow.GenerateList(ctx, plan)
	if err != nil {
		b.editWithError(msg.Chat.ID, sentMsg.MessageID, "Error generating shopping list", err)
		return
	}

	if err := b.workflow.RequestReview(run); err != nil {
		b.editWithError(msg.Chat.ID, sentMsg.MessageID, "Error requesting review", err)
		return
	}

	listText := formatListMarkdown(list)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve & Order", "approve|"+list.PeriodID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", "reject|"+list.PeriodID),
		),
	)

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, listText)
	edit.ParseMode = "Markdown"
	edit.ReplyMarkup = &keyboard
	b.api.Send(edit)

	if _, err := b.approvals.Create(ctx, list.PeriodID, msg.Chat.ID, sentMsg.MessageID, StateAwaitingDecision); err != nil {
		log.Printf("Warning: failed to record pending approval for %s: %v", list.PeriodID, err)
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	data := query.Data // "approve|2025-W23" or "reject|2025-W23"

	parts := strings.Split(data, "|")
	if len(parts) < 2 {
		return
	}

	action := parts[0]
	periodID := parts[1]

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	approval, err := b.approvals.GetByPeriod(ctx, periodID)
	if err != nil {
		log.Printf("Error loading approval for %s: %v", periodID, err)
		return
	}
	if approval == nil || approval.State != StateAwaitingDecision {
		b.editMarkdown(query.Message.Chat.ID, query.Message.MessageID,
			fmt.Sprintf("⏳ The list for *%s* was already decided.", periodID))
		return
	}

	list, err := b.listRepo.GetByPeriod(ctx, periodID)
	if err == nil && list == nil {
		err = fmt.Errorf("no shopping list stored for %s", periodID)
	}
	if err != nil {
		b.editWithError(query.Message.Chat.ID, query.Message.MessageID, "Error loading shopping list", err)
		return
	}

	// The webhook process may have restarted since the list was generated,
	// so replay the run up to the reviewed stage.
	run := workflow.NewRun(periodID)
	run.Apply(workflow.EventExtractionDone)
	run.Apply(workflow.EventReviewRequested)

	switch action {
	case "approve":
		confirmation, err := b.workflow.Approve(ctx, run, list)
		if err != nil {
			b.approvals.UpdateState(ctx, approval.ID, StateRejected)
			b.editWithError(query.Message.Chat.ID, query.Message.MessageID, "Error placing order", err)
			return
		}
		b.approvals.UpdateState(ctx, approval.ID, StateApproved)
		b.editMarkdown(query.Message.Chat.ID, query.Message.MessageID,
			fmt.Sprintf("✅ *Order placed for %s*\nConfirmation: `%s`", periodID, confirmation))
	case "reject":
		if err := b.workflow.Reject(run); err != nil {
			log.Printf("Error rejecting run %s: %v", periodID, err)
		}
		b.approvals.UpdateState(ctx, approval.ID, StateRejected)
		b.editMarkdown(query.Message.Chat.ID, query.Message.MessageID,
			fmt.Sprintf("❌ *List for %s rejected.* No order was placed.", periodID))
	}
}

func (b *Bot) handleListRequest(msg *tgbotapi.Message) {
	ctx := context.Background()

	periodID := strings.TrimSpace(strings.TrimPrefix(msg.Text, "/list"))
	if periodID == "" {
		periodID = shopping.PeriodID(time.Now())
	}

	list, err := b.listRepo.GetByPeriod(ctx, periodID)
	if err != nil {
		b.sendMarkdown(msg.Chat.ID, fmt.Sprintf("❌ Error fetching list for %s.", periodID))
		return
	}
	if list == nil {
		b.sendMarkdown(msg.Chat.ID, fmt.Sprintf("No shopping list stored for *%s*. Use /generate first.", periodID))
		return
	}

	b.sendMarkdown(msg.Chat.ID, formatListMarkdown(list))
}

func (b *Bot) handlePantryRequest(msg *tgbotapi.Message) {
	ctx := context.Background()

	items, err := b.pantryStore.Inventory(ctx)
	if err != nil {
		b.sendMarkdown(msg.Chat.ID, "❌ Error fetching pantry inventory.")
		return
	}

	b.sendMarkdown(msg.Chat.ID, formatPantryMarkdown(items))
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	statusText := "✂️ *Clipping dish...* \n(Extracting title and ingredients)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()

	dish, meta, err := b.clipper.ClipURL(ctx, msg.Text)
	b.recordMeta(meta)
	if err != nil {
		log.Printf("Error clipping dish: %v", err)
		b.editWithError(msg.Chat.ID, sentMsg.MessageID, "Error clipping dish", err)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ *Dish clipped: %s*\n\n*Ingredients:*\n", dish.Title))
	for _, line := range dish.Lines {
		sb.WriteString(fmt.Sprintf("• %s\n", line))
	}
	sb.WriteString(fmt.Sprintf("\nAdd it to a plan with: `plan add %s`", dish.Title))
	b.editMarkdown(msg.Chat.ID, sentMsg.MessageID, sb.String())
}

func (b *Bot) handleStatusCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d calls)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	b.sendMarkdown(chatID, sb.String())
}

func formatListMarkdown(list *shopping.ShoppingList) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *%s*\n\n", shopping.ListTitle(list.PeriodID)))

	for _, item := range list.Items {
		var icon string
		switch item.Status {
		case shopping.StatusHave:
			icon = "✅"
		case shopping.StatusShort:
			icon = "🟡"
		default:
			icon = "🔴"
		}

		qty := formatQty(item.ToBuy)
		if item.Status == shopping.StatusHave {
			qty = "stocked"
		} else if item.Unit != "" {
			qty = fmt.Sprintf("%s %s", qty, item.Unit)
		}

		sb.WriteString(fmt.Sprintf("%s *%s*: %s", icon, item.Name, qty))
		if item.Approximate {
			sb.WriteString(" _(approx.)_")
		}
		sb.WriteString("\n")
	}

	if len(list.EmptyDishes) > 0 {
		sb.WriteString("\n⚠️ *No ingredients found for:*\n")
		for _, dish := range list.EmptyDishes {
			sb.WriteString(fmt.Sprintf("• %s\n", dish))
		}
	}

	return sb.String()
}

func formatPantryMarkdown(items []pantry.Item) string {
	var sb strings.Builder
	sb.WriteString("🥫 *Pantry Inventory*\n\n")
	if len(items) == 0 {
		sb.WriteString("_Empty_\n")
	}
	for _, item := range items {
		if item.Unit != "" {
			sb.WriteString(fmt.Sprintf("• %s: %s %s\n", item.Name, formatQty(item.Quantity), item.Unit))
		} else {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", item.Name, formatQty(item.Quantity)))
		}
	}
	return sb.String()
}

func formatQty(q float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", q), "0"), ".")
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) editMarkdown(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) editWithError(chatID int64, messageID int, context string, err error) {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	b.editMarkdown(chatID, messageID, fmt.Sprintf("❌ *%s:*\n```\n%v\n```", context, safeErr))
}

func (b *Bot) recordMeta(meta shared.CallMeta) {
	if b.metricsStore == nil {
		return
	}
	if err := b.metricsStore.RecordMeta(meta); err != nil {
		log.Printf("Warning: failed to record call metrics: %v", err)
	}
}
