package telegram

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"grocery-planner/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "approval_repo_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := database.NewDB(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApprovalRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewApprovalRepository(db.SQL)

	t.Run("CreateAndGet", func(t *testing.T) {
		id, err := repo.Create(ctx, "2025-W23", 1001, 42, StateAwaitingDecision)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if id == 0 {
			t.Fatal("Expected a non-zero ID")
		}

		pa, err := repo.GetByPeriod(ctx, "2025-W23")
		if err != nil {
			t.Fatalf("GetByPeriod failed: %v", err)
		}
		if pa == nil {
			t.Fatal("Expected an approval, got nil")
		}
		if pa.ChatID != 1001 || pa.MessageID != 42 || pa.State != StateAwaitingDecision {
			t.Errorf("Unexpected approval: %+v", pa)
		}
	})

	t.Run("GetMissingPeriod", func(t *testing.T) {
		pa, err := repo.GetByPeriod(ctx, "1999-W01")
		if err != nil {
			t.Fatalf("GetByPeriod failed: %v", err)
		}
		if pa != nil {
			t.Errorf("Expected nil for an unknown period, got %+v", pa)
		}
	})

	t.Run("UpdateState", func(t *testing.T) {
		id, err := repo.Create(ctx, "2025-W24", 1001, 43, StateAwaitingDecision)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := repo.UpdateState(ctx, id, StateApproved); err != nil {
			t.Fatalf("UpdateState failed: %v", err)
		}

		pa, err := repo.GetByPeriod(ctx, "2025-W24")
		if err != nil {
			t.Fatalf("GetByPeriod failed: %v", err)
		}
		if pa.State != StateApproved {
			t.Errorf("Expected state %q, got %q", StateApproved, pa.State)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		id, err := repo.Create(ctx, "2025-W25", 1001, 44, StateAwaitingDecision)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		pa, err := repo.GetByPeriod(ctx, "2025-W25")
		if err != nil {
			t.Fatalf("GetByPeriod failed: %v", err)
		}
		if pa != nil {
			t.Errorf("Expected approval to be gone, got %+v", pa)
		}
	})

	t.Run("CleanupStale", func(t *testing.T) {
		old := time.Now().UTC().Add(-48 * time.Hour)
		if _, err := db.SQL.ExecContext(ctx, `
			INSERT INTO pending_approvals (period_id, chat_id, message_id, state, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			"2025-W20", 1001, 45, StateAwaitingDecision, old,
		); err != nil {
			t.Fatalf("Failed to insert stale row: %v", err)
		}

		if err := repo.CleanupStale(ctx, 24*time.Hour); err != nil {
			t.Fatalf("CleanupStale failed: %v", err)
		}

		pa, err := repo.GetByPeriod(ctx, "2025-W20")
		if err != nil {
			t.Fatalf("GetByPeriod failed: %v", err)
		}
		if pa != nil {
			t.Errorf("Expected stale approval to be removed, got %+v", pa)
		}
	})
}
