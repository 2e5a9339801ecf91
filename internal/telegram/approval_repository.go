package telegram

import (
	"context"
	"database/sql"
	"time"
)

// PendingApproval tracks a shopping list awaiting a reviewer's decision,
// tied to the Telegram message carrying the Approve/Reject keyboard.
type PendingApproval struct {
	ID        int64
	PeriodID  string
	ChatID    int64
	MessageID int
	State     string
	CreatedAt time.Time
}

// ApprovalRepository provides access to pending approval persistence.
type ApprovalRepository struct {
	db *sql.DB
}

// NewApprovalRepository creates a new ApprovalRepository instance.
func NewApprovalRepository(db *sql.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// Create records a new pending approval and returns its ID.
func (ar *ApprovalRepository) Create(ctx context.Context, periodID string, chatID int64, messageID int, state string) (int64, error) {
	result, err := ar.db.ExecContext(ctx, `
		INSERT INTO pending_approvals (period_id, chat_id, message_id, state, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		periodID, chatID, messageID, state, time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetByPeriod retrieves the most recent approval for a period. Returns
// (nil, nil) when none exists.
func (ar *ApprovalRepository) GetByPeriod(ctx context.Context, periodID string) (*PendingApproval, error) {
	row := ar.db.QueryRowContext(ctx, `
		SELECT id, period_id, chat_id, message_id, state, created_at
		FROM pending_approvals
		WHERE period_id = ?
		ORDER BY created_at DESC
		LIMIT 1`,
		periodID,
	)

	var pa PendingApproval
	err := row.Scan(&pa.ID, &pa.PeriodID, &pa.ChatID, &pa.MessageID, &pa.State, &pa.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &pa, nil
}

// UpdateState updates the state for an approval.
func (ar *ApprovalRepository) UpdateState(ctx context.Context, id int64, state string) error {
	_, err := ar.db.ExecContext(ctx, `UPDATE pending_approvals SET state = ? WHERE id = ?`, state, id)
	return err
}

// Delete removes an approval.
func (ar *ApprovalRepository) Delete(ctx context.Context, id int64) error {
	_, err := ar.db.ExecContext(ctx, `DELETE FROM pending_approvals WHERE id = ?`, id)
	return err
}

// CleanupStale removes approvals older than the given age that never got a
// decision (optional maintenance task).
func (ar *ApprovalRepository) CleanupStale(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge)
	_, err := ar.db.ExecContext(ctx, `DELETE FROM pending_approvals WHERE created_at < ? AND state = ?`, cutoff, StateAwaitingDecision)
	return err
}
