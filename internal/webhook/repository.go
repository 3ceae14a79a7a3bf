package webhook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MySQLEventRepository remembers which PayPal event ids were handled.
type MySQLEventRepository struct {
	db *sql.DB
}

func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}

func (r *MySQLEventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM WebhookEvents WHERE eventId = ?`, eventID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking webhook event %s: %w", eventID, err)
	}
	return true, nil
}

// Record is idempotent; a second insert of the same id is ignored.
func (r *MySQLEventRepository) Record(ctx context.Context, eventID, eventType string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO WebhookEvents (eventId, eventType) VALUES (?, ?)`,
		eventID, eventType,
	)
	if err != nil {
		return fmt.Errorf("recording webhook event %s: %w", eventID, err)
	}
	return nil
}
