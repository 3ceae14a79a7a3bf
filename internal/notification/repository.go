package notification

import (
	"context"
	"database/sql"
	"fmt"

	"inkwell/internal/domain"
)

type MySQLEmailLogRepository struct {
	db *sql.DB
}

func NewMySQLEmailLogRepository(db *sql.DB) *MySQLEmailLogRepository {
	return &MySQLEmailLogRepository{db: db}
}

func (r *MySQLEmailLogRepository) Insert(ctx context.Context, log domain.EmailLog) error {
	query := `
		INSERT INTO EmailLogs (orderId, recipient, subject, template, status, errorMessage)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		log.OrderID, log.Recipient, log.Subject, log.Template, string(log.Status), log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("inserting email log: %w", err)
	}
	return nil
}

// FindAll returns the newest logs first.
func (r *MySQLEmailLogRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.EmailLog, error) {
	query := `
		SELECT id, orderId, recipient, subject, template, status, errorMessage, createdAt
		FROM EmailLogs
		ORDER BY createdAt DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying email logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.EmailLog{}
	for rows.Next() {
		var (
			l       domain.EmailLog
			orderID sql.NullInt64
			status  string
			errMsg  sql.NullString
		)
		if err := rows.Scan(&l.ID, &orderID, &l.Recipient, &l.Subject, &l.Template, &status, &errMsg, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning email log: %w", err)
		}
		if orderID.Valid {
			v := uint(orderID.Int64)
			l.OrderID = &v
		}
		if errMsg.Valid {
			v := errMsg.String
			l.ErrorMessage = &v
		}
		l.Status = domain.EmailStatus(status)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating email logs: %w", err)
	}
	return logs, nil
}
