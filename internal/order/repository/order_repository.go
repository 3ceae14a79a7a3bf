package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/errors"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Filter narrows FindAll. A zero Status matches every status.
type Filter struct {
	Status domain.OrderStatus
	Limit  int
	Offset int
}

const selectOrders = `
		SELECT id, userId, packageName, amount, currency, status, customerName, customerEmail,
		       customerPhone, promoCode, discountAmount, paypalOrderId, paypalPayerId, createdAt, updatedAt
		FROM Orders`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order         domain.Order
		status        string
		userID        sql.NullString
		promoCode     sql.NullString
		paypalOrderID sql.NullString
		paypalPayerID sql.NullString
	)
	err := row.Scan(
		&order.ID, &userID, &order.PackageName, &order.Amount, &order.Currency, &status,
		&order.CustomerName, &order.CustomerEmail, &order.CustomerPhone, &promoCode,
		&order.DiscountAmount, &paypalOrderID, &paypalPayerID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)
	order.UserID = nullableString(userID)
	order.PromoCode = nullableString(promoCode)
	order.PayPalOrderID = nullableString(paypalOrderID)
	order.PayPalPayerID = nullableString(paypalPayerID)
	return &order, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, order domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (userId, packageName, amount, currency, status, customerName,
		                    customerEmail, customerPhone, promoCode, discountAmount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		order.UserID, order.PackageName, order.Amount, order.Currency, string(order.Status),
		order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.PromoCode, order.DiscountAmount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(id), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return r.findOne(ctx, r.db, selectOrders+` WHERE id = ?`, id,
		fmt.Sprintf("order with id %d not found", id))
}

// FindByIDForUpdate locks the row for the rest of tx.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	return r.findOne(ctx, tx, selectOrders+` WHERE id = ? FOR UPDATE`, id,
		fmt.Sprintf("order with id %d not found", id))
}

func (r *MySQLOrderRepository) FindByPayPalOrderID(ctx context.Context, paypalOrderID string) (*domain.Order, error) {
	return r.findOne(ctx, r.db, selectOrders+` WHERE paypalOrderId = ?`, paypalOrderID,
		fmt.Sprintf("order with paypal order id %s not found", paypalOrderID))
}

func (r *MySQLOrderRepository) findOne(ctx context.Context, q Querier, query string, arg interface{}, notFound string) (*domain.Order, error) {
	order, err := scanOrder(q.QueryRowContext(ctx, query, arg))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order: %w", err)
	}
	return order, nil
}

func (r *MySQLOrderRepository) SetPayPalOrderID(ctx context.Context, id uint, paypalOrderID string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE Orders SET paypalOrderId = ? WHERE id = ?`, paypalOrderID, id)
	if err != nil {
		return fmt.Errorf("storing paypal order id: %w", err)
	}
	return expectOrderRow(result, id)
}

func (r *MySQLOrderRepository) SetPayerID(ctx context.Context, tx *sql.Tx, id uint, payerID string) error {
	result, err := tx.ExecContext(ctx, `UPDATE Orders SET paypalPayerId = ? WHERE id = ?`, payerID, id)
	if err != nil {
		return fmt.Errorf("storing paypal payer id: %w", err)
	}
	return expectOrderRow(result, id)
}

// UpdateStatusIf moves the order to next only while it is still in expected.
// It returns domain.ErrStatusMismatch when another writer got there first.
func (r *MySQLOrderRepository) UpdateStatusIf(ctx context.Context, tx *sql.Tx, id uint, expected, next domain.OrderStatus) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE Orders SET status = ? WHERE id = ? AND status = ?`,
		string(next), id, string(expected))
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 1 {
		return nil
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM Orders WHERE id = ?`, id).Scan(&exists)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return fmt.Errorf("checking order existence: %w", err)
	}
	return domain.ErrStatusMismatch
}

// FindAll returns one page of orders, newest first, and the total count for
// the filter.
func (r *MySQLOrderRepository) FindAll(ctx context.Context, filter Filter) ([]domain.Order, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Orders`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset)
	orders, err := r.query(ctx, selectOrders+clause+` ORDER BY createdAt DESC, id DESC LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *MySQLOrderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.query(ctx, selectOrders+` WHERE userId = ? ORDER BY createdAt DESC, id DESC`, userID)
}

func (r *MySQLOrderRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	return orders, nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}
	return expectOrderRow(result, id)
}

func (r *MySQLOrderRepository) Statistics(ctx context.Context) (*domain.OrderStatistics, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
		FROM Orders
		GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("querying order statistics: %w", err)
	}
	defer rows.Close()

	var stats domain.OrderStatistics
	for rows.Next() {
		var (
			status string
			count  int
			sum    float64
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, fmt.Errorf("scanning statistics row: %w", err)
		}
		stats.TotalOrders += count
		switch domain.OrderStatus(status) {
		case domain.OrderStatusPending:
			stats.PendingOrders = count
		case domain.OrderStatusCompleted:
			stats.CompletedOrders = count
			stats.TotalRevenue = domain.RoundCents(sum)
		case domain.OrderStatusCancelled:
			stats.CancelledOrders = count
		case domain.OrderStatusFailed:
			stats.FailedOrders = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating statistics rows: %w", err)
	}
	return &stats, nil
}

func expectOrderRow(result sql.Result, id uint) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	return nil
}
