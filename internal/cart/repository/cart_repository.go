package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"inkwell/internal/domain"
	"inkwell/internal/errors"
)

type MySQLCartRepository struct {
	db *sql.DB
}

func NewMySQLCartRepository(db *sql.DB) *MySQLCartRepository {
	return &MySQLCartRepository{db: db}
}

const selectCartItems = `
		SELECT ci.id, ci.ownerKey, ci.serviceId, ci.quantity, ci.createdAt, ci.updatedAt,
		       s.id, s.slug, s.name, s.description, s.price, s.type, s.tier, s.category,
		       s.features, s.sortOrder, s.isActive
		FROM CartItems ci
		JOIN Services s ON s.id = ci.serviceId`

func (r *MySQLCartRepository) FindByOwner(ctx context.Context, ownerKey string) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, selectCartItems+`
		WHERE ci.ownerKey = ?
		ORDER BY ci.id ASC`, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var (
			item     domain.CartItem
			typ      string
			features []byte
		)
		err := rows.Scan(
			&item.ID, &item.OwnerKey, &item.ServiceID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&item.Service.ID, &item.Service.Slug, &item.Service.Name, &item.Service.Description,
			&item.Service.Price, &typ, &item.Service.Tier, &item.Service.Category,
			&features, &item.Service.SortOrder, &item.Service.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning cart item row: %w", err)
		}
		item.Service.Type = domain.ServiceType(typ)
		if len(features) > 0 {
			if err := json.Unmarshal(features, &item.Service.Features); err != nil {
				return nil, fmt.Errorf("decoding service features: %w", err)
			}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart item rows: %w", err)
	}

	return items, nil
}

// AddOrIncrement adds a line or bumps the quantity of the existing line for
// the same service, capped at maxQuantity.
func (r *MySQLCartRepository) AddOrIncrement(ctx context.Context, ownerKey string, serviceID uint, quantity, maxQuantity int) error {
	query := `
		INSERT INTO CartItems (ownerKey, serviceId, quantity)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = LEAST(quantity + VALUES(quantity), ?)`

	if _, err := r.db.ExecContext(ctx, query, ownerKey, serviceID, quantity, maxQuantity); err != nil {
		return fmt.Errorf("adding cart item: %w", err)
	}
	return nil
}

func (r *MySQLCartRepository) UpdateQuantity(ctx context.Context, ownerKey string, itemID uint, quantity int) error {
	query := `UPDATE CartItems SET quantity = ? WHERE id = ? AND ownerKey = ?`

	result, err := r.db.ExecContext(ctx, query, quantity, itemID, ownerKey)
	if err != nil {
		return fmt.Errorf("updating cart item quantity: %w", err)
	}

	return expectRow(result, itemID)
}

func (r *MySQLCartRepository) Delete(ctx context.Context, ownerKey string, itemID uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM CartItems WHERE id = ? AND ownerKey = ?`, itemID, ownerKey)
	if err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
	}

	return expectRow(result, itemID)
}

func (r *MySQLCartRepository) DeleteByOwner(ctx context.Context, ownerKey string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM CartItems WHERE ownerKey = ?`, ownerKey); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// MoveOwner merges every line of fromKey into toKey inside tx, summing
// quantities for services both carts hold, then drops the source rows.
// It returns the number of lines moved.
func (r *MySQLCartRepository) MoveOwner(ctx context.Context, tx *sql.Tx, fromKey, toKey string, maxQuantity int) (int, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT serviceId, quantity FROM CartItems WHERE ownerKey = ? ORDER BY serviceId FOR UPDATE`, fromKey)
	if err != nil {
		return 0, fmt.Errorf("locking guest cart rows: %w", err)
	}

	type line struct {
		serviceID uint
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.serviceID, &l.quantity); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning guest cart row: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterating guest cart rows: %w", err)
	}
	rows.Close()

	for _, l := range lines {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO CartItems (ownerKey, serviceId, quantity)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = LEAST(quantity + VALUES(quantity), ?)`,
			toKey, l.serviceID, l.quantity, maxQuantity)
		if err != nil {
			return 0, fmt.Errorf("merging cart line for service %d: %w", l.serviceID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM CartItems WHERE ownerKey = ?`, fromKey); err != nil {
		return 0, fmt.Errorf("removing guest cart rows: %w", err)
	}

	return len(lines), nil
}

func expectRow(result sql.Result, itemID uint) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("cart item with id %d not found", itemID))
	}

	return nil
}
