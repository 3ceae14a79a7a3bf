package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type Filter struct {
	Type     domain.ServiceType
	Category string
}

const selectServiceColumns = `
		SELECT id, slug, name, description, price, type, tier, category,
		       features, sortOrder, isActive, createdAt, updatedAt
		FROM Services`

func (r *MySQLRepository) FindActive(ctx context.Context, filter Filter) ([]domain.Service, error) {
	conditions := []string{"isActive = 1"}
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}

	query := selectServiceColumns + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY sortOrder ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service rows: %w", err)
	}

	return services, nil
}

func (r *MySQLRepository) FindBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	row := r.db.QueryRowContext(ctx, selectServiceColumns+` WHERE slug = ?`, slug)

	s, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("service %q not found", slug))
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id uint) (*domain.Service, error) {
	row := r.db.QueryRowContext(ctx, selectServiceColumns+` WHERE id = ?`, id)

	s, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("service with id %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert inserts the service or refreshes the row with the same slug.
func (r *MySQLRepository) Upsert(ctx context.Context, s domain.Service) error {
	features, err := json.Marshal(s.Features)
	if err != nil {
		return fmt.Errorf("encoding service features: %w", err)
	}

	query := `
		INSERT INTO Services (slug, name, description, price, type, tier, category, features, sortOrder, isActive)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name), description = VALUES(description), price = VALUES(price),
			type = VALUES(type), tier = VALUES(tier), category = VALUES(category),
			features = VALUES(features), sortOrder = VALUES(sortOrder), isActive = VALUES(isActive)`

	_, err = r.db.ExecContext(ctx, query,
		s.Slug, s.Name, s.Description, s.Price, string(s.Type), s.Tier, s.Category,
		features, s.SortOrder, s.IsActive,
	)
	if err != nil {
		return fmt.Errorf("upserting service %q: %w", s.Slug, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var (
		s        domain.Service
		typ      string
		features []byte
	)
	err := row.Scan(
		&s.ID, &s.Slug, &s.Name, &s.Description, &s.Price, &typ, &s.Tier, &s.Category,
		&features, &s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning service row: %w", err)
	}

	s.Type = domain.ServiceType(typ)
	if len(features) > 0 {
		if err := json.Unmarshal(features, &s.Features); err != nil {
			return nil, fmt.Errorf("decoding features of service %d: %w", s.ID, err)
		}
	}

	return &s, nil
}
