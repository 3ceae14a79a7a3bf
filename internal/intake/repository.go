package intake

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"inkwell/internal/domain"
	"inkwell/internal/errors"
)

type MySQLIntakeRepository struct {
	db *sql.DB
}

func NewMySQLIntakeRepository(db *sql.DB) *MySQLIntakeRepository {
	return &MySQLIntakeRepository{db: db}
}

// Upsert stores the submission for its order, replacing any earlier one.
func (r *MySQLIntakeRepository) Upsert(ctx context.Context, s domain.IntakeSubmission) error {
	query := `
		INSERT INTO IntakeSubmissions (orderId, fullName, email, phone, currentRole, targetRole,
		                               industry, yearsExperience, linkedinUrl, careerGoals, additionalInfo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			fullName = VALUES(fullName), email = VALUES(email), phone = VALUES(phone),
			currentRole = VALUES(currentRole), targetRole = VALUES(targetRole), industry = VALUES(industry),
			yearsExperience = VALUES(yearsExperience), linkedinUrl = VALUES(linkedinUrl),
			careerGoals = VALUES(careerGoals), additionalInfo = VALUES(additionalInfo)`

	_, err := r.db.ExecContext(ctx, query,
		s.OrderID, s.FullName, s.Email, s.Phone, s.CurrentRole, s.TargetRole,
		s.Industry, s.YearsExperience, s.LinkedInURL, s.CareerGoals, s.AdditionalInfo,
	)
	if err != nil {
		return fmt.Errorf("upserting intake for order %d: %w", s.OrderID, err)
	}
	return nil
}

func (r *MySQLIntakeRepository) FindByOrderID(ctx context.Context, orderID uint) (*domain.IntakeSubmission, error) {
	query := `
		SELECT id, orderId, fullName, email, phone, currentRole, targetRole, industry,
		       yearsExperience, linkedinUrl, careerGoals, additionalInfo, createdAt, updatedAt
		FROM IntakeSubmissions
		WHERE orderId = ?`

	var s domain.IntakeSubmission
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&s.ID, &s.OrderID, &s.FullName, &s.Email, &s.Phone, &s.CurrentRole, &s.TargetRole, &s.Industry,
		&s.YearsExperience, &s.LinkedInURL, &s.CareerGoals, &s.AdditionalInfo, &s.CreatedAt, &s.UpdatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no intake submission for order %d", orderID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying intake for order %d: %w", orderID, err)
	}
	return &s, nil
}
