package intake

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"
)

func TestIntakeRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`ON DUPLICATE KEY UPDATE`)).
		WithArgs(5, "Jane", "jane@example.com", "0400000000", "Analyst", "PM", "Finance", 8, "", "Grow", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewMySQLIntakeRepository(db).Upsert(context.Background(), domain.IntakeSubmission{
		OrderID: 5, FullName: "Jane", Email: "jane@example.com", Phone: "0400000000",
		CurrentRole: "Analyst", TargetRole: "PM", Industry: "Finance", YearsExperience: 8, CareerGoals: "Grow",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntakeRepository_FindByOrderID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	query := regexp.QuoteMeta(`FROM IntakeSubmissions`)

	now := time.Now()
	mock.ExpectQuery(query).WithArgs(5).WillReturnRows(sqlmock.NewRows([]string{
		"id", "orderId", "fullName", "email", "phone", "currentRole", "targetRole", "industry",
		"yearsExperience", "linkedinUrl", "careerGoals", "additionalInfo", "createdAt", "updatedAt",
	}).AddRow(1, 5, "Jane", "jane@example.com", "0400000000", "Analyst", "PM", "Finance", 8, "", "Grow", "", now, now))
	mock.ExpectQuery(query).WithArgs(6).WillReturnError(sql.ErrNoRows)

	repo := NewMySQLIntakeRepository(db)

	s, err := repo.FindByOrderID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Finance", s.Industry)

	_, err = repo.FindByOrderID(context.Background(), 6)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
