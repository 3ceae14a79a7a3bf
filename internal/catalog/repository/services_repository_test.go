package repository

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
	"inkwell/internal/errors"
)

var serviceColumns = []string{
	"id", "slug", "name", "description", "price", "type", "tier", "category",
	"features", "sortOrder", "isActive", "createdAt", "updatedAt",
}

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestFindActive_WithTypeFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE isActive = 1 AND type = ?")).
		WithArgs("individual").
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(1, "professional-resume", "Professional Resume", "desc", 185.0, "individual", "professional", "resume",
				[]byte(`["ATS optimised"]`), 1, true, now, now).
			AddRow(2, "cover-letter", "Professional Cover Letter", "desc", 85.0, "individual", "", "letters",
				nil, 2, true, now, now))

	services, err := NewMySQLRepository(db).FindActive(context.Background(), Filter{Type: domain.ServiceTypeIndividual})
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, []string{"ATS optimised"}, services[0].Features)
	assert.Nil(t, services[1].Features)
	assert.Equal(t, domain.ServiceTypeIndividual, services[1].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBySlug_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE slug = ?")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	svc, err := NewMySQLRepository(db).FindBySlug(context.Background(), "missing")
	assert.Nil(t, svc)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Services")).
		WithArgs("professional-resume", "Professional Resume", "desc", 185.0, "individual", "professional", "resume",
			[]byte(`["ATS optimised"]`), 1, true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewMySQLRepository(db).Upsert(context.Background(), domain.Service{
		Slug: "professional-resume", Name: "Professional Resume", Description: "desc", Price: 185,
		Type: domain.ServiceTypeIndividual, Tier: "professional", Category: "resume",
		Features: []string{"ATS optimised"}, SortOrder: 1, IsActive: true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
