package webhook

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMySQLEventRepository(db)
	query := regexp.QuoteMeta(`SELECT 1 FROM WebhookEvents WHERE eventId = ?`)

	mock.ExpectQuery(query).WithArgs("WH-1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(query).WithArgs("WH-2").WillReturnError(sql.ErrNoRows)

	seen, err := repo.Exists(context.Background(), "WH-1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = repo.Exists(context.Background(), "WH-2")
	require.NoError(t, err)
	assert.False(t, seen)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT IGNORE INTO WebhookEvents (eventId, eventType) VALUES (?, ?)`)).
		WithArgs("WH-1", EventCaptureCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewMySQLEventRepository(db).Record(context.Background(), "WH-1", EventCaptureCompleted)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
