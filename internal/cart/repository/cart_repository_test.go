package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
	"inkwell/internal/errors"
)

var cartColumns = []string{
	"id", "ownerKey", "serviceId", "quantity", "createdAt", "updatedAt",
	"s.id", "slug", "name", "description", "price", "type", "tier", "category",
	"features", "sortOrder", "isActive",
}

func TestFindByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ci.ownerKey = ?")).
		WithArgs("user:42").
		WillReturnRows(sqlmock.NewRows(cartColumns).
			AddRow(1, "user:42", 10, 2, now, now, 10, "professional-resume", "Professional Resume", "d", 185.0,
				"individual", "professional", "resume", []byte(`["ATS"]`), 1, true))

	items, err := NewMySQLCartRepository(db).FindByOwner(context.Background(), "user:42")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, domain.ServiceTypeIndividual, items[0].Service.Type)
	assert.Equal(t, 370.0, items[0].LineTotal())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByOwner_EmptyCartIsNotNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE ci.ownerKey = ?")).
		WithArgs("guest_1_abc").
		WillReturnRows(sqlmock.NewRows(cartColumns))

	items, err := NewMySQLCartRepository(db).FindByOwner(context.Background(), "guest_1_abc")

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAddOrIncrement_CapsQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE quantity = LEAST(quantity + VALUES(quantity), ?)")).
		WithArgs("user:42", uint(10), 1, 99).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewMySQLCartRepository(db).AddOrIncrement(context.Background(), "user:42", 10, 1, 99)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuantity_OtherOwnersItemIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE CartItems SET quantity = ? WHERE id = ? AND ownerKey = ?")).
		WithArgs(3, uint(5), "user:42").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewMySQLCartRepository(db).UpdateQuantity(context.Background(), "user:42", 5, 3)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM CartItems WHERE id = ? AND ownerKey = ?")).
		WithArgs(uint(5), "user:42").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewMySQLCartRepository(db).Delete(context.Background(), "user:42", 5))
}

func TestMoveOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT serviceId, quantity FROM CartItems WHERE ownerKey = ? ORDER BY serviceId FOR UPDATE")).
		WithArgs("guest_1_abc").
		WillReturnRows(sqlmock.NewRows([]string{"serviceId", "quantity"}).AddRow(10, 1).AddRow(11, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO CartItems")).
		WithArgs("user:42", uint(10), 1, 99).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO CartItems")).
		WithArgs("user:42", uint(11), 2, 99).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM CartItems WHERE ownerKey = ?")).
		WithArgs("guest_1_abc").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	moved, err := NewMySQLCartRepository(db).MoveOwner(context.Background(), tx, "guest_1_abc", "user:42", 99)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, 2, moved)
	require.NoError(t, mock.ExpectationsWereMet())
}
