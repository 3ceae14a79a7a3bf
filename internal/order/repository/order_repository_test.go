package repository

import (
	"context"
	"database/sql"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
	"inkwell/internal/errors"
	"inkwell/internal/testutil"
)

var orderColumns = []string{
	"id", "userId", "packageName", "amount", "currency", "status", "customerName", "customerEmail",
	"customerPhone", "promoCode", "discountAmount", "paypalOrderId", "paypalPayerId", "createdAt", "updatedAt",
}

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestFindByPayPalOrderID_MapsNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE paypalOrderId = ?")).
		WithArgs("5O190127TN364715T").
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(
			7, nil, "Professional Resume", 233.0, "AUD", "pending", "Jane Doe", "jane@example.com",
			"+61 400 000 000", "SAVE10", 10.0, "5O190127TN364715T", nil, now, now))

	order, err := NewMySQLOrderRepository(db).FindByPayPalOrderID(context.Background(), "5O190127TN364715T")

	require.NoError(t, err)
	assert.Equal(t, uint(7), order.ID)
	assert.Nil(t, order.UserID)
	assert.Nil(t, order.PayPalPayerID)
	require.NotNil(t, order.PromoCode)
	assert.Equal(t, "SAVE10", *order.PromoCode)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}

func TestFindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ?")).WithArgs(uint(9)).WillReturnError(sql.ErrNoRows)

	_, err = NewMySQLOrderRepository(db).FindByID(context.Background(), 9)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := "42"
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Orders")).
		WithArgs("42", "Professional Resume x1", 243.0, "AUD", "pending", "Jane Doe", "jane@example.com",
			"0400 000 000", nil, 0.0).
		WillReturnResult(sqlmock.NewResult(15, 1))

	id, err := NewMySQLOrderRepository(db).Insert(context.Background(), domain.Order{
		UserID: &userID, PackageName: "Professional Resume x1", Amount: 243, Currency: "AUD",
		Status: domain.OrderStatusPending, CustomerName: "Jane Doe", CustomerEmail: "jane@example.com",
		CustomerPhone: "0400 000 000",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(15), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIf(t *testing.T) {
	update := regexp.QuoteMeta("UPDATE Orders SET status = ? WHERE id = ? AND status = ?")
	exists := regexp.QuoteMeta("SELECT 1 FROM Orders WHERE id = ?")

	tests := []struct {
		name   string
		setup  func(mock sqlmock.Sqlmock)
		assert func(t *testing.T, err error)
	}{
		{
			name: "applied",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(update).WithArgs("completed", uint(1), "pending").WillReturnResult(sqlmock.NewResult(0, 1))
			},
			assert: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "status moved on",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(update).WithArgs("completed", uint(1), "pending").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(exists).WithArgs(uint(1)).WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
			},
			assert: func(t *testing.T, err error) { assert.ErrorIs(t, err, domain.ErrStatusMismatch) },
		},
		{
			name: "order gone",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(update).WithArgs("completed", uint(1), "pending").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(exists).WithArgs(uint(1)).WillReturnError(sql.ErrNoRows)
			},
			assert: func(t *testing.T, err error) {
				_, ok := errors.IsNotFoundError(err)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectBegin()
			tt.setup(mock)
			mock.ExpectRollback()

			tx, err := db.Begin()
			require.NoError(t, err)
			tt.assert(t, NewMySQLOrderRepository(db).UpdateStatusIf(context.Background(), tx, 1, domain.OrderStatusPending, domain.OrderStatusCompleted))
			require.NoError(t, tx.Rollback())
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFindAll_WithStatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM Orders WHERE status = ?")).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ? ORDER BY createdAt DESC, id DESC LIMIT ? OFFSET ?")).
		WithArgs("completed", 2, 0).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(3, "42", "Cover Letter", 85.0, "AUD", "completed", "A", "a@example.com", "0400000000", nil, 0.0, "P3", "PAYER", now, now).
			AddRow(2, nil, "Resume", 185.0, "AUD", "completed", "B", "b@example.com", "0400000000", nil, 0.0, "P2", nil, now, now))

	orders, total, err := NewMySQLOrderRepository(db).FindAll(context.Background(), Filter{Status: domain.OrderStatusCompleted, Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, orders, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatistics(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "sum"}).
			AddRow("pending", 2, 370.0).
			AddRow("completed", 3, 503.0).
			AddRow("cancelled", 1, 85.0))

	stats, err := NewMySQLOrderRepository(db).Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalOrders)
	assert.Equal(t, 3, stats.CompletedOrders)
	assert.Equal(t, 503.0, stats.TotalRevenue)
	assert.Zero(t, stats.FailedOrders)
}

func TestDelete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM Orders WHERE id = ?")).WithArgs(uint(4)).WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewMySQLOrderRepository(db).Delete(context.Background(), 4)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

// Integration Tests

func TestOrderRepository_UpdateStatusIf_OnlyOneWriterWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	id := testutil.InsertOrder(t, db, "RACE-1")
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		mismatch int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
			if err != nil {
				t.Errorf("begin: %v", err)
				return
			}
			defer tx.Rollback()

			err = repo.UpdateStatusIf(ctx, tx, id, domain.OrderStatusPending, domain.OrderStatusCompleted)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				if commitErr := tx.Commit(); commitErr != nil {
					t.Errorf("commit: %v", commitErr)
					return
				}
				wins++
			case err == domain.ErrStatusMismatch:
				mismatch++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, mismatch)

	order, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
}

func TestOrderRepository_FindByPayPalOrderID_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	id := testutil.InsertOrder(t, db, "INTEG-1")

	order, err := NewMySQLOrderRepository(db).FindByPayPalOrderID(context.Background(), "INTEG-1")
	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, 185.0, order.Amount)
}
