package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO feedback`).WillReturnError(&pq.Error{Code: "23505"})

	err = NewPostgresRepository(db).Create(context.Background(), &Feedback{
		ID: uuid.New(), UserID: "u1", OrderID: uuid.New(), ItemID: uuid.New(), Rating: 4, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateFeedback)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	item := uuid.New()
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(rating\), 0\), COUNT\(\*\) FROM feedback`).
		WithArgs(item).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow(12, 3))

	sum, count, err := NewPostgresRepository(db).Stats(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int64(12), sum)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, 4.0, Average(sum, count))
	assert.NoError(t, mock.ExpectationsWereMet())
}
