package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docusafe/internal/store"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestStore_Get(t *testing.T) {
	s, mock := newMock(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`["Letters"]`))
		mock.ExpectQuery("SELECT value FROM kv_store WHERE key = ?").
			WithArgs(store.KeyCategories).
			WillReturnRows(rows)

		got, err := s.Get(ctx, store.KeyCategories)
		require.NoError(t, err)
		assert.Equal(t, `["Letters"]`, string(got))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store WHERE key = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store WHERE key = ?").
			WithArgs(store.KeyUsers).
			WillReturnError(errors.New("db fail"))

		_, err := s.Get(ctx, store.KeyUsers)
		assert.EqualError(t, err, "db fail")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Set(t *testing.T) {
	s, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs(store.KeyBranding, `{"departmentName":"Finance"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Set(ctx, store.KeyBranding, []byte(`{"departmentName":"Finance"}`))
	assert.NoError(t, err)

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs(store.KeyBranding, `{}`).
		WillReturnError(errors.New("db fail"))

	err = s.Set(ctx, store.KeyBranding, []byte(`{}`))
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	s, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM kv_store WHERE key = ?").
		WithArgs(store.KeySession).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Delete(ctx, store.KeySession))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Ping(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectPing()
	assert.NoError(t, s.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("ping failed"))
	assert.Error(t, store.Ping(context.Background(), s))

	assert.NoError(t, mock.ExpectationsWereMet())
}
