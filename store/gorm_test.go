package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGorm(t *testing.T) (*Gorm, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return NewGorm(gdb), mock
}

var kvColumns = []string{"key", "value", "raw", "created_at", "updated_at"}

func TestGormSetUpsertsJSONDocument(t *testing.T) {
	s, mock := newMockGorm(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `kv_entries`.*ON DUPLICATE KEY UPDATE").
		WithArgs("wiz_rooms", `[{"id":"R1"}]`, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Set(context.Background(), "wiz_rooms", `[{"id":"R1"}]`))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSetQuotesNonJSONValues(t *testing.T) {
	s, mock := newMockGorm(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `kv_entries`.*ON DUPLICATE KEY UPDATE").
		WithArgs("theme", `"dark"`, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, s.Set(context.Background(), "theme", "dark"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGet(t *testing.T) {
	s, mock := newMockGorm(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `kv_entries` WHERE `kv_entries`.`key` = \\?").
		WillReturnRows(sqlmock.NewRows(kvColumns).AddRow("theme", []byte(`"dark"`), true, now, now))
	v, ok, err := s.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v, "raw values come back unquoted")

	mock.ExpectQuery("SELECT \\* FROM `kv_entries` WHERE `kv_entries`.`key` = \\?").
		WillReturnRows(sqlmock.NewRows(kvColumns).AddRow("wiz_rooms", []byte(`[]`), false, now, now))
	v, ok, err = s.Get(ctx, "wiz_rooms")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)

	mock.ExpectQuery("SELECT \\* FROM `kv_entries` WHERE `kv_entries`.`key` = \\?").
		WillReturnRows(sqlmock.NewRows(kvColumns))
	_, ok, err = s.Get(ctx, "wiz_users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetCorruptRawValue(t *testing.T) {
	s, mock := newMockGorm(t)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `kv_entries`").
		WillReturnRows(sqlmock.NewRows(kvColumns).AddRow("theme", []byte(`dark`), true, now, now))
	_, _, err := s.Get(context.Background(), "theme")
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDelete(t *testing.T) {
	s, mock := newMockGorm(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `kv_entries` WHERE `kv_entries`.`key` = \\?").
		WithArgs("wiz_currentUser").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Delete(context.Background(), "wiz_currentUser"))
	require.NoError(t, mock.ExpectationsWereMet())
}
