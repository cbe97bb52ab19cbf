package ingest

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"reconciler/core/dataset"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestLoader_LoadQuery(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"txn_id", "amount", "note"}).
		AddRow([]byte("T1"), 100.5, []byte("first")).
		AddRow([]byte("T2"), int64(50), nil)
	mock.ExpectQuery("SELECT \\* FROM transactions").WillReturnRows(rows)

	ds, err := NewLoader(zap.NewNop()).LoadQuery(db, "SELECT * FROM transactions")
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, []string{"txn_id", "amount", "note"}, ds.ColumnNames())
	assert.Equal(t, dataset.Text("T1"), ds.Cell("txn_id", 0))
	assert.Equal(t, dataset.Number(100.5), ds.Cell("amount", 0))
	assert.Equal(t, dataset.Number(50), ds.Cell("amount", 1))
	assert.True(t, ds.Cell("note", 1).IsNull(), "database NULL becomes a null cell")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_LoadQueryError(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)
	_, err := NewLoader(zap.NewNop()).LoadQuery(db, "SELECT * FROM missing")
	assert.ErrorContains(t, err, "run query")
}

func TestLoader_LoadQueryEmptyResult(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"txn_id", "amount"})
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	ds, err := NewLoader(zap.NewNop()).LoadQuery(db, "SELECT txn_id, amount FROM transactions")
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount())
	assert.Equal(t, 2, ds.ColumnCount())
}
