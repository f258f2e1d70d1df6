package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInPlaceholders(t *testing.T) {
	marks, args := InPlaceholders([]string{"a", "b", "c"})
	assert.Equal(t, "?,?,?", marks)
	assert.Equal(t, []any{"a", "b", "c"}, args)
}

func TestLikeContains(t *testing.T) {
	assert.Equal(t, "%bridge%", LikeContains("  Bridge "))
	assert.Equal(t, `%50\%\_off\\%`, LikeContains(`50%_off\`))
}

func TestMySQLErrorClasses(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	fk := &mysql.MySQLError{Number: 1452}

	assert.True(t, IsDuplicate(dup))
	assert.False(t, IsDuplicate(fk))
	assert.True(t, IsMissingReference(fk))
	assert.False(t, IsMissingReference(errors.New("other")))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, StringPtr(sql.NullString{}))
	assert.Equal(t, "x", *StringPtr(sql.NullString{String: "x", Valid: true}))
	assert.Nil(t, NullIfEmpty(nil))
	blank := "  "
	assert.Nil(t, NullIfEmpty(&blank))
	assert.Nil(t, FloatPtr(sql.NullFloat64{}))
	assert.Nil(t, TimePtr(sql.NullTime{}))
}

func TestWithTx(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE projects").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	err = WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE projects SET name = ?", "x")
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	boom := errors.New("boom")
	err = WithTx(context.Background(), conn, func(*sql.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingTables(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("FROM information_schema.tables").WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users"))
	mock.ExpectQuery("FROM information_schema.tables").WithArgs("kpis").
		WillReturnError(sql.ErrNoRows)

	missing, err := MissingTables(context.Background(), conn, []string{"users", "kpis"})
	require.NoError(t, err)
	assert.Equal(t, []string{"kpis"}, missing)
	require.NoError(t, mock.ExpectationsWereMet())
}
