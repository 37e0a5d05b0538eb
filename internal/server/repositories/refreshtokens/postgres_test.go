package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ     = `(?s)^INSERT\s+INTO\s+refresh_tokens\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	findQ       = `(?s)^SELECT\s+id,\s*user_id,\s*token,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	deleteQ     = `(?s)^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	deleteUserQ = `(?s)^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+user_id\s*=\s*\$1\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	expires := time.Now().Add(30 * time.Minute)

	mock.ExpectExec(insertQ).
		WithArgs("u1", "tok123", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), "u1", "tok123", expires))

	mock.ExpectExec(insertQ).
		WithArgs("u1", "tok123", expires).
		WillReturnError(errors.New("db down"))
	err := repo.Create(context.Background(), "u1", "tok123", expires)
	require.Error(t, err)
	assert.Regexp(t, `error performing sql request: .*db down`, err.Error())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	expires := time.Now().Add(10 * time.Minute)
	created := time.Now()
	mock.ExpectQuery(findQ).
		WithArgs("tok123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
			AddRow("rt-1", "u1", "tok123", expires, created))

	got, err := repo.Find(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, "rt-1", got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "tok123", got.Token)
	assert.True(t, got.Expires.Equal(expires))
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(findQ).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFind_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(findQ).
		WithArgs("tok123").
		WillReturnError(errors.New("db err"))

	_, err := repo.Find(context.Background(), "tok123")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestDelete(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(deleteQ).
		WithArgs("tok123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), "tok123"))

	mock.ExpectExec(deleteQ).
		WithArgs("tok123").
		WillReturnError(errors.New("db err"))
	err := repo.Delete(context.Background(), "tok123")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestDeleteForUser(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(deleteUserQ).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.DeleteForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mock.ExpectExec(deleteUserQ).
		WithArgs("u1").
		WillReturnError(errors.New("db err"))
	_, err = repo.DeleteForUser(context.Background(), "u1")
	assert.Error(t, err)
}
