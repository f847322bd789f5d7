package lite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golobby/lite/qb"
	"github.com/stretchr/testify/assert"
)

type User struct {
	ID       int
	Name     string
	Nickname *string
	Email    sql.NullString
	Score    float64 `db:"points"`
	Secret   string  `db:"-"`
}

func TestBind(t *testing.T) {
	t.Run("single result", func(t *testing.T) {
		u := &User{}
		err := Bind([]qb.Row{{"id": int64(1), "name": "amirreza", "email": "a@b.c", "points": int64(3)}}, u)
		assert.NoError(t, err)
		assert.Equal(t, 1, u.ID)
		assert.Equal(t, "amirreza", u.Name)
		assert.Equal(t, sql.NullString{String: "a@b.c", Valid: true}, u.Email)
		assert.Equal(t, 3.0, u.Score)
	})
	t.Run("multi result", func(t *testing.T) {
		var users []*User
		err := Bind([]qb.Row{{"id": int64(1), "name": "amirreza"}, {"id": int64(2), "name": "milad", "nickname": "mi"}}, &users)
		assert.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "amirreza", users[0].Name)
		assert.Nil(t, users[0].Nickname)
		assert.Equal(t, "milad", users[1].Name)
		assert.Equal(t, "mi", *users[1].Nickname)
	})
	t.Run("nulls leave zero values", func(t *testing.T) {
		var users []User
		err := Bind([]qb.Row{{"id": int64(1), "name": nil, "email": nil, "secret": "x"}}, &users)
		assert.NoError(t, err)
		assert.Equal(t, User{ID: 1}, users[0])
	})
	t.Run("mismatched types", func(t *testing.T) {
		err := Bind([]qb.Row{{"name": int64(1)}}, &User{})
		assert.Error(t, err)
	})
	t.Run("destination should be a pointer", func(t *testing.T) {
		assert.Error(t, Bind(nil, User{}))
	})
}

func TestGetAs(t *testing.T) {
	ctx := context.Background()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	db, err := Open(Config{DB: sqlDB, Driver: "sqlite3", LogLevel: LogLevelSilent})
	assert.NoError(t, err)

	mock.ExpectQuery(`select * from "users" where "id" > ?`).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "amirreza").AddRow(int64(2), "milad"))
	users, err := GetAs[User](ctx, db.Table("users").Where("id", ">", 0))
	assert.NoError(t, err)
	assert.Equal(t, []User{{ID: 1, Name: "amirreza"}, {ID: 2, Name: "milad"}}, users)

	mock.ExpectQuery(`select * from "users" where "id" = ?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	u, err := FirstAs[User](ctx, db.Table("users").Where("id", 3))
	assert.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}
