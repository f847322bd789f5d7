package qb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect_Rebind(t *testing.T) {
	t.Run("postgres numbers placeholders", func(t *testing.T) {
		assert.Equal(t, `select * from "users" where "id" = $1 and "age" in ($2, $3)`,
			Dialects.PostgreSQL.Rebind(`select * from "users" where "id" = ? and "age" in (?, ?)`))
	})
	t.Run("quoted question marks are kept", func(t *testing.T) {
		assert.Equal(t, `select "why?" from "t" where "a" = '?' and "b" = $1`,
			Dialects.PostgreSQL.Rebind(`select "why?" from "t" where "a" = '?' and "b" = ?`))
	})
	t.Run("positional dialects are untouched", func(t *testing.T) {
		q := `select * from "users" where "id" = ?`
		assert.Equal(t, q, Dialects.SQLite3.Rebind(q))
		assert.Equal(t, q, Dialects.MySQL.Rebind(q))
	})
	t.Run("placeholder char without index", func(t *testing.T) {
		d := &Dialect{QuoteChar: `"`, PlaceholderChar: "%s"}
		assert.Equal(t, `insert into "t" ("a", "b") values (%s, %s)`, d.Rebind(`insert into "t" ("a", "b") values (?, ?)`))
	})
	t.Run("nil dialect", func(t *testing.T) {
		var d *Dialect
		assert.Equal(t, "select ?", d.Rebind("select ?"))
	})
}

func TestPlaceholderGenerators(t *testing.T) {
	assert.Equal(t, []string{"$1", "$2", "$3"}, postgresPlaceholder(3))
	assert.Equal(t, []string{"?", "?"}, mySQLPlaceHolder(2))
}
